package auth

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/redis"
	"github.com/honeynil/CommodityDeskService/internal/models"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Middleware admits requests whose bearer token is valid and is the one currently stored
// for its user.
func Middleware(tokens *TokenManager, sessions redis.RedisClient) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := BearerToken(r)
			if !ok {
				unauthorized(w, "authorization header missing or malformed")
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				slog.Warn("rejected token", "path", r.URL.Path, "error", err)
				unauthorized(w, "invalid token")
				return
			}

			stored, err := sessions.Get(r.Context(), redis.TokenKey(claims.UserID))
			if err != nil {
				if !stderrors.Is(err, redis.ErrKeyNotFound) {
					slog.Error("failed to read session", "user_id", claims.UserID, "error", err)
				}
				unauthorized(w, "session expired")
				return
			}
			if stored != tokenStr {
				unauthorized(w, "session expired")
				return
			}

			ctx := WithIdentity(r.Context(), models.Identity{UserID: claims.UserID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
