package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/auth"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/redis"
	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSessions map[string]string

func (m mapSessions) Get(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", redis.ErrKeyNotFound
	}
	return v, nil
}

func (m mapSessions) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m[key] = value.(string)
	return nil
}

func (m mapSessions) Del(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

func (m mapSessions) Close() error { return nil }

func TestTokenManager(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	user := &models.User{ID: 5, Username: "admin1", Role: models.RoleAdmin}

	signed, err := tokens.Issue(user)
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := auth.NewTokenManager("other", time.Hour).Parse(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		expired, err := auth.NewTokenManager("secret", -time.Minute).Issue(user)
		require.NoError(t, err)
		_, err = tokens.Parse(expired)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{UserID: 5, Role: "ROOT"}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = tokens.Parse(forged)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("NoSecret", func(t *testing.T) {
		_, err := auth.NewTokenManager("", time.Hour).Issue(user)
		assert.Error(t, err)
	})
}

func TestMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	sessions := mapSessions{}
	user := &models.User{ID: 9, Username: "user1", Role: models.RoleUser}
	signed, err := tokens.Issue(user)
	require.NoError(t, err)

	var seen models.Identity
	handler := auth.Middleware(tokens, sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/commodities", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusUnauthorized, do("Token "+signed))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer "+signed), "token not stored yet")

	sessions[redis.TokenKey(9)] = signed
	assert.Equal(t, http.StatusNoContent, do("Bearer "+signed))
	assert.Equal(t, models.Identity{UserID: 9, Role: models.RoleUser}, seen)

	sessions[redis.TokenKey(9)] = "newer-token"
	assert.Equal(t, http.StatusUnauthorized, do("Bearer "+signed))
}
