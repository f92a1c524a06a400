package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/auth"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/redis"
	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues session tokens. The active token of each user lives in Redis so a
// logout or a new login revokes the previous one.
type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	sessions redis.RedisClient
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, sessions redis.RedisClient) *AuthService {
	return &AuthService{users: users, tokens: tokens, sessions: sessions}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	ctx, span := startSpan(ctx, "Login")
	defer span.End()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		slog.Warn("failed to login", "method", "Login", "username", username, "error", err)
		return "", nil, fail(span, pkgerrors.ErrInvalidCredentials, "unknown user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("invalid password", "method", "Login", "username", username)
		return "", nil, fail(span, pkgerrors.ErrInvalidCredentials, "bad password")
	}
	if !user.IsActive() {
		return "", nil, fail(span, pkgerrors.ErrUserInactive, "user inactive")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		slog.Error("failed to generate JWT", "method", "Login", "error", err)
		return "", nil, fail(span, err, "token issue failed")
	}
	if err := s.sessions.Set(ctx, redis.TokenKey(user.ID), token, s.tokens.TTL()); err != nil {
		slog.Error("failed to store session", "method", "Login", "user_id", user.ID, "error", err)
		return "", nil, fail(span, fmt.Errorf("failed to store session: %w", err), "session store failed")
	}

	slog.Info("user logged in", "method", "Login", "username", username, "user_id", user.ID, "role", user.Role)
	return token, user, nil
}

func (s *AuthService) Logout(ctx context.Context, actor models.Identity) error {
	if err := s.sessions.Del(ctx, redis.TokenKey(actor.UserID)); err != nil {
		slog.Error("failed to drop session", "method", "Logout", "user_id", actor.UserID, "error", err)
		return fmt.Errorf("failed to drop session: %w", err)
	}
	slog.Info("user logged out", "method", "Logout", "user_id", actor.UserID)
	return nil
}
