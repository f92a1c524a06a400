package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

const userTracer = "user-repository"

const userColumns = `id, username, password_hash, name, email, mobile, role, owner_admin_id, wallet_balance, status, created_at`

const uniqueViolation = "23505"

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user  models.User
		owner sql.NullInt64
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Name,
		&user.Email,
		&user.Mobile,
		&user.Role,
		&owner,
		&user.WalletBalance,
		&user.Status,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if owner.Valid {
		id := owner.Int64
		user.OwnerAdminID = &id
	}
	return &user, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, done := track(ctx, userTracer, "CreateUser")
	defer done(&err)

	if user == nil {
		err = pkgerrors.ErrNilUser
		slog.Error("failed to create user", "method", "Create", "error", err)
		return err
	}
	if user.Username == "" || user.PasswordHash == "" {
		err = fmt.Errorf("%w: username and password are required", pkgerrors.ErrInvalidInput)
		return err
	}
	if user.WalletBalance.IsNegative() {
		err = fmt.Errorf("%w: wallet balance cannot be negative", pkgerrors.ErrInvalidInput)
		return err
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}

	query := `
	INSERT INTO users (username, password_hash, name, email, mobile, role, owner_admin_id, wallet_balance, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at
	`
	err = conn(ctx, r.db).QueryRowContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Name,
		user.Email,
		user.Mobile,
		user.Role,
		user.OwnerAdminID,
		user.WalletBalance,
		user.Status,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			err = pkgerrors.ErrUsernameExists
			slog.Warn("username already exists", "method", "Create", "username", user.Username)
			return err
		}
		slog.Error("failed to create user", "method", "Create", "username", user.Username, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "method", "Create", "user_id", user.ID, "role", user.Role)
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (user *models.User, err error) {
	ctx, done := track(ctx, userTracer, "GetUserByID", attribute.Int64("user_id", id))
	defer done(&err)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err = scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrUserNotFound
		return nil, err
	}
	if err != nil {
		slog.Error("failed to get user by id", "method", "GetByID", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (user *models.User, err error) {
	ctx, done := track(ctx, userTracer, "GetUserByUsername")
	defer done(&err)

	if username == "" {
		err = fmt.Errorf("%w: username cannot be empty", pkgerrors.ErrInvalidInput)
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err = scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, username))
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		err = pkgerrors.ErrUserNotFound
		return nil, err
	case err != nil:
		slog.Error("failed to get user by username", "method", "GetByUsername", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) List(ctx context.Context, role *models.Role, ownerAdminID *int64) (users []models.User, err error) {
	ctx, done := track(ctx, userTracer, "ListUsers")
	defer done(&err)

	var (
		conds []string
		args  []any
	)
	if role != nil {
		args = append(args, *role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if ownerAdminID != nil {
		args = append(args, *ownerAdminID)
		conds = append(conds, fmt.Sprintf("owner_admin_id = $%d", len(args)))
	}
	query := `SELECT ` + userColumns + ` FROM users`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("failed to list users", "method", "List", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users = []models.User{}
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			err = fmt.Errorf("failed to scan user: %w", scanErr)
			return nil, err
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *PostgresUserRepository) CountByOwner(ctx context.Context, ownerAdminID int64) (count int64, err error) {
	ctx, done := track(ctx, userTracer, "CountUsersByOwner", attribute.Int64("admin_id", ownerAdminID))
	defer done(&err)

	query := `SELECT COUNT(*) FROM users WHERE owner_admin_id = $1`
	if err = conn(ctx, r.db).QueryRowContext(ctx, query, ownerAdminID).Scan(&count); err != nil {
		slog.Error("failed to count users", "method", "CountByOwner", "admin_id", ownerAdminID, "error", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *PostgresUserRepository) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) (user *models.User, err error) {
	ctx, done := track(ctx, userTracer, "UpdateUserStatus", attribute.Int64("user_id", id))
	defer done(&err)

	query := `UPDATE users SET status = $1 WHERE id = $2 RETURNING ` + userColumns
	user, err = scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, status, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrUserNotFound
		return nil, err
	}
	if err != nil {
		slog.Error("failed to update user status", "method", "UpdateStatus", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	slog.Info("user status updated", "method", "UpdateStatus", "user_id", id, "status", status)
	return user, nil
}

func (r *PostgresUserRepository) ChangeBalance(ctx context.Context, userID int64, delta decimal.Decimal) (newBalance decimal.Decimal, err error) {
	ctx, done := track(ctx, userTracer, "ChangeBalance",
		attribute.Int64("user_id", userID),
		attribute.String("delta", delta.String()),
	)
	defer done(&err)

	q := conn(ctx, r.db)
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance + $1
		WHERE id = $2
		AND wallet_balance + $1 >= 0
		RETURNING wallet_balance
		`
	err = q.QueryRowContext(ctx, query, delta, userID).Scan(&newBalance)
	if stderrors.Is(err, sql.ErrNoRows) {
		var exists bool
		if existErr := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); existErr != nil {
			err = fmt.Errorf("failed to check user existence: %w", existErr)
			return decimal.Zero, err
		}
		if !exists {
			err = pkgerrors.ErrUserNotFound
			return decimal.Zero, err
		}
		err = pkgerrors.ErrInsufficientFunds
		slog.Warn("insufficient funds", "method", "ChangeBalance", "user_id", userID, "delta", delta.String())
		return decimal.Zero, err
	}
	if err != nil {
		slog.Error("failed to change balance", "method", "ChangeBalance", "user_id", userID, "error", err)
		return decimal.Zero, fmt.Errorf("failed to change balance: %w", err)
	}

	slog.Info("balance changed", "method", "ChangeBalance", "user_id", userID, "delta", delta.String(), "balance", newBalance.String())
	return newBalance, nil
}

func (r *PostgresUserRepository) GetBalance(ctx context.Context, userID int64) (balance decimal.Decimal, err error) {
	ctx, done := track(ctx, userTracer, "GetBalance", attribute.Int64("user_id", userID))
	defer done(&err)

	query := `SELECT wallet_balance FROM users WHERE id = $1`
	err = conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(&balance)
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrUserNotFound
		return decimal.Zero, err
	}
	if err != nil {
		slog.Error("failed to get balance", "method", "GetBalance", "user_id", userID, "error", err)
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}
