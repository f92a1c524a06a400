package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/models"
	"go.opentelemetry.io/otel/attribute"
)

const walletLogTracer = "wallet-log-repository"

type PostgresWalletLogRepository struct {
	db *sql.DB
}

func NewPostgresWalletLogRepository(db *sql.DB) *PostgresWalletLogRepository {
	return &PostgresWalletLogRepository{db: db}
}

func (r *PostgresWalletLogRepository) Create(ctx context.Context, entry *models.WalletLog) (err error) {
	ctx, done := track(ctx, walletLogTracer, "CreateWalletLog", attribute.Int64("user_id", entry.UserID))
	defer done(&err)

	query := `
	INSERT INTO wallet_logs (user_id, change_amount, entry_type, balance_after, remarks)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
	`
	err = conn(ctx, r.db).QueryRowContext(ctx, query,
		entry.UserID, entry.ChangeAmount, entry.EntryType, entry.BalanceAfter, entry.Remarks,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		slog.Error("failed to create wallet log", "method", "Create", "user_id", entry.UserID, "error", err)
		return fmt.Errorf("failed to create wallet log: %w", err)
	}
	return nil
}

func (r *PostgresWalletLogRepository) ListByUser(ctx context.Context, userID int64) (logs []models.WalletLog, err error) {
	ctx, done := track(ctx, walletLogTracer, "ListWalletLogs", attribute.Int64("user_id", userID))
	defer done(&err)

	query := `
		SELECT id, user_id, change_amount, entry_type, balance_after, remarks, created_at
		FROM wallet_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		slog.Error("failed to list wallet logs", "method", "ListByUser", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list wallet logs: %w", err)
	}
	defer rows.Close()

	logs = []models.WalletLog{}
	for rows.Next() {
		var l models.WalletLog
		if err = rows.Scan(&l.ID, &l.UserID, &l.ChangeAmount, &l.EntryType, &l.BalanceAfter, &l.Remarks, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet log: %w", err)
		}
		logs = append(logs, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list wallet logs: %w", err)
	}
	return logs, nil
}
