package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

const notificationTracer = "notification-repository"

const notificationColumns = `id, admin_id, order_id, message, read_status, created_at`

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *models.Notification) (err error) {
	ctx, done := track(ctx, notificationTracer, "CreateNotification", attribute.Int64("admin_id", n.AdminID))
	defer done(&err)

	query := `
	INSERT INTO notifications (admin_id, order_id, message, read_status)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`
	err = conn(ctx, r.db).QueryRowContext(ctx, query, n.AdminID, n.OrderID, n.Message, n.Read).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		slog.Error("failed to create notification", "method", "Create", "admin_id", n.AdminID, "error", err)
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id int64) (n *models.Notification, err error) {
	ctx, done := track(ctx, notificationTracer, "GetNotificationByID", attribute.Int64("notification_id", id))
	defer done(&err)

	var note models.Notification
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	err = conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&note.ID, &note.AdminID, &note.OrderID, &note.Message, &note.Read, &note.CreatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrNotificationNotFound
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &note, nil
}

func (r *PostgresNotificationRepository) ListUnread(ctx context.Context, adminID int64) (list []models.Notification, err error) {
	ctx, done := track(ctx, notificationTracer, "ListUnreadNotifications", attribute.Int64("admin_id", adminID))
	defer done(&err)

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE admin_id = $1 AND read_status = FALSE ORDER BY created_at DESC, id DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, adminID)
	if err != nil {
		slog.Error("failed to list notifications", "method", "ListUnread", "admin_id", adminID, "error", err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	list = []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err = rows.Scan(&n.ID, &n.AdminID, &n.OrderID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		list = append(list, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id int64) (err error) {
	ctx, done := track(ctx, notificationTracer, "MarkNotificationRead", attribute.Int64("notification_id", id))
	defer done(&err)

	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE notifications SET read_status = TRUE WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to mark notification read", "method", "MarkRead", "notification_id", id, "error", err)
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if affected == 0 {
		err = pkgerrors.ErrNotificationNotFound
		return err
	}
	return nil
}
