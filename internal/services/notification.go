package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/models"
)

// NotificationService handles user notification records.
type NotificationService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(db *pgxpool.Pool, logger *zap.SugaredLogger) *NotificationService {
	return &NotificationService{db: db, logger: logger}
}

// Create records one notification, unread by default.
func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, complaint_id, complaint_title, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	err := s.db.QueryRow(ctx, query,
		n.ID, n.UserID, n.ComplaintID, n.ComplaintTitle, n.Message,
	).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	s.logger.Infow("Notification created",
		"user_id", n.UserID,
		"complaint_id", n.ComplaintID,
	)
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, complaint_id, complaint_title, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifs := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ComplaintID, &n.ComplaintTitle,
			&n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("decode notification row: %w", err)
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkAllRead flips every unread notification for the user, in bulk, when
// they open their notification list.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
