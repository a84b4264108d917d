package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresRepository handles reminder notification persistence in PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a new reminder notification repository
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const notificationColumns = `id, event_id, recipient_id, channel, minutes_before, fire_at, message, sent, sent_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*Notification, error) {
	n := &Notification{}
	var sentAt sql.NullTime
	if err := row.Scan(
		&n.ID,
		&n.EventID,
		&n.RecipientID,
		&n.Channel,
		&n.MinutesBefore,
		&n.FireAt,
		&n.Message,
		&n.Sent,
		&sentAt,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}
	if sentAt.Valid {
		t := sentAt.Time
		n.SentAt = &t
	}
	return n, nil
}

// CreateMissing inserts notifications, skipping ones already scheduled
func (r *PostgresRepository) CreateMissing(ctx context.Context, notifications []*Notification) ([]*Notification, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reminder_notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (event_id, channel, minutes_before, fire_at) DO NOTHING
	`
	var created []*Notification
	for _, n := range notifications {
		result, err := tx.ExecContext(ctx, query,
			n.ID, n.EventID, n.RecipientID, n.Channel, n.MinutesBefore,
			n.FireAt, n.Message, n.Sent, n.SentAt, n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create notification: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			created = append(created, n.Clone())
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit notifications: %w", err)
	}
	return created, nil
}

// GetByID retrieves a notification by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM reminder_notifications WHERE id = $1`

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// ListByEvent retrieves the notifications of an event
func (r *PostgresRepository) ListByEvent(ctx context.Context, eventID string) ([]*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM reminder_notifications WHERE event_id = $1 ORDER BY fire_at, id`
	return r.query(ctx, query, eventID)
}

// Due retrieves unsent notifications whose fire time has passed
func (r *PostgresRepository) Due(ctx context.Context, now time.Time) ([]*Notification, error) {
	query := `
		SELECT ` + notificationColumns + ` FROM reminder_notifications
		WHERE sent = false AND fire_at <= $1
		ORDER BY fire_at, id
	`
	return r.query(ctx, query, now)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Update modifies a notification under a row lock
func (r *PostgresRepository) Update(ctx context.Context, id string, fn func(*Notification) error) (*Notification, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + notificationColumns + ` FROM reminder_notifications WHERE id = $1 FOR UPDATE`
	n, err := scanNotification(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock notification: %w", err)
	}

	if err := fn(n); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE reminder_notifications SET fire_at = $2, message = $3, sent = $4, sent_at = $5 WHERE id = $1`,
		n.ID, n.FireAt, n.Message, n.Sent, n.SentAt,
	); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit notification update: %w", err)
	}
	return n, nil
}

// DeleteUnsentByEvent drops the event's notifications that have not fired
func (r *PostgresRepository) DeleteUnsentByEvent(ctx context.Context, eventID string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reminder_notifications WHERE event_id = $1 AND sent = false`, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// DeleteByEvent removes every notification of an event
func (r *PostgresRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reminder_notifications WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
