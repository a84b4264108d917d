package invitation

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepository handles invitation persistence in PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a new invitation repository
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const invitationColumns = `id, event_id, invitee_id, inviter_id, status, created_at, responded_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*Invitation, error) {
	inv := &Invitation{}
	var respondedAt sql.NullTime
	if err := row.Scan(
		&inv.ID,
		&inv.EventID,
		&inv.InviteeID,
		&inv.InviterID,
		&inv.Status,
		&inv.CreatedAt,
		&respondedAt,
	); err != nil {
		return nil, err
	}
	if respondedAt.Valid {
		t := respondedAt.Time
		inv.RespondedAt = &t
	}
	return inv, nil
}

// CreateMissing inserts invitations, relying on the partial unique index over
// active (event_id, invitee_id) pairs to skip invitees already invited
func (r *PostgresRepository) CreateMissing(ctx context.Context, invitations []*Invitation) ([]*Invitation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id, invitee_id) WHERE status <> 'cancelled' DO NOTHING
	`
	var created []*Invitation
	for _, inv := range invitations {
		result, err := tx.ExecContext(ctx, query,
			inv.ID, inv.EventID, inv.InviteeID, inv.InviterID, inv.Status, inv.CreatedAt, inv.RespondedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create invitation: %w", err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			created = append(created, inv.Clone())
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invitations: %w", err)
	}
	return created, nil
}

// GetByID retrieves an invitation by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`

	inv, err := scanInvitation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// ListByEvent retrieves every invitation of an event
func (r *PostgresRepository) ListByEvent(ctx context.Context, eventID string) ([]*Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE event_id = $1 ORDER BY created_at, id`
	return r.query(ctx, query, eventID)
}

// ListByInvitee retrieves the invitations addressed to an invitee
func (r *PostgresRepository) ListByInvitee(ctx context.Context, inviteeID string, status Status) ([]*Invitation, error) {
	query := `
		SELECT ` + invitationColumns + ` FROM invitations
		WHERE invitee_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at, id
	`
	return r.query(ctx, query, inviteeID, string(status))
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*Invitation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var out []*Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Update modifies an invitation under a row lock
func (r *PostgresRepository) Update(ctx context.Context, id string, fn func(*Invitation) error) (*Invitation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1 FOR UPDATE`
	inv, err := scanInvitation(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock invitation: %w", err)
	}

	if err := fn(inv); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE invitations SET status = $2, responded_at = $3 WHERE id = $1`,
		inv.ID, inv.Status, inv.RespondedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invitation update: %w", err)
	}
	return inv, nil
}

// CancelByEvent cancels the active invitations of an event
func (r *PostgresRepository) CancelByEvent(ctx context.Context, eventID string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET status = 'cancelled' WHERE event_id = $1 AND status <> 'cancelled'`,
		eventID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel invitations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// DeleteByEvent removes every invitation of an event
func (r *PostgresRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to delete invitations: %w", err)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
