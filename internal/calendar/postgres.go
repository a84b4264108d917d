package calendar

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresRepository handles calendar persistence in PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a new calendar repository with database dependency injected
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const calendarColumns = `id, name, description, color, kind, visibility, owner_id, members, permissions, settings, is_default, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalendar(row rowScanner) (*Calendar, error) {
	c := &Calendar{}
	var permissions, settings []byte
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Color,
		&c.Kind,
		&c.Visibility,
		&c.OwnerID,
		pq.Array(&c.Members),
		&permissions,
		&settings,
		&c.IsDefault,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(permissions, &c.Permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}
	if err := json.Unmarshal(settings, &c.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if c.Permissions == nil {
		c.Permissions = map[string][]Permission{}
	}
	return c, nil
}

func encodeJSON(c *Calendar) (permissions, settings []byte, err error) {
	if permissions, err = json.Marshal(c.Permissions); err != nil {
		return nil, nil, fmt.Errorf("failed to encode permissions: %w", err)
	}
	if settings, err = json.Marshal(c.Settings); err != nil {
		return nil, nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return permissions, settings, nil
}

// Create inserts a new calendar into the database
func (r *PostgresRepository) Create(ctx context.Context, c *Calendar) error {
	permissions, settings, err := encodeJSON(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO calendars (` + calendarColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.Color, c.Kind, c.Visibility, c.OwnerID,
		pq.Array(c.Members), permissions, settings, c.IsDefault, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if c.IsDefault && errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDefaultExists
		}
		return fmt.Errorf("failed to create calendar: %w", err)
	}
	return nil
}

// GetByID retrieves a calendar by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Calendar, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars WHERE id = $1`

	c, err := scanCalendar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}
	return c, nil
}

// GetDefault retrieves the default calendar
func (r *PostgresRepository) GetDefault(ctx context.Context) (*Calendar, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars WHERE is_default = true`

	c, err := scanCalendar(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default calendar: %w", err)
	}
	return c, nil
}

// ListForActor retrieves the calendars an actor owns, plus shared ones when asked
func (r *PostgresRepository) ListForActor(ctx context.Context, actorID string, includeShared bool) ([]*Calendar, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars WHERE owner_id = $1`
	if includeShared {
		query += `
			OR $1 = ANY(members)
			OR visibility = 'public'
			OR (visibility = 'shared' AND kind = 'team')
		`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	defer rows.Close()

	var calendars []*Calendar
	for rows.Next() {
		c, err := scanCalendar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calendar: %w", err)
		}
		calendars = append(calendars, c)
	}
	return calendars, rows.Err()
}

// Update modifies an existing calendar under a row lock
func (r *PostgresRepository) Update(ctx context.Context, id string, fn func(*Calendar) error) (*Calendar, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + calendarColumns + ` FROM calendars WHERE id = $1 FOR UPDATE`
	c, err := scanCalendar(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock calendar: %w", err)
	}

	if err := fn(c); err != nil {
		return nil, err
	}

	permissions, settings, err := encodeJSON(c)
	if err != nil {
		return nil, err
	}
	update := `
		UPDATE calendars
		SET name = $2, description = $3, color = $4, kind = $5, visibility = $6,
		    members = $7, permissions = $8, settings = $9, updated_at = $10
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update,
		c.ID, c.Name, c.Description, c.Color, c.Kind, c.Visibility,
		pq.Array(c.Members), permissions, settings, c.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to update calendar: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit calendar update: %w", err)
	}
	return c, nil
}

// Delete removes a calendar from the database
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete calendar: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("calendar not found")
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
