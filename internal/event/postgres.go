package event

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/fkhayef/calendar/internal/recurrence"
)

// PostgresRepository handles event persistence in PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a new event repository with database dependency injected
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const eventColumns = `id, calendar_id, title, description, type, status, start_at, end_at, all_day,
	timezone, location, meeting_url, organizer_id, attendees, recurring, recurrence, recurrence_end,
	parent_event_id, instances_expanded, reminders, priority, visibility, deleted, deleted_at,
	deleted_by, created_at, updated_at`

const insertEvent = `
	INSERT INTO events (` + eventColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
	        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
`

const updateEvent = `
	UPDATE events SET
		calendar_id = $2, title = $3, description = $4, type = $5, status = $6,
		start_at = $7, end_at = $8, all_day = $9, timezone = $10, location = $11,
		meeting_url = $12, organizer_id = $13, attendees = $14, recurring = $15,
		recurrence = $16, recurrence_end = $17, parent_event_id = $18,
		instances_expanded = $19, reminders = $20, priority = $21, visibility = $22,
		deleted = $23, deleted_at = $24, deleted_by = $25, created_at = $26, updated_at = $27
	WHERE id = $1
`

// likeEscaper makes LIKE wildcards in search text match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	e := &Event{}
	var (
		start, end, recurrenceEnd, deletedAt sql.NullTime
		parentID                             sql.NullString
		pattern, reminders                   []byte
	)
	err := row.Scan(
		&e.ID, &e.CalendarID, &e.Title, &e.Description, &e.Type, &e.Status,
		&start, &end, &e.AllDay, &e.Timezone, &e.Location, &e.MeetingURL,
		&e.OrganizerID, pq.Array(&e.Attendees), &e.Recurring, &pattern, &recurrenceEnd,
		&parentID, &e.InstancesExpanded, &reminders, &e.Priority, &e.Visibility,
		&e.Deleted, &deletedAt, &e.DeletedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Start = nullTime(start)
	e.End = nullTime(end)
	e.RecurrenceEnd = nullTime(recurrenceEnd)
	e.DeletedAt = nullTime(deletedAt)
	if parentID.Valid {
		id := parentID.String
		e.ParentEventID = &id
	}
	if len(pattern) > 0 && string(pattern) != "null" {
		e.Recurrence = &recurrence.Pattern{}
		if err := json.Unmarshal(pattern, e.Recurrence); err != nil {
			return nil, fmt.Errorf("failed to decode recurrence: %w", err)
		}
	}
	if len(reminders) > 0 {
		if err := json.Unmarshal(reminders, &e.Reminders); err != nil {
			return nil, fmt.Errorf("failed to decode reminders: %w", err)
		}
	}
	return e, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func eventArgs(e *Event) ([]any, error) {
	var pattern any
	if e.Recurrence != nil {
		b, err := json.Marshal(e.Recurrence)
		if err != nil {
			return nil, fmt.Errorf("failed to encode recurrence: %w", err)
		}
		pattern = string(b)
	}
	reminders, err := json.Marshal(e.Reminders)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reminders: %w", err)
	}

	return []any{
		e.ID, e.CalendarID, e.Title, e.Description, e.Type, e.Status,
		e.Start, e.End, e.AllDay, e.Timezone, e.Location, e.MeetingURL,
		e.OrganizerID, pq.Array(e.Attendees), e.Recurring, pattern, e.RecurrenceEnd,
		e.ParentEventID, e.InstancesExpanded, string(reminders), e.Priority, e.Visibility,
		e.Deleted, e.DeletedAt, e.DeletedBy, e.CreatedAt, e.UpdatedAt,
	}, nil
}

// Create inserts a new event into the database
func (r *PostgresRepository) Create(ctx context.Context, e *Event) error {
	args, err := eventArgs(e)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, insertEvent, args...); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// CreateBatch inserts all events in one transaction
func (r *PostgresRepository) CreateBatch(ctx context.Context, events []*Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertEvent)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		args, err := eventArgs(e)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to create event %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}
	return nil
}

// GetByID retrieves an event by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// Update modifies an existing event under a row lock
func (r *PostgresRepository) Update(ctx context.Context, id string, fn func(*Event) error) (*Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	e, err := scanEvent(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}

	if err := fn(e); err != nil {
		return nil, err
	}
	if err := execUpdate(ctx, tx, e); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event update: %w", err)
	}
	return e, nil
}

// UpdateSeries modifies a series root and its live instances in one transaction
func (r *PostgresRepository) UpdateSeries(ctx context.Context, rootID string, fn func(*Event) error) ([]*Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE (id = $1 OR parent_event_id = $1) AND deleted = false
		ORDER BY (id = $1) DESC, start_at ASC NULLS LAST, id
		FOR UPDATE
	`
	rows, err := tx.QueryContext(ctx, query, rootID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock series: %w", err)
	}
	var members []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		members = append(members, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read series: %w", err)
	}
	if len(members) == 0 || members[0].ID != rootID {
		return nil, nil
	}

	for _, e := range members {
		if err := fn(e); err != nil {
			return nil, err
		}
		if err := execUpdate(ctx, tx, e); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit series update: %w", err)
	}
	return members, nil
}

func execUpdate(ctx context.Context, tx *sql.Tx, e *Event) error {
	args, err := eventArgs(e)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, updateEvent, args...); err != nil {
		return fmt.Errorf("failed to update event %s: %w", e.ID, err)
	}
	return nil
}

// ListInstances retrieves the live instances of a series root
func (r *PostgresRepository) ListInstances(ctx context.Context, parentID string) ([]*Event, error) {
	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE parent_event_id = $1 AND deleted = false
		ORDER BY start_at ASC NULLS LAST, id
	`
	return r.list(ctx, query, parentID)
}

// Query retrieves a page of live events matching f
func (r *PostgresRepository) Query(ctx context.Context, f Filter) ([]*Event, int, error) {
	where := []string{"deleted = false"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CalendarID != "" {
		where = append(where, "calendar_id = "+arg(f.CalendarID))
	}
	if f.ActorID != "" {
		p := arg(f.ActorID)
		where = append(where, "(organizer_id = "+p+" OR "+p+" = ANY(attendees))")
	}
	if f.From != nil {
		where = append(where, "start_at >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "start_at <= "+arg(*f.To))
	}
	if f.Type != "" {
		where = append(where, "type = "+arg(f.Type))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.Text != "" {
		p := arg("%" + likeEscaper.Replace(f.Text) + "%")
		where = append(where, "(title ILIKE "+p+" ESCAPE '\\' OR description ILIKE "+p+" ESCAPE '\\' OR location ILIKE "+p+" ESCAPE '\\')")
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	query := `SELECT ` + eventColumns + ` FROM events` + clause + ` ORDER BY start_at ASC NULLS LAST, id`
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + arg(f.Offset)
	}

	events, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Busy retrieves the events occupying actorID's time in [start, end)
func (r *PostgresRepository) Busy(ctx context.Context, actorID string, start, end time.Time) ([]*Event, error) {
	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE deleted = false
		  AND status <> 'cancelled'
		  AND start_at IS NOT NULL AND end_at IS NOT NULL
		  AND start_at < $3 AND $2 < end_at
		  AND (organizer_id = $1 OR $1 = ANY(attendees))
		ORDER BY start_at, id
	`
	return r.list(ctx, query, actorID, start, end)
}

// ListIDsByCalendar retrieves the IDs of every event in a calendar
func (r *PostgresRepository) ListIDsByCalendar(ctx context.Context, calendarID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM events WHERE calendar_id = $1 ORDER BY id`, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteByCalendar removes every event of a calendar
func (r *PostgresRepository) DeleteByCalendar(ctx context.Context, calendarID string) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE calendar_id = $1`, calendarID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

var _ Repository = (*PostgresRepository)(nil)
