package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) database.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `
	id, title, description, short_description, date, time, location, image_urls,
	form_url, category, max_attendees, tags, speaker, is_active, is_featured,
	created_at, updated_at, created_by`

func scanEvent(row scanner) (*entity.Event, error) {
	var (
		event        entity.Event
		maxAttendees sql.NullInt64
		speaker      []byte
	)
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.ShortDescription,
		&event.Date,
		&event.Time,
		&event.Location,
		pq.Array(&event.ImageURLs),
		&event.FormURL,
		&event.Category,
		&maxAttendees,
		pq.Array(&event.Tags),
		&speaker,
		&event.IsActive,
		&event.IsFeatured,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if maxAttendees.Valid {
		m := int(maxAttendees.Int64)
		event.MaxAttendees = &m
	}
	if len(speaker) > 0 {
		event.Speaker = &entity.Speaker{}
		if err := json.Unmarshal(speaker, event.Speaker); err != nil {
			return nil, fmt.Errorf("failed to decode speaker: %w", err)
		}
	}
	return &event, nil
}

// eventArgs returns the column values of event in eventColumns order.
func eventArgs(event *entity.Event) ([]any, error) {
	var speaker sql.NullString
	if event.Speaker != nil {
		raw, err := json.Marshal(event.Speaker)
		if err != nil {
			return nil, fmt.Errorf("failed to encode speaker: %w", err)
		}
		speaker = sql.NullString{String: string(raw), Valid: true}
	}
	var maxAttendees sql.NullInt64
	if event.MaxAttendees != nil {
		maxAttendees = sql.NullInt64{Int64: int64(*event.MaxAttendees), Valid: true}
	}
	return []any{
		event.ID,
		event.Title,
		event.Description,
		event.ShortDescription,
		event.Date,
		event.Time,
		event.Location,
		pq.Array(event.ImageURLs),
		event.FormURL,
		event.Category,
		maxAttendees,
		pq.Array(event.Tags),
		speaker,
		event.IsActive,
		event.IsFeatured,
		event.CreatedAt,
		event.UpdatedAt,
		event.CreatedBy,
	}, nil
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	args, err := eventArgs(event)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (r *eventRepository) List(ctx context.Context, q entity.EventQuery) ([]*entity.Event, error) {
	var (
		where = []string{"is_active = TRUE"}
		args  []any
		order = "date ASC"
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch q.Filter {
	case entity.EventFilterUpcoming:
		where = append(where, "date > "+arg(q.Now))
	case entity.EventFilterPast:
		where = append(where, "date < "+arg(q.Now))
		order = "date DESC"
	case entity.EventFilterFeatured:
		where = append(where, "is_featured = TRUE")
	}
	if q.Category != "" {
		where = append(where, "category = "+arg(q.Category))
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY ` + order

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	args, err := eventArgs(event)
	if err != nil {
		return err
	}
	query := `
		UPDATE events
		SET title = $2, description = $3, short_description = $4, date = $5, time = $6,
			location = $7, image_urls = $8, form_url = $9, category = $10,
			max_attendees = $11, tags = $12, speaker = $13, is_active = $14,
			is_featured = $15, created_at = $16, updated_at = $17, created_by = $18
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return entity.ErrEventNotFound
	}
	return nil
}
