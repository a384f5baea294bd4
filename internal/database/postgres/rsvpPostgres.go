package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type rsvpRepository struct {
	db *sql.DB
}

func NewRSVPRepository(db *sql.DB) database.RSVPRepository {
	return &rsvpRepository{db: db}
}

const rsvpColumns = `id, event_id, user_email, user_name, status, submitted_at, updated_at, notes`

func scanRSVP(row scanner) (*entity.RSVP, error) {
	var rsvp entity.RSVP
	err := row.Scan(
		&rsvp.ID,
		&rsvp.EventID,
		&rsvp.UserEmail,
		&rsvp.UserName,
		&rsvp.Status,
		&rsvp.SubmittedAt,
		&rsvp.UpdatedAt,
		&rsvp.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// Create inserts the RSVP in a transaction. With a guard the event row is
// locked first so concurrent inserts for the same event are serialized
// between the recount and the insert.
func (r *rsvpRepository) Create(ctx context.Context, rsvp *entity.RSVP, guard *entity.CapacityGuard) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if guard != nil {
		var locked string
		query := `SELECT id FROM events WHERE id = $1 FOR UPDATE`
		err = tx.QueryRowContext(ctx, query, rsvp.EventID).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock event: %w", err)
		}

		var active int
		query = `SELECT COUNT(*) FROM rsvps WHERE event_id = $1 AND status IN ('PENDING', 'CONFIRMED')`
		if err := tx.QueryRowContext(ctx, query, rsvp.EventID).Scan(&active); err != nil {
			return fmt.Errorf("failed to count active rsvps: %w", err)
		}
		if active >= guard.Max {
			return entity.ErrEventFull
		}
	}

	query := `
		INSERT INTO rsvps (` + rsvpColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		rsvp.ID,
		rsvp.EventID,
		rsvp.UserEmail,
		rsvp.UserName,
		rsvp.Status,
		rsvp.SubmittedAt,
		rsvp.UpdatedAt,
		rsvp.Notes,
	)
	if isUniqueViolation(err) {
		return entity.ErrAlreadyReserved
	}
	if err != nil {
		return fmt.Errorf("failed to create rsvp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *rsvpRepository) GetByID(ctx context.Context, id string) (*entity.RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE id = $1`

	rsvp, err := scanRSVP(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrRSVPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rsvp: %w", err)
	}
	return rsvp, nil
}

func (r *rsvpRepository) FindActive(ctx context.Context, eventID, email string) (*entity.RSVP, error) {
	query := `
		SELECT ` + rsvpColumns + `
		FROM rsvps
		WHERE event_id = $1 AND user_email = $2 AND status <> 'CANCELLED'
		LIMIT 1
	`

	rsvp, err := scanRSVP(r.db.QueryRowContext(ctx, query, eventID, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active rsvp: %w", err)
	}
	return rsvp, nil
}

func (r *rsvpRepository) CountActive(ctx context.Context, eventID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rsvps WHERE event_id = $1 AND status IN ('PENDING', 'CONFIRMED')`
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active rsvps: %w", err)
	}
	return count, nil
}

func (r *rsvpRepository) List(ctx context.Context, q entity.RSVPQuery) ([]*entity.RSVP, error) {
	var (
		where []string
		args  []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if q.EventID != "" {
		add("event_id", q.EventID)
	}
	if q.UserEmail != "" {
		add("user_email", q.UserEmail)
	}
	if q.Status != "" {
		add("status", q.Status)
	}

	query := `SELECT ` + rsvpColumns + ` FROM rsvps`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []*entity.RSVP
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rsvps: %w", err)
	}
	return rsvps, nil
}

func (r *rsvpRepository) UpdateStatus(ctx context.Context, id string, status entity.RSVPStatus, at time.Time) (*entity.RSVP, error) {
	query := `
		UPDATE rsvps SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + rsvpColumns

	rsvp, err := scanRSVP(r.db.QueryRowContext(ctx, query, status, at, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrRSVPNotFound
	}
	if isUniqueViolation(err) {
		return nil, entity.ErrAlreadyReserved
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update rsvp status: %w", err)
	}
	return rsvp, nil
}

func (r *rsvpRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rsvps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rsvp: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return entity.ErrRSVPNotFound
	}
	return nil
}
