package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) database.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	id, name, email, password_hash, role, is_active, created_at, updated_at,
	last_login, last_visited_page, bio, skills, github, linkedin, website, avatar`

func scanUser(row scanner) (*entity.User, error) {
	var (
		user      entity.User
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLogin,
		&user.LastVisitedPage,
		&user.Bio,
		pq.Array(&user.Skills),
		&user.Github,
		&user.Linkedin,
		&user.Website,
		&user.Avatar,
	)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
		user.LastLogin,
		user.LastVisitedPage,
		user.Bio,
		pq.Array(user.Skills),
		user.Github,
		user.Linkedin,
		user.Website,
		user.Avatar,
	)
	if isUniqueViolation(err) {
		return entity.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, entity.NormalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $1, role = $2, is_active = $3, updated_at = $4, last_login = $5,
			last_visited_page = $6, bio = $7, skills = $8, github = $9, linkedin = $10,
			website = $11, avatar = $12
		WHERE id = $13
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Name,
		user.Role,
		user.IsActive,
		user.UpdatedAt,
		user.LastLogin,
		user.LastVisitedPage,
		user.Bio,
		pq.Array(user.Skills),
		user.Github,
		user.Linkedin,
		user.Website,
		user.Avatar,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, email string, at time.Time) (*entity.User, error) {
	query := `
		UPDATE users SET last_login = $1, updated_at = $1
		WHERE email = $2
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, at, entity.NormalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	return user, nil
}

func (r *userRepository) LookupCredentials(ctx context.Context, email string) (*entity.Credentials, error) {
	query := `SELECT email, password_hash, role, is_active FROM users WHERE email = $1`

	var creds entity.Credentials
	err := r.db.QueryRowContext(ctx, query, entity.NormalizeEmail(email)).Scan(
		&creds.Email,
		&creds.PasswordHash,
		&creds.Role,
		&creds.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up credentials: %w", err)
	}
	return &creds, nil
}
