package memory

import (
	"context"
	"time"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type userRepository struct {
	s *Store
}

// byEmail must be called with the lock held.
func (r *userRepository) byEmail(email string) *entity.User {
	email = entity.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.byEmail(user.Email) != nil {
		return entity.ErrUserAlreadyExists
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u := r.byEmail(email)
	if u == nil {
		return nil, entity.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepository) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return entity.ErrUserNotFound
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepository) UpdateLastLogin(_ context.Context, email string, at time.Time) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u := r.byEmail(email)
	if u == nil {
		return nil, entity.ErrUserNotFound
	}
	u.LastLogin = &at
	u.UpdatedAt = at
	return cloneUser(u), nil
}

func (r *userRepository) LookupCredentials(_ context.Context, email string) (*entity.Credentials, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u := r.byEmail(email)
	if u == nil {
		return nil, entity.ErrUserNotFound
	}
	return &entity.Credentials{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
	}, nil
}
