package service

import (
	"context"
	"strings"
	"time"

	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type userService struct {
	userRepo database.UserRepository
	now      func() time.Time
}

func NewUserService(userRepo database.UserRepository, now func() time.Time) UserService {
	if now == nil {
		now = time.Now
	}
	return &userService{userRepo: userRepo, now: now}
}

func (s *userService) activeUser(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, entity.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetCurrentUser(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, entity.ErrUserNotFound
	}
	return s.activeUser(ctx, email)
}

func (s *userService) UpdateProfile(ctx context.Context, email string, upd *entity.ProfileUpdate) (*entity.User, error) {
	user, err := s.activeUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if n := len(strings.TrimSpace(*upd.Name)); n < 2 || n > 100 {
			return nil, entity.NewValidationError("", "Name must be between 2 and 100 characters")
		}
	}

	upd.Apply(user)
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateLastVisitedPage(ctx context.Context, email, page string) (*entity.User, error) {
	user, err := s.activeUser(ctx, email)
	if err != nil {
		return nil, err
	}
	user.LastVisitedPage = page
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
