package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/internal/auth"
	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	User  *entity.User
	Token string
}

type authService struct {
	userRepo database.UserRepository
	codec    *auth.TokenCodec
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(userRepo database.UserRepository, codec *auth.TokenCodec, ttl time.Duration, now func() time.Time) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{
		userRepo: userRepo,
		codec:    codec,
		ttl:      ttl,
		now:      now,
	}
}

func (s *authService) Signup(ctx context.Context, req *SignupRequest) (*AuthResult, error) {
	name := strings.TrimSpace(req.Name)
	email := entity.NormalizeEmail(req.Email)
	switch {
	case len(name) < 2 || len(name) > 100:
		return nil, entity.NewValidationError("", "Name must be between 2 and 100 characters")
	case email == "" || !strings.Contains(email, "@"):
		return nil, entity.NewValidationError("", "Please provide a valid email")
	case len(req.Password) < 6:
		return nil, entity.NewValidationError("", "Password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &entity.User{
		ID:              uuid.NewString(),
		Name:            name,
		Email:           email,
		PasswordHash:    hash,
		Role:            entity.RoleUser,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
		LastVisitedPage: "/",
		Skills:          []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.codec.Issue(user.Email, user.Role, s.ttl)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User signed up")
	return &AuthResult{User: user, Token: token}, nil
}

// Login answers every failure with ErrInvalidCredentials so callers cannot
// tell which accounts exist.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	email := entity.NormalizeEmail(req.Email)

	creds, err := s.userRepo.LookupCredentials(ctx, email)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, entity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !creds.IsActive || !auth.CheckPassword(creds.PasswordHash, req.Password) {
		return nil, entity.ErrInvalidCredentials
	}

	user, err := s.userRepo.UpdateLastLogin(ctx, email, s.now())
	if err != nil {
		return nil, err
	}

	token, err := s.codec.Issue(user.Email, user.Role, s.ttl)
	if err != nil {
		return nil, err
	}

	logrus.WithField("email", user.Email).Info("User logged in")
	return &AuthResult{User: user, Token: token}, nil
}
