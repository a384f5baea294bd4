package entity

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID              string     `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	Role            Role       `json:"role" db:"role"`
	IsActive        bool       `json:"isActive" db:"is_active"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
	LastLogin       *time.Time `json:"lastLogin" db:"last_login"`
	LastVisitedPage string     `json:"lastVisitedPage" db:"last_visited_page"`

	Bio      string   `json:"bio" db:"bio"`
	Skills   []string `json:"skills" db:"skills"`
	Github   string   `json:"github" db:"github"`
	Linkedin string   `json:"linkedin" db:"linkedin"`
	Website  string   `json:"website" db:"website"`
	Avatar   string   `json:"avatar" db:"avatar"`
}

// ProfileUpdate carries the caller-supplied profile fields; nil means "keep".
type ProfileUpdate struct {
	Name     *string   `json:"name" binding:"omitempty,min=2,max=100"`
	Bio      *string   `json:"bio"`
	Skills   *[]string `json:"skills"`
	Github   *string   `json:"github"`
	Linkedin *string   `json:"linkedin"`
	Website  *string   `json:"website"`
	Avatar   *string   `json:"avatar"`
}

// Apply overwrites the fields of u that are set in p.
func (p *ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Skills != nil {
		u.Skills = *p.Skills
	}
	if p.Github != nil {
		u.Github = *p.Github
	}
	if p.Linkedin != nil {
		u.Linkedin = *p.Linkedin
	}
	if p.Website != nil {
		u.Website = *p.Website
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}

// Credentials is the slice of a user record needed to authenticate it.
type Credentials struct {
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
}

// NormalizeEmail lower-cases and trims an address so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
