package auth

import (
	"context"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type PrincipalKind int

const (
	KindAnonymous PrincipalKind = iota
	KindServiceAccount
	KindUser
)

func (k PrincipalKind) String() string {
	switch k {
	case KindServiceAccount:
		return "service_account"
	case KindUser:
		return "user"
	default:
		return "anonymous"
	}
}

// Principal is the identity a request was admitted with. Email and Role are
// only set for KindUser.
type Principal struct {
	Kind  PrincipalKind
	Email string
	Role  entity.Role
}

var (
	Anonymous      = Principal{Kind: KindAnonymous}
	ServiceAccount = Principal{Kind: KindServiceAccount}
)

func UserPrincipal(email string, role entity.Role) Principal {
	return Principal{Kind: KindUser, Email: email, Role: role}
}

func (p Principal) IsUser() bool           { return p.Kind == KindUser }
func (p Principal) IsServiceAccount() bool { return p.Kind == KindServiceAccount }
func (p Principal) IsAdmin() bool          { return p.Kind == KindUser && p.Role == entity.RoleAdmin }

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal bound to ctx, or Anonymous.
func PrincipalFrom(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Anonymous
}
