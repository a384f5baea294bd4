package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

// Claims are the decoded fields of a verified token.
type Claims struct {
	Subject   string
	Role      entity.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and checks HS256 tokens.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), now: time.Now}
}

// WithClock replaces the clock used when issuing tokens.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

// Issue signs a token for email valid from now for ttl.
func (c *TokenCodec) Issue(email string, role entity.Role, ttl time.Duration) (string, error) {
	issued := c.now().UTC().Truncate(time.Second)
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature of token and then its expiry against now.
func (c *TokenCodec) Verify(token string, now time.Time) (*Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, invalidToken("signature")
		}
		return nil, invalidToken("malformed")
	}
	if tc.Subject == "" {
		return nil, invalidToken("missing subject")
	}
	if tc.ExpiresAt == nil {
		return nil, invalidToken("missing expiry")
	}

	claims := &Claims{
		Subject:   tc.Subject,
		Role:      entity.Role(tc.Role),
		ExpiresAt: tc.ExpiresAt.Time,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time
	}
	if !claims.Role.Valid() {
		return nil, invalidToken("unknown role")
	}
	if now.After(claims.ExpiresAt) {
		return nil, ErrExpiredCredential
	}
	return claims, nil
}

// invalidTokenError is ErrInvalidCredential annotated with the check that
// failed. Callers see only ErrInvalidCredential.
type invalidTokenError struct {
	reason string
}

func invalidToken(reason string) error {
	return &invalidTokenError{reason: reason}
}

func (e *invalidTokenError) Error() string { return ErrInvalidCredential.Error() }
func (e *invalidTokenError) Unwrap() error { return ErrInvalidCredential }

// rejectionReason names the failed check of a token refused by Verify.
func rejectionReason(err error) string {
	var ite *invalidTokenError
	if errors.As(err, &ite) {
		return ite.reason
	}
	return "unknown"
}

// IsExpired reports whether err came from an expired but otherwise valid token.
func IsExpired(err error) bool {
	return errors.Is(err, ErrExpiredCredential)
}
