package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

// AccountLookup is the narrow view of the user store the authenticator needs
// to refuse tokens of deleted or deactivated accounts.
type AccountLookup interface {
	LookupCredentials(ctx context.Context, email string) (*entity.Credentials, error)
}

type AuthenticatorConfig struct {
	APIKey       string
	APIKeyHeader string
}

// Authenticator resolves the principal of a request for a given access level.
type Authenticator struct {
	apiKey   []byte
	header   string
	verifier *CredentialVerifier
	accounts AccountLookup
	now      func() time.Time
}

// NewAuthenticator builds an authenticator. accounts may be nil, in which
// case a verified token is trusted without consulting the user store.
func NewAuthenticator(cfg AuthenticatorConfig, verifier *CredentialVerifier, accounts AccountLookup) *Authenticator {
	header := cfg.APIKeyHeader
	if header == "" {
		header = "x-api-key"
	}
	return &Authenticator{
		apiKey:   []byte(cfg.APIKey),
		header:   header,
		verifier: verifier,
		accounts: accounts,
		now:      time.Now,
	}
}

func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// Authenticate inspects only the credential the level asks for: Public
// requests are never inspected and ApiKey requests never look at a bearer
// token.
func (a *Authenticator) Authenticate(ctx context.Context, headers http.Header, level AccessLevel) (Principal, error) {
	switch level {
	case Public:
		return Anonymous, nil
	case ApiKey:
		if !a.validAPIKey(headers.Get(a.header)) {
			return Anonymous, ErrInvalidAPIKey
		}
		return ServiceAccount, nil
	default:
		return a.authenticateBearer(ctx, headers)
	}
}

func (a *Authenticator) validAPIKey(presented string) bool {
	if len(a.apiKey) == 0 || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), a.apiKey) == 1
}

func (a *Authenticator) authenticateBearer(ctx context.Context, headers http.Header) (Principal, error) {
	token, ok := bearerToken(headers.Get("Authorization"))
	if !ok {
		return Anonymous, ErrMissingCredential
	}
	claims, err := a.verifier.Verify(token, a.now())
	if err != nil {
		return Anonymous, err
	}

	email := entity.NormalizeEmail(claims.Subject)
	role := claims.Role
	if a.accounts != nil {
		creds, err := a.accounts.LookupCredentials(ctx, email)
		if errors.Is(err, entity.ErrUserNotFound) {
			return Anonymous, ErrInvalidCredential
		}
		if err != nil {
			return Anonymous, fmt.Errorf("failed to look up account: %w", err)
		}
		if !creds.IsActive {
			return Anonymous, ErrInvalidCredential
		}
		// the stored role wins so role changes apply before the token expires
		role = creds.Role
	}
	return UserPrincipal(email, role), nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
