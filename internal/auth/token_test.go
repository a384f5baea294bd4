package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

var issuedAt = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedCodec(secret string) *TokenCodec {
	return NewTokenCodec(secret).WithClock(func() time.Time { return issuedAt })
}

// TestVerifyExpiry проверяет границу истечения токена
func TestVerifyExpiry(t *testing.T) {
	const ttl = time.Hour
	codec := fixedCodec("secret")
	token, err := codec.Issue("alice@example.com", entity.RoleUser, ttl)
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{name: "one second before expiry", now: issuedAt.Add(ttl - time.Second)},
		{name: "exactly at expiry", now: issuedAt.Add(ttl)},
		{name: "one second after expiry", now: issuedAt.Add(ttl + time.Second), wantErr: ErrExpiredCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Verify(token, tt.now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice@example.com", claims.Subject)
			assert.Equal(t, entity.RoleUser, claims.Role)
			assert.Equal(t, issuedAt, claims.IssuedAt.UTC())
			assert.Equal(t, issuedAt.Add(ttl), claims.ExpiresAt.UTC())
		})
	}
}

func TestVerifySignatureCheckedBeforeExpiry(t *testing.T) {
	token, err := fixedCodec("other-secret").Issue("alice@example.com", entity.RoleAdmin, time.Minute)
	require.NoError(t, err)

	_, err = fixedCodec("secret").Verify(token, issuedAt.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsMalformedTokens(t *testing.T) {
	codec := fixedCodec("secret")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice@example.com", "role": "ADMIN", "exp": issuedAt.Add(time.Hour).Unix(),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice@example.com", "exp": issuedAt.Add(time.Hour).Unix(),
	})
	withoutRole, err := noRole.SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"empty":        "",
		"alg none":     unsigned,
		"missing role": withoutRole,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Verify(token, issuedAt)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

func TestCredentialVerifierClassifiesFailures(t *testing.T) {
	codec := fixedCodec("secret")
	verifier := NewCredentialVerifier(codec)
	token, err := codec.Issue("bob@example.com", entity.RoleUser, time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token, issuedAt.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrExpiredCredential)
	assert.True(t, IsAuthenticationError(err))

	_, err = verifier.Verify(token+"x", issuedAt)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifierLogsRejectionReason(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	codec := fixedCodec("secret")
	verifier := NewCredentialVerifier(codec)

	forged, err := fixedCodec("other-secret").Issue("alice@example.com", entity.RoleUser, time.Hour)
	require.NoError(t, err)
	sign := func(claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return token
	}
	exp := issuedAt.Add(time.Hour).Unix()

	tests := []struct {
		name   string
		token  string
		reason string
	}{
		{"garbage", "not-a-token", "malformed"},
		{"wrong key", forged, "signature"},
		{"no subject", sign(jwt.MapClaims{"role": "USER", "exp": exp}), "missing subject"},
		{"no expiry", sign(jwt.MapClaims{"sub": "alice@example.com", "role": "USER"}), "missing expiry"},
		{"unknown role", sign(jwt.MapClaims{"sub": "alice@example.com", "role": "ROOT", "exp": exp}), "unknown role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook.Reset()
			_, err := verifier.Verify(tt.token, issuedAt)
			assert.Equal(t, ErrInvalidCredential, err)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.reason, entry.Data["reason"])
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
