package auth

import (
	"time"

	"github.com/sirupsen/logrus"
)

// CredentialVerifier classifies token failures for the authenticator.
// Rejected tokens are logged with the check they failed.
type CredentialVerifier struct {
	codec *TokenCodec
}

func NewCredentialVerifier(codec *TokenCodec) *CredentialVerifier {
	return &CredentialVerifier{codec: codec}
}

func (v *CredentialVerifier) Verify(token string, now time.Time) (*Claims, error) {
	claims, err := v.codec.Verify(token, now)
	switch {
	case err == nil:
		return claims, nil
	case IsExpired(err):
		return nil, ErrExpiredCredential
	default:
		logrus.WithField("reason", rejectionReason(err)).Warn("rejected bearer token")
		return nil, ErrInvalidCredential
	}
}
