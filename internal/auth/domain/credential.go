// Package domain defines the bearer credential the SDK obtains through the
// client-credentials grant.
package domain

import (
	"time"
)

// ExpiryBuffer is subtracted from a credential's expiry before it is considered usable,
// so a token is never sent when it could expire while the request is in flight.
const ExpiryBuffer = 30 * time.Second

// Credential is an access token and the instant it stops being accepted.
// A credential is never mutated; a refresh produces a new one.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// NewCredential creates a credential that expires expiresIn seconds after now.
func NewCredential(token string, expiresIn int64, now time.Time) *Credential {
	return &Credential{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(expiresIn) * time.Second),
	}
}

// Usable reports whether the credential can still be sent at now.
func (c *Credential) Usable(now time.Time) bool {
	if c == nil || c.Token == "" {
		return false
	}
	return now.Before(c.ExpiresAt.Add(-ExpiryBuffer))
}

// TokenGrant is a decoded client-credentials grant response.
type TokenGrant struct {
	AccessToken string
	ExpiresIn   int64
	TokenType   string
	Scope       string
}
