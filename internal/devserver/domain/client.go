package domain

import "time"

// Client is a registered OAuth client of the dev server.
type Client struct {
	ID         string
	SecretHash string
}

// AccessToken is an issued bearer token. Only its SHA-256 hash is kept.
type AccessToken struct {
	TokenHash string
	ClientID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token is no longer valid at now.
func (a *AccessToken) IsExpired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}

// IssueTokenOutput is returned to a client after a successful grant.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresIn  int64
}

// IssueTokenInput carries a client-credentials grant.
type IssueTokenInput struct {
	ClientID     string
	ClientSecret string
}
