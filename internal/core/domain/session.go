package domain

import "time"

// Persisted session keys. The session is stored as exactly these two values.
const (
	KeyAuthToken = "authToken"
	KeyUserData  = "userData"
)

// Session is the authenticated identity plus credential held for one browser.
// User and Credential are either both set or both empty.
type Session struct {
	User       *UserProfile `json:"user,omitempty"`
	Credential string       `json:"-"`
}

// Active reports whether the session carries an identity.
func (s Session) Active() bool {
	return s.User != nil && s.Credential != ""
}

// TokenClaims is the subset of the opaque credential the portal reads locally.
type TokenClaims struct {
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the claims' expiry is at or before now.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
