// Package session introspects the bearer token the portal backend issued.
// The signature is the server's concern; the client only reads the claims
// it needs to address "me" endpoints and gate HR screens early.
package session

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

const RoleHR = "hr"

// Session is the decoded identity carried by the access token.
type Session struct {
	UserID    int64
	Email     string
	FullName  string
	Role      string
	ExpiresAt time.Time
}

// Parse decodes an access token without verifying its signature.
func Parse(token string) (Session, error) {
	tok, err := jwt.ParseString(token, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return Session{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	s := Session{
		ExpiresAt: tok.Expiration(),
	}

	if sub := tok.Subject(); sub != "" {
		// The backend issues numeric user ids in sub.
		if _, err := fmt.Sscan(sub, &s.UserID); err != nil {
			return Session{}, fmt.Errorf("invalid sub claim %q: %w", sub, err)
		}
	}

	if v, ok := tok.Get("email"); ok {
		s.Email, _ = v.(string)
	}
	if v, ok := tok.Get("full_name"); ok {
		s.FullName, _ = v.(string)
	}
	if v, ok := tok.Get("role"); ok {
		s.Role, _ = v.(string)
	}

	return s, nil
}

// IsHR reports whether the session belongs to an HR reviewer.
func (s Session) IsHR() bool {
	return s.Role == RoleHR
}

// Expired reports whether the token expired before now. Tokens without an
// exp claim never expire client-side.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(now)
}
