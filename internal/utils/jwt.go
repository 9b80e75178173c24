package utils // package utils provides helper functions for session token creation

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// RoleGuest is the only role handed out: visitors book without an account.
const RoleGuest = "GUEST"

// SessionToken is a signed JWT naming a booking session, with its expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT whose subject is the
// booking session id.  The claims are sub, role, exp and iat.
func NewSessionToken(secret, sessionID string, ttl time.Duration) (SessionToken, error) {
	if secret == "" {
		return SessionToken{}, errors.New("jwt: empty secret")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  sessionID,
		"role": RoleGuest,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
