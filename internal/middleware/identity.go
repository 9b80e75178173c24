package middleware

import "github.com/labstack/echo/v4"

// SessionID returns the booking session id stored by JWTAuth, or "" when
// the request is unauthenticated.
func SessionID(c echo.Context) string {
	if s, ok := c.Get(CtxSessionID).(string); ok {
		return s
	}
	return ""
}

// sessionOrAnon is SessionID with a placeholder for anonymous requests, for
// use in cache and rate limit keys.
func sessionOrAnon(c echo.Context) string {
	if s := SessionID(c); s != "" {
		return s
	}
	return "anon"
}
