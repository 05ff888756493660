package middleware

import (
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/harborlight/foundation-backend/internal/config"
)

// Session value keys. The role stored here is a snapshot taken at login;
// a role change takes effect on the next login.
const (
	sessionKeyUserID   = "user_id"
	sessionKeyUsername = "username"
	sessionKeyRole     = "role"
)

// NewSessionStore builds the server-side session store backing the auth
// cookie. The cookie carries only an opaque id.
func NewSessionStore(cfg *config.Config) *session.Store {
	return session.New(session.Config{
		KeyLookup:      "cookie:" + cfg.SessionCookieName,
		Expiration:     cfg.SessionExpiry,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.Environment == "production",
	})
}

// SaveLogin writes the user snapshot into a fresh session. The session id is
// regenerated to prevent fixation.
func SaveLogin(sess *session.Session, userID, username, role string) error {
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionKeyUserID, userID)
	sess.Set(sessionKeyUsername, username)
	sess.Set(sessionKeyRole, role)
	return sess.Save()
}
