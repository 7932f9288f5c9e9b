package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName is the session cookie carried by the client.
	CookieName = "inkwell_session"

	// sessionTTL bounds a browser-session login server-side.
	sessionTTL = 24 * time.Hour
	// rememberTTL is the extended lifetime for "remember me" logins.
	rememberTTL = 30 * 24 * time.Hour
)

// Manager issues and resolves session tokens. The cookie value is an
// HS256-signed JWT carrying only the session id; the id is resolved to a
// user id through the Store on every request.
type Manager struct {
	store  Store
	secret []byte
}

// NewManager creates a Manager signing tokens with the given secret.
func NewManager(store Store, secret string) *Manager {
	return &Manager{store: store, secret: []byte(secret)}
}

// Login establishes a session for the given user and sets the session
// cookie. With remember set, both the stored session and the cookie outlive
// the browser session; otherwise the cookie expires with the client session.
func (m *Manager) Login(c *fiber.Ctx, userID uint, remember bool) error {
	sid := uuid.NewString()

	ttl := sessionTTL
	if remember {
		ttl = rememberTTL
	}
	if err := m.store.Save(c.Context(), sid, userID, ttl); err != nil {
		return err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}

	cookie := fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if remember {
		cookie.Expires = now.Add(rememberTTL)
	}
	c.Cookie(&cookie)
	return nil
}

// Logout invalidates the current request's session and clears the cookie.
func (m *Manager) Logout(c *fiber.Ctx) {
	if sid, ok := m.sessionID(c); ok {
		_ = m.store.Delete(c.Context(), sid)
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
	})
}

// UserID resolves the current request's session to a user id.
func (m *Manager) UserID(c *fiber.Ctx) (uint, bool) {
	sid, ok := m.sessionID(c)
	if !ok {
		return 0, false
	}
	userID, err := m.store.Get(c.Context(), sid)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// Invalidate drops the stored session for the current request without
// touching the cookie. Used when a persisted session's user no longer
// resolves (e.g. deleted user).
func (m *Manager) Invalidate(c *fiber.Ctx) {
	if sid, ok := m.sessionID(c); ok {
		_ = m.store.Delete(c.Context(), sid)
	}
}

// sessionID verifies the cookie signature and extracts the session id.
func (m *Manager) sessionID(c *fiber.Ctx) (string, bool) {
	tokenString := c.Cookies(CookieName)
	if tokenString == "" {
		return "", false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", false
	}
	return sid, true
}
