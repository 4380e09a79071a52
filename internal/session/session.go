// Package session keeps the logged-in user in a signed cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"healthquery-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName     = "session"
	currentUserKey = "current_user"
	issuer         = "healthquery"
)

var ErrInvalidSession = errors.New("invalid session")

type Claims struct {
	jwt.RegisteredClaims
	Role     models.Role `json:"role"`
	Remember bool        `json:"remember,omitempty"`
}

// UserLoader fetches the user a session refers to.
type UserLoader func(ctx context.Context, id uint) (*models.User, error)

// Manager issues and verifies session cookies.
type Manager struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
	secure      bool
	now         func() time.Time
}

func NewManager(secret string, ttl, rememberTTL time.Duration, secure bool) *Manager {
	return &Manager{
		secret:      []byte(secret),
		ttl:         ttl,
		rememberTTL: rememberTTL,
		secure:      secure,
		now:         time.Now,
	}
}

// Issue signs a session token for the user. Remembered sessions live for the
// remember TTL instead of the regular session TTL.
func (m *Manager) Issue(userID uint, role models.Role, remember bool) (string, time.Duration, error) {
	ttl := m.ttl
	if remember {
		ttl = m.rememberTTL
	}
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:     role,
		Remember: remember,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign session: %w", err)
	}
	return token, ttl, nil
}

// Parse verifies a token and returns the user id it carries.
func (m *Manager) Parse(token string) (uint, *Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return 0, nil, ErrInvalidSession
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, nil, ErrInvalidSession
	}
	return uint(id), claims, nil
}

// Login writes the session cookie for u.
func (m *Manager) Login(c *gin.Context, u *models.User, remember bool) error {
	token, ttl, err := m.Issue(u.ID, u.Role, remember)
	if err != nil {
		return err
	}
	maxAge := 0
	if remember {
		maxAge = int(ttl.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", m.secure, true)
	SetCurrentUser(c, u)
	return nil
}

// Logout expires the session cookie.
func (m *Manager) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
	c.Set(currentUserKey, nil)
}

// Middleware loads the user named by a valid session cookie into the request
// context. Requests without a usable session continue anonymously.
func (m *Manager) Middleware(load UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		id, _, err := m.Parse(token)
		if err != nil {
			c.Next()
			return
		}
		u, err := load(c.Request.Context(), id)
		if err == nil && u != nil {
			SetCurrentUser(c, u)
		}
		c.Next()
	}
}

func SetCurrentUser(c *gin.Context, u *models.User) {
	c.Set(currentUserKey, u)
}

// CurrentUser returns the logged-in user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}
