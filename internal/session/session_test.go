package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healthquery-backend/internal/models"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newManager() *Manager {
	return NewManager("test-secret", time.Hour, 24*time.Hour, false)
}

func TestIssueAndParse(t *testing.T) {
	m := newManager()
	token, ttl, err := m.Issue(42, models.RoleClinician, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if ttl != time.Hour {
		t.Errorf("expected 1h ttl, got %s", ttl)
	}
	id, claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 42 || claims.Role != models.RoleClinician {
		t.Errorf("unexpected claims: id=%d role=%s", id, claims.Role)
	}

	_, ttl, _ = m.Issue(42, models.RolePatient, true)
	if ttl != 24*time.Hour {
		t.Errorf("expected remember ttl, got %s", ttl)
	}
}

func TestParse_Rejects(t *testing.T) {
	m := newManager()
	token, _, _ := m.Issue(1, models.RolePatient, false)

	other := NewManager("other-secret", time.Hour, time.Hour, false)
	if _, _, err := other.Parse(token); !errors.Is(err, ErrInvalidSession) {
		t.Error("expected token signed with another secret to be rejected")
	}

	if _, _, err := m.Parse(token + "x"); !errors.Is(err, ErrInvalidSession) {
		t.Error("expected tampered token to be rejected")
	}

	expired := newManager()
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, _, err := expired.Parse(token); !errors.Is(err, ErrInvalidSession) {
		t.Error("expected expired token to be rejected")
	}
}

func TestMiddleware_LoadsUser(t *testing.T) {
	m := newManager()
	user := &models.User{ID: 5, Email: "p@example.com", Role: models.RolePatient}
	loader := func(ctx context.Context, id uint) (*models.User, error) {
		if id != 5 {
			return nil, errors.New("not found")
		}
		return user, nil
	}

	r := gin.New()
	r.Use(m.Middleware(loader))
	r.GET("/me", func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.String(http.StatusOK, u.Email)
	})

	// no cookie
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without cookie, got %d", rec.Code)
	}

	// valid cookie
	token, _, _ := m.Issue(5, models.RolePatient, false)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "p@example.com" {
		t.Errorf("expected user to be loaded, got %d %q", rec.Code, rec.Body.String())
	}

	// unknown user
	token, _, _ = m.Issue(6, models.RolePatient, false)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown user, got %d", rec.Code)
	}
}

func TestLoginAndLogoutCookies(t *testing.T) {
	m := newManager()
	user := &models.User{ID: 3, Role: models.RoleClinician}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := m.Login(c, user, true); err != nil {
		t.Fatalf("login: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
	if cookies[0].MaxAge != int((24 * time.Hour).Seconds()) {
		t.Errorf("expected remember max-age, got %d", cookies[0].MaxAge)
	}
	if u, ok := CurrentUser(c); !ok || u.ID != 3 {
		t.Error("expected current user after login")
	}

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)
	SetCurrentUser(c, user)
	m.Logout(c)
	cookies = rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
	if _, ok := CurrentUser(c); ok {
		t.Error("expected no current user after logout")
	}
}
