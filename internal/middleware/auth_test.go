package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ginternational/backoffice/internal/middleware"
	"github.com/ginternational/backoffice/internal/models"
)

var testSecret = []byte("test-secret-at-least-32-bytes-long!!")

type mockPrincipals struct {
	users map[uuid.UUID]*models.User
	err   error
}

func (m *mockPrincipals) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, models.ErrUserNotFound
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func mustToken(t *testing.T, secret []byte, id uuid.UUID, ttl time.Duration) string {
	t.Helper()
	tok, err := middleware.IssueToken(secret, id, ttl)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Name: "Alice", UserID: "G0001", Role: models.RoleAdmin, IsActive: true}
	staff := &models.User{ID: uuid.New(), Name: "Bob", UserID: "G0002", Role: models.RoleUser, IsActive: true}
	disabled := &models.User{ID: uuid.New(), Name: "Carol", UserID: "G0003", Role: models.RoleAdmin}
	lookup := &mockPrincipals{users: map[uuid.UUID]*models.User{admin.ID: admin, staff.ID: staff, disabled.ID: disabled}}

	tok384 := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.RegisteredClaims{Subject: admin.ID.String()})
	hs384, err := tok384.SignedString(testSecret)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
	}{
		{"admin", "Bearer " + mustToken(t, testSecret, admin.ID, time.Hour), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", mustToken(t, testSecret, admin.ID, time.Hour), http.StatusUnauthorized},
		{"wrong secret", "Bearer " + mustToken(t, []byte("another-secret-another-secret-!!"), admin.ID, time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + mustToken(t, testSecret, admin.ID, -time.Minute), http.StatusUnauthorized},
		{"other algorithm", "Bearer " + hs384, http.StatusUnauthorized},
		{"unknown user", "Bearer " + mustToken(t, testSecret, uuid.New(), time.Hour), http.StatusUnauthorized},
		{"inactive account", "Bearer " + mustToken(t, testSecret, disabled.ID, time.Hour), http.StatusForbidden},
		{"non-admin", "Bearer " + mustToken(t, testSecret, staff.ID, time.Hour), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.AuthMiddleware(testSecret, lookup, quietLogger()), middleware.RequireRole(models.RoleAdmin))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("got %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestAuthMiddleware_SetsOperator(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Name: "Alice", AdminID: "A001", Role: models.RoleAdmin, IsActive: true}
	lookup := &mockPrincipals{users: map[uuid.UUID]*models.User{admin.ID: admin}}

	var got *models.Operator
	r := gin.New()
	r.Use(middleware.AuthMiddleware(testSecret, lookup, quietLogger()))
	r.GET("/test", func(c *gin.Context) {
		got = middleware.OperatorFrom(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, testSecret, admin.ID, time.Hour))
	r.ServeHTTP(w, req)

	if got == nil {
		t.Fatal("operator not set")
	}
	if got.ID != admin.ID || got.Info().Identifier != "A001" {
		t.Errorf("operator = %+v", got)
	}
}

func TestAuthMiddleware_LookupFailureIs500(t *testing.T) {
	lookup := &mockPrincipals{err: errors.New("pool closed")}

	r := gin.New()
	r.Use(middleware.AuthMiddleware(testSecret, lookup, quietLogger()))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, testSecret, uuid.New(), time.Hour))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("got %d, want 500", w.Code)
	}
}

func TestRequireRole_WithoutOperator(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequireRole(models.RoleAdmin))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", w.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"abc123", ""},
		{"", ""},
		{"Bearer ", ""},
		{"bearer abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			got := middleware.ExtractBearerToken(c)
			if got != tt.want {
				t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
