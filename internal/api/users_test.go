package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginternational/backoffice/internal/api"
	"github.com/ginternational/backoffice/internal/models"
)

func newUserRouter(svc *mockUserService) http.Handler {
	r := newTestRouter()
	h := api.NewUserHandler(svc, testLogger())
	r.POST("/user", h.Create)
	r.PATCH("/user/:id", h.Update)
	r.DELETE("/user/:id", h.Delete)

	return r
}

func TestUserCreate_PassesOperator(t *testing.T) {
	t.Parallel()

	svc := &mockUserService{
		createFn: func(_ context.Context, op *models.Operator, req models.CreateUserRequest) (*models.User, error) {
			if op != testOperator {
				return nil, fmt.Errorf("operator = %v", op)
			}
			return &models.User{ID: uuid.New(), Name: req.Name, Email: req.Email, UserID: "G0001", IsActive: true}, nil
		},
	}

	w := doRequest(newUserRouter(svc), http.MethodPost, "/user",
		`{"name":"Bob","email":"bob@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "user created", env.Message)

	var u models.User
	require.NoError(t, json.Unmarshal(env.Result, &u))
	assert.Equal(t, "G0001", u.UserID)
}

func TestUserCreate_Validation(t *testing.T) {
	t.Parallel()

	svc := &mockUserService{}
	r := newUserRouter(svc)

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"name":"Bob","password":"s3cret-pass"}`},
		{"bad email", `{"name":"Bob","email":"bob","password":"s3cret-pass"}`},
		{"short password", `{"name":"Bob","email":"bob@example.com","password":"short"}`},
		{"unknown role", `{"name":"Bob","email":"bob@example.com","password":"s3cret-pass","role":7}`},
		{"not json", `name=Bob`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/user", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestUserCreate_Conflict(t *testing.T) {
	t.Parallel()

	svc := &mockUserService{
		createFn: func(context.Context, *models.Operator, models.CreateUserRequest) (*models.User, error) {
			return nil, fmt.Errorf("creating user: %w", models.ErrDuplicateKey)
		},
	}

	w := doRequest(newUserRouter(svc), http.MethodPost, "/user",
		`{"name":"Bob","email":"bob@example.com","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, api.ErrCodeConflict, decodeEnvelope(t, w).Code)
}

func TestUserUpdate(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	svc := &mockUserService{
		updateFn: func(_ context.Context, _ *models.Operator, got uuid.UUID, req models.UpdateUserRequest) (*models.User, error) {
			if got != id {
				return nil, models.ErrUserNotFound
			}
			return &models.User{ID: id, Name: *req.Name}, nil
		},
	}
	r := newUserRouter(svc)

	w := doRequest(r, http.MethodPatch, "/user/"+id.String(), `{"name":"Robert"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(r, http.MethodPatch, "/user/"+uuid.NewString(), `{"name":"Robert"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPatch, "/user/not-a-uuid", `{"name":"Robert"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserDelete(t *testing.T) {
	t.Parallel()

	svc := &mockUserService{
		deleteFn: func(_ context.Context, op *models.Operator, id uuid.UUID) error {
			if id == op.ID {
				return &models.ValidationError{Field: "id", Message: "cannot delete your own account"}
			}
			return nil
		},
	}
	r := newUserRouter(svc)

	w := doRequest(r, http.MethodDelete, "/user/"+uuid.NewString(), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "user deleted", decodeEnvelope(t, w).Message)

	w = doRequest(r, http.MethodDelete, "/user/"+testOperator.ID.String(), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
