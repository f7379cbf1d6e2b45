package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ginternational/backoffice/internal/domain"
	"github.com/ginternational/backoffice/internal/httputil"
	"github.com/ginternational/backoffice/internal/middleware"
	"github.com/ginternational/backoffice/internal/models"
)

// UserHandler serves back-office account endpoints. Every mutation is audited
// by the service.
type UserHandler struct {
	users domain.UserService
	log   *logrus.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users domain.UserService, log *logrus.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Create handles POST /api/v1/user.
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	op := middleware.OperatorFrom(c)

	user, err := h.users.CreateUser(c.Request.Context(), op, req)
	if err != nil {
		respondServiceError(c, h.log, "creating user", err)
		return
	}

	h.logAction(c, "user.create", user.ID)
	httputil.RespondOK(c, http.StatusCreated, "user created", user)
}

// Update handles PATCH /api/v1/user/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), middleware.OperatorFrom(c), id, req)
	if err != nil {
		respondServiceError(c, h.log, "updating user", err)
		return
	}

	h.logAction(c, "user.update", id)
	httputil.RespondOK(c, http.StatusOK, "user updated", user)
}

// Delete handles DELETE /api/v1/user/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), middleware.OperatorFrom(c), id); err != nil {
		respondServiceError(c, h.log, "deleting user", err)
		return
	}

	h.logAction(c, "user.delete", id)
	httputil.RespondOK(c, http.StatusOK, "user deleted", nil)
}

func (h *UserHandler) logAction(c *gin.Context, action string, id uuid.UUID) {
	fields := logrus.Fields{
		"action":     action,
		"user_id":    id,
		"request_id": c.GetString(middleware.RequestIDKey),
	}
	if op := middleware.OperatorFrom(c); op != nil {
		fields["operator_id"] = op.ID
	}

	h.log.WithFields(fields).Info("user account changed")
}
