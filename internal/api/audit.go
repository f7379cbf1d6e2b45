package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ginternational/backoffice/internal/domain"
	"github.com/ginternational/backoffice/internal/httputil"
	"github.com/ginternational/backoffice/internal/middleware"
	"github.com/ginternational/backoffice/internal/models"
)

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	audit domain.AuditQuerier
	log   *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(audit domain.AuditQuerier, log *logrus.Logger) *AuditHandler {
	mustRegisterValidators()

	return &AuditHandler{audit: audit, log: log}
}

// Search handles GET /api/v1/auditLog.
func (h *AuditHandler) Search(c *gin.Context) {
	var params models.AuditSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	q, err := models.ParseAuditQuery(params)
	if err != nil {
		respondServiceError(c, h.log, "parsing audit query", err)
		return
	}

	page, err := h.audit.Search(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, h.log, "searching audit log", err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"action":      "audit.search",
		"request_id":  c.GetString(middleware.RequestIDKey),
		"total_items": page.TotalItems,
		"page":        page.CurrentPage,
	}).Debug("audit log searched")

	httputil.RespondOK(c, http.StatusOK, "", page)
}

// Get handles GET /api/v1/auditLog/:id.
func (h *AuditHandler) Get(c *gin.Context) {
	view, err := h.audit.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, "getting audit record", err)
		return
	}

	httputil.RespondOK(c, http.StatusOK, "", view)
}
