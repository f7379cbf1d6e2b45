// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// RequestIDKey is the Gin context key holding the request ID.
const RequestIDKey = "request_id"

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Result    any    `json:"result,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondOK writes a successful envelope.
func RespondOK(c *gin.Context, status int, message string, result any) {
	c.JSON(status, Envelope{Success: true, Message: message, Result: result})
}

// RespondError writes a failed envelope and aborts the request.
func RespondError(c *gin.Context, status int, code, message string) {
	env := Envelope{Success: false, Message: message, Code: code}

	if rid, exists := c.Get(RequestIDKey); exists {
		if s, ok := rid.(string); ok {
			env.RequestID = s
		}
	}

	c.AbortWithStatusJSON(status, env)
}
