package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ginternational/backoffice/internal/models"
)

// OperatorKey is the gin context key for the authenticated *models.Operator.
const OperatorKey = "operator"

// authTimingFloor is the minimum response time for rejected credentials so
// that unknown and malformed tokens are indistinguishable by latency.
const authTimingFloor = 50 * time.Millisecond

// PrincipalLookup loads the account a token was issued to.
type PrincipalLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// IssueToken signs an HS256 bearer token for the given account.
func IssueToken(secret []byte, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// parseSubject verifies an HS256 token and returns its subject as a UUID.
func parseSubject(secret []byte, token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(claims.Subject)
}

// AuthMiddleware returns Gin middleware that authenticates requests via a
// Bearer JWT and stores the acting operator in the context.
func AuthMiddleware(secret []byte, lookup PrincipalLookup, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		token := ExtractBearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		userID, err := parseSubject(secret, token)
		if err != nil {
			logAuthFailure(log, c, err)
			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		user, err := lookup.GetUser(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				logAuthFailure(log, c, err)
				respondError(c, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			log.WithError(err).WithField("request_id", c.GetString(RequestIDKey)).Error("loading principal")
			respondError(c, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}

		if !user.IsActive {
			respondError(c, http.StatusForbidden, "forbidden", "account is disabled")
			return
		}

		c.Set(OperatorKey, user.Operator())
		c.Next()
	}
}

// RequireRole rejects requests whose operator does not hold one of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		op := OperatorFrom(c)
		if op == nil {
			respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		for _, r := range roles {
			if op.Role == r {
				c.Next()
				return
			}
		}

		respondError(c, http.StatusForbidden, "forbidden", "insufficient role")
	}
}

// OperatorFrom returns the authenticated operator, or nil if none is set.
func OperatorFrom(c *gin.Context) *models.Operator {
	v, ok := c.Get(OperatorKey)
	if !ok {
		return nil
	}

	op, _ := v.(*models.Operator)

	return op
}

// ExtractBearerToken extracts the token from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// logAuthFailure logs a failed authentication attempt.
func logAuthFailure(log *logrus.Logger, c *gin.Context, err error) {
	log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": c.GetString(RequestIDKey),
		"reason":     err.Error(),
	}).Warn("authentication failed")
}
