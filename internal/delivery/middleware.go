package delivery

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/auth"
	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

const (
	ctxUserIDKey = "userID"
	ctxRoleKey   = "userRole"
)

// TokenVerifier resolves a bearer token into its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware resolves the caller's identity and role from the
// Authorization header and stores them in the request context.
func AuthMiddleware(verifier TokenVerifier, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Middleware: Authorization header is missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Error: "authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			log.Warn("Middleware: Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Error: "invalid authorization header format"})
			return
		}

		claims, err := verifier.Verify(parts[1])
		if err != nil {
			log.Warnf("Middleware: Token verification failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Error: "invalid token"})
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates a route group to admin callers. It must run after
// AuthMiddleware.
func RequireAdmin(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentRole(c) != domain.RoleAdmin {
			log.Warnf("Middleware: User %d denied admin-only route %s", currentUserID(c), c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody{Error: "forbidden: admins only"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(ctxUserIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func currentRole(c *gin.Context) domain.Role {
	if v, ok := c.Get(ctxRoleKey); ok {
		if role, ok := v.(domain.Role); ok {
			return role
		}
	}
	return ""
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		entry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_ip":   c.ClientIP(),
			"latency_ms":  latency.Milliseconds(),
			"request_id":  requestID,
		})

		switch {
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
