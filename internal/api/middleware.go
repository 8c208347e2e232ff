package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"homestay/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const contextUserID = "user_id"
const contextUserRole = "user_role"

// requestLogger logs every request with timing, and feeds the HTTP metrics.
func requestLogger(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := c.Writer.Status()
		metrics.IncHTTP(path, fmt.Sprintf("%d", status))

		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// rateLimitMiddleware applies a per-client token bucket keyed by IP.
func rateLimitMiddleware(limiters *clientLimiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP()) {
			respondError(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}

// authRequired validates the bearer token and stores the caller identity in
// the request context.
func authRequired(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, http.StatusUnauthorized, "authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondError(c, http.StatusUnauthorized, "authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextUserRole, claims.Role)
		c.Next()
	}
}

// currentUserID returns the authenticated caller's ID. Zero means the
// middleware did not run, which is a programming error on the route table.
func currentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(contextUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
