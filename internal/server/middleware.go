package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MyelinBots/vitals-go/internal/services/context_manager"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(context_manager.SetRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", context_manager.GetRequestID(c.Request.Context()),
		)
	}
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) recover(c *gin.Context, recovered any) {
	s.logger.Error("panic serving request",
		"panic", recovered,
		"path", c.Request.URL.Path,
		"request_id", context_manager.GetRequestID(c.Request.Context()),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}

// RequireSession admits requests carrying a valid session for an existing
// user. Browsers are redirected to the login page, API clients get a 401
// naming it.
func (s *Server) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := s.guard.Resolve(c.Request.Context(), sessionToken(c))
		if err != nil {
			s.logger.Error("resolve session", "error", err)
		}
		if !decision.Allowed() {
			if wantsHTML(c) {
				c.Redirect(http.StatusSeeOther, decision.RedirectTo)
				c.Abort()
				return
			}
			c.Header("Location", decision.RedirectTo)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "please log in",
				"redirect": decision.RedirectTo,
			})
			return
		}

		c.Request = c.Request.WithContext(context_manager.SetUserContext(c.Request.Context(), decision.User))
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	token, _ := c.Cookie(SessionCookie)
	return token
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
