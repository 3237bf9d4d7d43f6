package healthcheck

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *db.DB. A nil Pinger means there is no database to
// check, as with the in-memory store.
type Pinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

// Handler reports 200 "OK" while the database answers a ping.
func Handler(p Pinger, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				logger.Error("healthcheck failed", "error", err)
				c.String(http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		c.String(http.StatusOK, "OK")
	}
}
