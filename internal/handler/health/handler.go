package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is the slice of the broker the readiness check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db     *sqlx.DB
	broker Pinger
}

func NewHandler(db *sqlx.DB, broker Pinger) *Handler {
	return &Handler{db: db, broker: broker}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.LivenessCheck)
		health.GET("/ready", h.ReadinessCheck)
		health.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

// ReadinessCheck verifies the dependencies a booking commit needs. The
// broker is optional: outbox rows queue up in Postgres while Redis is
// down, so a broker outage degrades event delivery, not bookings.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "DOWN",
			"reason": "database connection failed",
		})
		return
	}

	brokerStatus := "UP"
	if h.broker != nil {
		if err := h.broker.Ping(c.Request.Context()); err != nil {
			brokerStatus = "DEGRADED"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"broker": brokerStatus,
	})
}
