package handlers

import (
	"context"
	"time"

	"custodia/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	cache  *cache.CacheService
	logger *zap.Logger
}

// NewHealthHandler builds the health endpoint. cache may be nil when redis
// is disabled.
func NewHealthHandler(db Pinger, cacheService *cache.CacheService, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{db: db, cache: cacheService, logger: logger.Named("health")}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{}
	healthy := true

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("database health check failed", zap.Error(err))
			checks["database"] = "down"
			healthy = false
		} else {
			checks["database"] = "up"
		}
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(ctx); err != nil {
			h.logger.Warn("cache health check failed", zap.Error(err))
			checks["cache"] = "down"
			healthy = false
		} else {
			checks["cache"] = "up"
		}
	}

	status := fiber.StatusOK
	state := "ok"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		state = "degraded"
	}
	body := fiber.Map{
		"status": state,
		"checks": checks,
		"time":   time.Now().UTC(),
	}
	if h.cache != nil {
		body["cache_pool"] = poolStats(h.cache.Stats())
	}
	return c.Status(status).JSON(body)
}

func poolStats(s *redis.PoolStats) fiber.Map {
	if s == nil {
		return fiber.Map{}
	}
	return fiber.Map{
		"hits":        s.Hits,
		"misses":      s.Misses,
		"timeouts":    s.Timeouts,
		"total_conns": s.TotalConns,
		"idle_conns":  s.IdleConns,
		"stale_conns": s.StaleConns,
	}
}
