package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"note-anywhere/internal/core/config"
	mdw "note-anywhere/internal/transport/http/middleware"
)

// HealthCheck reports a dependency problem; nil means healthy.
type HealthCheck func(ctx context.Context) error

type Options struct {
	Limits config.Limits
	Health HealthCheck
}

func newEngine(l *zap.Logger, o Options) *gin.Engine {
	r := gin.New()
	r.Use(mdw.Recovery(l), cors.Default(), mdw.RequestID())

	lim := o.Limits
	if lim.RPS > 0 {
		if lim.PerIP {
			r.Use(mdw.RateLimitPerIP(rate.Limit(lim.RPS), lim.Burst))
		} else {
			r.Use(mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
		}
	}
	if lim.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(lim.Concurrency))
	}
	if lim.MaxBodyMB > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyMB << 20))
	}
	if lim.TimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(lim.TimeoutSec) * time.Second))
	}
	r.Use(mdw.Metrics(), mdw.AccessLog(l))

	r.GET("/health", health(o.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func health(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0, "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	}
}
