package api

import (
	"net/http"

	"aquadash/api/client"
	"aquadash/api/health"
	"aquadash/api/middleware"
	"aquadash/api/order"
	"aquadash/api/sale"
	"aquadash/config"
	"aquadash/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Controllers everything mounted under /api/v1
type Controllers struct {
	Health *health.Controller
	Order  *order.Controller
	Sale   *sale.Controller
	Client *client.Controller
}

// Router Route configuration
type Router struct {
	engine      *gin.Engine
	config      *config.Config
	controllers Controllers
	gatherer    prometheus.Gatherer
}

// NewRouter Create route configuration
func NewRouter(
	cfg *config.Config,
	controllers Controllers,
	serverMetrics *metrics.ServerMetrics,
	gatherer prometheus.Gatherer,
) *Router {
	// Set Gin mode based on environment
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware (order is important)
	engine.Use(middleware.RequestIDMiddleware()) // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())  // 2. Recovery middleware
	engine.Use(middleware.LoggingMiddleware())   // 3. Logging middleware
	if serverMetrics != nil {
		engine.Use(middleware.MetricsMiddleware(serverMetrics)) // 4. Request metrics
	}
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 5. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 6. Rate limiting

	return &Router{
		engine:      engine,
		config:      cfg,
		controllers: controllers,
		gatherer:    gatherer,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	// Set API route group
	apiGroup := r.engine.Group("/api/v1")
	{
		// Register controller routes
		r.controllers.Health.RegisterRoutes(apiGroup)
		r.controllers.Order.RegisterRoutes(apiGroup)
		r.controllers.Sale.RegisterRoutes(apiGroup)
		r.controllers.Client.RegisterRoutes(apiGroup)
	}

	if r.gatherer != nil {
		r.engine.GET("/metrics", gin.WrapH(metrics.Handler(r.gatherer)))
	}

	// Set root path route
	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
			"metrics": "/metrics",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
