package handlers

import (
	"context"
	"net/http"
	"time"

	"healthquery-backend/internal/apperror"
	"healthquery-backend/internal/database"
	"healthquery-backend/internal/metrics"
	"healthquery-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

// RouterConfig holds the HTTP-level settings of SetupRouter.
type RouterConfig struct {
	CORSOrigins []string
}

// SetupRouter wires global middleware and mounts every route group.
func SetupRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(h.logger),
		middleware.Logger(h.logger),
		metrics.Middleware(),
		limitBodySize(maxBodyBytes),
		corsMiddleware(cfg.CORSOrigins),
		h.sessions.Middleware(h.loadUser),
	)

	r.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, apperror.NotFound("Resource"))
	})
	r.NoMethod(func(c *gin.Context) {
		middleware.AbortWithError(c, &apperror.Error{
			Status:  http.StatusMethodNotAllowed,
			Title:   http.StatusText(http.StatusMethodNotAllowed),
			Message: "Method not allowed",
		})
	})

	r.GET("/healthz", h.Health)
	r.GET("/metrics", metrics.Handler())

	limited := middleware.RateLimit(h.rateLimit)
	guard := func(guards ...middleware.GuardFunc) gin.HandlerFunc {
		return middleware.Guard(append([]middleware.GuardFunc{limited}, guards...)...)
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", guard(middleware.JSONRequired), h.Register)
		auth.POST("/login", guard(middleware.JSONRequired), h.Login)
		auth.POST("/logout", guard(middleware.LoginRequired), h.Logout)
		auth.GET("/me", guard(middleware.LoginRequired), h.Me)

		queries := api.Group("/queries")
		queries.GET("", guard(middleware.LoginRequired), h.ListQueries)
		queries.POST("", guard(middleware.LoginRequired, middleware.PatientRequired, middleware.JSONRequired), h.CreateQuery)
		queries.POST("/:id/review", guard(middleware.LoginRequired, middleware.ClinicianRequired, middleware.JSONRequired), h.ReviewQuery)
		queries.GET("/analytics", guard(middleware.LoginRequired, middleware.ClinicianRequired), h.Analytics)

		clinician := api.Group("/clinician", guard(middleware.LoginRequired, middleware.ClinicianRequired))
		clinician.GET("/profile", h.GetProfile)
		clinician.PUT("/profile", middleware.Guard(middleware.JSONRequired), h.UpdateProfile)
		clinician.GET("/stats", h.Stats)

		admin := api.Group("/admin", guard(middleware.LoginRequired, middleware.AdminRequired))
		admin.GET("/clinicians", h.ListClinicians)
		admin.POST("/clinicians/:id/verify", h.VerifyClinician)
	}

	return r
}

// Health reports database reachability.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		h.logger.Warn().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		// Credentials cannot be combined with a wildcard origin, so echo the caller's.
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func limitBodySize(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
