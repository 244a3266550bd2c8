package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slingshot/slingshot/internal/config"
	"github.com/slingshot/slingshot/internal/errors"
	"github.com/slingshot/slingshot/internal/logging"
	"github.com/slingshot/slingshot/internal/metrics"
	"github.com/slingshot/slingshot/internal/oauth"
	"github.com/slingshot/slingshot/internal/store"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// Exchanger drives the Google consent flow for the auth handlers.
// Satisfied by oauth.Service; tests substitute a fake.
type Exchanger interface {
	AuthorizationURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	TokenSource(ctx context.Context, accessToken, refreshToken string, expiresAt *time.Time) oauth2.TokenSource
}

var _ Exchanger = (*oauth.Service)(nil)

// Server represents the HTTP API server
type Server struct {
	router      *gin.Engine
	config      config.Config
	store       store.Store
	oauthSvc    Exchanger
	googleOpts  []option.ClientOption
	metrics     *metrics.Metrics
	logger      *logging.Logger
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
}

// Router returns the gin router for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

// NewServer creates a new API server. Extra client options are passed
// through to the Google report clients, which lets tests point them at
// fake endpoints.
func NewServer(cfg config.Config, st store.Store, oauthSvc Exchanger, opts ...option.ClientOption) *Server {
	gin.SetMode(gin.ReleaseMode)

	// Initialize metrics and logger
	m := metrics.NewMetrics("slingshot")
	logger := logging.NewLogger()

	// Initialize rate limiter from config with sane defaults
	requestsPerMinute := cfg.API.RateLimit.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1000
	}
	burst := cfg.API.RateLimit.Burst
	if burst <= 0 {
		burst = 100
	}
	rateLimiter := newIPRateLimiter(time.Minute/time.Duration(requestsPerMinute), burst)

	server := &Server{
		router:      gin.New(),
		config:      cfg,
		store:       st,
		oauthSvc:    oauthSvc,
		googleOpts:  opts,
		metrics:     m,
		logger:      logger,
		rateLimiter: rateLimiter,
	}
	server.router.HandleMethodNotAllowed = true

	// Add recovery middleware with logging
	server.router.Use(gin.Recovery())

	// Add rate limiting middleware
	server.router.Use(rateLimitMiddleware(rateLimiter))

	// Add body size limit (1MB)
	server.router.Use(bodyLimitMiddleware(1 << 20))

	// Add CORS middleware when enabled
	if cfg.API.CORS.Enabled {
		server.router.Use(corsMiddleware(cfg.API.CORS.Origins))
	}

	// Add metrics and logging middleware
	server.router.Use(metrics.Middleware(m, logger))

	// Add logging middleware for structured logs
	server.router.Use(loggingMiddleware(logger))

	server.setupRoutes()
	return server
}

// loggingMiddleware provides structured logging for all requests
func loggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Get or generate correlation ID
		correlationID := c.GetHeader("X-Correlation-ID")
		if correlationID == "" {
			correlationID = logging.GenerateCorrelationID()
		}

		// Add to context
		ctx := logging.WithCorrelationID(c.Request.Context(), correlationID)
		c.Request = c.Request.WithContext(ctx)

		// Process request
		c.Next()

		// Log request completion
		duration := time.Since(start).Seconds()
		logger.InfoWithContext(ctx, "request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_seconds", duration,
		)
	}
}

// corsMiddleware answers preflight requests and stamps allowed origins.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (len(allowed) == 0 || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key, X-Refresh-Token, X-Correlation-ID")
			c.Header("Access-Control-Max-Age", "600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint - NO authentication required
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Health check - NO authentication required
	s.router.GET("/health", s.handleHealth)

	// Create auth middleware based on configuration
	authMiddleware := APIKeyAuth(s.config.API.Auth, s.logger)

	// OAuth callback - NO authentication. Google's browser redirect
	// cannot carry an API key; the single-use state consumed by the
	// handler already binds the request to the user who started the flow.
	s.router.GET("/auth/google/callback", s.handleAuthCallback)

	// OAuth consent flow and token management - require authentication
	authGroup := s.router.Group("/auth")
	authGroup.Use(authMiddleware)
	{
		authGroup.GET("/google", s.handleAuthStart)
		authGroup.POST("/google-tokens", s.handleStoreTokens)
		authGroup.GET("/google-tokens", s.handleTokenStatus)
		authGroup.DELETE("/google-tokens", s.handleDeleteTokens)
	}

	// Analytics endpoints - require authentication
	ga4Group := s.router.Group("/api/analytics/google/ga4")
	ga4Group.Use(authMiddleware)
	{
		ga4Group.GET("/properties", s.handleGA4Properties)
		ga4Group.GET("/realtime/:propertyId", s.handleGA4Realtime)
		ga4Group.GET("/report/:propertyId", s.handleGA4Report)
		ga4Group.GET("/top-pages/:propertyId", s.handleGA4TopPages)
	}

	// Search Console endpoints - require authentication
	gscGroup := s.router.Group("/api/analytics/google/gsc")
	gscGroup.Use(authMiddleware)
	{
		gscGroup.GET("/sites", s.handleGSCSites)
		gscGroup.GET("/search-analytics", s.handleGSCSearchAnalytics)
		gscGroup.GET("/top-queries", s.handleGSCTopQueries)
		gscGroup.GET("/top-pages", s.handleGSCTopPages)
		gscGroup.GET("/timeseries", s.handleGSCTimeSeries)
		gscGroup.GET("/countries", s.handleGSCCountries)
		gscGroup.GET("/sitemaps", s.handleGSCSitemaps)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.HTTPPort)

	// Create http server if not already created
	if s.httpServer == nil {
		s.httpServer = NewHTTPServer(addr, s.router)
	}

	s.logger.Info("starting HTTP server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("initiating graceful shutdown")

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	// Stop accepting new connections
	if s.httpServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.logger.Info("shutting down HTTP server")
			if err := s.httpServer.Shutdown(ctx); err != nil {
				s.logger.Error("HTTP server shutdown error", "error", err.Error())
				errs <- &errors.ErrServerShutdown{Err: err}
			}
		}()
	}

	// Close store connections
	if s.store != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.store.Close(); err != nil {
				errs <- fmt.Errorf("store close: %w", err)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	close(errs)
	var errList []error
	for err := range errs {
		if err != nil {
			errList = append(errList, err)
		}
	}
	if len(errList) > 0 {
		return fmt.Errorf("shutdown errors: %v", errList)
	}

	s.logger.Info("graceful shutdown completed")
	return nil
}

// handleHealth returns health status
func (s *Server) handleHealth(c *gin.Context) {
	stats := s.store.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"credentials": stats.CredentialCount,
	})
}
