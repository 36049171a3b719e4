package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fitness-schedule-proxy/internal/cache"
	"fitness-schedule-proxy/internal/config"
	"fitness-schedule-proxy/internal/logger"
	"fitness-schedule-proxy/internal/middleware"
	"fitness-schedule-proxy/internal/models"
	"fitness-schedule-proxy/internal/ratelimit"
	"fitness-schedule-proxy/internal/sanitize"
	"fitness-schedule-proxy/internal/upstream"
)

// ClassesFetcher is the upstream gateway surface the handlers depend on.
type ClassesFetcher interface {
	FetchClasses(ctx context.Context, startDate, endDate, clubID string) ([]any, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	configuration *config.Config
	logger        *logger.Logger
	rateLimiter   *ratelimit.Limiter
	classesCache  *cache.Cache
	fetcher       ClassesFetcher
}

// HandlerConfig bundles the dependencies for NewHandlers
type HandlerConfig struct {
	Configuration *config.Config
	Logger        *logger.Logger
	RateLimiter   *ratelimit.Limiter
	Cache         *cache.Cache
	Fetcher       ClassesFetcher
}

// NewHandlers creates a new handlers instance
func NewHandlers(handlerConfig HandlerConfig) *Handlers {
	return &Handlers{
		configuration: handlerConfig.Configuration,
		logger:        handlerConfig.Logger,
		rateLimiter:   handlerConfig.RateLimiter,
		classesCache:  handlerConfig.Cache,
		fetcher:       handlerConfig.Fetcher,
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestID())
	if corsHandler := middleware.CORS(handlers.configuration); corsHandler != nil {
		router.Use(corsHandler)
	}

	router.GET("/health", handlers.HealthCheck)
	router.GET("/api/classes", handlers.GetClasses)
	router.GET("/widget", handlers.WidgetDemo)

	return router
}

// HealthCheck handles health check requests
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	context.JSON(http.StatusOK, models.HealthResponse{OK: true})
}

// GetClasses serves the sanitized schedule for a date range. The request is
// admitted through the rate limiter, answered from cache when fresh, and
// otherwise fetched upstream, sanitized and cached.
func (handlers *Handlers) GetClasses(context *gin.Context) {
	startDate := context.Query("start_date")
	endDate := context.Query("end_date")
	clubID := context.Query("club_id")

	if startDate == "" || endDate == "" {
		handlers.writeErrorResponse(context, http.StatusBadRequest,
			"missing required parameters", "start_date and end_date are required")
		return
	}

	clientKey := ratelimit.ClientIP(context.Request)
	admission := handlers.rateLimiter.Check(clientKey)
	if !admission.Allowed {
		handlers.logger.Warnf("Rate limit exceeded for client: %s", clientKey)
		context.Header("Retry-After", strconv.Itoa(admission.ResetSeconds))
		context.Header("X-RateLimit-Limit", strconv.Itoa(handlers.rateLimiter.Limit()))
		context.Header("X-RateLimit-Remaining", "0")
		handlers.writeErrorResponse(context, http.StatusTooManyRequests,
			"too many requests", "")
		return
	}

	cacheKey := cache.NewKey(startDate, endDate, clubID)
	if cached, ok := handlers.classesCache.Get(cacheKey); ok {
		handlers.writeClasses(context, cached, "HIT", admission.Remaining)
		return
	}

	raw, err := handlers.fetcher.FetchClasses(context.Request.Context(), startDate, endDate, clubID)
	if err != nil {
		handlers.writeUpstreamFailure(context, err)
		return
	}

	sanitized := make([]models.SanitizedClass, 0, len(raw))
	for _, item := range raw {
		record, ok := item.(map[string]any)
		if !ok {
			// non-object entries are dropped rather than failing the batch
			continue
		}
		sanitized = append(sanitized, sanitize.Class(record))
	}

	handlers.classesCache.Put(cacheKey, sanitized)
	handlers.writeClasses(context, sanitized, "MISS", admission.Remaining)
}

// writeClasses sends a sanitized result set with the cache marker and the
// caller's remaining rate-limit quota.
func (handlers *Handlers) writeClasses(context *gin.Context, classes []models.SanitizedClass, cacheStatus string, remaining int) {
	context.Header("Cache-Control", "no-store")
	context.Header("X-Cache", cacheStatus)
	context.Header("X-RateLimit-Limit", strconv.Itoa(handlers.rateLimiter.Limit()))
	context.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	context.JSON(http.StatusOK, classes)
}

// writeUpstreamFailure maps any fetch failure to a 502. Full detail is
// always logged; the response body stays generic unless the debug flag is
// on, so upstream internals never leak to browsers by default.
func (handlers *Handlers) writeUpstreamFailure(context *gin.Context, err error) {
	errorResponse := models.ErrorResponse{
		Error: "upstream fitness API error",
		Code:  http.StatusBadGateway,
	}

	var upstreamErr *upstream.Error
	switch {
	case errors.As(err, &upstreamErr):
		handlers.logger.WithFields(map[string]interface{}{
			"status_code": upstreamErr.StatusCode,
			"url":         upstreamErr.URL,
			"body":        upstreamErr.Body,
		}).Error("Failed to fetch classes from upstream")
		if handlers.configuration.DebugUpstreamErrors {
			errorResponse.Upstream = &models.UpstreamDetail{
				StatusCode: upstreamErr.StatusCode,
				URL:        upstreamErr.URL,
				Body:       upstreamErr.Body,
			}
		}
	case errors.Is(err, upstream.ErrUnexpectedShape):
		handlers.logger.Errorf("Upstream returned an uninterpretable payload: %v", err)
	default:
		handlers.logger.Errorf("Failed to fetch classes (unexpected): %v", err)
	}

	context.JSON(http.StatusBadGateway, errorResponse)
}

// writeErrorResponse writes an error response using Gin context
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorMessage, errorDetails string) {
	errorResponse := models.ErrorResponse{
		Error:   errorMessage,
		Message: errorDetails,
		Code:    statusCode,
	}

	context.JSON(statusCode, errorResponse)
}
