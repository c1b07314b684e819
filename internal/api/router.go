package api

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"hourmeter-backend/config"
	"hourmeter-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	// Listings are cached until the TTL expires or any mutation succeeds.
	responses := mw.NewResponseCache(cfg.CacheTTL)
	caching := responses.Cache()

	api := r.Group("/api")
	if cfg.RateLimitPerSec > 0 {
		api.Use(mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))
	}
	api.Use(responses.Invalidate())
	{
		api.GET("/clients", caching, h.ListClients)
		api.POST("/clients", h.CreateClient)
		api.DELETE("/clients/:id", h.DeleteClient)

		api.GET("/machines", caching, h.ListMachines)
		api.POST("/machines", h.CreateMachine)
		api.DELETE("/machines/:id", h.DeleteMachine)

		api.GET("/sessions", caching, h.ListSessions)
		api.POST("/sessions", h.CreateSession)
		api.DELETE("/sessions/:id", h.DeleteSession)

		// Reports carry their issue time and are never cached.
		api.GET("/sessions/:id/report", h.GetReport)
		api.GET("/sessions/:id/report.pdf", h.GetReportPDF)
		api.DELETE("/sessions/:id/reports", h.DeleteReports)

		api.GET("/alarms", caching, h.GetAlarms)
		api.GET("/summary", caching, h.GetSummary)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
