// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dealernetworks/opsboard-backend/internal/api/handlers"
	"github.com/dealernetworks/opsboard-backend/internal/api/middleware"
	"github.com/dealernetworks/opsboard-backend/internal/repository"
	"github.com/dealernetworks/opsboard-backend/internal/service"
)

type Services struct {
	OutlookService *service.OutlookService
	ConfigRepo     repository.ConfigRepository
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.OutlookService != nil {
			outlookHandler := handlers.NewOutlookHandler(services.OutlookService)
			outlookGroup := apiGroup.Group("/outlook")
			{
				outlookGroup.GET("", outlookHandler.GetOutlook)
				outlookGroup.GET("/gaps", outlookHandler.GetGaps)
				outlookGroup.GET("/gaps/debug", outlookHandler.GetGapsDebug)
				outlookGroup.GET("/transit", outlookHandler.GetInTransit)
				outlookGroup.GET("/status", outlookHandler.GetStatus)
				outlookGroup.GET("/archive", outlookHandler.GetArchivedReports)
				outlookGroup.GET("/archive/:name", outlookHandler.GetArchivedReport)
			}
			apiGroup.GET("/targets/highlights", outlookHandler.GetTargetHighlights)
		}

		if services.ConfigRepo != nil && services.OutlookService != nil {
			configHandler := handlers.NewConfigHandler(services.ConfigRepo, services.OutlookService)
			configGroup := apiGroup.Group("/config")
			{
				configGroup.GET("/dealers", configHandler.GetDealers)
				configGroup.PUT("/dealers", configHandler.PutDealer)
				configGroup.GET("/tiers/rules", configHandler.GetTierRules)
				configGroup.PUT("/tiers/rules", configHandler.PutTierRule)
				configGroup.GET("/tiers/models", configHandler.GetModelTiers)
				configGroup.PUT("/tiers/models", configHandler.PutModelTiers)
				configGroup.GET("/targets", configHandler.GetRangeTargets)
				configGroup.PUT("/targets", configHandler.PutRangeTargets)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
