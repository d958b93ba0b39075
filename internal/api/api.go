// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Yahiahu/SCM-sub000/internal/api/handlers"
	"github.com/Yahiahu/SCM-sub000/internal/api/middleware"
	"github.com/Yahiahu/SCM-sub000/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	POService *service.POService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
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

	if services != nil && services.POService != nil {
		poHandler := handlers.NewPOHandler(services.POService)
		poGroup := apiGroup.Group("/purchase-orders")
		{
			poGroup.GET("", poHandler.ListPurchaseOrders)
			poGroup.POST("", poHandler.CreatePurchaseOrder)
			poGroup.GET("/summary", poHandler.GetSummary)
			poGroup.GET("/:id", poHandler.GetPurchaseOrder)
			poGroup.DELETE("/:id", poHandler.DeletePurchaseOrder)
			poGroup.POST("/:id/actions", poHandler.ApplyAction)

			analyticsGroup := poGroup.Group("/analytics")
			{
				analyticsGroup.GET("/aging", poHandler.GetPOAging)
				analyticsGroup.GET("/suppliers", poHandler.GetSupplierPerformance)
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
