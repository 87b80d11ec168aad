package http

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tidewatch/tidecore/internal/cache"
	"github.com/tidewatch/tidecore/internal/usecase"
)

// SetupRouter builds the Gin engine exposing the tide-prediction core.
func SetupRouter(tideUC *usecase.TideUseCase, extremaCache *cache.ExtremaCache, log zerolog.Logger) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	handler := NewHandler(tideUC, extremaCache, log)

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/v1")
	v1.GET("/constituents", handler.GetConstituents)

	stations := v1.Group("/stations/:id")
	stations.GET("/height", handler.GetHeight)
	stations.GET("/extrema", handler.GetExtrema)
	stations.GET("/curve", handler.GetCurve)

	return router
}
