package app

import (
	"payhook/pkg/logger"
	"payhook/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		metrics.GinMiddleware(),
		logger.CorrelationMiddleware(),
		logger.RequestLogger(),
		gin.Recovery(),
	)
	return engine
}
