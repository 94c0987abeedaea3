package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 配置路由
func SetupRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggerMiddleware(logger))
	r.Use(CORSMiddleware())

	api := r.Group("/api/v1")
	{
		payroll := api.Group("/payroll")
		{
			payroll.POST("/calculate", h.Calculate)
			payroll.POST("/batch", h.BatchCalculate)
			payroll.GET("/result", h.GetResult)
			payroll.GET("/list", h.ListResults)
		}

		group := api.Group("/salary-group")
		{
			group.PUT("/items", h.SaveGroupItems)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
