package routes

import (
	"github.com/gin-gonic/gin"
)

// InvestmentHandlers is the handler set behind /investments
type InvestmentHandlers interface {
	ListInvestments(c *gin.Context)
	GetInvestment(c *gin.Context)
	GetTVPI(c *gin.Context)
	CreateInvestment(c *gin.Context)
	DeleteInvestment(c *gin.Context)
}

// RegisterInvestmentRoutes mounts the investment resource on router
func RegisterInvestmentRoutes(router *gin.RouterGroup, h InvestmentHandlers) {
	investments := router.Group("/investments")
	{
		investments.GET("", h.ListInvestments)
		investments.POST("", h.CreateInvestment)
		investments.GET("/:id", h.GetInvestment)
		investments.GET("/:id/tvpi", h.GetTVPI)
		investments.DELETE("/:id", h.DeleteInvestment)
	}
}
