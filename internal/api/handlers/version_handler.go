package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/investment-service/investment_service/pkg/version"
)

// VersionHandler reports build information
// @Summary Get build information
// @Tags health
// @Produce json
// @Success 200 {object} version.Info
// @Router /version [get]
func VersionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	}
}
