package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/medisave/internal/core/ports/services"
	"github.com/SscSPs/medisave/internal/dto"
	"github.com/gin-gonic/gin"
)

func registerBalanceRoutes(rg *gin.RouterGroup, bs portssvc.BalanceSvc) {
	rg.GET("/balance", func(c *gin.Context) { getBalance(c, bs) })
}

// getBalance godoc
// @Summary Account balance and session spend
// @Description accountBalance is null when the bank API is not configured or did not answer
// @Tags balance
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Security BearerAuth
// @Router /balance [get]
func getBalance(c *gin.Context, bs portssvc.BalanceSvc) {
	c.JSON(http.StatusOK, dto.ToBalanceResponse(bs.Balance(c.Request.Context())))
}
