package api

import (
	"net/http"

	"launchpad_backend/internal/service"
	"launchpad_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type balanceRoutes struct {
	balances *service.BalanceService
}

func NewBalanceRoutes(handler *gin.RouterGroup, balances *service.BalanceService) {
	r := &balanceRoutes{balances: balances}
	h := handler.Group("/balances")
	{
		h.GET("/:address/:mint", r.GetTokenBalance)
	}
}

// GetTokenBalance reports a wallet's balance of one token. Served through a
// cache, so it can lag the chain by up to the cache TTL.
func (r *balanceRoutes) GetTokenBalance(c *gin.Context) {
	log := logger.Logger()

	amount, err := r.balances.GetTokenBalance(c.Request.Context(), c.Param("address"), c.Param("mint"))
	if err != nil {
		log.Error("failed to get token balance", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get token balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uiAmount": amount})
}
