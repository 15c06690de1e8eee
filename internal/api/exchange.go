package api

import (
	"errors"
	"net/http"

	"launchpad_backend/internal/service"
	"launchpad_backend/pkg/auth"
	"launchpad_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type exchangeRoutes struct {
	exchange *service.ExchangeService
}

func NewExchangeRoutes(handler *gin.RouterGroup, exchange *service.ExchangeService, a *auth.APIKeyAuth) {
	r := &exchangeRoutes{exchange: exchange}
	h := handler.Group("/exchange")
	{
		h.GET("/:base/:target", r.GetExchangeData)
	}

	admin := handler.Group("/admin/exchange")
	admin.Use(a.APIKeyMiddleware())
	{
		admin.POST("/refresh", r.RefreshCachedPairs)
	}
}

func (r *exchangeRoutes) GetExchangeData(c *gin.Context) {
	log := logger.Logger()

	base := c.Param("base")
	target := c.Param("target")

	data, err := r.exchange.GetExchangeData(c.Request.Context(), base, target)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedCurrencyPair) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported currency pair"})
			return
		}
		log.Error("failed to get exchange data", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get exchange data"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// RefreshCachedPairs force-refreshes every supported pair, bypassing TTLs.
func (r *exchangeRoutes) RefreshCachedPairs(c *gin.Context) {
	log := logger.Logger()

	refreshed, err := r.exchange.RefreshCachedPairs(c.Request.Context())
	if err != nil {
		log.Error("failed to refresh exchange cache", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to refresh exchange cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"refreshed": refreshed})
}
