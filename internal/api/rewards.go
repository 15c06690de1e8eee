package api

import (
	"errors"
	"net/http"

	"launchpad_backend/internal/service"
	"launchpad_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type rewardsRoutes struct {
	rewards *service.RewardsService
}

func NewRewardsRoutes(handler *gin.RouterGroup, rewards *service.RewardsService) {
	r := &rewardsRoutes{rewards: rewards}
	h := handler.Group("/rewards")
	{
		h.GET("/:project_id/:address", r.GetAccruedRewards)
	}
}

func (r *rewardsRoutes) GetAccruedRewards(c *gin.Context) {
	log := logger.Logger()

	rewards, err := r.rewards.GetAccruedRewards(c.Request.Context(), c.Param("address"), c.Param("project_id"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		log.Error("failed to get accrued rewards", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get accrued rewards"})
		return
	}

	c.JSON(http.StatusOK, rewards)
}
