package api

import (
	"errors"
	"net/http"

	"launchpad_backend/internal/service"
	"launchpad_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type eligibilityRoutes struct {
	eligibility service.EligibilitySource
	snapshots   *service.SnapshotService
}

func NewEligibilityRoutes(handler *gin.RouterGroup, eligibility service.EligibilitySource, snapshots *service.SnapshotService) {
	r := &eligibilityRoutes{eligibility: eligibility, snapshots: snapshots}
	h := handler.Group("/eligibility")
	{
		h.GET("/:project_id/:address", r.GetEligibilityStatus)
		h.GET("/:project_id/:address/snapshot", r.GetEligibilitySnapshot)
	}
}

// GetEligibilityStatus evaluates the wallet live against the project's
// current quest configuration.
func (r *eligibilityRoutes) GetEligibilityStatus(c *gin.Context) {
	log := logger.Logger()

	projectID := c.Param("project_id")
	address := c.Param("address")

	status, err := r.eligibility.GetEligibilityStatus(c.Request.Context(), address, projectID)
	if err != nil {
		log.Error("failed to get eligibility status", zap.Error(err))
		if errors.Is(err, service.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get eligibility status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetEligibilitySnapshot returns the frozen status, which may differ from a
// live evaluation once the user's quest progress changes.
func (r *eligibilityRoutes) GetEligibilitySnapshot(c *gin.Context) {
	log := logger.Logger()

	projectID := c.Param("project_id")
	address := c.Param("address")

	status, err := r.snapshots.GetSnapshot(c.Request.Context(), address, projectID)
	if err != nil {
		if errors.Is(err, service.ErrSnapshotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
			return
		}
		log.Error("failed to get eligibility snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get eligibility snapshot"})
		return
	}

	c.JSON(http.StatusOK, status)
}
