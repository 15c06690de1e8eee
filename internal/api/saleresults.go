package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"launchpad_backend/internal/service"
	"launchpad_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const saleProgressInterval = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type saleResultsRoutes struct {
	results *service.SaleResultsService
}

func NewSaleResultsRoutes(handler *gin.RouterGroup, results *service.SaleResultsService) {
	r := &saleResultsRoutes{results: results}
	h := handler.Group("/projects")
	{
		h.GET("/:project_id/sale-results", r.GetSaleResults)
		h.GET("/participants", r.GetParticipantCounts)
	}

	handler.GET("/ws/sale-results/:project_id", r.StreamSaleResults)
}

func (r *saleResultsRoutes) GetSaleResults(c *gin.Context) {
	log := logger.Logger()

	results, err := r.results.GetSaleResults(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		log.Error("failed to get sale results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get sale results"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetParticipantCounts serves the overview page: distinct depositor counts
// for a comma-separated list of project ids.
func (r *saleResultsRoutes) GetParticipantCounts(c *gin.Context) {
	log := logger.Logger()

	ids := strings.Split(c.Query("ids"), ",")
	if len(ids) == 1 && ids[0] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids query parameter is required"})
		return
	}

	counts, err := r.results.GetParticipantCounts(c.Request.Context(), ids)
	if err != nil {
		log.Error("failed to get participant counts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get participant counts"})
		return
	}

	c.JSON(http.StatusOK, counts)
}

// StreamSaleResults pushes the aggregated sale results over a websocket every
// few seconds until the client disconnects.
func (r *saleResultsRoutes) StreamSaleResults(c *gin.Context) {
	log := logger.Logger()
	projectID := c.Param("project_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	// Reads are discarded; the read loop only notices the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(saleProgressInterval)
	defer ticker.Stop()

	for {
		results, err := r.results.GetSaleResults(c.Request.Context(), projectID)
		if err != nil {
			log.Error("failed to get sale results for stream",
				zap.String("project_id", projectID),
				zap.Error(err))
			conn.WriteJSON(gin.H{"error": "failed to get sale results"})
			return
		}

		if err := conn.WriteJSON(results); err != nil {
			return
		}

		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
