package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"launchpad_backend/internal/service"
	"launchpad_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type depositRoutes struct {
	deposits *service.DepositService
}

func NewDepositRoutes(handler *gin.RouterGroup, deposits *service.DepositService) {
	r := &depositRoutes{deposits: deposits}
	h := handler.Group("/deposits")
	{
		h.POST("", r.SubmitDeposit)
		h.GET("/:project_id/:address", r.ListUserDeposits)
		h.GET("/:project_id/:address/amount", r.GetUserDepositedAmount)
	}
}

type SubmitDepositRequest struct {
	// SerializedTx is the fully signed transaction, base64 encoded.
	SerializedTx string `json:"serializedTx" binding:"required"`
	ProjectID    string `json:"projectId" binding:"required"`
	Address      string `json:"address" binding:"required"`
	// Amount is the claimed deposit in raw units, as a decimal string.
	Amount string `json:"amount" binding:"required"`
}

func (r *depositRoutes) SubmitDeposit(c *gin.Context) {
	log := logger.Logger()

	var req SubmitDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rawTx, err := base64.StdEncoding.DecodeString(req.SerializedTx)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid serialized transaction"})
		return
	}

	amount, err := strconv.ParseUint(req.Amount, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	deposit, err := r.deposits.SubmitDeposit(c.Request.Context(), service.SubmitDepositInput{
		SerializedTx: rawTx,
		ProjectID:    req.ProjectID,
		Address:      req.Address,
		Amount:       amount,
	})
	if err != nil {
		if saleErr, ok := service.AsSaleValidationError(err); ok {
			c.JSON(http.StatusConflict, gin.H{"errorCode": saleErr.Code})
			return
		}

		log.Error("failed to submit deposit", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		case errors.Is(err, service.ErrTransactionNotConfirmed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "transaction not confirmed"})
		case errors.Is(err, service.ErrMalformedTransaction):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "transaction is not a valid deposit"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit deposit"})
		}
		return
	}

	c.JSON(http.StatusOK, deposit.Data)
}

func (r *depositRoutes) ListUserDeposits(c *gin.Context) {
	log := logger.Logger()

	deposits, err := r.deposits.ListUserDeposits(c.Request.Context(), c.Param("address"), c.Param("project_id"))
	if err != nil {
		log.Error("failed to list deposits", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deposits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}

func (r *depositRoutes) GetUserDepositedAmount(c *gin.Context) {
	log := logger.Logger()

	amount, err := r.deposits.GetUserDepositedAmount(c.Request.Context(), c.Param("address"), c.Param("project_id"))
	if err != nil {
		log.Error("failed to get deposited amount", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get deposited amount"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"amount": strconv.FormatUint(amount, 10)})
}
