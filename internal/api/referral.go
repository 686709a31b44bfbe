package api

import (
	"errors"
	"net/http"
	"strconv"

	"TON_rewards_miniapp/internal/service"
	"TON_rewards_miniapp/pkg/auth"
	"TON_rewards_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type referralRoutes struct {
	rs service.ReferralServiceI
	a  *auth.TelegramAuth
}

func NewReferralRoutes(handler *gin.RouterGroup, rs service.ReferralServiceI, a *auth.TelegramAuth) {
	r := &referralRoutes{rs: rs, a: a}
	h := handler.Group("/referrals")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.POST("/", r.RegisterReferral)
		h.GET("/:telegram_id", r.GetReferrals)
	}
}

type RegisterReferralRequest struct {
	ReferrerID int64 `json:"referrer_id" binding:"required"`
	ReferredID int64 `json:"referred_id" binding:"required"`
}

func (r *referralRoutes) RegisterReferral(c *gin.Context) {
	log := logger.Logger()

	var req RegisterReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := r.rs.RegisterReferral(c.Request.Context(), req.ReferrerID, req.ReferredID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateReferral):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSelfReferral):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			log.Error("failed to register referral", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "pending",
	})
}

func (r *referralRoutes) GetReferrals(c *gin.Context) {
	log := logger.Logger()

	telegramID := c.Param("telegram_id")
	id, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram_id"})
		return
	}

	referrals, err := r.rs.GetReferralsByReferrer(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to get referrals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get referrals"})
		return
	}

	var response []gin.H
	for _, ref := range referrals {
		response = append(response, gin.H{
			"referred_id": ref.ReferredID,
			"status":      ref.Status,
			"created_at":  ref.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}
