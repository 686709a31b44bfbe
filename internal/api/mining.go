package api

import (
	"errors"
	"net/http"

	"TON_rewards_miniapp/internal/service"
	"TON_rewards_miniapp/pkg/auth"
	"TON_rewards_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type miningRoutes struct {
	ms service.MiningServiceI
	a  *auth.TelegramAuth
}

func NewMiningRoutes(handler *gin.RouterGroup, ms service.MiningServiceI, a *auth.TelegramAuth) {
	r := &miningRoutes{ms: ms, a: a}
	h := handler.Group("/mining")
	h.Use(a.TelegramAuthMiddleware())

	h.POST("/start", r.start)
	h.GET("/status", r.status)
	h.POST("/claim", r.claim)
}

type MiningStatusResponse struct {
	Active          bool  `json:"active"`
	MinutesAccrued  int   `json:"minutes_accrued"`
	SessionComplete bool  `json:"session_complete"`
	StartedAt       int64 `json:"started_at,omitempty"`
}

type MiningClaimResponse struct {
	Success bool   `json:"success"`
	Minutes int    `json:"minutes"`
	Error   string `json:"error,omitempty"`
}

func (r *miningRoutes) start(c *gin.Context) {
	log := logger.Logger()

	u, ok := telegramUserFromContext(c)
	if !ok {
		return
	}

	err := r.ms.Start(c.Request.Context(), u.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrMiningInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "mining session already in progress"})
		default:
			log.Error("failed to start mining", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start mining"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (r *miningRoutes) status(c *gin.Context) {
	log := logger.Logger()

	u, ok := telegramUserFromContext(c)
	if !ok {
		return
	}

	status, err := r.ms.Status(c.Request.Context(), u.ID)
	if err != nil {
		log.Error("failed to get mining status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get mining status"})
		return
	}

	response := MiningStatusResponse{
		Active:          status.Active,
		MinutesAccrued:  status.MinutesAccrued,
		SessionComplete: status.SessionComplete,
	}
	if status.StartedAt != nil {
		response.StartedAt = status.StartedAt.Unix()
	}

	c.JSON(http.StatusOK, response)
}

func (r *miningRoutes) claim(c *gin.Context) {
	log := logger.Logger()

	u, ok := telegramUserFromContext(c)
	if !ok {
		return
	}

	minutes, err := r.ms.Claim(c.Request.Context(), u.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMiningNotStarted):
			c.JSON(http.StatusBadRequest, MiningClaimResponse{
				Success: false,
				Error:   "no mining session to claim",
			})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, MiningClaimResponse{
				Success: false,
				Error:   "user not found",
			})
		default:
			log.Error("failed to claim mining session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, MiningClaimResponse{
				Success: false,
				Error:   "failed to claim mining session",
			})
		}
		return
	}

	c.JSON(http.StatusOK, MiningClaimResponse{
		Success: true,
		Minutes: minutes,
	})
}
