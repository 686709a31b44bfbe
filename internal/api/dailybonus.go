package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"TON_rewards_miniapp/internal/service"
	"TON_rewards_miniapp/pkg/auth"
	"TON_rewards_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type dailyBonusRoutes struct {
	ds service.DailyBonusServiceI
	a  *auth.TelegramAuth
}

func NewDailyBonusRoutes(handler *gin.RouterGroup, ds service.DailyBonusServiceI, a *auth.TelegramAuth) {
	r := &dailyBonusRoutes{ds: ds, a: a}
	h := handler.Group("/dailybonus")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.GET("/:telegram_id", r.GetDailyBonusStatus)
		h.POST("/:telegram_id", r.ClaimDailyBonus)
	}
}

type DayRewardResponse struct {
	Day     int `json:"day"`
	Minutes int `json:"minutes"`
}

type DailyBonusStatusResponse struct {
	UserTelegramID         int64               `json:"user_telegram_id"`
	LastClaimedAt          *time.Time          `json:"last_claimed_at,omitempty"`
	NextClaimAvailable     *time.Time          `json:"next_claim_available,omitempty"`
	IsAvailable            bool                `json:"is_available"`
	HasNeverBeenClaimed    bool                `json:"has_never_been_claimed"`
	ConsecutiveDaysClaimed int                 `json:"consecutive_days_claimed"`
	DailyRewards           []DayRewardResponse `json:"daily_rewards"`
}

func (r *dailyBonusRoutes) GetDailyBonusStatus(c *gin.Context) {
	log := logger.Logger()

	telegramID := c.Param("telegram_id")
	id, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		log.Error("failed to parse telegram_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram_id"})
		return
	}

	status, err := r.ds.GetStatus(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to get daily bonus status", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get daily bonus status"})
		return
	}

	rewards := make([]DayRewardResponse, len(status.DailyRewards))
	for i, reward := range status.DailyRewards {
		rewards[i] = DayRewardResponse{
			Day:     reward.Day,
			Minutes: reward.Minutes,
		}
	}

	response := DailyBonusStatusResponse{
		UserTelegramID:         status.UserTelegramID,
		LastClaimedAt:          status.LastClaimedAt,
		NextClaimAvailable:     status.NextClaimAvailable,
		IsAvailable:            status.IsAvailable,
		HasNeverBeenClaimed:    status.HasNeverBeenClaimed,
		ConsecutiveDaysClaimed: status.ConsecutiveDaysClaimed,
		DailyRewards:           rewards,
	}

	c.JSON(http.StatusOK, response)
}

func (r *dailyBonusRoutes) ClaimDailyBonus(c *gin.Context) {
	log := logger.Logger()

	telegramID := c.Param("telegram_id")
	id, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		log.Error("failed to parse telegram_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram_id"})
		return
	}

	err = r.ds.Claim(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to claim daily bonus", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrClaimNotAvailable):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "The required time has not yet passed since your last claim",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim daily bonus"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
