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

type paymentRoutes struct {
	ps *service.PaymentService
	a  *auth.TelegramAuth
}

func NewPaymentRoutes(handler *gin.RouterGroup, ps *service.PaymentService, a *auth.TelegramAuth) {
	r := &paymentRoutes{ps: ps, a: a}
	h := handler.Group("/payments")
	h.Use(a.TelegramAuthMiddleware())

	h.POST("/verify", r.VerifyPayment)
}

type VerifyPaymentRequest struct {
	// Address is optional; the user's connected wallet is used when omitted.
	Address   string  `json:"address"`
	AmountTON float64 `json:"amount_ton" binding:"required,gt=0"`
}

type VerifyPaymentResponse struct {
	Verified bool `json:"verified"`
}

// VerifyPayment answers "confirmed yet?". An unverified result is not an
// error; clients are expected to poll.
func (r *paymentRoutes) VerifyPayment(c *gin.Context) {
	log := logger.Logger()

	u, ok := telegramUserFromContext(c)
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	verified, err := r.ps.VerifyDeposit(c.Request.Context(), u.ID, req.Address, req.AmountTON)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWalletNotConnected):
			c.JSON(http.StatusBadRequest, gin.H{"error": "wallet not connected"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			log.Error("failed to verify payment", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify payment"})
		}
		return
	}

	c.JSON(http.StatusOK, VerifyPaymentResponse{Verified: verified})
}
