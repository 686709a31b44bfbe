package middleware

import (
	"errors"
	"net/http"

	"TON_rewards_miniapp/internal/service"
	"TON_rewards_miniapp/pkg/auth"
	"TON_rewards_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type Authorization struct {
	userService service.UserServiceI
}

func NewAuthorization(userService service.UserServiceI) *Authorization {
	return &Authorization{
		userService: userService,
	}
}

// AdminOnly gates a route group on the is_admin flag of the registered user.
// Unregistered callers get the same 403 as non-admins so the response does
// not reveal whether an account exists.
func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		userData, exists := c.Get("telegram_user")
		if !exists {
			log.Error("telegram user data not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		telegramUser, ok := userData.(*auth.TelegramUserData)
		if !ok {
			log.Error("invalid type assertion for telegram user data")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		user, err := a.userService.GetUserByTelegramID(c.Request.Context(), telegramUser.ID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				log.Info("admin check for unregistered user",
					zap.Int64("telegram_id", telegramUser.ID))
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
				return
			}
			log.Error("failed to resolve user for admin check", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if !user.IsAdmin {
			log.Info("unauthorized access attempt to admin endpoint",
				zap.Int64("telegram_id", telegramUser.ID),
				zap.String("username", user.Username),
				zap.String("membership_level", string(user.MembershipLevel())))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}
