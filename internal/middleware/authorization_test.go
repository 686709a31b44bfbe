package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/service"
	"TON_rewards_miniapp/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubUserService struct {
	user *model.User
	err  error
}

func (s *stubUserService) RegisterUser(ctx context.Context, user *model.User) error { return nil }

func (s *stubUserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.user, s.err
}

func (s *stubUserService) UpdateUserPoints(ctx context.Context, telegramID int64, points int) error {
	return nil
}

func (s *stubUserService) ConnectWallet(ctx context.Context, telegramID int64, address string) error {
	return nil
}

func (s *stubUserService) GetUserReferrals(ctx context.Context, telegramID int64) ([]*model.UserReferral, error) {
	return nil, nil
}

func (s *stubUserService) GetLeaderboard(ctx context.Context) ([]*model.User, error) {
	return nil, nil
}

func performAdminRequest(us service.UserServiceI, identity *auth.TelegramUserData) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	setIdentity := func(c *gin.Context) {
		if identity != nil {
			c.Set("telegram_user", identity)
		}
	}

	router.GET("/admin", setIdentity, NewAuthorization(us).AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestAuthorization_AdminOnly(t *testing.T) {
	identity := &auth.TelegramUserData{ID: 100, Username: "alice"}

	tests := []struct {
		name         string
		us           *stubUserService
		identity     *auth.TelegramUserData
		expectedCode int
	}{
		{
			name:         "admin passes",
			us:           &stubUserService{user: &model.User{TelegramID: 100, IsAdmin: true}},
			identity:     identity,
			expectedCode: http.StatusOK,
		},
		{
			name:         "non-admin forbidden",
			us:           &stubUserService{user: &model.User{TelegramID: 100}},
			identity:     identity,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "unregistered user gets the same forbidden",
			us:           &stubUserService{err: service.ErrUserNotFound},
			identity:     identity,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "missing identity unauthorized",
			us:           &stubUserService{},
			identity:     nil,
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "backend failure is a server error",
			us:           &stubUserService{err: errors.New("connection refused")},
			identity:     identity,
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performAdminRequest(tt.us, tt.identity)
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
