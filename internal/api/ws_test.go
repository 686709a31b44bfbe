package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMiningService struct {
	status *model.MiningStatus
}

func (s *stubMiningService) Start(ctx context.Context, telegramID int64) error { return nil }

func (s *stubMiningService) Status(ctx context.Context, telegramID int64) (*model.MiningStatus, error) {
	return s.status, nil
}

func (s *stubMiningService) Claim(ctx context.Context, telegramID int64) (int, error) {
	return 0, nil
}

func TestMiningSocket_ReconnectKeepsNewConnectionRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1")
	NewMiningSocketRoutes(group, &stubMiningService{
		status: &model.MiningStatus{Active: true, MinutesAccrued: 5},
	}, auth.NewTelegramAuth("test-token", true))

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws/42"

	first, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	second, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer second.Close()

	// Closing the replaced connection must not unregister its successor.
	first.Close()
	time.Sleep(100 * time.Millisecond)

	socketsMutex.RLock()
	_, registered := activeSockets[42]
	socketsMutex.RUnlock()
	assert.True(t, registered, "new connection must stay registered after the old one closes")

	require.NoError(t, second.WriteJSON(Message{Type: "mining_status"}))
	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))

	var reply Message
	require.NoError(t, second.ReadJSON(&reply))
	assert.Equal(t, "mining_status", reply.Type)
	assert.Equal(t, true, reply.Payload["active"])
}
