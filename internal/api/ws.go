package api

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"TON_rewards_miniapp/internal/service"
	"TON_rewards_miniapp/pkg/auth"
	"TON_rewards_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

type miningSocketRoutes struct {
	ms service.MiningServiceI
	a  *auth.TelegramAuth
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const statusPushInterval = 30 * time.Second

type miningSocket struct {
	playerID int64
	conn     *websocket.Conn
	mu       sync.Mutex
}

type Message struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

var (
	activeSockets = make(map[int64]*miningSocket)
	socketsMutex  sync.RWMutex
)

func NewMiningSocketRoutes(handler *gin.RouterGroup, ms service.MiningServiceI, a *auth.TelegramAuth) {
	r := &miningSocketRoutes{ms: ms, a: a}
	h := handler.Group("/ws")

	h.GET("/:telegram_id", r.handleWebSocket)
}

func (sr *miningSocketRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	uID := c.Param("telegram_id")
	userID, err := strconv.ParseInt(uID, 10, 64)
	if err != nil {
		log.Info("invalid telegram_id on websocket connect", zap.String("telegram_id", uID))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	sock := &miningSocket{
		playerID: userID,
		conn:     conn,
	}

	socketsMutex.Lock()
	activeSockets[userID] = sock
	socketsMutex.Unlock()

	go sr.readLoop(sock)
	go sr.pushLoop(sock)
}

func (sr *miningSocketRoutes) readLoop(sock *miningSocket) {
	log := logger.Logger()

	defer func() {
		sock.conn.Close()
		socketsMutex.Lock()
		// A reconnect may have replaced this socket already; only the
		// current registration gets removed.
		if activeSockets[sock.playerID] == sock {
			delete(activeSockets, sock.playerID)
		}
		socketsMutex.Unlock()
	}()

	for {
		_, msg, err := sock.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Info("websocket unexpected close", zap.Error(err))
			}
			return
		}

		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			log.Info("failed to unmarshal ws message", zap.Error(err))
			continue
		}

		switch message.Type {
		case "mining_status":
			sr.sendStatus(sock)
		default:
			// Unknown message types are ignored.
		}
	}
}

// pushLoop sends an unsolicited status update on a fixed interval so the
// mini-app's progress bar stays fresh without polling.
func (sr *miningSocketRoutes) pushLoop(sock *miningSocket) {
	ticker := time.NewTicker(statusPushInterval)
	defer ticker.Stop()

	for range ticker.C {
		socketsMutex.RLock()
		connected := activeSockets[sock.playerID] == sock
		socketsMutex.RUnlock()
		if !connected {
			return
		}

		sr.sendStatus(sock)
	}
}

func (sr *miningSocketRoutes) sendStatus(sock *miningSocket) {
	log := logger.Logger()

	status, err := sr.ms.Status(context.Background(), sock.playerID)
	if err != nil {
		log.Error("failed to get mining status for ws push", zap.Error(err))
		return
	}

	message := Message{
		Type: "mining_status",
		Payload: map[string]any{
			"active":           status.Active,
			"minutes_accrued":  status.MinutesAccrued,
			"session_complete": status.SessionComplete,
		},
	}

	out, err := json.Marshal(message)
	if err != nil {
		log.Error("failed to marshal ws message", zap.Error(err))
		return
	}

	sock.mu.Lock()
	err = sock.conn.WriteMessage(websocket.TextMessage, out)
	sock.mu.Unlock()
	if err != nil {
		log.Info("failed to write ws message", zap.Error(err))
	}
}
