// Package realtime streams pass-update events to web preview clients
// over WebSocket. The wallet devices themselves never connect here;
// they poll the PassKit endpoints instead.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"supapass/contribution"
	"supapass/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The preview page is served from another origin.
		return true
	},
}

// Client is one connected preview page, pinned to a single pass.
type Client struct {
	conn   *websocket.Conn
	passID string
}

// Hub tracks connected preview clients and fans pass-update events out
// to the ones watching the updated pass.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]bool
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		logger:  logger,
	}
}

// HandleConnection upgrades the request and keeps the connection open
// until the client goes away. Incoming messages are ignored; the feed
// is one-way.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, passID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{conn: conn, passID: passID}
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	go h.readLoop(client)
	return nil
}

func (h *Hub) readLoop(client *Client) {
	defer func() {
		client.conn.Close()
		h.mu.Lock()
		delete(h.clients, client)
		h.mu.Unlock()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("preview connection error", zap.Error(err))
			}
			return
		}
	}
}

// NotifyPassUpdated broadcasts the refreshed counts to every client
// watching the pass.
func (h *Hub) NotifyPassUpdated(pass models.Pass) {
	message := map[string]interface{}{
		"type":                       "passUpdated",
		"passId":                     pass.ID,
		"pull_requests_count":        pass.PullRequestsCount,
		"merged_pull_requests_count": pass.MergedPullRequestsCount,
		"issues_opened_count":        pass.IssuesOpenedCount,
		"total_contributions_count":  pass.TotalContributionsCount,
		"level":                      contribution.LevelForPass(pass),
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.passID != pass.ID {
			continue
		}
		if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("preview write failed", zap.Error(err))
		}
	}
}
