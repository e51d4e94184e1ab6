package ws

import (
	"checkin/internal/live"
	"checkin/internal/service"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced on the REST routes
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub          *live.Hub
	querySvc     *service.QueryService
	authSvc      *service.AuthService
	historyLimit int
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *live.Hub, querySvc *service.QueryService, authSvc *service.AuthService, historyLimit int) *Handler {
	return &Handler{
		hub:          hub,
		querySvc:     querySvc,
		authSvc:      authSvc,
		historyLimit: historyLimit,
	}
}

// LiveWS handles GET /v1/ws/live
func (h *Handler) LiveWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	h.serve(wsConn, live.ViewerConfig{Role: live.RoleAttendee})
}

// AdminWS handles GET /v1/ws/admin?token=
func (h *Handler) AdminWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateToken(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	log.Printf("[ws] admin %s connected", claims.Email)
	h.serve(wsConn, live.ViewerConfig{
		Role:         live.RoleAdmin,
		HistoryLimit: h.historyLimit,
		Credentials: &live.Credentials{
			TokenID:   claims.ID,
			Email:     claims.Email,
			ExpiresAt: claims.ExpiresAt.Time,
		},
		Tokens: h.authSvc,
	})
}

func (h *Handler) serve(wsConn *websocket.Conn, cfg live.ViewerConfig) {
	conn := newConnection(cfg.Role)
	ctx, cancel := context.WithCancel(context.Background())
	viewer := live.NewViewer(h.hub, h.querySvc, conn, cfg)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, cancel)
	go func() {
		err := viewer.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, errConnectionClosed) {
			log.Printf("[ws] %s viewer stopped: %v", cfg.Role, err)
		}
		// Ends the write pump, which closes the socket
		close(conn.send)
	}()
}

func (h *Handler) readPump(wsConn *websocket.Conn, stop context.CancelFunc) {
	defer func() {
		stop()
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			break
		}
		// Clients only listen; incoming frames are ignored
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.markClosed()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
