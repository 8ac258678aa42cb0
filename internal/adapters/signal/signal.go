// Package signal is the WebSocket adapter of the control protocol: one
// connection per listener, JSON envelopes dispatched by a type field.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/app"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Orch    *app.Orchestrator
	Limiter *EventRateLimiter
}

func NewController(orch *app.Orchestrator, limiter *EventRateLimiter) *Controller {
	return &Controller{Orch: orch, Limiter: limiter}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type userIDEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// HandleWS upgrades the request, issues the session identity and starts the
// read/write pumps. The session lives exactly as long as the connection.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	sid, err := ctl.Orch.Registry.Connect(conn, cancel)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("session allocation failed")
		cancel()
		conn.Close()
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client_token", c.GetString("client_token")).Msg("new WS connection")

	go ctl.writePump(ctx, sid, conn)
	go ctl.readPump(ctx, sid, conn)

	ctl.sendJSON(conn, userIDEvent{Type: "userId", UserID: string(sid)})
}
