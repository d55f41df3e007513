package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

// Message types. Clients may send wsTypeRefresh to get the dashboard at once.
const (
	wsTypeDashboard = "dashboard"
	wsTypeRefresh   = "refresh"
	wsTypeError     = "error"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsRequest is a client to server message.
type wsRequest struct {
	Type string `json:"type"`
}

// The dashboard is served to any origin on the local network.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dashboardStream owns one connection. Only run writes to conn; the reader
// hands client requests over through replies.
type dashboardStream struct {
	h       *Handler
	conn    *websocket.Conn
	replies chan wsEnvelope
	done    chan struct{}
}

// wsConnect streams the dashboard: once on connect, then every interval and on
// each client refresh.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s := &dashboardStream{
		h:       h,
		conn:    conn,
		replies: make(chan wsEnvelope, 4),
		done:    make(chan struct{}),
	}
	go s.readRequests()

	if err := s.run(c.Request.Context().Done(), interval); err != nil && h.log != nil {
		h.log.Infow("ws_stream_closed", "err", err)
	}
}

func (s *dashboardStream) run(stop <-chan struct{}, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer ping.Stop()

	if err := s.write(s.dashboard()); err != nil {
		return err
	}
	for {
		select {
		case <-s.done:
			return nil
		case <-stop:
			return nil
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-ticker.C:
			if err := s.write(s.dashboard()); err != nil {
				return err
			}
		case env := <-s.replies:
			if err := s.write(env); err != nil {
				return err
			}
		}
	}
}

func (s *dashboardStream) dashboard() wsEnvelope {
	return wsEnvelope{Type: wsTypeDashboard, Data: s.h.services.Monitoring.Dashboard()}
}

func (s *dashboardStream) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

// readRequests handles control frames and client requests until the peer
// goes away. A reply is dropped when the writer is backed up.
func (s *dashboardStream) readRequests() {
	defer close(s.done)
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var req wsRequest
		var reply wsEnvelope
		switch err := json.Unmarshal(msg, &req); {
		case err != nil:
			reply = wsEnvelope{Type: wsTypeError, Error: "invalid message"}
		case req.Type == wsTypeRefresh:
			reply = s.dashboard()
		default:
			reply = wsEnvelope{Type: wsTypeError, Error: "unknown message type " + strconv.Quote(req.Type)}
		}

		select {
		case s.replies <- reply:
		default:
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000, bounded by maxInterval.
// Without either, the configured push interval applies.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval
	if h.pushInterval > 0 && h.pushInterval <= maxInterval {
		interval = h.pushInterval
	}

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return interval
}
