package webui

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tellogo/internal/session"
	"tellogo/internal/util"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// hub polls a session at a fixed rate and fans the resulting snapshot out
// to every connected websocket client.
type hub struct {
	sess *session.Session
	rate time.Duration

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte

	stopCh chan struct{}
}

func newHub(sess *session.Session, hz int) *hub {
	return &hub{
		sess:    sess,
		rate:    time.Second / time.Duration(hz),
		clients: make(map[*websocket.Conn]chan []byte),
		stopCh:  make(chan struct{}),
	}
}

type wireSnapshot struct {
	Time       time.Time   `json:"time"`
	Connected  bool        `json:"connected"`
	FlightData interface{} `json:"flight_data,omitempty"`
}

func (h *hub) run() {
	ticker := time.NewTicker(h.rate)
	defer ticker.Stop()
	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			snap := wireSnapshot{Time: time.Now(), Connected: h.sess.IsConnected()}
			if fd, ok := h.sess.FlightData(); ok {
				snap.FlightData = fd
			}
			body, err := json.Marshal(snap)
			if err != nil {
				util.Error("[dashboard] marshal snapshot: %v", err)
				continue
			}
			h.broadcast(body)
		}
	}
}

func (h *hub) broadcast(body []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, send := range h.clients {
		select {
		case send <- body:
		default: // slow client, drop this tick's update rather than block the hub
		}
	}
}

func (h *hub) stop() {
	close(h.stopCh)
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
}

// serveWS upgrades the request to a websocket and streams snapshots to it
// until the client disconnects.
func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		util.Error("[dashboard] websocket upgrade: %v", err)
		return
	}

	send := make(chan []byte, 8)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for body := range send {
		if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
			return
		}
	}
}
