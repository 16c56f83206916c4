// Package spectate streams online round snapshots to websocket viewers.
// The Hub is a multiplayer.SnapshotObserver; every snapshot a match
// publishes is sent as one JSON text frame to the viewers of that match.
package spectate

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/chicken-arcade/internal/multiplayer"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
	sendBuffer   = 64
)

// Frame is the JSON message sent to viewers.
type Frame struct {
	Match    multiplayer.MatchID      `json:"match"`
	Tick     uint64                   `json:"tick"`
	Closed   bool                     `json:"closed,omitempty"`
	Snapshot multiplayer.GameSnapshot `json:"snapshot,omitempty"`
}

// MatchInfo describes a live match for the /matches listing.
type MatchInfo struct {
	Match multiplayer.MatchID `json:"match"`
	Tick  uint64              `json:"tick"`
}

type viewer struct {
	conn  *websocket.Conn
	match multiplayer.MatchID // empty follows every match
	send  chan []byte
}

// Hub fans snapshots out to connected viewers.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.RWMutex
	viewers map[*viewer]struct{}
	live    map[multiplayer.MatchID]uint64
}

// NewHub creates a hub. A nil logger means log.Default().
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger,
		viewers: make(map[*viewer]struct{}),
		live:    make(map[multiplayer.MatchID]uint64),
	}
}

var _ multiplayer.SnapshotObserver = (*Hub)(nil)

// Publish implements multiplayer.SnapshotObserver. It never blocks; a
// viewer that falls behind loses frames.
func (h *Hub) Publish(id multiplayer.MatchID, tick uint64, snap multiplayer.GameSnapshot) {
	h.mu.Lock()
	h.live[id] = tick
	h.mu.Unlock()
	h.broadcast(Frame{Match: id, Tick: tick, Snapshot: snap})
}

// MatchClosed implements multiplayer.SnapshotObserver.
func (h *Hub) MatchClosed(id multiplayer.MatchID) {
	h.mu.Lock()
	tick := h.live[id]
	delete(h.live, id)
	h.mu.Unlock()
	h.broadcast(Frame{Match: id, Tick: tick, Closed: true})
}

func (h *Hub) broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Error("spectate: cannot encode frame", "match", f.Match, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for v := range h.viewers {
		if v.match != "" && v.match != f.Match {
			continue
		}
		select {
		case v.send <- data:
		default:
		}
	}
}

// Matches returns the live matches sorted by id.
func (h *Hub) Matches() []MatchInfo {
	h.mu.RLock()
	out := make([]MatchInfo, 0, len(h.live))
	for id, tick := range h.live {
		out = append(out, MatchInfo{Match: id, Tick: tick})
	}
	h.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Match < out[j].Match })
	return out
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Handler serves /spectate (websocket, optional ?match=) and /matches (JSON).
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/spectate", h.serveWS)
	mux.HandleFunc("/matches", h.serveMatches)
	return mux
}

func (h *Hub) serveMatches(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Matches()); err != nil {
		h.logger.Warn("spectate: cannot write match list", "err", err)
	}
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("spectate: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	v := &viewer{
		conn:  conn,
		match: multiplayer.MatchID(r.URL.Query().Get("match")),
		send:  make(chan []byte, sendBuffer),
	}
	h.mu.Lock()
	h.viewers[v] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("viewer connected", "remote", r.RemoteAddr, "match", v.match)

	go h.writePump(v)
	h.readPump(v)
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	if _, ok := h.viewers[v]; ok {
		delete(h.viewers, v)
		close(v.send)
	}
	h.mu.Unlock()
}

// readPump discards viewer messages and notices when the viewer goes away.
func (h *Hub) readPump(v *viewer) {
	defer func() {
		h.remove(v)
		v.conn.Close()
	}()

	v.conn.SetReadLimit(512)
	_ = v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("viewer read error", "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(v *viewer) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-v.send:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
