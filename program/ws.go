package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/keilerkonzept/plotstrip/strip"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local demo, any origin
	},
}

// frameMsg is what every websocket client receives per plot tick.
type frameMsg struct {
	Name  string      `json:"name"`
	Label string      `json:"label"`
	Frame strip.Frame `json:"frame"`
}

const defaultWriteWait = 2 * time.Second

type wsHub struct {
	clients   map[*websocket.Conn]bool
	mu        sync.Mutex
	msgCh     chan []byte
	writeWait time.Duration
}

func newWSHub() *wsHub {
	return &wsHub{
		clients:   make(map[*websocket.Conn]bool),
		msgCh:     make(chan []byte, 64),
		writeWait: defaultWriteWait,
	}
}

// run is the only writer. Writes happen outside mu so a client that stops
// reading never blocks clientCount or register.
func (h *wsHub) run() {
	for msg := range h.msgCh {
		for _, conn := range h.conns() {
			_ = conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Println("ws write:", err)
				h.unregister(conn)
				conn.Close()
			}
		}
	}
}

func (h *wsHub) conns() []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		out = append(out, conn)
	}
	return out
}

func (h *wsHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast drops the message when the hub is backed up.
func (h *wsHub) broadcast(frames []frameMsg) {
	msg, err := json.Marshal(frames)
	if err != nil {
		log.Println("ws marshal:", err)
		return
	}
	select {
	case h.msgCh <- msg:
	default:
	}
}

func (h *wsHub) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *wsHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *wsHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("ws upgrade:", err)
		return
	}
	h.register(conn)
	defer func() {
		h.unregister(conn)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func collectFrames(ss *stripSet) []frameMsg {
	entries := ss.entries()
	out := make([]frameMsg, len(entries))
	for i, e := range entries {
		out[i] = frameMsg{Name: e.name, Label: e.label, Frame: e.strip.Frame()}
	}
	return out
}

func serveFrames(addr string, hub *wsHub) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.handleWS)
	go hub.run()
	go func() {
		log.Printf("streaming strip frames on ws://%s/ws", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Println("ws server:", err)
		}
	}()
}
