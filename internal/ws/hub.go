package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ignatzorin/freelance-ledger/internal/goroutine"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
)

// ErrHubBusy возвращается, когда очередь рассылки переполнена и событие отброшено.
var ErrHubBusy = errors.New("ws: broadcast queue is full")

const broadcastBuffer = 256

// Hub хранит подключения профилей и рассылает им события.
type Hub struct {
	mu         sync.RWMutex
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
}

type message struct {
	profileID int64
	payload   []byte
}

// Envelope - формат сообщения, которое получает клиент.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx, затем закрывает все подключения.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.profileID, msg.payload)
		}
	}
}

// Register добавляет клиента. После остановки хаба клиент сразу закрывается.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.closeSend()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToUser ставит событие в очередь для всех подключений профиля.
// Не блокирует вызывающего: при переполненной очереди возвращает ErrHubBusy.
func (h *Hub) BroadcastToUser(profileID int64, event string, data any) error {
	raw, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		return fmt.Errorf("ws: marshal %s: %w", event, err)
	}

	select {
	case h.broadcast <- message{profileID: profileID, payload: raw}:
		return nil
	case <-h.done:
		return nil
	default:
		return ErrHubBusy
	}
}

// ClientCount возвращает число активных подключений профиля.
func (h *Hub) ClientCount(profileID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[profileID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.profileID]; !ok {
		h.clients[client.profileID] = make(map[*Client]struct{})
	}
	h.clients[client.profileID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.profileID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			client.closeSend()
		}
		if len(clients) == 0 {
			delete(h.clients, client.profileID)
		}
	}
}

func (h *Hub) send(profileID int64, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[profileID] {
		select {
		case client.send <- payload:
		default:
			// медленный клиент: отключаем, чтобы не держать хаб
			logger.Log.WithField("profile_id", profileID).Warn("ws client too slow, disconnecting")
			goroutine.SafeGo("ws-close-slow-client", client.Close)
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for client := range clients {
			client.closeSend()
		}
		delete(h.clients, id)
	}
}
