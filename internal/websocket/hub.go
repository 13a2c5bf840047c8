package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Hub управляет подключениями и доставляет события владельцам.
// Вещания "всем" нет: сессии и их аналитика принадлежат одному пользователю,
// поэтому события адресуются только его подключениям.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
	}
}

// Run обслуживает регистрацию и отключение клиентов до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]struct{})
			}
			h.clients[client.userID][client] = struct{}{}
			count := len(h.clients[client.userID])
			h.mu.Unlock()
			log.Printf("[WebSocket] User %d connected (%d connections)", client.userID, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if connections, ok := h.clients[client.userID]; ok {
				if _, registered := connections[client]; registered {
					delete(connections, client)
					close(client.send)
					if len(connections) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register регистрирует новое подключение в хабе
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// NotifyUser отправляет событие всем подключениям пользователя.
// Отправка best-effort: переполненные буферы пропускаются, событие
// не является источником истины и восстанавливается запросом аналитики.
func (h *Hub) NotifyUser(userID uint, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		log.Printf("[WebSocket] Failed to marshal %s event: %v", eventType, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			log.Printf("[WebSocket] Send buffer full for user %d, dropping %s", userID, eventType)
		}
	}
}

// closeAll закрывает все подключения при остановке приложения
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, connections := range h.clients {
		for client := range connections {
			close(client.send)
		}
		delete(h.clients, userID)
	}
	log.Println("[WebSocket] Hub stopped, all connections closed")
}
