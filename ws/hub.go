package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients       map[string]map[*websocket.Conn]*Client // Theo từng podcast job
	GlobalClients map[*websocket.Conn]*Client            // Dành cho broadcast chung
	UserClients   map[string]map[*websocket.Conn]*Client // Theo userID, cho badge thông báo
	Mutex         sync.RWMutex
}

var H = Hub{
	Clients:       make(map[string]map[*websocket.Conn]*Client),
	GlobalClients: make(map[*websocket.Conn]*Client),
	UserClients:   make(map[string]map[*websocket.Conn]*Client),
}

// Struct gửi trạng thái tiến trình của 1 podcast job
type PodcastStatusUpdate struct {
	JobID    string  `json:"job_id"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Error    string  `json:"error,omitempty"`
}

// Struct gửi số thông báo chưa đọc cho user
type BadgeUpdate struct {
	Type        string `json:"type"`
	UnreadCount int64  `json:"unread_count"`
}

// Register theo podcast jobID riêng
func (h *Hub) Register(jobID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[jobID]; !ok {
		h.Clients[jobID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Clients[jobID][conn] = client

	// Chỉ chạy write pump: vòng đọc nằm ở handler, gorilla không cho
	// phép hai goroutine cùng đọc một conn
	go h.writePump(client, conn)
}

// Register global cho trang danh sách
func (h *Hub) RegisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.GlobalClients[conn] = client

	go h.writePump(client, conn)
}

// Register theo userID, một user có thể mở nhiều tab
func (h *Hub) RegisterUser(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.UserClients[userID]; !ok {
		h.UserClients[userID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.UserClients[userID][conn] = client

	go h.writePump(client, conn)
}

// Broadcast theo jobID
func (h *Hub) Broadcast(jobID string, messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Clients[jobID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// Broadcast toàn bộ global clients (danh sách)
func (h *Hub) BroadcastGlobal(messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.GlobalClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// Broadcast tới mọi kết nối của một user
func (h *Hub) BroadcastToUser(userID string, messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.UserClients[userID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// Public function gửi status podcast job
func SendPodcastStatusUpdate(jobID, status string, progress float64, errorMsg string) {
	update := PodcastStatusUpdate{
		JobID:    jobID,
		Status:   status,
		Progress: progress,
		Error:    errorMsg,
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.Broadcast(jobID, websocket.TextMessage, data)
}

// Public function gửi signal cập nhật danh sách podcast
func BroadcastPodcastListChanged() {
	data := []byte(`{"type": "podcast_list_changed"}`)
	H.BroadcastGlobal(websocket.TextMessage, data)
}

// Public function gửi badge số thông báo chưa đọc cho user
func SendBadgeUpdate(userID string, unreadCount int64) {
	update := BadgeUpdate{
		Type:        "badge_update",
		UnreadCount: unreadCount,
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.BroadcastToUser(userID, websocket.TextMessage, data)
}

// Unregister client theo jobID
func (h *Hub) Unregister(jobID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[jobID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, jobID)
		}
	}
}

// Unregister global client
func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.GlobalClients[conn]; ok {
		close(client.Send)
		delete(h.GlobalClients, conn)
	}
}

// Unregister client theo userID
func (h *Hub) UnregisterUser(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.UserClients[userID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.UserClients, userID)
		}
	}
}

// GetStats trả số lượng kết nối đang mở, dùng cho health check
func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	jobConns := 0
	for _, clients := range h.Clients {
		jobConns += len(clients)
	}
	userConns := 0
	for _, clients := range h.UserClients {
		userConns += len(clients)
	}

	return map[string]int{
		"job_connections":    jobConns,
		"global_connections": len(h.GlobalClients),
		"user_connections":   userConns,
	}
}

// Write pump: goroutine ghi duy nhất của một kết nối. Thoát khi kênh
// Send bị đóng lúc Unregister.
func (h *Hub) writePump(client *Client, conn *websocket.Conn) {
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
