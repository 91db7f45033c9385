// tensu-crm/internal/handlers/status_hub.go

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"tensu-crm/config"
	"tensu-crm/internal/timetable"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// defaultStatusRefreshMs - период пересчета статусов. Статусы меняются
// от хода времени, поэтому консоль получает обновления без перезагрузки.
const defaultStatusRefreshMs = 60000

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Для разработки разрешаем все источники
	},
}

// GlobalStatusHub - единственный экземпляр хаба для всего приложения.
var GlobalStatusHub = NewStatusHub(time.Now)

// StatusUpdate - снимок статусов занятий на сегодня, рассылаемый подписчикам.
type StatusUpdate struct {
	Type    string             `json:"type"` // "lesson_statuses"
	Date    string             `json:"date"`
	Lessons []lessonStatusItem `json:"lessons"`
}

type lessonStatusItem struct {
	ID            uint   `json:"id"`
	DisplayStatus string `json:"display_status"`
}

type statusClient struct {
	hub    *StatusHub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// StatusHub рассылает подключенным консолям пересчитанные статусы занятий.
// Сам пересчет - чистая функция из internal/timetable; хаб лишь владеет
// периодичностью опроса (настраивается через STATUS_REFRESH_INTERVAL_MS).
type StatusHub struct {
	clients    map[uint]*statusClient
	register   chan *statusClient
	unregister chan *statusClient
	now        timetable.Clock
	interval   time.Duration
	mu         sync.Mutex
}

func NewStatusHub(now timetable.Clock) *StatusHub {
	interval := defaultStatusRefreshMs
	if raw := os.Getenv("STATUS_REFRESH_INTERVAL_MS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			interval = parsed
		} else {
			slog.Warn("Некорректное значение STATUS_REFRESH_INTERVAL_MS, используется 60000", "value", raw)
		}
	}

	return &StatusHub{
		clients:    make(map[uint]*statusClient),
		register:   make(chan *statusClient),
		unregister: make(chan *statusClient),
		now:        now,
		interval:   time.Duration(interval) * time.Millisecond,
	}
}

// Run крутит цикл регистрации клиентов и тикер пересчета статусов.
func (h *StatusHub) Run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
			slog.Info("Status client registered", "userID", client.userID)

			// Новый подписчик сразу получает актуальный снимок.
			if snapshot := h.buildSnapshot(); snapshot != nil {
				client.send <- snapshot
			}

		case client := <-h.unregister:
			h.removeClient(client)
			slog.Info("Status client unregistered", "userID", client.userID)

		case <-ticker.C:
			h.broadcastSnapshot()
		}
	}
}

// addClient регистрирует подписчика. Повторное подключение того же
// пользователя вытесняет прежнее соединение: его канал закрывается,
// чтобы writePump не завис до смерти старого сокета.
func (h *StatusHub) addClient(client *statusClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.clients[client.userID]; ok {
		close(prev.send)
	}
	h.clients[client.userID] = client
}

// removeClient снимает подписчика. Запоздавший unregister вытесненного
// соединения не должен трогать новое - сверяем сам указатель.
func (h *StatusHub) removeClient(client *statusClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[client.userID]; ok && current == client {
		delete(h.clients, client.userID)
		close(client.send)
	}
}

func (h *StatusHub) broadcastSnapshot() {
	h.mu.Lock()
	empty := len(h.clients) == 0
	h.mu.Unlock()
	if empty {
		return // Незачем ходить в базу без подписчиков
	}

	snapshot := h.buildSnapshot()
	if snapshot == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, client := range h.clients {
		select {
		case client.send <- snapshot:
		default:
			// Клиент не вычитывает - отключаем, чтобы не копить буферы.
			close(client.send)
			delete(h.clients, userID)
		}
	}
}

// buildSnapshot пересчитывает отображаемые статусы сегодняшних занятий.
func (h *StatusHub) buildSnapshot() []byte {
	now := h.now()
	today := now.Format("2006-01-02")

	var lessons []struct {
		ID                 uint
		EffectiveStartTime string
		DurationMinutes    int
		Status             string
	}
	err := config.DB.Table("lessons").
		Select("id, effective_start_time, duration_minutes, status").
		Where("effective_date = ? AND deleted_at IS NULL", today).
		Scan(&lessons).Error
	if err != nil {
		slog.Error("Failed to load today's lessons for status broadcast", "error", err)
		return nil
	}

	update := StatusUpdate{Type: "lesson_statuses", Date: today}
	for _, l := range lessons {
		display, err := timetable.ResolveDisplayStatus(
			timetable.Status(l.Status), today, l.EffectiveStartTime, l.DurationMinutes, now,
		)
		if err != nil {
			slog.Warn("Skipping lesson with broken time in status broadcast", "lesson_id", l.ID, "error", err)
			continue
		}
		update.Lessons = append(update.Lessons, lessonStatusItem{ID: l.ID, DisplayStatus: string(display)})
	}

	data, err := json.Marshal(update)
	if err != nil {
		slog.Error("Failed to marshal status update", "error", err)
		return nil
	}
	return data
}

// StatusWSEndpoint подключает консоль к рассылке статусов.
func StatusWSEndpoint(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	client := &statusClient{
		hub:    GlobalStatusHub,
		conn:   conn,
		send:   make(chan []byte, 8),
		userID: userID,
	}
	GlobalStatusHub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *statusClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// Канал закрыт хабом
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump только следит за разрывом соединения: клиент ничего не шлет.
func (c *statusClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
