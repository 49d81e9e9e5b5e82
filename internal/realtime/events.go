// file: internal/realtime/events.go
// version: 2.0.0
// guid: 9e8d7f6a-5c4b-3a21-0f9e-8d7c6b5a4392

package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	ulid "github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/jdfalk/library-proto/internal/logger"
)

// EventType defines the type of real-time event
type EventType string

const (
	EventEntryAdded     EventType = "library.entry.added"
	EventEntryDeleted   EventType = "library.entry.deleted"
	EventSearchState    EventType = "search.state"
	EventSystemStatus   EventType = "system.status"
	EventSystemShutdown EventType = "system.shutdown"
)

// Event represents a real-time event to send to clients
type Event struct {
	Type      EventType              `json:"type"`
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Client represents a connected listener, either an SSE stream or an
// in-process screen.
type Client struct {
	ID      string
	Channel chan *Event
	Types   map[EventType]bool // empty means every type
	mu      sync.RWMutex
}

// NewClient creates a new client
func NewClient(id string) *Client {
	if id == "" {
		id = "client-" + ulid.Make().String()
	}
	return &Client{
		ID:      id,
		Channel: make(chan *Event, 100),
		Types:   make(map[EventType]bool),
	}
}

// Subscribe limits the client to the given event type (additive)
func (c *Client) Subscribe(eventType EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Types[eventType] = true
}

// Unsubscribe removes an event type filter
func (c *Client) Unsubscribe(eventType EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Types, eventType)
}

// Wants reports whether the client should receive events of this type
func (c *Client) Wants(eventType EventType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.Types) == 0 || c.Types[eventType]
}

// EventHub manages connected clients and event distribution
type EventHub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     zerolog.Logger
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[string]*Client),
		log:     logger.WithComponent("realtime"),
	}
}

// RegisterClient registers a new client
func (h *EventHub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.log.Debug().Str("client", client.ID).Int("clients", len(h.clients)).Msg("client registered")
}

// UnregisterClient removes a client and closes its channel
func (h *EventHub) UnregisterClient(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, exists := h.clients[clientID]; exists {
		close(client.Channel)
		delete(h.clients, clientID)
		h.log.Debug().Str("client", clientID).Int("clients", len(h.clients)).Msg("client unregistered")
	}
}

// CloseAll unregisters every client, which ends their SSE streams.
func (h *EventHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.Channel)
		delete(h.clients, id)
	}
	h.log.Debug().Msg("all clients unregistered")
}

// Broadcast sends an event to every interested client without blocking.
func (h *EventHub) Broadcast(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if !client.Wants(event.Type) {
			continue
		}
		select {
		case client.Channel <- event:
		default:
			h.log.Warn().Str("client", client.ID).Str("event", string(event.Type)).Msg("client channel full, dropping event")
		}
	}
}

// SendEntryAdded announces a new library entry
func (h *EventHub) SendEntryAdded(id, title string) {
	h.Broadcast(&Event{
		Type:      EventEntryAdded,
		ID:        id,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"entry_id": id,
			"title":    title,
		},
	})
}

// SendEntryDeleted announces a removed library entry
func (h *EventHub) SendEntryDeleted(id string) {
	h.Broadcast(&Event{
		Type:      EventEntryDeleted,
		ID:        id,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"entry_id": id,
		},
	})
}

// SendSearchState announces a settled or started search
func (h *EventHub) SendSearchState(generation uint64, phase, query string, results int) {
	h.Broadcast(&Event{
		Type:      EventSearchState,
		ID:        fmt.Sprintf("search-%d", generation),
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"generation": generation,
			"phase":      phase,
			"query":      query,
			"results":    results,
		},
	})
}

// SendSystemStatus sends a system status event
func (h *EventHub) SendSystemStatus(data map[string]interface{}) {
	h.Broadcast(&Event{
		Type:      EventSystemStatus,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// GetClientCount returns the number of connected clients
func (h *EventHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleSSE handles Server-Sent Events connection
func (h *EventHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	client := NewClient("")
	for _, t := range c.QueryArray("type") {
		client.Subscribe(EventType(t))
	}

	h.RegisterClient(client)
	defer h.UnregisterClient(client.ID)

	writeEvent(c, &Event{
		Type:      "connection.established",
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"client_id": client.ID},
	})

	// Keep connection alive and stream events
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event, ok := <-client.Channel:
			if !ok {
				return
			}
			if !writeEvent(c, event) {
				return
			}
		case <-ticker.C:
			writeEvent(c, &Event{Type: "heartbeat", Timestamp: time.Now()})
		}
	}
}

func writeEvent(c *gin.Context, event *Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return true
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}
