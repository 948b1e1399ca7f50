package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/providers"
)

// EventsHandler streams assessment events to clients over Server-Sent
// Events. Clinician dashboards subscribe here to see answers and risk
// alerts as they happen.
type EventsHandler struct {
	eventBus providers.EventBus
	clients  map[string]map[chan *entities.AssessmentEvent]bool // channel -> clients
	mu       sync.RWMutex
}

// NewEventsHandler creates a new SSE events handler
func NewEventsHandler(eventBus providers.EventBus) *EventsHandler {
	return &EventsHandler{
		eventBus: eventBus,
		clients:  make(map[string]map[chan *entities.AssessmentEvent]bool),
	}
}

// StreamAssessmentUpdates handles SSE connections for all assessment events
// GET /api/assessment/events
func (h *EventsHandler) StreamAssessmentUpdates(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelAssessmentUpdates, map[string]interface{}{
		"scope":     "all",
		"timestamp": time.Now(),
	})
}

// StreamSessionUpdates handles SSE connections for one session's events
// GET /api/assessment/sessions/{id}/events
func (h *EventsHandler) StreamSessionUpdates(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	h.stream(w, r, providers.GetSessionChannel(sessionID), map[string]interface{}{
		"session_id": sessionID,
		"timestamp":  time.Now(),
	})
}

func (h *EventsHandler) stream(w http.ResponseWriter, r *http.Request, channel string, connectPayload map[string]interface{}) {
	if h.eventBus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "event streaming is not available")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Streams outlive the server's write timeout; clear the deadline for
	// this connection only.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Debug().Err(err).Msg("Could not clear write deadline for event stream")
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan *entities.AssessmentEvent, 10)
	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("Failed to subscribe to event channel")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe to events")
		return
	}

	h.sendEvent(w, "connected", connectPayload)
	flusher.Flush()

	go h.forwardEvents(r.Context(), eventChan, clientChan)

	// Keep connection alive and send events
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("channel", channel).Msg("Client disconnected from event stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// forwardEvents forwards events from the event bus to a client channel
func (h *EventsHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.AssessmentEvent, clientChan chan<- *entities.AssessmentEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
				// Client channel full, skip event
			}
		}
	}
}

func (h *EventsHandler) registerClient(channel string, clientChan chan *entities.AssessmentEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.AssessmentEvent]bool)
	}
	h.clients[channel][clientChan] = true
}

func (h *EventsHandler) unregisterClient(channel string, clientChan chan *entities.AssessmentEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[channel]; exists {
		delete(clients, clientChan)
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

// sendEvent sends an SSE event to the client
func (h *EventsHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// Stats handles GET /api/assessment/events/stats
func (h *EventsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]int{
		"connected_clients": h.ClientCount(),
	})
}

// ClientCount returns the number of connected clients
func (h *EventsHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
