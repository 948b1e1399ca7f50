package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/providers"
)

// ConversationHandler proxies chat messages to the conversational
// assessment service. The upstream reply is returned verbatim.
type ConversationHandler struct {
	provider    providers.ConversationProvider
	defaultUser string
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(provider providers.ConversationProvider, defaultUser string) *ConversationHandler {
	return &ConversationHandler{
		provider:    provider,
		defaultUser: defaultUser,
	}
}

type conversationMessageRequest struct {
	Query          string            `json:"query"`
	Inputs         map[string]string `json:"inputs"`
	ConversationID string            `json:"conversation_id"`
	User           string            `json:"user"`
	ResponseMode   string            `json:"response_mode"`
}

// SendMessage handles POST /api/conversation/messages
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		respondWithError(w, http.StatusServiceUnavailable, "conversation service is not configured")
		return
	}

	var payload conversationMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.Query = strings.TrimSpace(payload.Query)
	if payload.Query == "" {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	user := payload.User
	if user == "" {
		user = h.defaultUser
	}

	reply, err := h.provider.SendMessage(r.Context(), &providers.ConversationRequest{
		Inputs:         payload.Inputs,
		Query:          payload.Query,
		ResponseMode:   payload.ResponseMode,
		ConversationID: payload.ConversationID,
		User:           user,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(reply)
}
