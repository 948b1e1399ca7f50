package providers

import "context"

// ConversationRequest is the boundary contract of the external
// conversational assessment service. The engine never inspects the reply;
// it is passed through opaquely.
type ConversationRequest struct {
	Inputs         map[string]string `json:"inputs"`
	Query          string            `json:"query"`
	ResponseMode   string            `json:"response_mode"`
	ConversationID string            `json:"conversation_id"`
	User           string            `json:"user"`
}

// Conversation response modes.
const (
	ResponseModeBlocking  = "blocking"
	ResponseModeStreaming = "streaming"
)

// ConversationProvider sends messages to the external conversational
// assessment service. Failures surface as undifferentiated external errors
// and are never retried automatically.
type ConversationProvider interface {
	SendMessage(ctx context.Context, req *ConversationRequest) ([]byte, error)
}
