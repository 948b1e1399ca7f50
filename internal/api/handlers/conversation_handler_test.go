package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeenaAbe/dify-mental-health/internal/api/handlers"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/providers"
	apperrors "github.com/BeenaAbe/dify-mental-health/pkg/errors"
)

type stubConversationProvider struct {
	lastRequest *providers.ConversationRequest
	reply       []byte
	err         error
}

func (s *stubConversationProvider) SendMessage(ctx context.Context, req *providers.ConversationRequest) ([]byte, error) {
	s.lastRequest = req
	return s.reply, s.err
}

func TestConversationHandler_SendMessage(t *testing.T) {
	provider := &stubConversationProvider{reply: []byte(`{"answer":"Tell me more about that."}`)}
	handler := handlers.NewConversationHandler(provider, "assessment-engine")

	body := `{"query":"I feel anxious","conversation_id":"conv-9"}`
	req := httptest.NewRequest("POST", "/api/conversation/messages", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.SendMessage(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"answer":"Tell me more about that."}`, w.Body.String())

	require.NotNil(t, provider.lastRequest)
	assert.Equal(t, "I feel anxious", provider.lastRequest.Query)
	assert.Equal(t, "conv-9", provider.lastRequest.ConversationID)
	assert.Equal(t, "assessment-engine", provider.lastRequest.User)
}

func TestConversationHandler_SendMessage_EmptyQuery(t *testing.T) {
	handler := handlers.NewConversationHandler(&stubConversationProvider{}, "assessment-engine")

	req := httptest.NewRequest("POST", "/api/conversation/messages", strings.NewReader(`{"query":"  "}`))
	w := httptest.NewRecorder()

	handler.SendMessage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversationHandler_SendMessage_UpstreamFailure(t *testing.T) {
	provider := &stubConversationProvider{err: apperrors.NewExternalError("dify request failed with status 500", nil)}
	handler := handlers.NewConversationHandler(provider, "assessment-engine")

	req := httptest.NewRequest("POST", "/api/conversation/messages", strings.NewReader(`{"query":"hello"}`))
	w := httptest.NewRecorder()

	handler.SendMessage(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestConversationHandler_SendMessage_NotConfigured(t *testing.T) {
	handler := handlers.NewConversationHandler(nil, "assessment-engine")

	req := httptest.NewRequest("POST", "/api/conversation/messages", strings.NewReader(`{"query":"hello"}`))
	w := httptest.NewRecorder()

	handler.SendMessage(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
