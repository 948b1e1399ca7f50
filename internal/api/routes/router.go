package routes

import (
	"net/http"

	"github.com/BeenaAbe/dify-mental-health/internal/api/handlers"
	"github.com/BeenaAbe/dify-mental-health/internal/api/middleware"
	"github.com/BeenaAbe/dify-mental-health/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	assessmentHandler   *handlers.AssessmentHandler
	conversationHandler *handlers.ConversationHandler
	eventsHandler       *handlers.EventsHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	assessmentHandler *handlers.AssessmentHandler,
	conversationHandler *handlers.ConversationHandler,
	eventsHandler *handlers.EventsHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		assessmentHandler:   assessmentHandler,
		conversationHandler: conversationHandler,
		eventsHandler:       eventsHandler,
		metrics:             metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Assessment session endpoints
	r.mux.HandleFunc("POST /api/assessment/start", r.assessmentHandler.StartAssessment)
	r.mux.HandleFunc("GET /api/assessment/state", r.assessmentHandler.GetState)
	r.mux.HandleFunc("GET /api/assessment/question", r.assessmentHandler.GetCurrentQuestion)
	r.mux.HandleFunc("POST /api/assessment/answers", r.assessmentHandler.SubmitAnswer)
	r.mux.HandleFunc("POST /api/assessment/next", r.assessmentHandler.NextQuestion)
	r.mux.HandleFunc("POST /api/assessment/previous", r.assessmentHandler.PreviousQuestion)
	r.mux.HandleFunc("POST /api/assessment/complete", r.assessmentHandler.CompleteAssessment)
	r.mux.HandleFunc("POST /api/assessment/reset", r.assessmentHandler.ResetAssessment)
	r.mux.HandleFunc("GET /api/assessment/sessions/{id}/snapshot", r.assessmentHandler.GetSessionSnapshot)

	// Clinical observation endpoints
	r.mux.HandleFunc("POST /api/assessment/observations", r.assessmentHandler.AddObservation)
	r.mux.HandleFunc("DELETE /api/assessment/observations/{id}", r.assessmentHandler.RemoveObservation)

	// Risk assessment endpoints
	r.mux.HandleFunc("POST /api/assessment/risk", r.assessmentHandler.UpdateRiskAssessment)
	r.mux.HandleFunc("POST /api/assessment/alerts/{id}/acknowledge", r.assessmentHandler.AcknowledgeRiskAlert)

	// Conversational assessment proxy
	if r.conversationHandler != nil {
		r.mux.HandleFunc("POST /api/conversation/messages", r.conversationHandler.SendMessage)
	}

	// Live event streams
	if r.eventsHandler != nil {
		r.mux.HandleFunc("GET /api/assessment/events", r.eventsHandler.StreamAssessmentUpdates)
		r.mux.HandleFunc("GET /api/assessment/events/stats", r.eventsHandler.Stats)
		r.mux.HandleFunc("GET /api/assessment/sessions/{id}/events", r.eventsHandler.StreamSessionUpdates)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)

	// CORS wraps everything so headers are set on every response
	handler = middleware.CORSMiddleware(handler)

	return handler
}
