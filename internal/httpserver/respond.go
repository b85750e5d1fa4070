package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radiusdt/adpulse/internal/insights"
	"github.com/radiusdt/adpulse/internal/models"
	"github.com/radiusdt/adpulse/internal/reporting"
	"github.com/radiusdt/adpulse/internal/session"
	"github.com/radiusdt/adpulse/internal/storage"
)

const maxBodyBytes = 1 << 20

// statusClientClosedRequest is reported when the client went away mid-request.
const statusClientClosedRequest = 499

// ---- Helper Methods ----

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	s.jsonResponseStatus(w, data, http.StatusOK)
}

func (s *Server) jsonResponseStatus(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// handleError maps domain errors to HTTP status codes.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		s.logger.Debug("request canceled by client", zap.String("path", r.URL.Path))
		s.errorResponse(w, "request canceled", statusClientClosedRequest)
	case errors.Is(err, models.ErrInvalidPlatform),
		errors.Is(err, reporting.ErrInvalidDateRange),
		errors.Is(err, insights.ErrEmptyMessage):
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, session.ErrSessionNotFound):
		s.errorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, insights.ErrChatPending):
		s.errorResponse(w, err.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrSourceUnavailable):
		s.errorResponse(w, storage.ErrSourceUnavailable.Error(), http.StatusBadGateway)
	default:
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		s.errorResponse(w, "internal error", http.StatusInternalServerError)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
