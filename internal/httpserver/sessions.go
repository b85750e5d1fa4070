package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radiusdt/adpulse/internal/models"
	"github.com/radiusdt/adpulse/internal/reporting"
	"github.com/radiusdt/adpulse/internal/session"
)

type updateSessionRequest struct {
	Platform  *string `json:"platform"`
	DateRange *string `json:"date_range"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply      string               `json:"reply"`
	Transcript []models.ChatMessage `json:"transcript"`
}

func (s *Server) sessionFromURL(r *http.Request) (*session.Session, error) {
	return s.sessions.Get(chi.URLParam(r, "id"))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	if s.metrics != nil {
		s.metrics.SetActiveSessions(s.sessions.Len())
	}
	s.logger.Debug("session created", zap.String("session_id", sess.ID()))
	s.jsonResponseStatus(w, sess.View(), http.StatusCreated)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromURL(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, sess.View())
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromURL(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req updateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}

	// Validate everything before changing anything.
	var platform models.PlatformFilter
	if req.Platform != nil {
		if platform, err = models.ParsePlatformFilter(*req.Platform); err != nil {
			s.handleError(w, r, err)
			return
		}
	}
	if req.DateRange != nil {
		if _, err := reporting.ParseDateRange(*req.DateRange, s.now()); err != nil {
			s.handleError(w, r, err)
			return
		}
	}

	if req.Platform != nil {
		sess.SetPlatform(platform)
	}
	if req.DateRange != nil {
		sess.SetDateRange(strings.TrimSpace(*req.DateRange))
	}

	s.jsonResponse(w, sess.View())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "id"))
	if s.metrics != nil {
		s.metrics.SetActiveSessions(s.sessions.Len())
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromURL(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}

	campaigns, err := s.loadCampaigns(r.Context(), sess.Platform())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	reply, err := s.chat.Send(r.Context(), sess, req.Message, campaigns)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, chatResponse{Reply: reply, Transcript: sess.Transcript()})
}
