package insights

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/radiusdt/adpulse/internal/metrics"
	"github.com/radiusdt/adpulse/internal/models"
)

// ChatFallback is appended as the model's reply when a chat request fails.
const ChatFallback = "I'm having trouble processing that right now. Could you rephrase?"

// ErrEmptyMessage is returned for blank chat input.
var ErrEmptyMessage = errors.New("message is empty")

// Conversation is the transcript a chat exchange appends to.
type Conversation interface {
	ID() string
	Transcript() []models.ChatMessage
	Append(msg models.ChatMessage)
}

// ChatService runs multi-turn exchanges grounded in the current account data.
type ChatService struct {
	model   Model
	guard   PendingGuard
	config  GenerationConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewChatService creates a chat service. m may be nil.
func NewChatService(model Model, guard PendingGuard, cfg GenerationConfig, logger *zap.Logger, m *metrics.Metrics) *ChatService {
	return &ChatService{model: model, guard: guard, config: cfg, logger: logger, metrics: m}
}

// Send appends text as a user turn, asks the model for a reply using the
// whole transcript and records as context, and appends the reply. A failed
// model call appends ChatFallback instead and is not reported as an error.
// Blank text returns ErrEmptyMessage and a second Send while one is running
// returns ErrChatPending; neither touches the transcript.
func (s *ChatService) Send(ctx context.Context, conv Conversation, text string, records []models.CampaignMetric) (string, error) {
	if strings.TrimSpace(text) == "" {
		s.reject("empty")
		return "", ErrEmptyMessage
	}

	release, err := s.guard.Acquire(ctx, conv.ID())
	if err != nil {
		if errors.Is(err, ErrChatPending) {
			s.reject("pending")
		}
		return "", err
	}
	defer release()

	conv.Append(models.ChatMessage{Role: models.ChatRoleUser, Text: text})

	start := time.Now()
	reply, err := s.model.Generate(ctx, Request{
		System:   FormatChatContext(records),
		Contents: conv.Transcript(),
		Config:   s.config,
	})
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordAIRequest("chat", err == nil, elapsed)
	}
	if err != nil {
		s.logger.Error("AI chat failed",
			zap.String("session_id", conv.ID()),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		reply = ChatFallback
	} else {
		s.logger.Debug("AI chat reply",
			zap.String("session_id", conv.ID()),
			zap.Duration("duration", elapsed),
		)
	}

	conv.Append(models.ChatMessage{Role: models.ChatRoleModel, Text: reply})
	return reply, nil
}

func (s *ChatService) reject(reason string) {
	if s.metrics != nil {
		s.metrics.RecordChatRejection(reason)
	}
}
