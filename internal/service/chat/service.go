// Package chat runs a chat turn end to end: conversation lookup, analysis,
// recommendations, reply generation and persistence.
package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"traveltodo/internal/chatbot"
	"traveltodo/internal/llm"
	"traveltodo/internal/logger"
	"traveltodo/internal/metrics"
	"traveltodo/internal/models"
	"traveltodo/internal/redis"
	"traveltodo/internal/storage"
)

var (
	ErrEmptyMessage         = errors.New("message cannot be empty")
	ErrMissingSession       = errors.New("session_id is required")
	ErrConversationNotFound = errors.New("conversation not found")
)

const (
	welcomeText = "Bonjour ! 👋 Je suis votre assistant voyage. Comment puis-je vous aider aujourd'hui ?"

	defaultRecommendationLimit = 3
	defaultHistoryWindow       = 5
	faqLimit                   = 10
)

// RecommendationResolver turns a stored catalog link back into a display record.
type RecommendationResolver interface {
	Recommendation(ctx context.Context, kind models.RecommendationType, id int64) (models.Recommendation, error)
}

type Options struct {
	RecommendationLimit int
	HistoryWindow       int
	Cache               *redis.Client
	Metrics             *metrics.Metrics
	Logger              *logger.Logger
}

type Service struct {
	db          *storage.DB
	catalog     RecommendationResolver
	recommender *chatbot.Recommender
	responder   *chatbot.Responder
	history     *historyCache
	limit       int
	window      int
	metrics     *metrics.Metrics
	log         *logger.Logger
}

func NewService(db *storage.DB, catalog RecommendationResolver, recommender *chatbot.Recommender, responder *chatbot.Responder, opts Options) *Service {
	limit := opts.RecommendationLimit
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	window := opts.HistoryWindow
	if window <= 0 {
		window = defaultHistoryWindow
	}
	s := &Service{
		db:          db,
		catalog:     catalog,
		recommender: recommender,
		responder:   responder,
		limit:       limit,
		window:      window,
		metrics:     opts.Metrics,
		log:         opts.Logger,
	}
	if opts.Cache != nil {
		s.history = &historyCache{client: opts.Cache, window: window, log: opts.Logger}
	}
	return s
}

type SendRequest struct {
	SessionID string
	Text      string
	UserID    *int64
}

// SendResult carries the stored bot reply of a turn.
type SendResult struct {
	SessionID string
	Reply     models.Message
}

// SendMessage handles one user message. An empty or unknown session id
// starts a new conversation.
func (s *Service) SendMessage(ctx context.Context, req SendRequest) (*SendResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.conversationFor(ctx, req.SessionID, req.UserID)
	if err != nil {
		return nil, err
	}
	log := s.log.ChatLogger(conv.SessionID)

	userMsg, err := s.insertUserMessage(ctx, conv.ID, text)
	if err != nil {
		return nil, err
	}

	history, cached := s.history.load(ctx, conv.SessionID)
	if !cached {
		history, err = s.recentTurns(ctx, conv.ID, userMsg.ID, s.window)
		if err != nil {
			return nil, err
		}
	}

	analysis := chatbot.Analyze(text)
	recs, err := s.recommender.Recommend(ctx, analysis.Intent, analysis.Entities, s.limit)
	if err != nil {
		return nil, err
	}

	reply := s.responder.Respond(ctx, chatbot.Turn{
		Intent:          analysis.Intent,
		Entities:        analysis.Entities,
		Recommendations: recs,
		UserText:        text,
		History:         history,
	})
	intent := analysis.Intent
	if intent == models.IntentUnknown && reply.SuggestedIntent != "" {
		intent = reply.SuggestedIntent
	}

	botMsg := models.Message{
		ConversationID:  conv.ID,
		Sender:          models.SenderBot,
		Text:            reply.Text,
		Intent:          intent,
		Entities:        analysis.Entities,
		Recommendations: recs,
	}
	if err := s.saveBotMessage(ctx, &botMsg); err != nil {
		return nil, err
	}

	newTurns := []llm.Turn{
		{Role: string(models.SenderUser), Content: text},
		{Role: string(models.SenderBot), Content: reply.Text},
	}
	if !cached {
		newTurns = append(history, newTurns...)
	}
	s.history.append(ctx, conv.SessionID, newTurns...)

	s.metrics.ObserveTurn(intent, recs)
	log.Info().
		Str("intent", string(intent)).
		Float64("confidence", analysis.Confidence).
		Int("recommendations", len(recs)).
		Bool("generated", reply.FromGenerator).
		Msg("chat turn handled")

	return &SendResult{SessionID: conv.SessionID, Reply: botMsg}, nil
}

func (s *Service) conversationFor(ctx context.Context, sessionID string, userID *int64) (*models.Conversation, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID != "" {
		conv, err := s.findConversation(ctx, sessionID)
		switch {
		case err == nil:
			if conv.UserID == nil && userID != nil {
				if err := s.claimConversation(ctx, conv, *userID); err != nil {
					return nil, err
				}
			}
			return conv, nil
		case !errors.Is(err, sql.ErrNoRows):
			return nil, err
		}
	}
	return s.createConversation(ctx, userID)
}

// ConversationView is the ordered transcript of one conversation.
type ConversationView struct {
	SessionID string
	Messages  []models.Message
}

// GetConversation returns every message of a conversation, with bot messages
// carrying their recommendations.
func (s *Service) GetConversation(ctx context.Context, sessionID string) (*ConversationView, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	conv, err := s.findConversation(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	messages, err := s.loadMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	return &ConversationView{SessionID: conv.SessionID, Messages: messages}, nil
}

type NewConversationResult struct {
	SessionID string
	Welcome   models.Message
}

// NewConversation opens a conversation and stores the welcome message.
func (s *Service) NewConversation(ctx context.Context, userID *int64) (*NewConversationResult, error) {
	conv, err := s.createConversation(ctx, userID)
	if err != nil {
		return nil, err
	}
	welcome := models.Message{
		ConversationID: conv.ID,
		Sender:         models.SenderBot,
		Text:           welcomeText,
		Intent:         models.IntentGreeting,
	}
	if err := s.saveBotMessage(ctx, &welcome); err != nil {
		return nil, err
	}
	s.history.append(ctx, conv.SessionID, llm.Turn{Role: string(models.SenderBot), Content: welcomeText})
	return &NewConversationResult{SessionID: conv.SessionID, Welcome: welcome}, nil
}

// LatestRecommendations returns the recommendations of the most recent bot
// message that had any.
func (s *Service) LatestRecommendations(ctx context.Context, sessionID string) ([]models.Recommendation, error) {
	view, err := s.GetConversation(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := len(view.Messages) - 1; i >= 0; i-- {
		if recs := view.Messages[i].Recommendations; len(recs) > 0 {
			return recs, nil
		}
	}
	return nil, nil
}

// ListUserConversations returns a user's conversations, most recent first.
func (s *Service) ListUserConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	return s.listConversations(ctx, userID)
}

// FAQs returns the active FAQ entries shown next to the chat.
func (s *Service) FAQs(ctx context.Context) ([]models.FAQ, error) {
	return s.activeFAQs(ctx, faqLimit)
}

// Ping checks the database for health reporting.
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}
