package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"traveltodo/internal/catalog"
	"traveltodo/internal/chatbot"
	"traveltodo/internal/config"
	"traveltodo/internal/llm"
	"traveltodo/internal/logger"
	"traveltodo/internal/models"
	"traveltodo/internal/storage"
)

type recordingGenerator struct {
	reply   llm.Reply
	err     error
	prompts []llm.Prompt
}

func (g *recordingGenerator) Name() string { return "recording" }

func (g *recordingGenerator) Generate(_ context.Context, p llm.Prompt) (llm.Reply, error) {
	g.prompts = append(g.prompts, p)
	return g.reply, g.err
}

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := storage.Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := storage.Seed(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func newTestService(t *testing.T, gen llm.Generator) (*Service, *storage.DB) {
	t.Helper()
	db := openTestDB(t)
	store := catalog.NewStore(db)
	avail := llm.Unavailable
	if gen != nil {
		avail = llm.Available
	}
	svc := NewService(db, store,
		chatbot.NewRecommender(store, true),
		chatbot.NewResponder(gen, avail, logger.Nop(), nil),
		Options{Logger: logger.Nop()},
	)
	return svc, db
}

func insertTestUser(t *testing.T, db *storage.DB, email string) int64 {
	t.Helper()
	id, err := db.InsertContext(context.Background(),
		`INSERT INTO users (email, password_hash, role, created_at) VALUES (?, ?, ?, ?)`,
		email, "x", "client", time.Now().UTC())
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func TestSendMessageHotelSearch(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.SendMessage(ctx, SendRequest{Text: "Je cherche un hôtel pas cher à Paris"})
	if err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	if res.SessionID == "" {
		t.Fatalf("expected a new session id")
	}
	reply := res.Reply
	if reply.Intent != models.IntentSearchHotel {
		t.Fatalf("expected search_hotel, got %s", reply.Intent)
	}
	if reply.Entities.Destination != "Paris" || reply.Entities.Budget == nil || *reply.Entities.Budget != 200 {
		t.Fatalf("unexpected entities %+v", reply.Entities)
	}
	if len(reply.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(reply.Recommendations))
	}
	if reply.Recommendations[0].Name != "Hôtel Le Marais" || !reply.Recommendations[0].IsCatalog() {
		t.Fatalf("expected catalog hotel first, got %+v", reply.Recommendations[0])
	}
	if reply.Recommendations[1].Source != models.SourceWeb {
		t.Fatalf("expected web placeholder padding, got %+v", reply.Recommendations[1])
	}
	if reply.Text == "" || reply.ID == 0 {
		t.Fatalf("bot reply not stored: %+v", reply)
	}

	view, err := svc.GetConversation(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("GetConversation error: %v", err)
	}
	if len(view.Messages) != 2 {
		t.Fatalf("expected user and bot messages, got %d", len(view.Messages))
	}
	if view.Messages[0].Sender != models.SenderUser || view.Messages[1].Sender != models.SenderBot {
		t.Fatalf("unexpected order: %s, %s", view.Messages[0].Sender, view.Messages[1].Sender)
	}
	stored := view.Messages[1].Recommendations
	if len(stored) != 3 {
		t.Fatalf("expected 3 stored recommendations, got %d", len(stored))
	}
	for i := range stored {
		if stored[i].ID != reply.Recommendations[i].ID || stored[i].Source != reply.Recommendations[i].Source {
			t.Fatalf("recommendation %d changed after reload: %+v vs %+v", i, stored[i], reply.Recommendations[i])
		}
	}
	if view.Messages[1].Entities.Destination != "Paris" {
		t.Fatalf("entities not persisted: %+v", view.Messages[1].Entities)
	}
}

func TestSendMessageReusesSession(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.SendMessage(ctx, SendRequest{Text: "Bonjour"})
	if err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	second, err := svc.SendMessage(ctx, SendRequest{SessionID: first.SessionID, Text: "Merci"})
	if err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Fatalf("expected same session, got %s and %s", first.SessionID, second.SessionID)
	}
	if second.Reply.Intent != models.IntentThanks || len(second.Reply.Recommendations) != 0 {
		t.Fatalf("unexpected reply %+v", second.Reply)
	}

	other, err := svc.SendMessage(ctx, SendRequest{SessionID: "does-not-exist", Text: "Bonjour"})
	if err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	if other.SessionID == "does-not-exist" || other.SessionID == first.SessionID {
		t.Fatalf("unknown session must start a fresh conversation, got %s", other.SessionID)
	}

	view, err := svc.GetConversation(ctx, first.SessionID)
	if err != nil {
		t.Fatalf("GetConversation error: %v", err)
	}
	if len(view.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(view.Messages))
	}
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	svc, db := newTestService(t, nil)
	if _, err := svc.SendMessage(context.Background(), SendRequest{Text: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("empty message must not create a conversation")
	}
}

func TestGetConversationErrors(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	if _, err := svc.GetConversation(ctx, ""); !errors.Is(err, ErrMissingSession) {
		t.Fatalf("expected ErrMissingSession, got %v", err)
	}
	if _, err := svc.GetConversation(ctx, "nope"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestGetConversationFailsOnDeletedCatalogRecord(t *testing.T) {
	svc, db := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.SendMessage(ctx, SendRequest{Text: "un vol pour Rome"})
	if err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	if !res.Reply.Recommendations[0].IsCatalog() {
		t.Fatalf("expected a catalog flight, got %+v", res.Reply.Recommendations[0])
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, res.Reply.Recommendations[0].CatalogID); err != nil {
		t.Fatalf("delete flight: %v", err)
	}

	_, err = svc.GetConversation(ctx, res.SessionID)
	if err == nil {
		t.Fatalf("expected error for dangling recommendation")
	}
	if errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("dangling link must not look like a missing conversation")
	}
}

func TestNewConversationWelcome(t *testing.T) {
	svc, db := newTestService(t, nil)
	ctx := context.Background()
	userID := insertTestUser(t, db, "amel@example.com")

	res, err := svc.NewConversation(ctx, &userID)
	if err != nil {
		t.Fatalf("NewConversation error: %v", err)
	}
	if res.Welcome.Text != welcomeText || res.Welcome.ID == 0 || res.Welcome.Intent != models.IntentGreeting {
		t.Fatalf("unexpected welcome %+v", res.Welcome)
	}

	convs, err := svc.ListUserConversations(ctx, userID)
	if err != nil {
		t.Fatalf("ListUserConversations error: %v", err)
	}
	if len(convs) != 1 || convs[0].SessionID != res.SessionID {
		t.Fatalf("unexpected conversations %+v", convs)
	}
}

func TestSendMessageClaimsAnonymousConversation(t *testing.T) {
	svc, db := newTestService(t, nil)
	ctx := context.Background()
	userID := insertTestUser(t, db, "sami@example.com")

	anon, err := svc.NewConversation(ctx, nil)
	if err != nil {
		t.Fatalf("NewConversation error: %v", err)
	}
	if _, err := svc.SendMessage(ctx, SendRequest{SessionID: anon.SessionID, Text: "Bonjour", UserID: &userID}); err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	convs, err := svc.ListUserConversations(ctx, userID)
	if err != nil {
		t.Fatalf("ListUserConversations error: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected conversation to be attached to user, got %d", len(convs))
	}
}

func TestSendMessagePassesHistoryAndSuggestedIntent(t *testing.T) {
	gen := &recordingGenerator{reply: llm.Reply{Text: "Vous voulez partir en avion ?", Intent: "search_flight"}}
	svc, _ := newTestService(t, gen)
	ctx := context.Background()

	conv, err := svc.NewConversation(ctx, nil)
	if err != nil {
		t.Fatalf("NewConversation error: %v", err)
	}
	res, err := svc.SendMessage(ctx, SendRequest{SessionID: conv.SessionID, Text: "je veux partir loin"})
	if err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	if res.Reply.Text != "Vous voulez partir en avion ?" {
		t.Fatalf("expected generated text, got %q", res.Reply.Text)
	}
	if res.Reply.Intent != models.IntentSearchFlight {
		t.Fatalf("expected suggested intent to be stored, got %s", res.Reply.Intent)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("expected one generator call, got %d", len(gen.prompts))
	}
	p := gen.prompts[0]
	if p.Mode != llm.ModeAnalyze || p.UserText != "je veux partir loin" {
		t.Fatalf("unexpected prompt %+v", p)
	}
	if len(p.History) != 1 || p.History[0].Role != "bot" || p.History[0].Content != welcomeText {
		t.Fatalf("expected welcome message as history, got %+v", p.History)
	}
}

func TestSendMessageFallsBackWhenGeneratorFails(t *testing.T) {
	gen := &recordingGenerator{err: &llm.Failure{Provider: "recording", Reason: llm.ReasonTimeout}}
	svc, _ := newTestService(t, gen)

	res, err := svc.SendMessage(context.Background(), SendRequest{Text: "Bonjour"})
	if err != nil {
		t.Fatalf("generator failure must not surface: %v", err)
	}
	if res.Reply.Intent != models.IntentGreeting || res.Reply.Text == "" {
		t.Fatalf("expected templated greeting, got %+v", res.Reply)
	}
}

func TestLatestRecommendationsAndFAQs(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.SendMessage(ctx, SendRequest{Text: "un circuit à Djerba"})
	if err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	if _, err := svc.SendMessage(ctx, SendRequest{SessionID: res.SessionID, Text: "merci"}); err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	recs, err := svc.LatestRecommendations(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("LatestRecommendations error: %v", err)
	}
	if len(recs) != 3 || recs[0].Name != "Découverte du Sud tunisien" {
		t.Fatalf("unexpected latest recommendations %+v", recs)
	}

	faqs, err := svc.FAQs(ctx)
	if err != nil {
		t.Fatalf("FAQs error: %v", err)
	}
	if len(faqs) != 4 {
		t.Fatalf("expected 4 seeded faqs, got %d", len(faqs))
	}
}
