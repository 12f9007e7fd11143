package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"traveltodo/internal/llm"
	"traveltodo/internal/models"

	"github.com/google/uuid"
)

// webRecord is a synthesized recommendation stored inline on its message,
// keeping its position among the catalog links.
type webRecord struct {
	Position int `json:"position"`
	models.Recommendation
}

type linkRecord struct {
	messageID int64
	kind      models.RecommendationType
	recordID  int64
	position  int
}

func (s *Service) findConversation(ctx context.Context, sessionID string) (*models.Conversation, error) {
	var (
		c      models.Conversation
		userID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, user_id, started_at, last_activity, is_active FROM conversations WHERE session_id = ?`,
		sessionID,
	).Scan(&c.ID, &c.SessionID, &userID, &c.StartedAt, &c.LastActivity, &c.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if userID.Valid {
		c.UserID = &userID.Int64
	}
	return &c, nil
}

func (s *Service) createConversation(ctx context.Context, userID *int64) (*models.Conversation, error) {
	now := time.Now().UTC()
	c := models.Conversation{
		SessionID:    uuid.NewString(),
		UserID:       userID,
		StartedAt:    now,
		LastActivity: now,
		IsActive:     true,
	}
	id, err := s.db.InsertContext(ctx,
		`INSERT INTO conversations (session_id, user_id, started_at, last_activity, is_active) VALUES (?, ?, ?, ?, ?)`,
		c.SessionID, nullableID(userID), now, now, true,
	)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	c.ID = id
	return &c, nil
}

// claimConversation attaches an anonymous conversation to a user.
func (s *Service) claimConversation(ctx context.Context, c *models.Conversation, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET user_id = ? WHERE id = ? AND user_id IS NULL`, userID, c.ID)
	if err != nil {
		return fmt.Errorf("claim conversation: %w", err)
	}
	c.UserID = &userID
	return nil
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func (s *Service) insertUserMessage(ctx context.Context, conversationID int64, text string) (*models.Message, error) {
	now := time.Now().UTC()
	id, err := s.db.InsertContext(ctx,
		`INSERT INTO messages (conversation_id, sender, message, intent, entities, web_recommendations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		conversationID, models.SenderUser, text, "", "{}", "[]", now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user message: %w", err)
	}
	return &models.Message{
		ID:             id,
		ConversationID: conversationID,
		Sender:         models.SenderUser,
		Text:           text,
		CreatedAt:      now,
	}, nil
}

// saveBotMessage stores the reply, its catalog links and its web items in
// one transaction and bumps the conversation's last activity.
func (s *Service) saveBotMessage(ctx context.Context, msg *models.Message) error {
	entities, err := json.Marshal(msg.Entities)
	if err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}
	var (
		web   = []webRecord{}
		links []linkRecord
	)
	for i, rec := range msg.Recommendations {
		if rec.IsCatalog() {
			links = append(links, linkRecord{kind: rec.Type, recordID: rec.CatalogID, position: i})
			continue
		}
		web = append(web, webRecord{Position: i, Recommendation: rec})
	}
	webJSON, err := json.Marshal(web)
	if err != nil {
		return fmt.Errorf("encode web recommendations: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	id, err := tx.InsertContext(ctx,
		`INSERT INTO messages (conversation_id, sender, message, intent, entities, web_recommendations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ConversationID, models.SenderBot, msg.Text, string(msg.Intent), string(entities), string(webJSON), now,
	)
	if err != nil {
		return fmt.Errorf("insert bot message: %w", err)
	}
	for _, l := range links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO message_recommendations (message_id, kind, record_id, position) VALUES (?, ?, ?, ?)`,
			id, string(l.kind), l.recordID, l.position,
		); err != nil {
			return fmt.Errorf("link recommendation: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET last_activity = ? WHERE id = ?`, now, msg.ConversationID,
	); err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bot message: %w", err)
	}
	msg.ID = id
	msg.CreatedAt = now
	return nil
}

// recentTurns returns up to limit messages that precede beforeID, oldest first.
func (s *Service) recentTurns(ctx context.Context, conversationID, beforeID int64, limit int) ([]llm.Turn, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT sender, message FROM messages WHERE conversation_id = ? AND id < ? ORDER BY id DESC LIMIT ?`,
		conversationID, beforeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var turns []llm.Turn
	for rows.Next() {
		var t llm.Turn
		if err := rows.Scan(&t.Role, &t.Content); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *Service) loadMessages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sender, message, intent, entities, web_recommendations, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var (
		messages []models.Message
		webByMsg = make(map[int64][]webRecord)
	)
	for rows.Next() {
		var (
			m        models.Message
			intent   string
			entities string
			web      string
		)
		if err := rows.Scan(&m.ID, &m.Sender, &m.Text, &intent, &entities, &web, &m.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ConversationID = conversationID
		m.Intent = models.Intent(intent)
		if entities != "" {
			if err := json.Unmarshal([]byte(entities), &m.Entities); err != nil {
				rows.Close()
				return nil, fmt.Errorf("decode entities of message %d: %w", m.ID, err)
			}
		}
		if web != "" && web != "[]" {
			var recs []webRecord
			if err := json.Unmarshal([]byte(web), &recs); err != nil {
				rows.Close()
				return nil, fmt.Errorf("decode web recommendations of message %d: %w", m.ID, err)
			}
			webByMsg[m.ID] = recs
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	links, err := s.loadLinks(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	for i := range messages {
		m := &messages[i]
		if m.Sender != models.SenderBot {
			continue
		}
		recs, err := s.assemble(ctx, links[m.ID], webByMsg[m.ID])
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", m.ID, err)
		}
		m.Recommendations = recs
	}
	return messages, nil
}

func (s *Service) loadLinks(ctx context.Context, conversationID int64) (map[int64][]linkRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mr.message_id, mr.kind, mr.record_id, mr.position
		 FROM message_recommendations mr JOIN messages m ON m.id = mr.message_id
		 WHERE m.conversation_id = ? ORDER BY mr.message_id, mr.position`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recommendation links: %w", err)
	}
	defer rows.Close()

	links := make(map[int64][]linkRecord)
	for rows.Next() {
		var (
			l    linkRecord
			kind string
		)
		if err := rows.Scan(&l.messageID, &kind, &l.recordID, &l.position); err != nil {
			return nil, fmt.Errorf("scan recommendation link: %w", err)
		}
		l.kind = models.RecommendationType(kind)
		links[l.messageID] = append(links[l.messageID], l)
	}
	return links, rows.Err()
}

// assemble re-reads linked catalog records and merges them with the stored
// web items in their original order. A link to a deleted record is an error.
func (s *Service) assemble(ctx context.Context, links []linkRecord, web []webRecord) ([]models.Recommendation, error) {
	total := len(links) + len(web)
	if total == 0 {
		return nil, nil
	}
	type positioned struct {
		pos int
		rec models.Recommendation
	}
	items := make([]positioned, 0, total)
	for _, l := range links {
		rec, err := s.catalog.Recommendation(ctx, l.kind, l.recordID)
		if err != nil {
			return nil, fmt.Errorf("resolve recommendation: %w", err)
		}
		items = append(items, positioned{pos: l.position, rec: rec})
	}
	for _, w := range web {
		items = append(items, positioned{pos: w.Position, rec: w.Recommendation})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].pos < items[j].pos })

	recs := make([]models.Recommendation, 0, total)
	for _, it := range items {
		recs = append(recs, it.rec)
	}
	return recs, nil
}

func (s *Service) listConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, started_at, last_activity, is_active FROM conversations
		 WHERE user_id = ? ORDER BY last_activity DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		c := models.Conversation{UserID: &userID}
		if err := rows.Scan(&c.ID, &c.SessionID, &c.StartedAt, &c.LastActivity, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (s *Service) activeFAQs(ctx context.Context, limit int) ([]models.FAQ, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, answer, keywords, category FROM faqs WHERE is_active = ? ORDER BY id ASC LIMIT ?`,
		true, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	defer rows.Close()

	var faqs []models.FAQ
	for rows.Next() {
		var f models.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.Keywords, &f.Category); err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}
