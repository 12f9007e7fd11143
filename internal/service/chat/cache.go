package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"traveltodo/internal/llm"
	"traveltodo/internal/logger"
	"traveltodo/internal/redis"
)

const historyTTL = 30 * time.Minute

// historyCache keeps the last few turns of each conversation in a redis list
// so a turn does not have to read the messages table. A nil client disables
// it; every failure is logged and treated as a miss.
type historyCache struct {
	client *redis.Client
	window int
	log    *logger.Logger
}

type cachedTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func historyKey(sessionID string) string {
	return fmt.Sprintf("chat:history:%s", sessionID)
}

// load returns the cached turns and whether the key was present.
func (h *historyCache) load(ctx context.Context, sessionID string) ([]llm.Turn, bool) {
	if h == nil || h.client == nil {
		return nil, false
	}
	key := historyKey(sessionID)
	entries, err := h.client.Range(ctx, key, int64(-h.window), -1)
	if err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("history cache read failed")
		return nil, false
	}
	if len(entries) == 0 {
		return nil, false
	}
	turns := make([]llm.Turn, 0, len(entries))
	for _, raw := range entries {
		var ct cachedTurn
		if err := json.Unmarshal([]byte(raw), &ct); err != nil {
			h.log.Warn().Err(err).Str("key", key).Msg("history cache entry corrupt, dropping key")
			h.invalidate(ctx, sessionID)
			return nil, false
		}
		turns = append(turns, llm.Turn{Role: ct.Role, Content: ct.Content})
	}
	return turns, true
}

// append pushes turns and trims the list to the window.
func (h *historyCache) append(ctx context.Context, sessionID string, turns ...llm.Turn) {
	if h == nil || h.client == nil || len(turns) == 0 {
		return
	}
	values := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		data, err := json.Marshal(cachedTurn{Role: t.Role, Content: t.Content})
		if err != nil {
			h.log.Warn().Err(err).Msg("history cache marshal failed")
			return
		}
		values = append(values, data)
	}
	if err := h.client.PushCapped(ctx, historyKey(sessionID), int64(h.window), historyTTL, values...); err != nil {
		h.log.Warn().Err(err).Str("session_id", sessionID).Msg("history cache write failed")
	}
}

func (h *historyCache) invalidate(ctx context.Context, sessionID string) {
	if h == nil || h.client == nil {
		return
	}
	if err := h.client.Del(ctx, historyKey(sessionID)); err != nil {
		h.log.Warn().Err(err).Str("session_id", sessionID).Msg("history cache delete failed")
	}
}
