package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"traveltodo/internal/config"
	"traveltodo/internal/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChat struct {
	content string
	err     error
	got     []*schema.Message
	opts    *model.Options
}

func (f *fakeChat) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.got = input
	f.opts = model.GetCommonOptions(nil, opts...)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChat) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func TestParseEnvelopeStripsFences(t *testing.T) {
	raw := "```json\n{\"intent\":\"search_hotel\",\"entities\":{\"destination\":\"Djerba\"},\"response\":\"Voici des hôtels\",\"confidence\":0.9}\n```"
	reply, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope error: %v", err)
	}
	if reply.Intent != "search_hotel" || reply.Text != "Voici des hôtels" || reply.Confidence != 0.9 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if reply.Entities["destination"] != "Djerba" {
		t.Fatalf("unexpected entities: %+v", reply.Entities)
	}
}

func TestFinishRecoversRawTextInAnalyzeMode(t *testing.T) {
	raw := strings.Repeat("é", 250)
	reply, err := finish("test", ModeAnalyze, raw)
	if err != nil {
		t.Fatalf("finish error: %v", err)
	}
	if len([]rune(reply.Text)) != rawReplyCap {
		t.Fatalf("expected text capped at %d runes, got %d", rawReplyCap, len([]rune(reply.Text)))
	}
	if reply.Intent != "unknown" || reply.Confidence != 0.5 {
		t.Fatalf("unexpected recovered reply: %+v", reply)
	}

	_, err = finish("test", ModeConversation, "   ")
	f, ok := AsFailure(err)
	if !ok || f.Reason != ReasonEmpty {
		t.Fatalf("expected empty failure, got %v", err)
	}
}

func TestBuildRequestKeepsLastThreeTurns(t *testing.T) {
	history := []Turn{
		{Role: "user", Content: "un"},
		{Role: "bot", Content: "deux"},
		{Role: "user", Content: "trois"},
		{Role: "bot", Content: "quatre"},
	}
	req := buildRequest(Prompt{Mode: ModeConversation, UserText: "cinq", History: history})
	if len(req.History) != 3 || req.History[0].Content != "deux" {
		t.Fatalf("unexpected history: %+v", req.History)
	}
	flat := req.flatten()
	if !strings.Contains(flat, "Assistant: quatre") || !strings.Contains(flat, "Message utilisateur: cinq") {
		t.Fatalf("unexpected flattened prompt: %s", flat)
	}

	rec := buildRequest(Prompt{Mode: ModeRecommendations, Intent: "search_flight", ResultCount: 3, History: history})
	if len(rec.History) != 0 || !strings.Contains(rec.User, "Résultats trouvés: 3") {
		t.Fatalf("unexpected recommendations request: %+v", rec)
	}
}

func TestEinoGeneratorSendsMessagesAndOptions(t *testing.T) {
	chat := &fakeChat{content: "Bon voyage !"}
	gen := NewEinoGenerator("openai", chat, time.Second)

	reply, err := gen.Generate(context.Background(), Prompt{
		Mode:     ModeConversation,
		UserText: "Bonjour",
		History:  []Turn{{Role: "user", Content: "Salut"}, {Role: "bot", Content: "Bonjour !"}},
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if reply.Text != "Bon voyage !" {
		t.Fatalf("unexpected reply text %q", reply.Text)
	}
	if len(chat.got) != 4 {
		t.Fatalf("expected system + 2 history + user messages, got %d", len(chat.got))
	}
	if chat.got[0].Role != schema.System || chat.got[2].Role != schema.Assistant || chat.got[3].Role != schema.User {
		t.Fatalf("unexpected roles: %v %v %v", chat.got[0].Role, chat.got[2].Role, chat.got[3].Role)
	}
	if chat.opts.MaxTokens == nil || *chat.opts.MaxTokens != maxTokens {
		t.Fatalf("expected max tokens option")
	}
	if chat.opts.Temperature == nil || *chat.opts.Temperature != float32(temperature) {
		t.Fatalf("expected temperature option")
	}
}

func TestEinoGeneratorWrapsErrors(t *testing.T) {
	gen := NewEinoGenerator("claude", &fakeChat{err: errors.New("connection reset")}, time.Second)
	_, err := gen.Generate(context.Background(), Prompt{Mode: ModeConversation, UserText: "hi"})
	f, ok := AsFailure(err)
	if !ok {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if f.Provider != "claude" || f.Reason != ReasonTransport {
		t.Fatalf("unexpected failure: %+v", f)
	}
	if Outcome(err) != "transport" || Outcome(nil) != "ok" {
		t.Fatalf("unexpected outcome labels")
	}
}

func newHFServer(t *testing.T, handler http.HandlerFunc) *huggingFaceGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newHuggingFaceGenerator(config.ProviderConfig{
		BaseURL: srv.URL,
		Model:   "test/model",
		APIKey:  "hf-key",
	}, time.Second)
}

func TestHuggingFaceGenerate(t *testing.T) {
	var got hfRequest
	gen := newHFServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test/model" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer hf-key" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"generated_text":"{\"intent\":\"greeting\",\"entities\":{},\"response\":\"Bonjour !\",\"confidence\":1}"}]`))
	})

	reply, err := gen.Generate(context.Background(), Prompt{Mode: ModeAnalyze, UserText: "salut"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if reply.Intent != "greeting" || reply.Text != "Bonjour !" || reply.Confidence != 1 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if got.Parameters.MaxNewTokens != maxTokens || got.Parameters.ReturnFullText {
		t.Fatalf("unexpected parameters: %+v", got.Parameters)
	}
	if !strings.Contains(got.Inputs, "Message utilisateur: salut") {
		t.Fatalf("prompt missing user text: %s", got.Inputs)
	}
}

func TestHuggingFaceFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		reason Reason
	}{
		{"loading", http.StatusServiceUnavailable, `{"error":"loading"}`, ReasonStatus},
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad token"}`, ReasonStatus},
		{"malformed", http.StatusOK, `not json`, ReasonDecode},
		{"empty list", http.StatusOK, `[]`, ReasonEmpty},
		{"blank text", http.StatusOK, `[{"generated_text":"  "}]`, ReasonEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := newHFServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := gen.Generate(context.Background(), Prompt{Mode: ModeConversation, UserText: "hello"})
			f, ok := AsFailure(err)
			if !ok {
				t.Fatalf("expected *Failure, got %v", err)
			}
			if f.Reason != tc.reason {
				t.Fatalf("expected reason %s, got %s", tc.reason, f.Reason)
			}
			if tc.reason == ReasonStatus && f.Status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, f.Status)
			}
		})
	}
}

func TestHuggingFaceTimeout(t *testing.T) {
	gen := newHFServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := gen.Generate(ctx, Prompt{Mode: ModeConversation, UserText: "hello"})
	f, ok := AsFailure(err)
	if !ok || f.Reason != ReasonTimeout {
		t.Fatalf("expected timeout failure, got %v", err)
	}
}

func TestNewSelectsGenerator(t *testing.T) {
	ctx := context.Background()
	log := logger.Nop()

	cfg := config.Default()
	gen, avail := New(ctx, cfg, log)
	if avail != Unavailable || gen.Name() != "none" {
		t.Fatalf("expected disabled generator by default, got %s/%s", gen.Name(), avail)
	}
	_, err := gen.Generate(ctx, Prompt{UserText: "hi"})
	if f, ok := AsFailure(err); !ok || f.Reason != ReasonUnavailable {
		t.Fatalf("expected unavailable failure, got %v", err)
	}

	cfg.Chatbot.Provider = config.ProviderOpenAI
	cfg.Providers = map[string]config.ProviderConfig{}
	if _, avail := New(ctx, cfg, log); avail != Unavailable {
		t.Fatalf("expected unavailable without api key")
	}

	cfg.Providers[config.ProviderOpenAI] = config.ProviderConfig{APIKey: "sk-test"}
	gen, avail = New(ctx, cfg, log)
	if avail != Available || gen.Name() != config.ProviderOpenAI {
		t.Fatalf("expected openai generator, got %s/%s", gen.Name(), avail)
	}

	cfg.Chatbot.Provider = config.ProviderHuggingFace
	cfg.Providers[config.ProviderHuggingFace] = config.ProviderConfig{APIKey: "hf-test"}
	gen, avail = New(ctx, cfg, log)
	if avail != Available || gen.Name() != config.ProviderHuggingFace {
		t.Fatalf("expected huggingface generator, got %s/%s", gen.Name(), avail)
	}
}
