package llm

import (
	"context"
	"fmt"
	"time"

	"traveltodo/internal/config"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

var defaultModels = map[string]string{
	config.ProviderOpenAI:      "gpt-4o-mini",
	config.ProviderClaude:      "claude-3-5-haiku-latest",
	config.ProviderGemini:      "gemini-2.0-flash",
	config.ProviderHuggingFace: "mistralai/Mistral-7B-Instruct-v0.3",
}

type einoGenerator struct {
	provider string
	chat     model.BaseChatModel
	timeout  time.Duration
}

// NewEinoGenerator adapts any eino chat model to Generator.
func NewEinoGenerator(provider string, chat model.BaseChatModel, timeout time.Duration) Generator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &einoGenerator{provider: provider, chat: chat, timeout: timeout}
}

func (g *einoGenerator) Name() string { return g.provider }

func (g *einoGenerator) Generate(ctx context.Context, p Prompt) (Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.chat.Generate(ctx, toSchemaMessages(buildRequest(p)),
		model.WithTemperature(temperature),
		model.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return Reply{}, transportFailure(ctx, g.provider, err)
	}
	if out == nil {
		return Reply{}, failure(g.provider, ReasonEmpty, nil)
	}
	return finish(g.provider, p.Mode, out.Content)
}

func toSchemaMessages(r request) []*schema.Message {
	messages := make([]*schema.Message, 0, len(r.History)+2)
	messages = append(messages, schema.SystemMessage(r.System))
	for _, t := range r.History {
		if t.Role == "user" {
			messages = append(messages, schema.UserMessage(t.Content))
		} else {
			messages = append(messages, schema.AssistantMessage(t.Content, nil))
		}
	}
	return append(messages, schema.UserMessage(r.User))
}

// newChatModel builds the eino client for one of the SDK-backed vendors.
func newChatModel(ctx context.Context, provider string, pc config.ProviderConfig) (model.BaseChatModel, error) {
	modelName := pc.Model
	if modelName == "" {
		modelName = defaultModels[provider]
	}

	switch provider {
	case config.ProviderOpenAI:
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: pc.BaseURL,
			Model:   modelName,
			APIKey:  pc.APIKey,
		})
	case config.ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: pc.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("new gemini client: %w", err)
		}
		return gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  modelName,
		})
	case config.ProviderClaude:
		var baseURLPtr *string
		if pc.BaseURL != "" {
			baseURLPtr = &pc.BaseURL
		}
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey:    pc.APIKey,
			Model:     modelName,
			BaseURL:   baseURLPtr,
			MaxTokens: maxTokens,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
}
