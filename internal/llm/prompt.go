package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	historyLimit = 3
	temperature  = 0.7
	maxTokens    = 800
	rawReplyCap  = 200
)

const analyzePreamble = `Tu es TravelTodo Assistant, un assistant de voyage intelligent et conversationnel pour TravelTodo.

Ton rôle:
- Avoir une conversation naturelle et chaleureuse
- Aider avec les hôtels, vols et circuits
- Comprendre les besoins implicites
- Être tolérant aux fautes de frappe
- Parler la langue de l'utilisateur (Français, Arabe, Anglais)

Format de réponse attendu (JSON):
{
    "intent": "search_hotel|search_flight|search_package|price_query|amenities|destination|greeting|thanks|help|language_switch|unknown",
    "entities": {
        "destination": "ville/pays",
        "budget": nombre (TND),
        "stars": nombre (1-5)
    },
    "response": "réponse conversationnelle",
    "confidence": 0.0-1.0
}`

const conversationPreamble = `Tu es TravelTodo Assistant. Réponds de manière naturelle, chaleureuse et utile.
Réponds toujours dans la même langue que l'utilisateur (Français, Arabe ou Anglais).
Ne donne pas de JSON, juste du texte brut.
Sois concis (2-3 phrases).`

const recommendationsPreamble = `Tu es un assistant de voyage.`

// request is the vendor-neutral shape of one call.
type request struct {
	System  string
	History []Turn
	User    string
}

func buildRequest(p Prompt) request {
	switch p.Mode {
	case ModeAnalyze:
		return request{
			System:  analyzePreamble,
			History: truncateHistory(p.History),
			User: fmt.Sprintf("Message utilisateur: %s\nAnalyse ce message et réponds UNIQUEMENT avec le JSON demandé.",
				p.UserText),
		}
	case ModeRecommendations:
		return request{
			System: recommendationsPreamble,
			User: fmt.Sprintf("L'utilisateur a cherché: %s\nRésultats trouvés: %d\n\nGénère une phrase courte et engageante pour présenter ces résultats.",
				p.Intent, p.ResultCount),
		}
	default:
		return request{
			System:  conversationPreamble,
			History: truncateHistory(p.History),
			User:    "Message utilisateur: " + p.UserText,
		}
	}
}

func truncateHistory(history []Turn) []Turn {
	if len(history) <= historyLimit {
		return history
	}
	return history[len(history)-historyLimit:]
}

// flatten renders a request as one prompt string for text-completion APIs.
func (r request) flatten() string {
	var b strings.Builder
	b.WriteString(r.System)
	b.WriteString("\n\n")
	if len(r.History) > 0 {
		b.WriteString("Historique:\n")
		for _, t := range r.History {
			speaker := "Assistant"
			if t.Role == "user" {
				speaker = "Utilisateur"
			}
			b.WriteString(speaker)
			b.WriteString(": ")
			b.WriteString(t.Content)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	b.WriteString(r.User)
	return b.String()
}

type envelope struct {
	Intent     string         `json:"intent"`
	Entities   map[string]any `json:"entities"`
	Response   string         `json:"response"`
	Confidence *float64       `json:"confidence"`
}

// ParseEnvelope decodes the JSON reply format, tolerating markdown fences.
func ParseEnvelope(raw string) (Reply, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var env envelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return Reply{}, err
	}
	reply := Reply{
		Text:       strings.TrimSpace(env.Response),
		Intent:     env.Intent,
		Entities:   env.Entities,
		Confidence: 0.5,
	}
	if reply.Intent == "" {
		reply.Intent = "unknown"
	}
	if env.Confidence != nil {
		reply.Confidence = *env.Confidence
	}
	return reply, nil
}

// finish turns raw model text into a Reply for the prompt's mode. In
// ModeAnalyze an unparsable payload is recovered as free-form text.
func finish(provider string, mode Mode, raw string) (Reply, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Reply{}, failure(provider, ReasonEmpty, nil)
	}
	if mode != ModeAnalyze {
		return Reply{Text: text}, nil
	}

	reply, err := ParseEnvelope(text)
	if err != nil {
		return Reply{
			Text:       truncateRunes(text, rawReplyCap),
			Intent:     "unknown",
			Confidence: 0.5,
		}, nil
	}
	if reply.Text == "" {
		return Reply{}, failure(provider, ReasonEmpty, fmt.Errorf("envelope without response"))
	}
	return reply, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
