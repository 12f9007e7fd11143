package chatbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"traveltodo/internal/llm"
	"traveltodo/internal/logger"
	"traveltodo/internal/metrics"
	"traveltodo/internal/models"
)

const (
	greetingReply = "Bonjour ! 👋 Je suis votre assistant voyage TravelTodo. Comment puis-je vous aider aujourd'hui ? Vous cherchez un hôtel, un vol ou un circuit ?"
	thanksReply   = "Avec plaisir ! 😊 N'hésitez pas si vous avez d'autres questions !"
	fallbackReply = "Je ne suis pas sûr de comprendre. Pouvez-vous reformuler votre question ?"
	helpReply     = "Je peux vous aider à trouver un hôtel, un vol ou un circuit. Dites-moi par exemple : « un hôtel 4 étoiles à Djerba avec piscine, budget 300 TND »."
	languageReply = "Je réponds en français pour le moment. Décrivez-moi votre voyage et je vous propose des hôtels, des vols ou des circuits."
)

// Turn is everything the responder needs to answer one message.
type Turn struct {
	Intent          models.Intent
	Entities        models.Entities
	Recommendations []models.Recommendation
	UserText        string
	History         []llm.Turn
}

// Reply is the text sent back to the user. SuggestedIntent is set when the
// generator classified a message the keyword analyzer could not.
type Reply struct {
	Text            string
	FromGenerator   bool
	SuggestedIntent models.Intent
}

type Responder struct {
	gen     llm.Generator
	avail   llm.Availability
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewResponder(gen llm.Generator, avail llm.Availability, log *logger.Logger, m *metrics.Metrics) *Responder {
	if gen == nil {
		gen, avail = llm.Disabled{}, llm.Unavailable
	}
	return &Responder{gen: gen, avail: avail, log: log, metrics: m}
}

// Available reports whether a generator is wired in.
func (r *Responder) Available() llm.Availability {
	return r.avail
}

// Respond never returns an empty reply. Generator failures are logged and
// answered from templates.
func (r *Responder) Respond(ctx context.Context, t Turn) Reply {
	if r.avail == llm.Available {
		if reply, ok := r.generate(ctx, t); ok {
			return reply
		}
	}
	if len(t.Recommendations) > 0 {
		return Reply{Text: recommendationsText(t.Intent, t.Entities, t.Recommendations)}
	}
	return Reply{Text: templateText(t.Intent, t.Entities)}
}

func (r *Responder) generate(ctx context.Context, t Turn) (Reply, bool) {
	var prompt llm.Prompt
	switch {
	case len(t.Recommendations) > 0:
		prompt = llm.Prompt{Mode: llm.ModeRecommendations, Intent: string(t.Intent), ResultCount: len(t.Recommendations)}
	case strings.TrimSpace(t.UserText) == "":
		return Reply{}, false
	case t.Intent == models.IntentUnknown:
		prompt = llm.Prompt{Mode: llm.ModeAnalyze, UserText: t.UserText, History: t.History}
	default:
		prompt = llm.Prompt{Mode: llm.ModeConversation, UserText: t.UserText, History: t.History}
	}

	start := time.Now()
	out, err := r.gen.Generate(ctx, prompt)
	elapsed := time.Since(start)
	r.metrics.ObserveGenerator(r.gen.Name(), llm.Outcome(err), elapsed)
	r.log.LogGeneratorCall(r.gen.Name(), elapsed, err)
	if err != nil {
		return Reply{}, false
	}

	reply := Reply{Text: out.Text, FromGenerator: true}
	if prompt.Mode == llm.ModeAnalyze {
		if intent, ok := models.ParseIntent(out.Intent); ok {
			reply.SuggestedIntent = intent
		}
	}
	return reply, true
}

// templateText answers recognized intents without a generator. Only
// IntentUnknown gets the generic rephrase request.
func templateText(intent models.Intent, e models.Entities) string {
	switch intent {
	case models.IntentGreeting:
		return greetingReply
	case models.IntentThanks:
		return thanksReply
	case models.IntentHelp:
		return helpReply
	case models.IntentLanguageSwitch:
		return languageReply
	case models.IntentSearchHotel:
		return noResultsText("hôtel", e)
	case models.IntentSearchFlight:
		return noResultsText("vol", e)
	case models.IntentSearchPackage:
		return noResultsText("circuit", e)
	case models.IntentPriceQuery:
		return priceText(e)
	case models.IntentAmenities:
		return amenitiesText(e)
	case models.IntentDestination:
		return destinationText(e)
	default:
		return fallbackReply
	}
}

func noResultsText(kind string, e models.Entities) string {
	text := "Désolé, je n'ai trouvé aucun " + kind
	if c := criteriaText(e); c != "" {
		text += " " + c
	}
	return text + " pour le moment. Essayez d'élargir votre budget ou de choisir une autre destination."
}

func priceText(e models.Entities) string {
	switch {
	case e.Destination != "" && e.Budget != nil:
		return fmt.Sprintf("Pour %s avec un budget de %d TND, dites-moi si vous cherchez un hôtel, un vol ou un circuit et je vous montre les meilleurs tarifs.", e.Destination, *e.Budget)
	case e.Destination != "":
		return fmt.Sprintf("Les tarifs pour %s dépendent de la saison et du type d'offre. Cherchez-vous un hôtel, un vol ou un circuit ?", e.Destination)
	case e.Budget != nil:
		return fmt.Sprintf("Avec un budget de %d TND, je peux vous proposer des hôtels, des vols ou des circuits. Quelle destination vous tente ?", *e.Budget)
	default:
		return "Nos prix varient selon la destination et la saison. Indiquez-moi une destination et un budget, par exemple « Paris, 300 TND »."
	}
}

func amenitiesText(e models.Entities) string {
	if len(e.Amenities) == 0 {
		return "Quels équipements vous intéressent ? Wifi, piscine, spa, parking, restaurant ou vue mer ?"
	}
	text := "Je note que vous souhaitez : " + strings.Join(e.Amenities, ", ") + "."
	if e.Destination != "" {
		return text + " Je peux chercher des hôtels à " + e.Destination + " qui les proposent, il suffit de me le demander."
	}
	return text + " Dans quelle ville cherchez-vous un hôtel avec ces équipements ?"
}

func destinationText(e models.Entities) string {
	if e.Destination == "" {
		return "Quelle destination vous fait rêver ? Je peux vous proposer des hôtels, des vols ou des circuits."
	}
	return fmt.Sprintf("%s, excellent choix ! ✈️ Souhaitez-vous un hôtel, un vol ou un circuit à %s ?", e.Destination, e.Destination)
}

func criteriaText(e models.Entities) string {
	var criteria []string
	if e.Destination != "" {
		criteria = append(criteria, "à "+e.Destination)
	}
	if e.Budget != nil {
		criteria = append(criteria, fmt.Sprintf("budget max %d TND", *e.Budget))
	}
	return strings.Join(criteria, ", ")
}

func plural(n int, word string) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

func recommendationsText(intent models.Intent, e models.Entities, recs []models.Recommendation) string {
	count := len(recs)
	var intro string
	switch intent {
	case models.IntentSearchHotel:
		intro = fmt.Sprintf("J'ai trouvé %d %s pour vous", count, plural(count, "hôtel"))
	case models.IntentSearchFlight:
		intro = fmt.Sprintf("J'ai trouvé %d %s pour vous", count, plural(count, "vol"))
	case models.IntentSearchPackage:
		intro = fmt.Sprintf("J'ai trouvé %d %s pour vous", count, plural(count, "circuit"))
	default:
		intro = fmt.Sprintf("Voici %d %s", count, plural(count, "recommandation"))
	}

	if c := criteriaText(e); c != "" {
		intro += " " + c
	}
	return intro + " ! 🎉\n\nCliquez sur une carte ci-dessous pour voir les détails."
}
