// Package chatbot turns a user message into an intent, a set of
// recommendations and a reply.
package chatbot

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"traveltodo/internal/models"
)

// MatchConfidence is reported whenever at least one intent keyword matched.
const MatchConfidence = 0.8

// Analysis is the result of classifying one message.
type Analysis struct {
	Intent     models.Intent   `json:"intent"`
	Confidence float64         `json:"confidence"`
	Entities   models.Entities `json:"entities"`
}

type keywordGroup struct {
	intent   models.Intent
	keywords []string
}

// intentKeywords is ordered: the first group with a hit wins.
var intentKeywords = []keywordGroup{
	{models.IntentSearchHotel, []string{"hotel", "hôtel", "chambre", "dormir", "hébergement", "loger"}},
	{models.IntentSearchFlight, []string{"vol", "avion", "billet", "voler"}},
	{models.IntentSearchPackage, []string{"circuit", "voyage", "séjour", "package", "tout compris"}},
	{models.IntentPriceQuery, []string{"prix", "coût", "tarif", "cher", "pas cher", "économique", "budget"}},
	{models.IntentAmenities, []string{"wifi", "piscine", "spa", "parking", "restaurant", "vue mer"}},
	{models.IntentDestination, []string{"paris", "rome", "londres", "tunis", "france", "italie"}},
	{models.IntentGreeting, []string{"bonjour", "salut", "hello", "bonsoir", "coucou", "alut", "slt", "bjr", "bsr", "hey", "hi"}},
	{models.IntentThanks, []string{"merci", "thank", "remercie"}},
	{models.IntentHelp, []string{"aide", "aider", "help", "comment", "besoin"}},
	{models.IntentLanguageSwitch, []string{"parle", "speak", "arabe", "arabic", "francais", "french", "anglais", "english", "langue"}},
}

var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*(?:tnd|dinars?|dt)`),
	regexp.MustCompile(`(\d+)\s*/`),
	regexp.MustCompile(`(?:budget|prix|tarif)\s*(\d+)`),
	regexp.MustCompile(`(?:moins|max|maximum)\s*(?:de)?\s*(\d+)`),
	regexp.MustCompile(`(?:environ|autour)\s*(?:de)?\s*(\d+)`),
}

// "cher" alone, not the prefix of "chercher".
var expensiveWord = regexp.MustCompile(`\bcher\b`)

const (
	cheapBudget     = 200
	expensiveBudget = 1000
)

var knownDestinations = []string{
	"paris", "rome", "londres", "tunis", "france", "italie",
	"hammamet", "sousse", "djerba", "monastir", "nabeul",
	"tunisie", "tunisia", "espagne", "espana", "maroc", "marocco",
	"turquie", "turkey", "egypte", "egypt", "grece", "greece",
}

var starsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d)\s*étoiles?`),
	regexp.MustCompile(`(\d)\s*\*`),
}

var amenityKeywords = []struct {
	tag      string
	keywords []string
}{
	{"wifi", []string{"wifi", "internet"}},
	{"piscine", []string{"piscine", "pool"}},
	{"spa", []string{"spa", "bien-être", "massage"}},
	{"parking", []string{"parking", "stationnement"}},
	{"restaurant", []string{"restaurant", "repas"}},
	{"vue mer", []string{"vue mer", "bord de mer", "plage"}},
}

// Analyze classifies text. It is pure and never fails: no match yields
// IntentUnknown, zero confidence and empty entities.
func Analyze(text string) Analysis {
	msg := strings.ToLower(text)
	result := Analysis{Intent: models.IntentUnknown}

	for _, group := range intentKeywords {
		if containsAny(msg, group.keywords) {
			result.Intent = group.intent
			result.Confidence = MatchConfidence
			break
		}
	}

	result.Entities = models.Entities{
		Budget:      extractBudget(msg),
		Destination: extractDestination(msg),
		Stars:       extractStars(msg),
		Amenities:   extractAmenities(msg),
	}
	return result
}

func containsAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "cher" {
			if expensiveWord.MatchString(msg) {
				return true
			}
			continue
		}
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

func extractBudget(msg string) *int {
	for _, re := range budgetPatterns {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			return &n
		}
	}
	if strings.Contains(msg, "pas cher") || strings.Contains(msg, "économique") || strings.Contains(msg, "budget") {
		n := cheapBudget
		return &n
	}
	if strings.Contains(msg, "luxe") || expensiveWord.MatchString(msg) {
		n := expensiveBudget
		return &n
	}
	return nil
}

// extractDestination keeps the last name of the list found in msg, so
// "tunisie" wins over its prefix "tunis".
func extractDestination(msg string) string {
	found := ""
	for _, dest := range knownDestinations {
		if strings.Contains(msg, dest) {
			found = dest
		}
	}
	return capitalize(found)
}

func extractStars(msg string) *int {
	for _, re := range starsPatterns {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 5 {
			return &n
		}
	}
	return nil
}

func extractAmenities(msg string) []string {
	var tags []string
	for _, a := range amenityKeywords {
		if containsAny(msg, a.keywords) {
			tags = append(tags, a.tag)
		}
	}
	return tags
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
