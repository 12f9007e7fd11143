package chatbot

import (
	"reflect"
	"testing"

	"traveltodo/internal/models"
)

func intPtr(v int) *int { return &v }

func TestAnalyzeIntent(t *testing.T) {
	cases := []struct {
		text   string
		intent models.Intent
	}{
		{"Je cherche un hôtel pas cher à Paris", models.IntentSearchHotel},
		{"Un vol pour Rome svp", models.IntentSearchFlight},
		{"Je veux un séjour tout compris", models.IntentSearchPackage},
		{"Quel est le tarif ?", models.IntentPriceQuery},
		{"Il y a une piscine ?", models.IntentAmenities},
		{"Londres en décembre", models.IntentDestination},
		{"Bonjour", models.IntentGreeting},
		{"slt", models.IntentGreeting},
		{"Merci beaucoup", models.IntentThanks},
		{"J'ai besoin d'aide", models.IntentHelp},
		{"Tu parles arabe ?", models.IntentLanguageSwitch},
		{"xyz", models.IntentUnknown},
		{"", models.IntentUnknown},
		// hotel outranks price and destination
		{"Prix d'un hôtel à Tunis", models.IntentSearchHotel},
		// flight outranks package ("voyage")
		{"Voyage en avion", models.IntentSearchFlight},
		{"Je cherche une idée", models.IntentUnknown},
		{"C'est trop cher", models.IntentPriceQuery},
	}
	for _, tc := range cases {
		got := Analyze(tc.text)
		if got.Intent != tc.intent {
			t.Errorf("Analyze(%q) intent = %s, want %s", tc.text, got.Intent, tc.intent)
		}
		wantConf := MatchConfidence
		if tc.intent == models.IntentUnknown {
			wantConf = 0
		}
		if got.Confidence != wantConf {
			t.Errorf("Analyze(%q) confidence = %v, want %v", tc.text, got.Confidence, wantConf)
		}
	}
}

func TestAnalyzeEntities(t *testing.T) {
	cases := []struct {
		text string
		want models.Entities
	}{
		{"Je cherche un hôtel pas cher à Paris", models.Entities{Budget: intPtr(200), Destination: "Paris"}},
		{"hôtel à djerba 300 dt", models.Entities{Budget: intPtr(300), Destination: "Djerba"}},
		{"budget 450 pour rome", models.Entities{Budget: intPtr(450), Destination: "Rome"}},
		{"moins de 150 par nuit", models.Entities{Budget: intPtr(150)}},
		{"environ 90", models.Entities{Budget: intPtr(90)}},
		{"un hôtel de luxe", models.Entities{Budget: intPtr(1000)}},
		{"c'est trop cher", models.Entities{Budget: intPtr(1000)}},
		{"hôtel 4 étoiles avec wifi et piscine", models.Entities{Stars: intPtr(4), Amenities: []string{"wifi", "piscine"}}},
		{"un 5* en bord de mer", models.Entities{Stars: intPtr(5), Amenities: []string{"vue mer"}}},
		{"9 étoiles", models.Entities{}},
		{"7 étoiles", models.Entities{}},
		{"200 TND", models.Entities{Budget: intPtr(200)}},
		{"pas cher", models.Entities{Budget: intPtr(200)}},
		{"luxe", models.Entities{Budget: intPtr(1000)}},
		{"4 étoiles", models.Entities{Stars: intPtr(4)}},
		{"vacances en tunisie", models.Entities{Destination: "Tunisie"}},
		{"budget 0", models.Entities{Budget: intPtr(0)}},
	}
	for _, tc := range cases {
		got := Analyze(tc.text).Entities
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Analyze(%q) entities = %+v, want %+v", tc.text, got, tc.want)
		}
	}
}

func TestAnalyzeDoesNotReadCherInChercher(t *testing.T) {
	got := Analyze("Je cherche un hôtel à Rome").Entities
	if got.Budget != nil {
		t.Fatalf("expected no budget, got %d", *got.Budget)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	text := "Un hôtel 3 étoiles à Hammamet avec spa, budget 250 TND"
	first := Analyze(text)
	second := Analyze(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Analyze is not stable: %+v vs %+v", first, second)
	}
}
