package export

import (
	"bytes"
	"testing"
	"time"

	"traveltodo/internal/models"
)

func TestRecommendationsPDF(t *testing.T) {
	sheet := Sheet{
		SessionID:   "abc",
		GeneratedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Recommendations: []models.Recommendation{
			{Type: models.RecommendationHotel, Source: models.SourceCatalog, Name: "Hôtel Le Marais", Price: 180, Destination: "Paris", Stars: 3, Rating: 4.3},
			{Type: models.RecommendationFlight, Source: models.SourceCatalog, Name: "Tunisair TU710", Price: 420, Origin: "Tunis", Destination: "Paris", Duration: "2h 30min"},
			{Type: models.RecommendationPackage, Source: models.SourceWeb, Name: "Circuit Découverte", Price: 800, Destination: "Djerba", DurationDays: 5, SourceLabel: "Booking.com", SourceURL: "https://www.booking.com"},
		},
	}
	out, err := RecommendationsPDF(sheet)
	if err != nil {
		t.Fatalf("RecommendationsPDF error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a pdf: %q", out[:min(len(out), 8)])
	}
}

func TestRecommendationsPDFEmpty(t *testing.T) {
	out, err := RecommendationsPDF(Sheet{SessionID: "empty"})
	if err != nil {
		t.Fatalf("RecommendationsPDF error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
}

func TestPriceLabel(t *testing.T) {
	cases := []struct {
		rec  models.Recommendation
		want string
	}{
		{models.Recommendation{Type: models.RecommendationHotel, Price: 180}, "180 TND / nuit"},
		{models.Recommendation{Type: models.RecommendationFlight, Price: 420.4}, "420 TND"},
	}
	for _, tc := range cases {
		if got := priceLabel(tc.rec); got != tc.want {
			t.Errorf("priceLabel(%v) = %q, want %q", tc.rec.Type, got, tc.want)
		}
	}
}
