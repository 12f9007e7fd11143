package models

import (
	"testing"
	"time"
)

func TestFlightDuration(t *testing.T) {
	dep := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	f := Flight{DepartureTime: dep, ArrivalTime: dep.Add(2*time.Hour + 35*time.Minute)}
	if got := f.Duration(); got != "2h 35min" {
		t.Fatalf("Duration() = %q", got)
	}
}

func TestParseIntent(t *testing.T) {
	if got, ok := ParseIntent("search_flight"); !ok || got != IntentSearchFlight {
		t.Fatalf("expected search_flight, got %q %v", got, ok)
	}
	if _, ok := ParseIntent("unknown"); ok {
		t.Fatalf("unknown must not parse as a known intent")
	}
	if _, ok := ParseIntent("general_question"); ok {
		t.Fatalf("labels outside the closed set must be rejected")
	}
}

func TestCatalogRecommendationCarriesSource(t *testing.T) {
	rec := HotelRecommendation(Hotel{ID: 7, Name: "Dar Sidi", PricePerNight: 120, Stars: 4})
	if rec.Source != SourceCatalog || rec.ID != "7" || rec.CatalogID != 7 {
		t.Fatalf("unexpected recommendation %+v", rec)
	}
	if rec.Type != RecommendationHotel {
		t.Fatalf("unexpected type %q", rec.Type)
	}
}
