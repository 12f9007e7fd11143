package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"traveltodo/internal/catalog"
	"traveltodo/internal/models"
)

type fakeCatalog struct {
	hotels   []models.Hotel
	flights  []models.Flight
	packages []models.TourPackage
	err      error

	hotelQuery  catalog.HotelQuery
	flightQuery catalog.FlightQuery
}

func (f *fakeCatalog) SearchHotels(_ context.Context, q catalog.HotelQuery) ([]models.Hotel, error) {
	f.hotelQuery = q
	return f.hotels, f.err
}

func (f *fakeCatalog) SearchFlights(_ context.Context, q catalog.FlightQuery) ([]models.Flight, error) {
	f.flightQuery = q
	return f.flights, f.err
}

func (f *fakeCatalog) SearchPackages(_ context.Context, q catalog.PackageQuery) ([]models.TourPackage, error) {
	return f.packages, f.err
}

func TestRecommendPadsWithWebPlaceholders(t *testing.T) {
	fc := &fakeCatalog{hotels: []models.Hotel{{ID: 7, Name: "Hôtel Le Marais", Destination: "Paris", PricePerNight: 180}}}
	r := NewRecommender(fc, true)

	recs, err := r.Recommend(context.Background(), models.IntentSearchHotel,
		models.Entities{Destination: "Paris", Budget: intPtr(200), Amenities: []string{"wifi"}}, 3)
	if err != nil {
		t.Fatalf("Recommend error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	if !recs[0].IsCatalog() || recs[0].CatalogID != 7 {
		t.Fatalf("expected catalog hotel first, got %+v", recs[0])
	}
	for _, rec := range recs[1:] {
		if rec.Source != models.SourceWeb || rec.Type != models.RecommendationHotel {
			t.Fatalf("expected web hotel placeholder, got %+v", rec)
		}
	}
	if recs[1].ID != "web-hotel-0" || recs[2].ID != "web-hotel-1" {
		t.Fatalf("unexpected placeholder ids %s, %s", recs[1].ID, recs[2].ID)
	}

	if fc.hotelQuery.MaxPrice == nil || *fc.hotelQuery.MaxPrice != 240 {
		t.Fatalf("expected hotel budget slack of 20%%, got %v", fc.hotelQuery.MaxPrice)
	}
	if !fc.hotelQuery.Wifi || fc.hotelQuery.Pool || fc.hotelQuery.Limit != 3 {
		t.Fatalf("unexpected hotel query %+v", fc.hotelQuery)
	}
}

func TestRecommendWithoutFallback(t *testing.T) {
	fc := &fakeCatalog{flights: []models.Flight{{ID: 1, Airline: "Tunisair", FlightNumber: "TU710", Price: 420}}}
	r := NewRecommender(fc, false)

	recs, err := r.Recommend(context.Background(), models.IntentSearchFlight, models.Entities{Budget: intPtr(500)}, 3)
	if err != nil {
		t.Fatalf("Recommend error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected only catalog results, got %d", len(recs))
	}
	if fc.flightQuery.MaxPrice == nil || *fc.flightQuery.MaxPrice != 500 {
		t.Fatalf("flight budget must be used as is, got %v", fc.flightQuery.MaxPrice)
	}
}

func TestRecommendNeverExceedsLimit(t *testing.T) {
	fc := &fakeCatalog{packages: []models.TourPackage{{ID: 1}, {ID: 2}, {ID: 3}}}
	r := NewRecommender(fc, true)
	for limit := 0; limit <= 5; limit++ {
		recs, err := r.Recommend(context.Background(), models.IntentSearchPackage, models.Entities{}, limit)
		if err != nil {
			t.Fatalf("Recommend error: %v", err)
		}
		if len(recs) != limit {
			t.Fatalf("limit %d: got %d recommendations", limit, len(recs))
		}
	}
}

func TestRecommendIgnoresNonSearchIntents(t *testing.T) {
	r := NewRecommender(&fakeCatalog{}, true)
	for _, intent := range []models.Intent{models.IntentGreeting, models.IntentPriceQuery, models.IntentUnknown} {
		recs, err := r.Recommend(context.Background(), intent, models.Entities{Destination: "Paris"}, 3)
		if err != nil || len(recs) != 0 {
			t.Fatalf("%s: expected no recommendations, got %v (%v)", intent, recs, err)
		}
	}
}

func TestRecommendPropagatesCatalogErrors(t *testing.T) {
	r := NewRecommender(&fakeCatalog{err: errors.New("db down")}, true)
	if _, err := r.Recommend(context.Background(), models.IntentSearchHotel, models.Entities{}, 3); err == nil {
		t.Fatalf("expected catalog error")
	}
}

func TestWebHotelsPricing(t *testing.T) {
	recs := webHotels(models.Entities{Destination: "Djerba", Budget: intPtr(300)}, 12)
	if len(recs) != 12 {
		t.Fatalf("expected 12 placeholders, got %d", len(recs))
	}
	first := recs[0]
	if first.Name != "Hasdrubal Prestige Thalassa" || first.Price != 240 || first.Stars != 4 {
		t.Fatalf("unexpected first placeholder %+v", first)
	}
	if first.Rating != 4.1 {
		t.Fatalf("unexpected rating %v", first.Rating)
	}
	if !strings.Contains(first.SourceURL, "dest_id=TN") || !strings.Contains(first.SourceURL, "Djerba+Tunisia") {
		t.Fatalf("unexpected source url %s", first.SourceURL)
	}
	// 240 + 15*11 exceeds 1.3 * budget and is clamped to 1.1 * budget
	if recs[11].Price != 330 {
		t.Fatalf("expected clamped price 330, got %v", recs[11].Price)
	}
	if recs[10].Name != recs[0].Name {
		t.Fatalf("expected names to cycle")
	}
	for _, r := range recs {
		if r.Rating > 5 {
			t.Fatalf("rating above 5: %v", r.Rating)
		}
	}
}

func TestWebHotelsDefaults(t *testing.T) {
	recs := webHotels(models.Entities{Destination: "Rome"}, 1)
	if recs[0].Name != "Hasdrubal Thalassa & Spa Hammamet" || recs[0].Price != 80 || recs[0].Stars != 3 {
		t.Fatalf("unknown destinations must use the default list: %+v", recs[0])
	}
	if recs[0].Destination != "Rome" {
		t.Fatalf("destination must be kept, got %q", recs[0].Destination)
	}
}

func TestWebFlightsAndPackages(t *testing.T) {
	flights := webFlights(models.Entities{}, 2)
	if flights[1].Name != "Vol 2 vers Paris" || flights[1].Destination != "PAR" || flights[1].Price != 250 || flights[1].Duration != "3h30" {
		t.Fatalf("unexpected flight placeholder %+v", flights[1])
	}
	packages := webPackages(models.Entities{Destination: "Djerba"}, 2)
	if packages[1].Name != "Circuit Djerba - 6 jours" || packages[1].DurationDays != 6 || packages[1].Price != 700 {
		t.Fatalf("unexpected package placeholder %+v", packages[1])
	}
}
