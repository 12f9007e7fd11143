package chatbot

import (
	"context"
	"fmt"

	"traveltodo/internal/catalog"
	"traveltodo/internal/models"
)

// Catalog is the read side of the catalog store used for recommendations.
type Catalog interface {
	SearchHotels(ctx context.Context, q catalog.HotelQuery) ([]models.Hotel, error)
	SearchFlights(ctx context.Context, q catalog.FlightQuery) ([]models.Flight, error)
	SearchPackages(ctx context.Context, q catalog.PackageQuery) ([]models.TourPackage, error)
}

// hotelBudgetSlack lets hotels slightly above the stated budget through.
const hotelBudgetSlack = 1.2

type Recommender struct {
	catalog     Catalog
	webFallback bool
}

func NewRecommender(c Catalog, webFallback bool) *Recommender {
	return &Recommender{catalog: c, webFallback: webFallback}
}

// Recommend returns at most limit items for a search intent. Catalog matches
// come first; when web fallback is on, the shortfall is padded with
// placeholders so exactly limit items are returned. Other intents get nil.
func (r *Recommender) Recommend(ctx context.Context, intent models.Intent, entities models.Entities, limit int) ([]models.Recommendation, error) {
	if limit <= 0 || !intent.IsSearch() {
		return nil, nil
	}

	var (
		recs []models.Recommendation
		err  error
	)
	switch intent {
	case models.IntentSearchHotel:
		recs, err = r.hotels(ctx, entities, limit)
	case models.IntentSearchFlight:
		recs, err = r.flights(ctx, entities, limit)
	case models.IntentSearchPackage:
		recs, err = r.packages(ctx, entities, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("recommend %s: %w", intent, err)
	}

	if len(recs) > limit {
		recs = recs[:limit]
	}
	if r.webFallback && len(recs) < limit {
		recs = append(recs, webPlaceholders(intent, entities, limit-len(recs))...)
	}
	return recs, nil
}

func (r *Recommender) hotels(ctx context.Context, e models.Entities, limit int) ([]models.Recommendation, error) {
	q := catalog.HotelQuery{
		Destination: e.Destination,
		Stars:       e.Stars,
		Wifi:        e.HasAmenity("wifi"),
		Pool:        e.HasAmenity("piscine"),
		Spa:         e.HasAmenity("spa"),
		Limit:       limit,
	}
	if e.Budget != nil {
		bound := float64(*e.Budget) * hotelBudgetSlack
		q.MaxPrice = &bound
	}
	hotels, err := r.catalog.SearchHotels(ctx, q)
	if err != nil {
		return nil, err
	}
	recs := make([]models.Recommendation, 0, len(hotels))
	for _, h := range hotels {
		recs = append(recs, models.HotelRecommendation(h))
	}
	return recs, nil
}

func (r *Recommender) flights(ctx context.Context, e models.Entities, limit int) ([]models.Recommendation, error) {
	q := catalog.FlightQuery{Destination: e.Destination, MaxPrice: budgetBound(e), Limit: limit}
	flights, err := r.catalog.SearchFlights(ctx, q)
	if err != nil {
		return nil, err
	}
	recs := make([]models.Recommendation, 0, len(flights))
	for _, f := range flights {
		recs = append(recs, models.FlightRecommendation(f))
	}
	return recs, nil
}

func (r *Recommender) packages(ctx context.Context, e models.Entities, limit int) ([]models.Recommendation, error) {
	q := catalog.PackageQuery{Destination: e.Destination, MaxPrice: budgetBound(e), Limit: limit}
	packages, err := r.catalog.SearchPackages(ctx, q)
	if err != nil {
		return nil, err
	}
	recs := make([]models.Recommendation, 0, len(packages))
	for _, p := range packages {
		recs = append(recs, models.PackageRecommendation(p))
	}
	return recs, nil
}

func budgetBound(e models.Entities) *float64 {
	if e.Budget == nil {
		return nil
	}
	bound := float64(*e.Budget)
	return &bound
}
