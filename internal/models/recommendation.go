package models

import "strconv"

type RecommendationType string

const (
	RecommendationHotel   RecommendationType = "hotel"
	RecommendationFlight  RecommendationType = "flight"
	RecommendationPackage RecommendationType = "package"
)

// RecommendationSource tells a catalog reference apart from a synthesized
// placeholder. Catalog items are stored as links and re-read on display;
// web items are stored fully materialized.
type RecommendationSource string

const (
	SourceCatalog RecommendationSource = "catalog"
	SourceWeb     RecommendationSource = "web"
)

// Recommendation is the flat display record returned with a bot reply.
type Recommendation struct {
	Type         RecommendationType   `json:"type"`
	Source       RecommendationSource `json:"source"`
	ID           string               `json:"id"`
	CatalogID    int64                `json:"-"`
	Name         string               `json:"name"`
	Price        float64              `json:"price"`
	Destination  string               `json:"destination,omitempty"`
	Origin       string               `json:"origin,omitempty"`
	Stars        int                  `json:"stars,omitempty"`
	Rating       float64              `json:"rating,omitempty"`
	Image        string               `json:"image,omitempty"`
	Duration     string               `json:"duration,omitempty"`
	DurationDays int                  `json:"duration_days,omitempty"`
	Description  string               `json:"description,omitempty"`
	SourceLabel  string               `json:"source_label,omitempty"`
	SourceURL    string               `json:"source_url,omitempty"`
}

func (r Recommendation) IsCatalog() bool {
	return r.Source == SourceCatalog
}

func HotelRecommendation(h Hotel) Recommendation {
	return Recommendation{
		Type:        RecommendationHotel,
		Source:      SourceCatalog,
		ID:          strconv.FormatInt(h.ID, 10),
		CatalogID:   h.ID,
		Name:        h.Name,
		Price:       h.PricePerNight,
		Destination: h.Destination,
		Stars:       h.Stars,
		Rating:      h.AverageRating,
		Image:       h.Image,
		Description: h.Description,
	}
}

func FlightRecommendation(f Flight) Recommendation {
	return Recommendation{
		Type:        RecommendationFlight,
		Source:      SourceCatalog,
		ID:          strconv.FormatInt(f.ID, 10),
		CatalogID:   f.ID,
		Name:        f.Airline + " " + f.FlightNumber,
		Price:       f.Price,
		Origin:      f.Origin,
		Destination: f.Destination,
		Duration:    f.Duration(),
	}
}

func PackageRecommendation(p TourPackage) Recommendation {
	return Recommendation{
		Type:         RecommendationPackage,
		Source:       SourceCatalog,
		ID:           strconv.FormatInt(p.ID, 10),
		CatalogID:    p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Destination:  p.Destination,
		DurationDays: p.DurationDays,
		Image:        p.Image,
		Description:  p.Description,
	}
}
