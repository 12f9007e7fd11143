package models

import (
	"fmt"
	"time"
)

// Catalog records are owned by the back office; the chatbot only reads them.

type Destination struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	IsPopular   bool   `json:"is_popular"`
}

type Hotel struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	DestinationID int64     `json:"destination_id"`
	Destination   string    `json:"destination"`
	Description   string    `json:"description,omitempty"`
	Address       string    `json:"address,omitempty"`
	Stars         int       `json:"stars"`
	PricePerNight float64   `json:"price_per_night"`
	HasWifi       bool      `json:"has_wifi"`
	HasPool       bool      `json:"has_pool"`
	HasParking    bool      `json:"has_parking"`
	HasRestaurant bool      `json:"has_restaurant"`
	HasSpa        bool      `json:"has_spa"`
	IsAvailable   bool      `json:"is_available"`
	TotalRooms    int       `json:"total_rooms"`
	Image         string    `json:"image,omitempty"`
	AverageRating float64   `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
}

type Flight struct {
	ID              int64     `json:"id"`
	Airline         string    `json:"airline"`
	FlightNumber    string    `json:"flight_number"`
	OriginID        int64     `json:"origin_id"`
	Origin          string    `json:"origin"`
	DestinationID   int64     `json:"destination_id"`
	Destination     string    `json:"destination"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
	Price           float64   `json:"price"`
	AvailableSeats  int       `json:"available_seats"`
	IsDirect        bool      `json:"is_direct"`
	BaggageIncluded bool      `json:"baggage_included"`
	IsAvailable     bool      `json:"is_available"`
}

// Duration formats the flight time as "Xh Ymin".
func (f Flight) Duration() string {
	d := f.ArrivalTime.Sub(f.DepartureTime)
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dmin", hours, minutes)
}

type TourPackage struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	DestinationID     int64     `json:"destination_id"`
	Destination       string    `json:"destination"`
	Description       string    `json:"description,omitempty"`
	DurationDays      int       `json:"duration_days"`
	Price             float64   `json:"price"`
	IncludesFlight    bool      `json:"includes_flight"`
	IncludesHotel     bool      `json:"includes_hotel"`
	IncludesMeals     bool      `json:"includes_meals"`
	IncludesTransport bool      `json:"includes_transport"`
	IncludesGuide     bool      `json:"includes_guide"`
	MaxParticipants   int       `json:"max_participants"`
	Image             string    `json:"image,omitempty"`
	IsAvailable       bool      `json:"is_available"`
	CreatedAt         time.Time `json:"created_at"`
}
