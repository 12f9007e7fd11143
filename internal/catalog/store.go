// Package catalog reads hotels, flights and tour packages. The chatbot never
// writes to these tables.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"traveltodo/internal/models"
	"traveltodo/internal/storage"
)

// HotelQuery filters available hotels. Zero values disable a filter.
type HotelQuery struct {
	Destination string
	MaxPrice    *float64
	Stars       *int
	Wifi        bool
	Pool        bool
	Spa         bool
	Limit       int
}

type FlightQuery struct {
	Destination string
	MaxPrice    *float64
	Limit       int
}

type PackageQuery struct {
	Destination string
	MaxPrice    *float64
	Limit       int
}

// Store serves catalog lookups from the relational store.
type Store struct {
	db *storage.DB
}

func NewStore(db *storage.DB) *Store {
	return &Store{db: db}
}

const hotelColumns = `h.id, h.name, h.destination_id, d.name, h.description, h.address, h.stars, h.price_per_night,
	h.has_wifi, h.has_pool, h.has_parking, h.has_restaurant, h.has_spa, h.is_available, h.total_rooms,
	h.image, h.average_rating, h.created_at`

const flightColumns = `f.id, f.airline, f.flight_number, f.origin_id, o.name, f.destination_id, d.name,
	f.departure_time, f.arrival_time, f.price, f.available_seats, f.is_direct, f.baggage_included, f.is_available`

const packageColumns = `p.id, p.name, p.destination_id, d.name, p.description, p.duration_days, p.price,
	p.includes_flight, p.includes_hotel, p.includes_meals, p.includes_transport, p.includes_guide,
	p.max_participants, p.image, p.is_available, p.created_at`

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// SearchHotels returns available hotels, best rated first then cheapest.
func (s *Store) SearchHotels(ctx context.Context, q HotelQuery) ([]models.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels h JOIN destinations d ON d.id = h.destination_id WHERE h.is_available = ?`
	args := []interface{}{true}
	if q.Destination != "" {
		query += ` AND LOWER(d.name) LIKE ?`
		args = append(args, likePattern(q.Destination))
	}
	if q.MaxPrice != nil {
		query += ` AND h.price_per_night <= ?`
		args = append(args, *q.MaxPrice)
	}
	if q.Stars != nil {
		query += ` AND h.stars = ?`
		args = append(args, *q.Stars)
	}
	if q.Wifi {
		query += ` AND h.has_wifi = ?`
		args = append(args, true)
	}
	if q.Pool {
		query += ` AND h.has_pool = ?`
		args = append(args, true)
	}
	if q.Spa {
		query += ` AND h.has_spa = ?`
		args = append(args, true)
	}
	query += ` ORDER BY h.average_rating DESC, h.price_per_night ASC, h.id ASC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search hotels: %w", err)
	}
	defer rows.Close()

	var hotels []models.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, *h)
	}
	return hotels, rows.Err()
}

// SearchFlights matches the destination against either end of the flight,
// cheapest first.
func (s *Store) SearchFlights(ctx context.Context, q FlightQuery) ([]models.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights f
		JOIN destinations o ON o.id = f.origin_id
		JOIN destinations d ON d.id = f.destination_id
		WHERE f.is_available = ?`
	args := []interface{}{true}
	if q.Destination != "" {
		pattern := likePattern(q.Destination)
		query += ` AND (LOWER(d.name) LIKE ? OR LOWER(o.name) LIKE ?)`
		args = append(args, pattern, pattern)
	}
	if q.MaxPrice != nil {
		query += ` AND f.price <= ?`
		args = append(args, *q.MaxPrice)
	}
	query += ` ORDER BY f.price ASC, f.id ASC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}
	defer rows.Close()

	var flights []models.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

// SearchPackages returns available packages, newest first.
func (s *Store) SearchPackages(ctx context.Context, q PackageQuery) ([]models.TourPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM packages p JOIN destinations d ON d.id = p.destination_id WHERE p.is_available = ?`
	args := []interface{}{true}
	if q.Destination != "" {
		query += ` AND LOWER(d.name) LIKE ?`
		args = append(args, likePattern(q.Destination))
	}
	if q.MaxPrice != nil {
		query += ` AND p.price <= ?`
		args = append(args, *q.MaxPrice)
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search packages: %w", err)
	}
	defer rows.Close()

	var packages []models.TourPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *p)
	}
	return packages, rows.Err()
}

// HotelByID returns sql.ErrNoRows when the hotel no longer exists.
func (s *Store) HotelByID(ctx context.Context, id int64) (*models.Hotel, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+hotelColumns+` FROM hotels h JOIN destinations d ON d.id = h.destination_id WHERE h.id = ?`, id)
	return scanHotel(row)
}

func (s *Store) FlightByID(ctx context.Context, id int64) (*models.Flight, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+flightColumns+` FROM flights f
			JOIN destinations o ON o.id = f.origin_id
			JOIN destinations d ON d.id = f.destination_id
			WHERE f.id = ?`, id)
	return scanFlight(row)
}

func (s *Store) PackageByID(ctx context.Context, id int64) (*models.TourPackage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+packageColumns+` FROM packages p JOIN destinations d ON d.id = p.destination_id WHERE p.id = ?`, id)
	return scanPackage(row)
}

// Recommendation resolves a stored catalog link back into a display record.
func (s *Store) Recommendation(ctx context.Context, kind models.RecommendationType, id int64) (models.Recommendation, error) {
	switch kind {
	case models.RecommendationHotel:
		h, err := s.HotelByID(ctx, id)
		if err != nil {
			return models.Recommendation{}, fmt.Errorf("hotel %d: %w", id, err)
		}
		return models.HotelRecommendation(*h), nil
	case models.RecommendationFlight:
		f, err := s.FlightByID(ctx, id)
		if err != nil {
			return models.Recommendation{}, fmt.Errorf("flight %d: %w", id, err)
		}
		return models.FlightRecommendation(*f), nil
	case models.RecommendationPackage:
		p, err := s.PackageByID(ctx, id)
		if err != nil {
			return models.Recommendation{}, fmt.Errorf("package %d: %w", id, err)
		}
		return models.PackageRecommendation(*p), nil
	default:
		return models.Recommendation{}, fmt.Errorf("unknown recommendation kind %q", kind)
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHotel(row scanner) (*models.Hotel, error) {
	var h models.Hotel
	err := row.Scan(&h.ID, &h.Name, &h.DestinationID, &h.Destination, &h.Description, &h.Address, &h.Stars,
		&h.PricePerNight, &h.HasWifi, &h.HasPool, &h.HasParking, &h.HasRestaurant, &h.HasSpa,
		&h.IsAvailable, &h.TotalRooms, &h.Image, &h.AverageRating, &h.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan hotel: %w", err)
	}
	return &h, nil
}

func scanFlight(row scanner) (*models.Flight, error) {
	var f models.Flight
	err := row.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.OriginID, &f.Origin, &f.DestinationID, &f.Destination,
		&f.DepartureTime, &f.ArrivalTime, &f.Price, &f.AvailableSeats, &f.IsDirect, &f.BaggageIncluded, &f.IsAvailable)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan flight: %w", err)
	}
	return &f, nil
}

func scanPackage(row scanner) (*models.TourPackage, error) {
	var p models.TourPackage
	err := row.Scan(&p.ID, &p.Name, &p.DestinationID, &p.Destination, &p.Description, &p.DurationDays, &p.Price,
		&p.IncludesFlight, &p.IncludesHotel, &p.IncludesMeals, &p.IncludesTransport, &p.IncludesGuide,
		&p.MaxParticipants, &p.Image, &p.IsAvailable, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan package: %w", err)
	}
	return &p, nil
}
