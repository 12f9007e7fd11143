package storage

import (
	"context"
	"fmt"
	"time"
)

type seedHotel struct {
	name, destination, description, address string
	stars                                   int
	price, rating                           float64
	wifi, pool, parking, restaurant, spa    bool
	rooms                                   int
}

type seedFlight struct {
	airline, number, origin, destination string
	departIn, duration                   time.Duration
	price                                float64
	seats                                int
	direct                               bool
}

type seedPackage struct {
	name, destination, description         string
	days                                   int
	price                                  float64
	flight, hotel, meals, transport, guide bool
	participants                           int
}

var seedDestinations = []struct {
	name, country string
	popular       bool
}{
	{"Paris", "France", true},
	{"Rome", "Italie", true},
	{"Londres", "Royaume-Uni", false},
	{"Tunis", "Tunisie", true},
	{"Hammamet", "Tunisie", true},
	{"Djerba", "Tunisie", true},
	{"Sousse", "Tunisie", false},
}

var seedHotels = []seedHotel{
	{"Hôtel Le Marais", "Paris", "Hôtel de charme au cœur du Marais", "12 rue de Turenne", 3, 180, 4.3, true, false, false, true, false, 40},
	{"Le Grand Paris", "Paris", "Palace avec spa et piscine intérieure", "1 avenue Montaigne", 5, 650, 4.8, true, true, true, true, true, 120},
	{"Albergo Roma Centro", "Rome", "À deux pas du Panthéon", "Via del Seminario 8", 4, 220, 4.4, true, false, false, true, false, 55},
	{"Covent Garden Inn", "Londres", "Chambres simples près de Covent Garden", "14 Long Acre", 3, 260, 4.0, true, false, false, false, false, 35},
	{"Dar El Medina", "Tunis", "Maison d'hôtes dans la médina", "64 rue Sidi Ben Arous", 4, 190, 4.5, true, false, false, true, false, 15},
	{"Royal Azur Thalassa", "Hammamet", "Resort thalasso en bord de mer", "Avenue Moncef Bey", 5, 320, 4.6, true, true, true, true, true, 300},
	{"Hammamet Beach Club", "Hammamet", "Club familial avec accès plage", "Yasmine Hammamet", 3, 110, 4.1, false, true, true, true, false, 180},
	{"Djerba Sun Club", "Djerba", "Club tout compris sur la zone touristique", "Route Touristique Midoun", 4, 150, 4.2, true, true, true, true, false, 250},
	{"Marhaba Palace", "Sousse", "Hôtel face à la plage de Boujaafar", "Boulevard du 14 Janvier", 4, 140, 4.0, true, true, false, true, false, 200},
}

var seedFlights = []seedFlight{
	{"Tunisair", "TU710", "Tunis", "Paris", 72 * time.Hour, 2*time.Hour + 30*time.Minute, 420, 60, true},
	{"Tunisair", "TU752", "Tunis", "Rome", 96 * time.Hour, 1*time.Hour + 25*time.Minute, 380, 45, true},
	{"British Airways", "BA885", "Tunis", "Londres", 120 * time.Hour, 3*time.Hour + 5*time.Minute, 520, 30, true},
	{"Tunisair Express", "UG402", "Tunis", "Djerba", 48 * time.Hour, 1 * time.Hour, 120, 70, true},
}

var seedPackages = []seedPackage{
	{"Découverte du Sud tunisien", "Djerba", "Djerba, Matmata et Douz en 4x4", 7, 890, false, true, true, true, true, 16},
	{"Rome Impériale", "Rome", "Colisée, Vatican et Trastevere", 5, 1450, true, true, false, true, true, 20},
	{"Paris Romantique", "Paris", "Croisière sur la Seine et Montmartre", 4, 1650, true, true, true, false, false, 12},
}

var seedFAQs = []struct {
	question, answer, keywords, category string
}{
	{"Comment réserver un hôtel ?", "Choisissez un hôtel, vos dates puis validez la réservation depuis votre espace client.", "réserver,hôtel,réservation", "booking"},
	{"Quels moyens de paiement acceptez-vous ?", "Carte bancaire, virement et paiement en agence.", "paiement,carte,virement", "payment"},
	{"Puis-je annuler ma réservation ?", "Oui, gratuitement jusqu'à 48h avant l'arrivée pour la plupart des hôtels.", "annuler,annulation,remboursement", "booking"},
	{"Les circuits incluent-ils le vol ?", "Cela dépend du circuit : les inclusions sont détaillées sur chaque fiche.", "circuit,vol,inclus", "packages"},
}

// Seed fills an empty catalog with demo destinations, hotels, flights,
// packages and FAQ entries. It reports false when data already exists.
func Seed(ctx context.Context, db *DB) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&count); err != nil {
		return false, fmt.Errorf("count destinations: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	ids := make(map[string]int64, len(seedDestinations))
	for _, d := range seedDestinations {
		id, err := tx.InsertContext(ctx,
			`INSERT INTO destinations (name, country, description, image, is_popular) VALUES (?, ?, ?, ?, ?)`,
			d.name, d.country, "", "", d.popular,
		)
		if err != nil {
			return false, fmt.Errorf("seed destination %s: %w", d.name, err)
		}
		ids[d.name] = id
	}

	for i, h := range seedHotels {
		_, err := tx.InsertContext(ctx,
			`INSERT INTO hotels (name, destination_id, description, address, stars, price_per_night,
				has_wifi, has_pool, has_parking, has_restaurant, has_spa, is_available, total_rooms,
				image, average_rating, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.name, ids[h.destination], h.description, h.address, h.stars, h.price,
			h.wifi, h.pool, h.parking, h.restaurant, h.spa, true, h.rooms,
			"", h.rating, now.Add(time.Duration(i)*time.Second),
		)
		if err != nil {
			return false, fmt.Errorf("seed hotel %s: %w", h.name, err)
		}
	}

	for _, f := range seedFlights {
		departure := now.Truncate(time.Hour).Add(f.departIn)
		_, err := tx.InsertContext(ctx,
			`INSERT INTO flights (airline, flight_number, origin_id, destination_id, departure_time, arrival_time,
				price, available_seats, is_direct, baggage_included, is_available)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.airline, f.number, ids[f.origin], ids[f.destination], departure, departure.Add(f.duration),
			f.price, f.seats, f.direct, true, true,
		)
		if err != nil {
			return false, fmt.Errorf("seed flight %s: %w", f.number, err)
		}
	}

	for i, p := range seedPackages {
		_, err := tx.InsertContext(ctx,
			`INSERT INTO packages (name, destination_id, description, duration_days, price,
				includes_flight, includes_hotel, includes_meals, includes_transport, includes_guide,
				max_participants, image, is_available, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.name, ids[p.destination], p.description, p.days, p.price,
			p.flight, p.hotel, p.meals, p.transport, p.guide,
			p.participants, "", true, now.Add(time.Duration(i)*time.Second),
		)
		if err != nil {
			return false, fmt.Errorf("seed package %s: %w", p.name, err)
		}
	}

	for _, f := range seedFAQs {
		_, err := tx.InsertContext(ctx,
			`INSERT INTO faqs (question, answer, keywords, category, is_active) VALUES (?, ?, ?, ?, ?)`,
			f.question, f.answer, f.keywords, f.category, true,
		)
		if err != nil {
			return false, fmt.Errorf("seed faq: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}
	return true, nil
}
