package chatbot

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"traveltodo/internal/models"
)

const (
	webHotelImage   = "https://images.unsplash.com/photo-1571003123894-1f0594d2b5d9?w=200&h=150&fit=crop"
	webFlightImage  = "https://via.placeholder.com/200x150?text=Flight"
	webPackageImage = "https://via.placeholder.com/200x150?text=Package"

	webHotelLabel   = "Web (Tunisia Booking)"
	webFlightLabel  = "Web (Skyscanner/Google Flights)"
	webPackageLabel = "Web (TourOperator/Expedia)"
)

// tunisiaHotels lists well-known hotels per city. Unknown destinations use
// the Hammamet list.
var tunisiaHotels = map[string][]string{
	"hammamet": {
		"Hasdrubal Thalassa & Spa Hammamet", "Sentido Phenicia", "ClubHotel Riu Marco Polo",
		"Royal Azur Thalassa", "Caribbean World Hammamet", "El Mouradi Hammamet",
		"Sousse Palace", "Marhaba Beach", "Golden Tulip Sousse", "Abou Sofiane",
	},
	"sousse": {
		"Marhaba Beach", "Golden Tulip Sousse", "Sousse Palace", "El Mouradi Sousse",
		"Mövenpick Resort Sousse", "Thalassa Sousse", "Hôtel Kantaoui Center",
		"Abou Sofiane", "Jasmine Beach", "Royal Jinene",
	},
	"tunis": {
		"Hôtel Africa", "El Mouradi Africa", "Golden Tulip El Mechtel", "Hôtel Tunisia Palace",
		"Novotel Tunis", "Ibis Tunis", "Hôtel Le Corail", "Ambassadeurs Hotel",
		"Hôtel Saint Georges", "Dar El Medina",
	},
	"djerba": {
		"Hasdrubal Prestige Thalassa", "Royal Garden Palace", "Vime Djerba",
		"El Mouradi Djerba Menzel", "ClubHotel Riu Djerba", "Seabel Aladin Djerba",
		"Hôtel Djerba Orient", "Melia Djerba", "Radisson Blu Palace Resort", "Iberostar Mehari Djerba",
	},
	"monastir": {
		"Skanes Monastir", "Amir Palace", "Hôtel Liberty", "El Mouradi Monastir",
		"Hôtel Sahara Beach", "Royal Miramar", "Hôtel Néapolis", "Primasol Golden Beach",
		"Hôtel Corniche", "Hôtel Alassio",
	},
	"nabeul": {
		"Hôtel Kantaoui Center", "Mövenpick Resort Kantaoui", "Marriott's Club Son Antem",
		"Hôtel Les Orangers Garden", "Hôtel Kantaoui Bay", "Thalassa Nabeul",
		"Hôtel Hammamet Garden", "Dar El Medina", "Hôtel Byzance", "Hôtel Le Jardin",
	},
}

// webPlaceholders synthesizes n deterministic items for a search intent.
// The name tables cycle, so any n is satisfied.
func webPlaceholders(intent models.Intent, entities models.Entities, n int) []models.Recommendation {
	if n <= 0 {
		return nil
	}
	switch intent {
	case models.IntentSearchHotel:
		return webHotels(entities, n)
	case models.IntentSearchFlight:
		return webFlights(entities, n)
	case models.IntentSearchPackage:
		return webPackages(entities, n)
	}
	return nil
}

func webHotels(entities models.Entities, n int) []models.Recommendation {
	destination := entities.Destination
	if destination == "" {
		destination = "Hammamet"
	}
	names, ok := tunisiaHotels[strings.ToLower(destination)]
	if !ok {
		names = tunisiaHotels["hammamet"]
	}

	budget := 0
	if entities.Budget != nil {
		budget = *entities.Budget
	}
	basePrice := 80
	if budget > 0 {
		basePrice = int(float64(budget) * 0.8)
	}

	out := make([]models.Recommendation, 0, n)
	for i := 0; i < n; i++ {
		price := basePrice + i*15
		if budget > 0 && float64(price) > float64(budget)*1.3 {
			price = int(float64(budget) * 1.1)
		}
		stars := 3
		if price > 200 {
			stars = 4
		}
		if price > 350 {
			stars = 5
		}
		name := names[i%len(names)]
		query := url.QueryEscape(fmt.Sprintf("%s %s Tunisia", name, destination))

		out = append(out, models.Recommendation{
			Type:        models.RecommendationHotel,
			Source:      models.SourceWeb,
			ID:          fmt.Sprintf("web-hotel-%d", i),
			Name:        name,
			Price:       float64(price),
			Destination: destination,
			Stars:       stars,
			Rating:      math.Min(5, math.Round((4.1+0.1*float64(i))*10)/10),
			Image:       webHotelImage,
			Description: fmt.Sprintf("Hôtel %d étoiles à %s, Tunisie", stars, destination),
			SourceLabel: webHotelLabel,
			SourceURL:   "https://www.booking.com/searchresults.html?ss=" + query + "&dest_type=city&dest_id=TN",
		})
	}
	return out
}

func webFlights(entities models.Entities, n int) []models.Recommendation {
	destination := entities.Destination
	if destination == "" {
		destination = "Paris"
	}
	code := []rune(destination)
	if len(code) > 3 {
		code = code[:3]
	}

	out := make([]models.Recommendation, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Recommendation{
			Type:        models.RecommendationFlight,
			Source:      models.SourceWeb,
			ID:          fmt.Sprintf("web-flight-%d", i),
			Name:        fmt.Sprintf("Vol %d vers %s", i+1, destination),
			Price:       float64(200 + i*50),
			Origin:      "TUN",
			Destination: strings.ToUpper(string(code)),
			Duration:    fmt.Sprintf("%dh30", 2+i),
			Image:       webFlightImage,
			SourceLabel: webFlightLabel,
		})
	}
	return out
}

func webPackages(entities models.Entities, n int) []models.Recommendation {
	destination := entities.Destination
	if destination == "" {
		destination = "Paris"
	}

	out := make([]models.Recommendation, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Recommendation{
			Type:         models.RecommendationPackage,
			Source:       models.SourceWeb,
			ID:           fmt.Sprintf("web-package-%d", i),
			Name:         fmt.Sprintf("Circuit %s - %d jours", destination, 5+i),
			Price:        float64(500 + i*200),
			Destination:  destination,
			DurationDays: 5 + i,
			Image:        webPackageImage,
			SourceLabel:  webPackageLabel,
		})
	}
	return out
}
