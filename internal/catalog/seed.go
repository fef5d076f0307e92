package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/tripease/internal/models"
)

// seedID keeps seed ids stable across restarts.
func seedID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("tripease:seed:"+name)).String()
}

func intPtr(n int) *int {
	return &n
}

// SeedTrips is the starter inventory loaded when no database is configured.
func SeedTrips() []Trip {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Trip{
		{
			ID:          seedID("goa-beach-escape"),
			Kind:        models.KindDestination,
			Name:        "Goa Beach Escape",
			Destination: "Goa",
			Category:    "Beach",
			Description: "Golden beaches, nightlife, adventure water sports.",
			Tags:        []string{"beach", "nightlife", "water sports"},
			Price:       18999,
			Currency:    "INR",
			Rating:      5,
			ImageURL:    "https://source.unsplash.com/featured/?goa",
			CreatedAt:   base.Add(3 * time.Hour),
		},
		{
			ID:          seedID("himalayan-trek-adventure"),
			Kind:        models.KindDestination,
			Name:        "Himalayan Trek Adventure",
			Destination: "Himalayas",
			Category:    "Mountain",
			Description: "Snow-capped mountains and scenic trekking routes.",
			Tags:        []string{"trek", "snow", "adventure"},
			Price:       24500,
			Currency:    "INR",
			Rating:      5,
			ImageURL:    "https://source.unsplash.com/featured/?himalaya",
			CreatedAt:   base.Add(2 * time.Hour),
		},
		{
			ID:          seedID("rajasthan-royal-tour"),
			Kind:        models.KindDestination,
			Name:        "Rajasthan Royal Tour",
			Destination: "Jaipur",
			Category:    "Cultural",
			Description: "Fortresses, palaces, camels, and deserts.",
			Tags:        []string{"heritage", "desert", "palaces"},
			Price:       21000,
			Currency:    "INR",
			Rating:      4,
			ImageURL:    "https://source.unsplash.com/featured/?rajasthan",
			CreatedAt:   base.Add(1 * time.Hour),
		},
		{
			ID:            seedID("rajdhani-delhi-mumbai"),
			Kind:          models.KindTrain,
			Name:          "Mumbai Rajdhani Express",
			Origin:        "Delhi",
			Destination:   "Mumbai",
			Category:      "3A",
			DepartureTime: "16:55",
			Duration:      "15h 50m",
			Price:         3100,
			Currency:      "INR",
			Rating:        4,
			Seats:         intPtr(42),
			CreatedAt:     base,
		},
		{
			ID:            seedID("shatabdi-delhi-jaipur"),
			Kind:          models.KindTrain,
			Name:          "Ajmer Shatabdi",
			Origin:        "Delhi",
			Destination:   "Jaipur",
			Category:      "CC",
			DepartureTime: "06:10",
			Duration:      "4h 30m",
			Price:         1150,
			Currency:      "INR",
			Rating:        4,
			Seats:         intPtr(18),
			CreatedAt:     base,
		},
	}
}
