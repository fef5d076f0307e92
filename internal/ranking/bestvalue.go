package ranking

import (
	"math"

	"github.com/dharmasatrya/tripease/internal/models"
)

const (
	PriceWeight  = 0.6
	RatingWeight = 0.4

	// unpricedScore is the price component for offers without a price, so
	// they rank behind every priced offer of equal rating.
	unpricedScore = 100.0
)

// CalculateScores returns copies of offers with BestValueScore set. Scores
// are relative to the cheapest-to-dearest spread of this result set.
func CalculateScores(offers []models.Offer) []models.Offer {
	if len(offers) == 0 {
		return offers
	}

	maxPrice := findMaxPrice(offers)

	result := make([]models.Offer, len(offers))
	for i, o := range offers {
		result[i] = o
		result[i].BestValueScore = CalculateBestValue(o, maxPrice)
	}

	return result
}

// Lower score = better value
func CalculateBestValue(offer models.Offer, maxPrice float64) float64 {
	priceScore := unpricedScore
	if offer.Price != nil {
		priceScore = 0
		if maxPrice > 0 {
			priceScore = (offer.Price.Amount / maxPrice) * 100
		}
	}

	ratingScore := ((models.MaxRating - models.ClampRating(offer.Rating)) / models.MaxRating) * 100
	score := (priceScore * PriceWeight) + (ratingScore * RatingWeight)

	return math.Round(score*100) / 100
}

func findMaxPrice(offers []models.Offer) float64 {
	maxPrice := 0.0
	for _, o := range offers {
		if o.Price != nil && o.Price.Amount > maxPrice {
			maxPrice = o.Price.Amount
		}
	}
	return maxPrice
}
