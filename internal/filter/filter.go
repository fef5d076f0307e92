package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/internal/ranking"
)

const (
	SortRelevance = "relevance"
	SortPrice     = "price"
	SortRating    = "rating"
	SortBestValue = "best_value"
	SortDeparture = "departure"
)

// Apply filters offers and sorts them. Sorting is stable, so relevance (and
// ties under any key) keep the merge order.
func Apply(offers []models.Offer, filters models.SearchFilters, sortBy, sortOrder string) []models.Offer {
	filtered := applyFilters(offers, filters)

	if sortBy == SortBestValue {
		filtered = ranking.CalculateScores(filtered)
	}

	return applySort(filtered, sortBy, sortOrder)
}

// Paginate returns page (1-based) of size limit.
func Paginate(offers []models.Offer, page, limit int) []models.Offer {
	if limit <= 0 {
		return offers
	}
	if page < 1 {
		page = 1
	}
	pages := len(offers) / limit
	if len(offers)%limit != 0 {
		pages++
	}
	if page > pages {
		return []models.Offer{}
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(offers) {
		end = len(offers)
	}
	return offers[start:end]
}

func applyFilters(offers []models.Offer, filters models.SearchFilters) []models.Offer {
	result := make([]models.Offer, 0, len(offers))
	if filters.IsZero() {
		return append(result, offers...)
	}

	for _, o := range offers {
		if matchesFilters(o, filters) {
			result = append(result, o)
		}
	}

	return result
}

// matchesFilters drops unpriced offers once any price bound is set.
func matchesFilters(o models.Offer, filters models.SearchFilters) bool {
	if filters.PriceMin > 0 || filters.PriceMax > 0 {
		if o.Price == nil {
			return false
		}
		if filters.PriceMin > 0 && o.Price.Amount < filters.PriceMin {
			return false
		}
		if filters.PriceMax > 0 && o.Price.Amount > filters.PriceMax {
			return false
		}
	}

	if filters.MinRating > 0 && o.Rating < filters.MinRating {
		return false
	}

	return true
}

func applySort(offers []models.Offer, sortBy, sortOrder string) []models.Offer {
	if len(offers) == 0 {
		return offers
	}

	ascending := strings.ToLower(sortOrder) != "desc"

	switch strings.ToLower(sortBy) {
	case SortPrice:
		sort.SliceStable(offers, func(i, j int) bool {
			a, b := offers[i].Price, offers[j].Price
			// Unpriced offers go last in either direction.
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			if ascending {
				return a.Amount < b.Amount
			}
			return a.Amount > b.Amount
		})

	case SortRating:
		sort.SliceStable(offers, func(i, j int) bool {
			if ascending {
				return offers[i].Rating < offers[j].Rating
			}
			return offers[i].Rating > offers[j].Rating
		})

	case SortBestValue:
		sort.SliceStable(offers, func(i, j int) bool {
			if ascending {
				return offers[i].BestValueScore < offers[j].BestValueScore
			}
			return offers[i].BestValueScore > offers[j].BestValueScore
		})

	case SortDeparture:
		sort.SliceStable(offers, func(i, j int) bool {
			a, aok := departureKey(offers[i])
			b, bok := departureKey(offers[j])
			if !aok || !bok {
				return aok && !bok
			}
			if ascending {
				return a < b
			}
			return a > b
		})

	default:
		// relevance keeps the order offers were merged in
	}

	return offers
}

// departureKey orders by instant when known, else by HH:MM text.
func departureKey(o models.Offer) (string, bool) {
	if o.WhenDeparts == nil {
		return "", false
	}
	if o.WhenDeparts.At != nil {
		return o.WhenDeparts.At.UTC().Format(time.RFC3339), true
	}
	if o.WhenDeparts.Text != "" {
		return o.WhenDeparts.Text, true
	}
	return "", false
}
