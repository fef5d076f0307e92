// Package mockgen produces deterministic placeholder offers for queries no
// configured source could answer.
package mockgen

import (
	"fmt"
	"math"
	"strings"

	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/pkg/currency"
)

const (
	minOffers = 3
	maxOffers = 5
)

var carriers = map[models.Kind][]string{
	models.KindFlight:      {"IndiGo", "Air India", "Vistara", "SpiceJet", "Akasa Air", "Emirates"},
	models.KindBus:         {"VRL Travels", "Neeta Travels", "SRS Travels", "Orange Tours", "Zingbus"},
	models.KindTrain:       {"Rajdhani Express", "Shatabdi Express", "Duronto Express", "Vande Bharat", "Jan Shatabdi"},
	models.KindHotel:       {"Seaside Residency", "Heritage Haveli", "Hilltop Retreat", "City Comfort Inn", "Palm Grove Resort"},
	models.KindDestination: {"Old Town Walk", "Riverside Market", "Sunset Point", "Heritage Quarter", "Lakeside Promenade"},
}

// priceRange is the [base, base+spread) band per kind in the kind's default
// currency.
var priceRange = map[models.Kind][2]float64{
	models.KindFlight:      {79, 420},
	models.KindBus:         {450, 1800},
	models.KindTrain:       {300, 2700},
	models.KindHotel:       {45, 260},
	models.KindDestination: {15, 120},
}

// Generate returns 3 to 5 offers derived only from q, so equal queries get
// equal offers.
func Generate(q models.SearchQuery) []models.Offer {
	kind := q.Kind
	if kind == "" {
		if q.HasRoute() {
			kind = models.KindFlight
		} else {
			kind = models.KindDestination
		}
	}

	seed := seedOf(q)
	n := minOffers + int(rand(seed, 0)*float64(maxOffers-minOffers+1))
	if n > maxOffers {
		n = maxOffers
	}

	if len(carriers[kind]) == 0 {
		kind = models.KindDestination
	}
	names := carriers[kind]
	band := priceRange[kind]
	code := "USD"
	if kind == models.KindBus || kind == models.KindTrain {
		code = "INR"
	}

	offers := make([]models.Offer, 0, n)
	for i := 1; i <= n; i++ {
		r := func(salt int) float64 { return rand(seed, i*10+salt) }

		name := names[int(r(1)*float64(len(names)))%len(names)]
		// 05:00 to 22:55 in 5 minute steps.
		depMinutes := 5*60 + int(r(2)*216)*5
		durMinutes := 60 + int(r(3)*96)*5
		amount := math.Round((band[0]+r(4)*band[1])*100) / 100
		rating := math.Round((3.5+r(5)*1.5)*10) / 10

		offer := models.Offer{
			ID:          fmt.Sprintf("mock-%s-%d-%d", kind, seed, i),
			Kind:        kind,
			Title:       name,
			Description: describe(kind, q),
			Origin:      models.StringPtr(q.Origin),
			Destination: models.StringPtr(destinationOf(q)),
			WhenDeparts: &models.When{Text: clock(depMinutes)},
			Duration:    duration(durMinutes),
			Price: &models.Price{
				Amount:    amount,
				Currency:  code,
				Formatted: currency.Format(amount, code),
			},
			Rating:         rating,
			SourceProvider: models.SourceMock,
		}
		if kind.IsTransport() {
			arr := (depMinutes + durMinutes) % (24 * 60)
			offer.WhenArrives = &models.When{Text: clock(arr)}
			seats := 1 + int(r(6)*40)
			offer.CapacityRemaining = &seats
		}
		offer.Finalize(offer.ID)
		offers = append(offers, offer)
	}
	return offers
}

// seedOf folds the character codes of the query fields into a seed.
func seedOf(q models.SearchQuery) int {
	s := strings.ToLower(strings.Join([]string{q.Keyword, string(q.Kind), q.Origin, q.Destination, q.Date, q.Category}, "|"))
	seed := len(s)
	for i, c := range s {
		seed = (seed*31 + int(c)*(i+1)) % 1000003
	}
	return seed + q.Guests
}

// rand is the fractional part of sin(seed+i)*10000, in [0, 1).
func rand(seed, i int) float64 {
	x := math.Sin(float64(seed+i)) * 10000
	return x - math.Floor(x)
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func duration(minutes int) string {
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func destinationOf(q models.SearchQuery) string {
	if q.Destination != "" {
		return q.Destination
	}
	return q.Keyword
}

func describe(kind models.Kind, q models.SearchQuery) string {
	switch {
	case q.HasRoute():
		return fmt.Sprintf("Sample %s from %s to %s", kind, q.Origin, q.Destination)
	case q.Keyword != "":
		return fmt.Sprintf("Sample %s for %s", kind, q.Keyword)
	default:
		return fmt.Sprintf("Sample %s", kind)
	}
}
