package main

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// seeded returns a generator fixed by the request's query string, so the
// same search always gets the same answer.
func seeded(r *http.Request) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(r.URL.Query().Encode()))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

func amount(rng *rand.Rand, low, high float64) float64 {
	return math.Round((low+rng.Float64()*(high-low))*100) / 100
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func travelDate(s string) time.Time {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d
	}
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 14)
}

// hotels answers with a bare root array.
func hotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := seeded(r)
	city := orDefault(q.Get("location"), "Goa")
	checkin := travelDate(q.Get("checkin"))

	names := []string{"Taj Exotica", "The Leela", "Novotel", "Zostel", "Ibis", "ITC Grand"}
	n := 3 + rng.Intn(3)
	out := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, map[string]any{
			"hotel_id":        fmt.Sprintf("HTL-%04d", rng.Intn(10000)),
			"hotel_name":      pick(rng, names) + " " + city,
			"address":         map[string]any{"city": city},
			"checkin":         checkin.Format("2006-01-02"),
			"checkout":        checkin.AddDate(0, 0, 1).Format("2006-01-02"),
			"rate":            amount(rng, 2500, 18000),
			"currency":        "INR",
			"review_score":    math.Round((6+rng.Float64()*4)*10) / 10,
			"photos":          []map[string]any{{"url": "https://picsum.photos/seed/hotel" + fmt.Sprint(i) + "/800/600"}},
			"available_rooms": rng.Intn(12),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// buses wraps results in "data".
func buses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := seeded(r)
	from := orDefault(q.Get("source"), "Mumbai")
	to := orDefault(q.Get("destination"), "Goa")
	day := travelDate(q.Get("date"))

	operators := []string{"VRL Travels", "SRS Travels", "Orange Tours", "Paulo Travels", "Neeta Tours"}
	types := []string{"AC Sleeper", "Non-AC Seater", "Volvo Multi-Axle"}
	n := 2 + rng.Intn(4)
	out := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		dep := day.Add(time.Duration(17*60+rng.Intn(300)) * time.Minute)
		dur := time.Duration(8*60+rng.Intn(240)) * time.Minute
		out = append(out, map[string]any{
			"bus_id":         fmt.Sprintf("BUS%d", 100+rng.Intn(900)),
			"operator":       pick(rng, operators),
			"busType":        pick(rng, types),
			"source":         from,
			"destination":    to,
			"departure_time": dep.Format("2006-01-02T15:04:05"),
			"arrival_time":   dep.Add(dur).Format("2006-01-02T15:04:05"),
			"duration":       int(dur.Minutes()),
			"fare":           map[string]any{"total": amount(rng, 600, 2200), "currency": "INR"},
			"seatsAvailable": rng.Intn(36),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "data": out})
}

// trains wraps results under the kind's plural.
func trains(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := seeded(r)
	from := orDefault(q.Get("from"), "NDLS")
	to := orDefault(q.Get("to"), "BCT")

	names := []string{"Rajdhani Express", "Shatabdi Express", "Duronto Express", "Vande Bharat"}
	classes := []string{"1A", "2A", "3A", "CC", "SL"}
	n := 2 + rng.Intn(3)
	out := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		depMin := 5*60 + rng.Intn(17*60)
		durMin := 4*60 + rng.Intn(12*60)
		out = append(out, map[string]any{
			"train_number":   fmt.Sprintf("%05d", 12000+rng.Intn(8000)),
			"trainName":      pick(rng, names),
			"class":          pick(rng, classes),
			"from":           from,
			"to":             to,
			"departureTime":  fmt.Sprintf("%02d:%02d", depMin/60, depMin%60),
			"arrivalTime":    fmt.Sprintf("%02d:%02d", (depMin+durMin)/60%24, (depMin+durMin)%60),
			"travelTime":     fmt.Sprintf("%dh %dm", durMin/60, durMin%60),
			"fare":           amount(rng, 450, 4800),
			"seatsAvailable": rng.Intn(80) - 5,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"trains": out, "count": len(out)})
}

// destinations uses "results".
func destinations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := seeded(r)
	keyword := orDefault(q.Get("keyword"), "India")
	category := orDefault(q.Get("category"), "")

	spots := []string{"Beaches", "Old Town", "Hill Station", "Backwaters", "Fort", "Night Market"}
	n := 2 + rng.Intn(3)
	out := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, map[string]any{
			"name":        capitalize(keyword) + " " + pick(rng, spots),
			"description": "Popular with travellers searching for " + keyword,
			"category":    category,
			"rating":      math.Round((3+rng.Float64()*2)*10) / 10,
			"image":       "https://picsum.photos/seed/" + keyword + fmt.Sprint(i) + "/800/600",
			"price":       fmt.Sprintf("₹%d", 8000+rng.Intn(30000)),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

// places hides its array under an arbitrary key, after some metadata.
func places(w http.ResponseWriter, r *http.Request) {
	rng := seeded(r)
	names := []string{"Dudhsagar Falls", "Chapora Fort", "Anjuna Flea Market", "Basilica of Bom Jesus"}

	out := make([]any, 0, len(names))
	for _, n := range names {
		if rng.Intn(4) == 0 {
			out = append(out, n)
			continue
		}
		out = append(out, map[string]any{"title": n, "stars": 3 + rng.Intn(3)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"meta":      map[string]any{"source": "mock", "version": 2},
		"generated": time.Now().UTC().Format(time.RFC3339),
		"items":     out,
	})
}

// flights mimics the flight-offers shape: nested itineraries and a price
// object with string amounts.
func flights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := seeded(r)
	origin := strings.ToUpper(orDefault(q.Get("originLocationCode"), "DEL"))
	dest := strings.ToUpper(orDefault(q.Get("destinationLocationCode"), "GOI"))
	day := travelDate(q.Get("departureDate"))

	carriers := []string{"AI", "6E", "UK", "SG", "QP"}
	n := 2 + rng.Intn(4)
	out := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		dep := day.Add(time.Duration(5*60+rng.Intn(17*60)) * time.Minute)
		dur := time.Duration(70+rng.Intn(200)) * time.Minute
		carrier := pick(rng, carriers)
		total := fmt.Sprintf("%.2f", amount(rng, 3200, 14000))
		out = append(out, map[string]any{
			"type":                  "flight-offer",
			"id":                    fmt.Sprint(i),
			"numberOfBookableSeats": 1 + rng.Intn(9),
			"itineraries": []map[string]any{{
				"duration": fmt.Sprintf("PT%dH%dM", int(dur.Hours()), int(dur.Minutes())%60),
				"segments": []map[string]any{{
					"departure":   map[string]any{"iataCode": origin, "at": dep.Format("2006-01-02T15:04:05")},
					"arrival":     map[string]any{"iataCode": dest, "at": dep.Add(dur).Format("2006-01-02T15:04:05")},
					"carrierCode": carrier,
					"number":      fmt.Sprint(100 + rng.Intn(900)),
				}},
			}},
			"price": map[string]any{
				"currency":   "INR",
				"total":      total,
				"grandTotal": total,
			},
			"validatingAirlineCodes": []string{carrier},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"meta": map[string]any{"count": len(out)},
		"data": out,
	})
}
