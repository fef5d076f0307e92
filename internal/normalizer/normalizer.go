// Package normalizer maps raw provider records onto the canonical Offer.
//
// Every target field has an ordered list of accessors; the first one that
// yields a usable value wins and a missing field falls back to a default.
// Supporting a new provider shape means adding rows to the tables below.
package normalizer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/internal/providers"
	"github.com/dharmasatrya/tripease/internal/timezone"
	"github.com/dharmasatrya/tripease/pkg/currency"
)

// Source identifies where a record came from.
type Source struct {
	Provider string
	Kind     models.Kind
}

type field int

const (
	fieldID field = iota
	fieldTitle
	fieldDescription
	fieldCategory
	fieldOrigin
	fieldDestination
	fieldDeparts
	fieldArrives
	fieldDuration
	fieldPrice
	fieldCurrency
	fieldRating
	fieldImage
	fieldCapacity
)

var commonRules = map[field][]accessor{
	fieldID:          {key("id"), key("_id"), key("hotel_id"), key("property_id"), key("code")},
	fieldTitle:       {key("name"), key("title")},
	fieldDescription: {key("description"), key("summary"), key("details")},
	fieldCategory:    {key("category"), key("type")},
	fieldOrigin:      {key("from"), key("source"), key("origin")},
	fieldDestination: {key("to"), key("destination"), key("city"), key("location")},
	fieldDeparts:     {key("departure"), key("departureTime"), key("departure_time"), key("departs_at")},
	fieldArrives:     {key("arrival"), key("arrivalTime"), key("arrival_time"), key("arrives_at")},
	fieldDuration:    {key("duration"), key("travelTime")},
	fieldPrice:       {key("price"), key("amount"), key("total"), key("cost")},
	fieldCurrency:    {key("currency"), path("price", "currency"), key("currencyCode")},
	fieldRating:      {key("rating"), path("rating", "average")},
	fieldImage:       {key("image"), key("imageUrl"), key("image_url"), key("thumbnail"), firstOf("images")},
	fieldCapacity:    {key("availableSeats"), key("seats"), key("capacity")},
}

var kindRules = map[models.Kind]map[field][]accessor{
	models.KindHotel: {
		fieldTitle:       {key("hotel_name"), key("property_name")},
		fieldDestination: {path("address", "city"), path("address", "cityName")},
		fieldDeparts:     {key("checkin"), key("check_in")},
		fieldArrives:     {key("checkout"), key("check_out")},
		fieldPrice:       {key("rate"), path("rates", "0", "price")},
		fieldRating:      {key("stars"), scaled(key("review_score"), 2)},
		fieldImage:       {firstOf("photos", "url")},
		fieldCapacity:    {key("available_rooms"), key("rooms_left")},
	},
	models.KindBus: {
		fieldID:       {key("bus_id"), key("trip_id")},
		fieldTitle:    {key("operator"), key("operatorName"), key("company")},
		fieldCategory: {key("busType"), key("bus_type")},
		fieldPrice:    {key("fare"), path("fare", "total")},
		fieldCurrency: {path("fare", "currency")},
		fieldCapacity: {key("seatsAvailable"), key("available_seats")},
	},
	models.KindTrain: {
		fieldID:       {key("train_number"), key("trainNumber")},
		fieldTitle:    {key("trainName"), key("train_name"), key("train_number")},
		fieldCategory: {key("class"), key("travelClass")},
		fieldPrice:    {key("fare"), path("fare", "total")},
		fieldCurrency: {path("fare", "currency")},
		fieldCapacity: {key("seatsAvailable"), key("available_seats")},
	},
	models.KindFlight: {
		fieldTitle: {
			key("carrier"), key("airline"), path("airline", "name"),
			firstOf("validatingAirlineCodes"),
			path("itineraries", "0", "segments", "0", "carrierCode"),
		},
		fieldOrigin: {
			path("departure", "iataCode"),
			path("itineraries", "0", "segments", "0", "departure", "iataCode"),
		},
		fieldDestination: {
			path("arrival", "iataCode"),
			path("itineraries", "0", "segments", "0", "arrival", "iataCode"),
		},
		fieldDeparts: {
			path("departure", "at"),
			path("itineraries", "0", "segments", "0", "departure", "at"),
		},
		fieldArrives: {
			path("arrival", "at"),
			path("itineraries", "0", "segments", "0", "arrival", "at"),
		},
		fieldDuration: {path("itineraries", "0", "duration")},
		fieldPrice:    {path("price", "grandTotal"), path("price", "total")},
		fieldCapacity: {key("numberOfBookableSeats")},
	},
	models.KindDestination: {
		fieldID:          {key("iataCode"), key("geonameid")},
		fieldDestination: {path("address", "cityName"), key("country")},
		fieldCategory:    {key("subType")},
		fieldDescription: {path("address", "countryName")},
	},
}

// scalarRules read records the extractor wrapped from bare values.
var scalarRules = map[field][]accessor{
	fieldTitle: {key("value")},
}

func rules(kind models.Kind, f field) []accessor {
	chain := make([]accessor, 0, len(commonRules[f])+len(kindRules[kind][f])+len(scalarRules[f]))
	chain = append(chain, commonRules[f]...)
	chain = append(chain, kindRules[kind][f]...)
	chain = append(chain, scalarRules[f]...)
	return chain
}

func defaultCurrency(kind models.Kind) string {
	if kind == models.KindBus || kind == models.KindTrain {
		return "INR"
	}
	return "USD"
}

// Normalize maps rec to an Offer. It never fails; absent or unusable fields
// take defaults.
func Normalize(rec providers.Record, src Source) models.Offer {
	kind := src.Kind
	if kind == "" {
		kind = models.KindDestination
	}
	if rec == nil {
		rec = providers.Record{}
	}

	text := func(f field) string {
		s, _ := first(rec, rules(kind, f), toText)
		return s
	}

	offer := models.Offer{
		ID:             text(fieldID),
		Kind:           kind,
		Title:          text(fieldTitle),
		Description:    text(fieldDescription),
		Category:       text(fieldCategory),
		Origin:         models.StringPtr(text(fieldOrigin)),
		Destination:    models.StringPtr(text(fieldDestination)),
		Duration:       formatDuration(rec, kind),
		SourceProvider: src.Provider,
	}

	offer.WhenDeparts = when(text(fieldDeparts), offer.Origin)
	offer.WhenArrives = when(text(fieldArrives), offer.Destination)

	if m, ok := first(rec, rules(kind, fieldPrice), toMoney); ok {
		code := m.currency
		if code == "" {
			code = text(fieldCurrency)
		}
		if code == "" {
			code = defaultCurrency(kind)
		}
		code = strings.ToUpper(code)
		offer.Price = &models.Price{
			Amount:    m.amount,
			Currency:  code,
			Formatted: currency.Format(m.amount, code),
		}
	}

	offer.Rating = models.DefaultRating
	if r, ok := first(rec, rules(kind, fieldRating), toFloat); ok {
		offer.Rating = r
	}

	offer.ImageURL, _ = first(rec, rules(kind, fieldImage), toImageURL)

	if n, ok := first(rec, rules(kind, fieldCapacity), toInt); ok {
		offer.CapacityRemaining = &n
	}

	if raw, err := json.Marshal(rec); err == nil {
		offer.Raw = raw
	}

	offer.Finalize(fallbackID(src.Provider, offer))
	return offer
}

// NormalizeAll maps every record from one provider.
func NormalizeAll(records []providers.Record, src Source) []models.Offer {
	offers := make([]models.Offer, 0, len(records))
	for _, rec := range records {
		offers = append(offers, Normalize(rec, src))
	}
	return offers
}

// fallbackID hashes the identifying display fields so a record without an
// id still gets the same id on every search.
func fallbackID(provider string, o models.Offer) string {
	title := o.Title
	if title == "" {
		title = models.DefaultTitle(o.Kind)
	}
	var departs, arrives string
	if o.WhenDeparts != nil {
		departs = o.WhenDeparts.Text
	}
	if o.WhenArrives != nil {
		arrives = o.WhenArrives.Text
	}

	sum := sha256.Sum256([]byte(strings.Join([]string{provider, title, departs, arrives}, "\x00")))
	prefix := provider
	if prefix == "" {
		prefix = "offer"
	}
	return prefix + "-" + hex.EncodeToString(sum[:])[:16]
}

// when keeps the provider text and, where it parses, the instant. Times
// without an offset are read in the zone of the nearest airport code.
func when(text string, place *string) *models.When {
	if text == "" {
		return nil
	}
	w := &models.When{Text: text}

	var loc *time.Location
	if place != nil {
		loc, _ = timezone.LocationByAirport(*place)
	}
	if t, err := timezone.Parse(text, loc); err == nil {
		w.At = &t
	}
	return w
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?$`)

// formatDuration renders ISO-8601 durations and bare minute counts as
// "6h 10m". Other text is kept as sent.
func formatDuration(rec providers.Record, kind models.Kind) string {
	v, ok := first(rec, rules(kind, fieldDuration), func(v any) (any, bool) { return v, true })
	if !ok {
		return ""
	}

	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		upper := strings.ToUpper(s)
		if m := isoDuration.FindStringSubmatch(upper); m != nil && upper != "P" && upper != "PT" {
			days, _ := strconv.Atoi(m[1])
			hours, _ := strconv.Atoi(m[2])
			minutes, _ := strconv.Atoi(m[3])
			return humanMinutes(days*24*60 + hours*60 + minutes)
		}
		if _, err := strconv.Atoi(s); err != nil {
			return s
		}
	}

	if n, ok := toInt(v); ok && n >= 0 {
		return humanMinutes(n)
	}
	return ""
}

func humanMinutes(total int) string {
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
