package providers

import (
	"strconv"

	"github.com/dharmasatrya/tripease/internal/models"
)

// Query field names accepted as keys in a provider's params override.
const (
	FieldKeyword     = "keyword"
	FieldOrigin      = "origin"
	FieldDestination = "destination"
	FieldDate        = "date"
	FieldGuests      = "guests"
	FieldCategory    = "category"
)

// defaultParams maps query fields to the parameter names providers of each
// kind usually expect.
var defaultParams = map[models.Kind]map[string]string{
	models.KindHotel: {
		FieldKeyword: "location",
		FieldDate:    "checkin",
		FieldGuests:  "guests",
	},
	models.KindBus: {
		FieldOrigin:      "source",
		FieldDestination: "destination",
		FieldDate:        "date",
	},
	models.KindTrain: {
		FieldOrigin:      "from",
		FieldDestination: "to",
		FieldDate:        "date",
	},
	models.KindFlight: {
		FieldOrigin:      "originLocationCode",
		FieldDestination: "destinationLocationCode",
		FieldDate:        "departureDate",
		FieldGuests:      "adults",
	},
	models.KindDestination: {
		FieldKeyword:  "keyword",
		FieldCategory: "category",
	},
}

// paramNames merges overrides into the kind defaults. An override with an
// empty name stops the field from being sent.
func paramNames(kind models.Kind, overrides map[string]string) map[string]string {
	names := make(map[string]string, len(defaultParams[kind])+len(overrides))
	for field, name := range defaultParams[kind] {
		names[field] = name
	}
	for field, name := range overrides {
		if name == "" {
			delete(names, field)
			continue
		}
		names[field] = name
	}
	return names
}

// buildParams renders q under the given names. Static values fill in any
// parameter the query left unset.
func buildParams(q models.SearchQuery, names, static map[string]string) map[string]string {
	fields := map[string]string{
		FieldKeyword:     q.Keyword,
		FieldOrigin:      q.Origin,
		FieldDestination: q.Destination,
		FieldDate:        q.Date,
		FieldCategory:    q.Category,
	}
	if q.Guests > 0 {
		fields[FieldGuests] = strconv.Itoa(q.Guests)
	}

	out := make(map[string]string, len(names)+len(static))
	for field, name := range names {
		if v := fields[field]; v != "" {
			out[name] = v
		}
	}
	for name, v := range static {
		if _, set := out[name]; !set {
			out[name] = v
		}
	}
	return out
}
