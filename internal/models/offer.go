package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Kind string

const (
	KindDestination Kind = "destination"
	KindHotel       Kind = "hotel"
	KindBus         Kind = "bus"
	KindTrain       Kind = "train"
	KindFlight      Kind = "flight"
)

var AllKinds = []Kind{KindDestination, KindHotel, KindBus, KindTrain, KindFlight}

func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindDestination, KindHotel, KindBus, KindTrain, KindFlight:
		return k, true
	}
	switch k {
	case "destinations":
		return KindDestination, true
	case "hotels":
		return KindHotel, true
	case "buses":
		return KindBus, true
	case "trains":
		return KindTrain, true
	case "flights":
		return KindFlight, true
	}
	return "", false
}

// Plural is the collection name providers commonly wrap results in.
func (k Kind) Plural() string {
	switch k {
	case KindBus:
		return "buses"
	case "":
		return ""
	default:
		return string(k) + "s"
	}
}

// IsTransport reports whether offers of this kind carry origin/destination.
func (k Kind) IsTransport() bool {
	return k == KindBus || k == KindTrain || k == KindFlight
}

const (
	SourceLocal = "local"
	SourceMock  = "mock"

	PlaceholderImageURL = "https://via.placeholder.com/800x600?text=No+Image"

	DefaultRating = 5.0
	MaxRating     = 5.0
)

// When holds a provider time value. At is set only when Text parsed as a
// timestamp; Text always keeps what the provider sent.
type When struct {
	At   *time.Time `json:"at,omitempty"`
	Text string     `json:"text"`
}

type Price struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

type Offer struct {
	ID                string          `json:"id"`
	Kind              Kind            `json:"kind"`
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category,omitempty"`
	Origin            *string         `json:"origin,omitempty"`
	Destination       *string         `json:"destination,omitempty"`
	WhenDeparts       *When           `json:"when_departs,omitempty"`
	WhenArrives       *When           `json:"when_arrives,omitempty"`
	Duration          string          `json:"duration,omitempty"`
	Price             *Price          `json:"price"`
	Rating            float64         `json:"rating"`
	ImageURL          string          `json:"image_url"`
	CapacityRemaining *int            `json:"capacity_remaining,omitempty"`
	SourceProvider    string          `json:"source_provider"`
	BestValueScore    float64         `json:"best_value_score,omitempty"`
	Raw               json.RawMessage `json:"raw,omitempty"`
}

// Finalize fills defaults and clamps ranges so the offer satisfies the
// invariants every consumer relies on. fallbackID is used when ID is empty.
func (o *Offer) Finalize(fallbackID string) {
	if strings.TrimSpace(o.ID) == "" {
		o.ID = fallbackID
	}
	if o.Kind == "" {
		o.Kind = KindDestination
	}
	if strings.TrimSpace(o.Title) == "" {
		o.Title = DefaultTitle(o.Kind)
	}
	o.Rating = ClampRating(o.Rating)
	if strings.TrimSpace(o.ImageURL) == "" {
		o.ImageURL = PlaceholderImageURL
	}
	if o.CapacityRemaining != nil && *o.CapacityRemaining < 0 {
		zero := 0
		o.CapacityRemaining = &zero
	}
}

func ClampRating(r float64) float64 {
	switch {
	case r != r: // NaN
		return DefaultRating
	case r < 0:
		return 0
	case r > MaxRating:
		return MaxRating
	}
	return r
}

func DefaultTitle(k Kind) string {
	switch k {
	case KindHotel:
		return "Hotel"
	case KindBus:
		return "Bus Operator"
	case KindTrain:
		return "Train"
	case KindFlight:
		return "Flight"
	default:
		return "Destination"
	}
}

func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
