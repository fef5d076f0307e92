package models

import (
	"math"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"hotel", KindHotel, true},
		{" Hotels ", KindHotel, true},
		{"buses", KindBus, true},
		{"TRAIN", KindTrain, true},
		{"flights", KindFlight, true},
		{"destinations", KindDestination, true},
		{"spaceship", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKind(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseKind(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKindPluralRoundTrips(t *testing.T) {
	for _, k := range AllKinds {
		got, ok := ParseKind(k.Plural())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k.Plural(), got, ok)
		}
	}
	if KindBus.Plural() != "buses" {
		t.Errorf("bus plural = %q", KindBus.Plural())
	}
}

func TestOfferFinalize(t *testing.T) {
	seats := -3
	o := Offer{Rating: 9, CapacityRemaining: &seats}
	o.Finalize("fallback-1")

	if o.ID != "fallback-1" || o.Kind != KindDestination || o.Title != "Destination" {
		t.Errorf("defaults = %q %q %q", o.ID, o.Kind, o.Title)
	}
	if o.Rating != MaxRating {
		t.Errorf("rating = %v", o.Rating)
	}
	if o.ImageURL != PlaceholderImageURL {
		t.Errorf("image = %q", o.ImageURL)
	}
	if *o.CapacityRemaining != 0 {
		t.Errorf("capacity = %d", *o.CapacityRemaining)
	}

	kept := Offer{ID: "h-1", Kind: KindHotel, Title: "Taj", Rating: 4.2, ImageURL: "https://img"}
	kept.Finalize("unused")
	if kept.ID != "h-1" || kept.Title != "Taj" || kept.Rating != 4.2 || kept.ImageURL != "https://img" {
		t.Errorf("finalize overwrote values: %+v", kept)
	}
}

func TestClampRating(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{3.7, 3.7},
		{12, 5},
		{math.NaN(), DefaultRating},
	}
	for _, tt := range tests {
		if got := ClampRating(tt.in); got != tt.want {
			t.Errorf("ClampRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSignature(t *testing.T) {
	a := NewSearchQuery(" Goa ", KindHotel, "", "", "2025-12-01", 2, "")
	b := SearchQuery{Guests: 2, Date: "2025-12-01", Kind: KindHotel, Keyword: "goa"}

	if a.Signature("hotels") != b.Signature("hotels") {
		t.Errorf("equivalent queries differ: %q vs %q", a.Signature("hotels"), b.Signature("hotels"))
	}
	if a.Signature("hotels") == a.Signature("buses") {
		t.Error("namespace not part of signature")
	}
	if a.Signature("hotels") == NewSearchQuery("goa", KindHotel, "", "", "2025-12-02", 2, "").Signature("hotels") {
		t.Error("different dates share a signature")
	}
	if want := "hotels?date=2025-12-01&guests=2&keyword=goa&kind=hotel"; a.Signature("hotels") != want {
		t.Errorf("signature = %q, want %q", a.Signature("hotels"), want)
	}
}

func TestNewSearchQuery(t *testing.T) {
	q := NewSearchQuery("  ", "", " DEL ", "GOI", "", -4, "")
	if q.Guests != 0 || q.Origin != "DEL" || q.HasKeyword() || !q.HasRoute() {
		t.Errorf("query = %+v", q)
	}
	if !NewSearchQuery("", "", "", "", "", 0, "").IsEmpty() {
		t.Error("blank query should be empty")
	}
}

func TestSearchRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr error
	}{
		{"unknown kind", SearchRequest{Kind: "boat"}, ErrUnknownKind},
		{"inverted price", SearchRequest{SearchFilters: SearchFilters{PriceMin: 10, PriceMax: 5}}, ErrInvalidPriceRange},
		{"min only", SearchRequest{SearchFilters: SearchFilters{PriceMin: 10}}, nil},
		{"ok", SearchRequest{Kind: "hotels", Q: "goa"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if err != tt.wantErr {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	req := SearchRequest{Q: "goa", Kind: "hotels", Limit: 1000, SortBy: "rating"}
	if err := req.Validate(); err != nil {
		t.Fatal(err)
	}
	if req.Keyword != "goa" || req.Page != 1 || req.Limit != MaxLimit || req.SortOrder != "desc" {
		t.Errorf("defaults = %+v", req)
	}
	if q := req.Query(); q.Kind != KindHotel || q.Keyword != "goa" {
		t.Errorf("query = %+v", q)
	}
}

func TestFlightFromOffer(t *testing.T) {
	req := FlightSearchRequest{Source: "DEL", Destination: "GOI", DepartureDate: "2025-12-01"}
	o := Offer{
		Title:       "IndiGo",
		Origin:      StringPtr("Delhi"),
		WhenDeparts: &When{Text: "06:15"},
		Duration:    "2h 35m",
		Price:       &Price{Amount: 5400, Currency: "INR"},
	}

	f := FlightFromOffer(o, req)
	if f.Carrier != "IndiGo" || f.Source != "Delhi" || f.Destination != "GOI" {
		t.Errorf("route = %+v", f)
	}
	if f.Departure != "06:15" || f.Date != "2025-12-01" || f.Price != 5400 || f.Duration != "2h 35m" {
		t.Errorf("details = %+v", f)
	}
}
