package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/dharmasatrya/tripease/internal/apperr"
	"github.com/dharmasatrya/tripease/internal/catalog"
	"github.com/dharmasatrya/tripease/internal/models"
)

type failingStore struct {
	catalog.Store
}

func (failingStore) Get(context.Context, string) (catalog.Trip, error) {
	return catalog.Trip{}, &catalog.CatalogError{Op: "get trip", Err: errors.New("connection refused")}
}

func newService(store catalog.Store) (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewService(repo, store, nil, "IN"), repo
}

func TestService_CreateFromCatalogOffer(t *testing.T) {
	trips := catalog.SeedTrips()
	svc, repo := newService(catalog.NewMemoryStore(trips...))

	b, err := svc.Create(context.Background(), models.BookingRequest{
		OfferID:    trips[0].ID,
		OfferTitle: "client supplied title",
		OfferPrice: 1,
		Name:       "  Asha Rao ",
		Email:      "Asha@Example.com",
		Phone:      "098765 43210",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if b.ID == "" || b.Status != models.BookingStatusPending || b.CreatedAt.IsZero() {
		t.Errorf("booking = %+v", b)
	}
	if b.OfferTitle != "Goa Beach Escape" || b.OfferPrice != 18999 {
		t.Errorf("offer fields = %q / %v, want catalog values", b.OfferTitle, b.OfferPrice)
	}
	if b.Name != "Asha Rao" || b.Email != "asha@example.com" {
		t.Errorf("contact = %q / %q", b.Name, b.Email)
	}
	if b.Phone != "+919876543210" {
		t.Errorf("phone = %q", b.Phone)
	}
	if b.Travelers != 1 {
		t.Errorf("travelers = %d, want default 1", b.Travelers)
	}

	stored, err := repo.Get(context.Background(), b.ID)
	if err != nil || stored.ID != b.ID {
		t.Errorf("stored = %+v, %v", stored, err)
	}
}

func TestService_CreateForExternalOffer(t *testing.T) {
	svc, _ := newService(catalog.NewMemoryStore())

	b, err := svc.Create(context.Background(), models.BookingRequest{
		OfferID:    "amadeus-flights-1",
		OfferTitle: "AI 101",
		OfferPrice: 546.7,
		Name:       "Ravi",
		Email:      "ravi@example.com",
		Travelers:  3,
		Flight: &models.FlightDetails{
			Carrier:     "Air India",
			Source:      "DEL",
			Destination: "GOI",
			Departure:   "08:30",
			Date:        "2025-12-01",
			Duration:    "2h 40m",
			Price:       546.7,
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.OfferTitle != "AI 101" || b.OfferPrice != 546.7 || b.Travelers != 3 || b.Flight == nil {
		t.Errorf("booking = %+v", b)
	}
}

func TestService_CreateValidation(t *testing.T) {
	svc, _ := newService(nil)

	tests := []struct {
		name string
		req  models.BookingRequest
	}{
		{"missing offer", models.BookingRequest{Name: "A", Email: "a@example.com"}},
		{"missing name", models.BookingRequest{OfferID: "x", Email: "a@example.com"}},
		{"bad email", models.BookingRequest{OfferID: "x", Name: "A", Email: "not-an-email"}},
		{"too many travelers", models.BookingRequest{OfferID: "x", Name: "A", Email: "a@example.com", Travelers: 51}},
		{"bad flight date", models.BookingRequest{OfferID: "x", Name: "A", Email: "a@example.com", Flight: &models.FlightDetails{Date: "01/12/2025"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			if apperr.GetKind(err) != apperr.KindValidation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_CatalogOutage(t *testing.T) {
	svc, _ := newService(failingStore{})

	_, err := svc.Create(context.Background(), models.BookingRequest{OfferID: "x", Name: "A", Email: "a@example.com"})
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Errorf("expected unavailable, got %v", err)
	}
}

func TestService_Get(t *testing.T) {
	svc, _ := newService(nil)

	if _, err := svc.Get(context.Background(), "missing"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		in, region, want string
	}{
		{"098765 43210", "IN", "+919876543210"},
		{"+1 650-253-0000", "IN", "+16502530000"},
		{"  ", "IN", ""},
		{"call me", "IN", "call me"},
	}
	for _, tt := range tests {
		if got := NormalizeE164(tt.in, tt.region); got != tt.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
