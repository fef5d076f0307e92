// Package booking records reservation requests against offers.
package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/tripease/internal/apperr"
	"github.com/dharmasatrya/tripease/internal/catalog"
	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/internal/validator"
)

type Service struct {
	repo     Repository
	catalog  catalog.Store
	validate *validator.Validator
	region   string
	now      func() time.Time
}

func NewService(repo Repository, store catalog.Store, v *validator.Validator, phoneRegion string) *Service {
	if v == nil {
		v = validator.New()
	}
	if phoneRegion == "" {
		phoneRegion = "IN"
	}
	return &Service{
		repo:     repo,
		catalog:  store,
		validate: v,
		region:   phoneRegion,
		now:      time.Now,
	}
}

// Create validates req and stores a pending booking. Offers that resolve in
// the local catalog take their title and price from the catalog record.
func (s *Service) Create(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	if err := s.validate.Validate(req); err != nil {
		return models.Booking{}, apperr.Wrap(apperr.KindValidation, validator.Describe(err), err).WithOp("booking.Create")
	}

	b := models.Booking{
		ID:         uuid.NewString(),
		OfferID:    strings.TrimSpace(req.OfferID),
		OfferTitle: strings.TrimSpace(req.OfferTitle),
		OfferPrice: req.OfferPrice,
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      NormalizeE164(req.Phone, s.region),
		Travelers:  req.Travelers,
		Notes:      strings.TrimSpace(req.Notes),
		Flight:     req.Flight,
		Status:     models.BookingStatusPending,
		CreatedAt:  s.now().UTC(),
	}
	if b.Travelers < 1 {
		b.Travelers = 1
	}

	if s.catalog != nil {
		trip, err := s.catalog.Get(ctx, b.OfferID)
		switch {
		case err == nil:
			b.OfferTitle = trip.Name
			if trip.Price > 0 {
				b.OfferPrice = trip.Price
			}
		case errors.Is(err, catalog.ErrNotFound):
		default:
			return models.Booking{}, apperr.Wrap(apperr.KindUnavailable, "trip catalog unavailable", err).WithOp("booking.Create")
		}
	}

	if err := s.repo.Save(ctx, b); err != nil {
		return models.Booking{}, apperr.Wrap(apperr.KindInternal, "failed to save booking", err).WithOp("booking.Create")
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Booking, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Booking{}, apperr.NotFound("booking not found")
		}
		return models.Booking{}, apperr.Wrap(apperr.KindInternal, "failed to load booking", err).WithOp("booking.Get")
	}
	return b, nil
}
