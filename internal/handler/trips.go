package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripease/internal/catalog"
	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/internal/validator"
)

type tripListRequest struct {
	Q        string `query:"q" validate:"max=100"`
	Keyword  string `query:"keyword" validate:"max=100"`
	Category string `query:"category" validate:"max=64"`
	Sort     string `query:"sort" validate:"max=32"`
	Limit    int    `query:"limit" validate:"min=0"`
	Page     int    `query:"page" validate:"min=0"`
}

type tripCreateRequest struct {
	Kind          string   `json:"kind" validate:"omitempty,oneof=destination hotel bus train flight"`
	Name          string   `json:"name" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=2000"`
	Category      string   `json:"category" validate:"max=64"`
	Origin        string   `json:"origin" validate:"max=100"`
	Destination   string   `json:"destination" validate:"required,max=100"`
	Tags          []string `json:"tags" validate:"max=20,dive,max=50"`
	DepartureTime string   `json:"departure_time" validate:"max=16"`
	Duration      string   `json:"duration" validate:"max=32"`
	Price         float64  `json:"price" validate:"min=0"`
	Currency      string   `json:"currency" validate:"omitempty,len=3"`
	Rating        *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
	ImageURL      string   `json:"image_url" validate:"omitempty,url"`
	Seats         *int     `json:"seats" validate:"omitempty,min=0"`
}

func (r tripCreateRequest) trip() catalog.Trip {
	rating := models.DefaultRating
	if r.Rating != nil {
		rating = *r.Rating
	}
	return catalog.Trip{
		Kind:          models.Kind(r.Kind),
		Name:          strings.TrimSpace(r.Name),
		Description:   strings.TrimSpace(r.Description),
		Category:      strings.TrimSpace(r.Category),
		Origin:        strings.TrimSpace(r.Origin),
		Destination:   strings.TrimSpace(r.Destination),
		Tags:          r.Tags,
		DepartureTime: r.DepartureTime,
		Duration:      r.Duration,
		Price:         r.Price,
		Currency:      strings.ToUpper(r.Currency),
		Rating:        rating,
		ImageURL:      r.ImageURL,
		Seats:         r.Seats,
	}
}

// TripHandler exposes the local catalog directly.
type TripHandler struct {
	store    catalog.Store
	validate *validator.Validator
}

func NewTripHandler(store catalog.Store, v *validator.Validator) *TripHandler {
	if v == nil {
		v = validator.New()
	}
	return &TripHandler{store: store, validate: v}
}

func (h *TripHandler) List(c echo.Context) error {
	var req tripListRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse query: "+bindMessage(err))
	}
	if err := h.validate.Validate(req); err != nil {
		return badRequest(c, "validation_error", validator.Describe(err))
	}

	keyword := req.Keyword
	if keyword == "" {
		keyword = req.Q
	}
	q := catalog.Query{
		Keyword:  keyword,
		Category: req.Category,
		Sort:     req.Sort,
		Page:     req.Page,
		Limit:    req.Limit,
	}.Normalize()

	page, err := h.store.Search(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.CatalogResponse{
		Data: page.Offers(),
		Meta: models.PageMeta{
			Total: page.Total,
			Page:  page.Page,
			Pages: page.Pages(),
			Limit: page.Limit,
		},
	})
}

func (h *TripHandler) Get(c echo.Context) error {
	trip, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "Trip not found",
				Code:    http.StatusNotFound,
			})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, trip.Offer())
}

func (h *TripHandler) Create(c echo.Context) error {
	var req tripCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+bindMessage(err))
	}
	if err := h.validate.Validate(req); err != nil {
		return badRequest(c, "validation_error", validator.Describe(err))
	}

	trip, err := h.store.Create(c.Request().Context(), req.trip())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, trip.Offer())
}
