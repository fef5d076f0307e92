package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripease/internal/aggregator"
	"github.com/dharmasatrya/tripease/internal/filter"
	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/internal/validator"
)

type SearchHandler struct {
	aggregator *aggregator.Aggregator
	validate   *validator.Validator
}

func NewSearchHandler(agg *aggregator.Aggregator, v *validator.Validator) *SearchHandler {
	if v == nil {
		v = validator.New()
	}
	return &SearchHandler{
		aggregator: agg,
		validate:   v,
	}
}

// Search serves GET (query string) and POST (JSON body) searches.
func (h *SearchHandler) Search(c echo.Context) error {
	return h.search(c, "")
}

// SearchKind returns a handler with the offer kind fixed, for the
// /destinations, /hotels, /buses, /trains and /flights routes.
func (h *SearchHandler) SearchKind(kind models.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.search(c, kind)
	}
}

func (h *SearchHandler) search(c echo.Context, kind models.Kind) error {
	startTime := time.Now()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request: "+bindMessage(err))
	}
	if kind != "" {
		req.Kind = string(kind)
	}

	if err := h.validate.Validate(req); err != nil {
		return badRequest(c, "validation_error", validator.Describe(err))
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}

	q := req.Query()
	var opts []aggregator.SearchOption
	// Category browsing without a keyword is a catalog listing.
	if !q.HasKeyword() && q.Category != "" {
		opts = append(opts, aggregator.LocalOnly())
	}

	result, err := h.aggregator.Search(c.Request().Context(), q, opts...)
	if err != nil {
		return respondError(c, err)
	}

	filtered := filter.Apply(result.Offers, req.SearchFilters, req.SortBy, req.SortOrder)
	page := filter.Paginate(filtered, req.Page, req.Limit)

	return c.JSON(http.StatusOK, models.SearchResponse{
		Data: page,
		Metadata: models.SearchMetadata{
			TotalResults:       len(filtered),
			Page:               req.Page,
			Limit:              req.Limit,
			ProvidersQueried:   result.ProvidersQueried,
			ProvidersSucceeded: result.ProvidersSucceeded,
			ProvidersFailed:    result.ProvidersFailed,
			FailedProviders:    result.FailedProviders,
			LocalResults:       result.LocalCount,
			Mock:               result.MockFallback,
			SearchTimeMs:       time.Since(startTime).Milliseconds(),
		},
	})
}

// SearchFlights keeps the flat flight list contract of the legacy
// /search-flights endpoint.
func (h *SearchHandler) SearchFlights(c echo.Context) error {
	var req models.FlightSearchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+bindMessage(err))
	}
	if err := h.validate.Validate(req); err != nil {
		return badRequest(c, "validation_error", validator.Describe(err))
	}

	q := models.NewSearchQuery("", models.KindFlight, req.Source, req.Destination, req.DepartureDate, 1, "")
	result, err := h.aggregator.Search(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}

	flights := make([]models.FlightDetails, 0, len(result.Offers))
	for _, o := range result.Offers {
		flights = append(flights, models.FlightFromOffer(o, req))
	}
	return c.JSON(http.StatusOK, flights)
}

func bindMessage(err error) string {
	if he, ok := err.(*echo.HTTPError); ok {
		if m, ok := he.Message.(string); ok {
			return m
		}
	}
	return strings.TrimSpace(err.Error())
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
