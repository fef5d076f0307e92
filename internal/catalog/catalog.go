// Package catalog is the local trip inventory: curated records already in
// offer shape, searched alongside external providers.
package catalog

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/pkg/currency"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
	DefaultSort  = "-created_at"

	// MaxPage keeps Offset within int for any limit up to MaxLimit.
	MaxPage = math.MaxInt / MaxLimit
)

var ErrNotFound = errors.New("trip not found")

// CatalogError reports that the local store itself failed. It is the one
// search failure surfaced to callers.
type CatalogError struct {
	Op  string
	Err error
}

func (e *CatalogError) Error() string {
	return "catalog " + e.Op + ": " + e.Err.Error()
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

type Trip struct {
	ID            string      `json:"id"`
	Kind          models.Kind `json:"kind"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	Category      string      `json:"category,omitempty"`
	Origin        string      `json:"origin,omitempty"`
	Destination   string      `json:"destination"`
	Tags          []string    `json:"tags,omitempty"`
	DepartureTime string      `json:"departure_time,omitempty"`
	Duration      string      `json:"duration,omitempty"`
	Price         float64     `json:"price"`
	Currency      string      `json:"currency"`
	Rating        float64     `json:"rating"`
	ImageURL      string      `json:"image_url,omitempty"`
	Seats         *int        `json:"seats,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Offer converts a trip into the canonical offer shape.
func (t Trip) Offer() models.Offer {
	o := models.Offer{
		ID:                t.ID,
		Kind:              t.Kind,
		Title:             t.Name,
		Description:       t.Description,
		Category:          t.Category,
		Origin:            models.StringPtr(t.Origin),
		Destination:       models.StringPtr(t.Destination),
		Duration:          t.Duration,
		Rating:            t.Rating,
		ImageURL:          t.ImageURL,
		CapacityRemaining: t.Seats,
		SourceProvider:    models.SourceLocal,
	}
	if t.DepartureTime != "" {
		o.WhenDeparts = &models.When{Text: t.DepartureTime}
	}
	if t.Price > 0 {
		code := t.Currency
		if code == "" {
			code = "INR"
		}
		o.Price = &models.Price{Amount: t.Price, Currency: code, Formatted: currency.Format(t.Price, code)}
	}
	o.Finalize("local-" + t.ID)
	return o
}

type Query struct {
	Keyword     string
	Category    string
	Kind        models.Kind
	Origin      string
	Destination string
	Sort        string
	Page        int
	Limit       int
}

// FromSearch builds the catalog query for an offer search. Kind only
// narrows transport searches; destination listings hold every kind.
func FromSearch(q models.SearchQuery, limit int) Query {
	cq := Query{
		Keyword:     q.Keyword,
		Category:    q.Category,
		Origin:      q.Origin,
		Destination: q.Destination,
		Limit:       limit,
	}
	if q.Kind.IsTransport() {
		cq.Kind = q.Kind
	}
	return cq
}

// Normalize applies defaults and bounds to paging and sort.
func (q Query) Normalize() Query {
	q.Keyword = strings.TrimSpace(q.Keyword)
	q.Category = strings.TrimSpace(q.Category)
	q.Origin = strings.TrimSpace(q.Origin)
	q.Destination = strings.TrimSpace(q.Destination)
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	q.Sort = canonicalSort(q.Sort)
	return q
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// sortFields whitelists sort keys. A leading "-" means descending.
var sortFields = map[string]string{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"name":       "name",
	"rating":     "rating",
	"price":      "price",
}

func canonicalSort(s string) string {
	s = strings.TrimSpace(s)
	desc := strings.HasPrefix(s, "-")
	field, ok := sortFields[strings.TrimPrefix(s, "-")]
	if !ok {
		return DefaultSort
	}
	if desc {
		return "-" + field
	}
	return field
}

type Page struct {
	Items []Trip
	Total int
	Page  int
	Limit int
}

func (p Page) Pages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

func (p Page) Offers() []models.Offer {
	offers := make([]models.Offer, 0, len(p.Items))
	for _, t := range p.Items {
		offers = append(offers, t.Offer())
	}
	return offers
}

type Store interface {
	Search(ctx context.Context, q Query) (Page, error)
	Get(ctx context.Context, id string) (Trip, error)
	Create(ctx context.Context, t Trip) (Trip, error)
}
