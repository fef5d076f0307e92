package models

// SearchFilters narrow merged results. Zero values mean no bound.
type SearchFilters struct {
	PriceMin  float64 `json:"price_min,omitempty" query:"price_min" validate:"min=0"`
	PriceMax  float64 `json:"price_max,omitempty" query:"price_max" validate:"min=0"`
	MinRating float64 `json:"min_rating,omitempty" query:"min_rating" validate:"min=0,max=5"`
}

func (f SearchFilters) IsZero() bool {
	return f.PriceMin == 0 && f.PriceMax == 0 && f.MinRating == 0
}

type SearchRequest struct {
	Keyword     string `json:"keyword" query:"keyword" validate:"max=100"`
	Q           string `json:"q" query:"q" validate:"max=100"`
	Kind        string `json:"kind" query:"kind" validate:"omitempty,oneof=destination hotel bus train flight destinations hotels buses trains flights"`
	Origin      string `json:"origin" query:"origin" validate:"max=64"`
	Destination string `json:"destination" query:"destination" validate:"max=64"`
	Date        string `json:"date" query:"date" validate:"omitempty,datetime=2006-01-02"`
	Guests      int    `json:"guests" query:"guests" validate:"min=0,max=20"`
	Category    string `json:"category" query:"category" validate:"max=64"`

	SearchFilters

	SortBy    string `json:"sort_by" query:"sort_by" validate:"omitempty,oneof=relevance price rating best_value departure"`
	SortOrder string `json:"sort_order" query:"sort_order" validate:"omitempty,oneof=asc desc"`
	Page      int    `json:"page" query:"page" validate:"min=0"`
	Limit     int    `json:"limit" query:"limit" validate:"min=0,max=200"`
}

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

func (r *SearchRequest) Validate() error {
	if r.Keyword == "" {
		r.Keyword = r.Q
	}
	if r.Kind != "" {
		if _, ok := ParseKind(r.Kind); !ok {
			return ErrUnknownKind
		}
	}
	if r.PriceMax > 0 && r.PriceMin > r.PriceMax {
		return ErrInvalidPriceRange
	}
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.SortBy == "" {
		r.SortBy = "relevance"
	}
	if r.SortOrder == "" {
		r.SortOrder = "asc"
		if r.SortBy == "rating" {
			r.SortOrder = "desc"
		}
	}
	return nil
}

// Query converts the validated request into a SearchQuery.
func (r *SearchRequest) Query() SearchQuery {
	kind, _ := ParseKind(r.Kind)
	return NewSearchQuery(r.Keyword, kind, r.Origin, r.Destination, r.Date, r.Guests, r.Category)
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrUnknownKind       ValidationError = "kind must be one of destination, hotel, bus, train, flight"
	ErrInvalidPriceRange ValidationError = "price_min must not exceed price_max"
	ErrMissingOfferID    ValidationError = "offer_id is required"
)
