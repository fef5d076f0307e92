package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/tripease/internal/models"
)

// MemoryStore keeps trips in process memory. It backs development runs
// without a database and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	trips []Trip
	now   func() time.Time
}

func NewMemoryStore(trips ...Trip) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, t := range trips {
		s.trips = append(s.trips, s.prepare(t))
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Search(ctx context.Context, q Query) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, &CatalogError{Op: "search", Err: err}
	}
	q = q.Normalize()

	s.mu.RLock()
	matched := make([]Trip, 0, len(s.trips))
	for _, t := range s.trips {
		if matches(t, q) {
			matched = append(matched, t)
		}
	}
	s.mu.RUnlock()

	sortTrips(matched, q.Sort)

	page := Page{Total: len(matched), Page: q.Page, Limit: q.Limit, Items: []Trip{}}
	start := q.Offset()
	if start < len(matched) {
		end := start + q.Limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Items = matched[start:end]
	}
	return page, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.trips {
		if t.ID == id {
			return t, nil
		}
	}
	return Trip{}, ErrNotFound
}

func (s *MemoryStore) Create(ctx context.Context, t Trip) (Trip, error) {
	t = s.prepare(t)

	s.mu.Lock()
	s.trips = append(s.trips, t)
	s.mu.Unlock()
	return t, nil
}

func (s *MemoryStore) prepare(t Trip) Trip {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Kind == "" {
		t.Kind = models.KindDestination
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	return t
}

func matches(t Trip, q Query) bool {
	if q.Kind != "" && t.Kind != q.Kind {
		return false
	}
	if q.Category != "" && !strings.EqualFold(t.Category, q.Category) {
		return false
	}
	if q.Origin != "" && !strings.EqualFold(t.Origin, q.Origin) {
		return false
	}
	if q.Destination != "" && !strings.EqualFold(t.Destination, q.Destination) {
		return false
	}
	if q.Keyword == "" {
		return true
	}

	kw := strings.ToLower(q.Keyword)
	fields := append([]string{t.Name, t.Description, t.Destination}, t.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), kw) {
			return true
		}
	}
	return false
}

func sortTrips(trips []Trip, order string) {
	desc := strings.HasPrefix(order, "-")
	field := strings.TrimPrefix(order, "-")

	less := func(a, b Trip) bool {
		switch field {
		case "name":
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "rating":
			return a.Rating < b.Rating
		case "price":
			return a.Price < b.Price
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(trips, func(i, j int) bool {
		if desc {
			return less(trips[j], trips[i])
		}
		return less(trips[i], trips[j])
	})
}
