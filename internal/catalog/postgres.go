package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dharmasatrya/tripease/internal/models"
)

// PostgresStore reads trips from the trips table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var _ Store = (*PostgresStore)(nil)

const tripColumns = `id::text, kind, name, description, category, origin, destination, tags,
	departure_time, duration, price, currency, rating, image_url, seats, created_at`

func (s *PostgresStore) Search(ctx context.Context, q Query) (Page, error) {
	q = q.Normalize()

	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if q.Kind != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, string(q.Kind))
		argIdx++
	}
	if q.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lower(category) = lower($%d)", argIdx))
		args = append(args, q.Category)
		argIdx++
	}
	if q.Origin != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lower(origin) = lower($%d)", argIdx))
		args = append(args, q.Origin)
		argIdx++
	}
	if q.Destination != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lower(destination) = lower($%d)", argIdx))
		args = append(args, q.Destination)
		argIdx++
	}
	if q.Keyword != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(name ILIKE $%[1]d OR description ILIKE $%[1]d OR destination ILIKE $%[1]d OR array_to_string(tags, ' ') ILIKE $%[1]d)",
			argIdx))
		args = append(args, "%"+escapeLike(q.Keyword)+"%")
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM trips WHERE %s", whereClause)
	var total int
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return Page{}, &CatalogError{Op: "count trips", Err: err}
	}

	sortColumn := strings.TrimPrefix(q.Sort, "-")
	sortOrder := "ASC"
	if strings.HasPrefix(q.Sort, "-") {
		sortOrder = "DESC"
	}

	args = append(args, q.Limit, q.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM trips
		WHERE %s
		ORDER BY %s %s, name ASC
		LIMIT $%d OFFSET $%d
	`, tripColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return Page{}, &CatalogError{Op: "search trips", Err: err}
	}
	defer rows.Close()

	items := make([]Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return Page{}, &CatalogError{Op: "scan trip", Err: err}
		}
		items = append(items, t)
	}
	if rows.Err() != nil {
		return Page{}, &CatalogError{Op: "iterate trips", Err: rows.Err()}
	}

	return Page{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Trip, error) {
	query := fmt.Sprintf("SELECT %s FROM trips WHERE id::text = $1", tripColumns)

	t, err := scanTrip(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Trip{}, ErrNotFound
		}
		return Trip{}, &CatalogError{Op: "get trip", Err: err}
	}
	return t, nil
}

func (s *PostgresStore) Create(ctx context.Context, t Trip) (Trip, error) {
	if t.Kind == "" {
		t.Kind = models.KindDestination
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO trips (kind, name, description, category, origin, destination, tags,
			departure_time, duration, price, currency, rating, image_url, seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s`, tripColumns)

	created, err := scanTrip(s.pool.QueryRow(ctx, query,
		string(t.Kind), t.Name, t.Description, t.Category, t.Origin, t.Destination, t.Tags,
		t.DepartureTime, t.Duration, t.Price, t.Currency, t.Rating, t.ImageURL, t.Seats,
	))
	if err != nil {
		return Trip{}, &CatalogError{Op: "create trip", Err: err}
	}
	return created, nil
}

func scanTrip(row pgx.Row) (Trip, error) {
	var (
		t    Trip
		kind string
	)
	err := row.Scan(
		&t.ID, &kind, &t.Name, &t.Description, &t.Category, &t.Origin, &t.Destination, &t.Tags,
		&t.DepartureTime, &t.Duration, &t.Price, &t.Currency, &t.Rating, &t.ImageURL, &t.Seats, &t.CreatedAt,
	)
	if err != nil {
		return Trip{}, err
	}
	t.Kind = models.Kind(kind)
	return t, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
