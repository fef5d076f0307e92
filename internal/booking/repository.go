package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dharmasatrya/tripease/internal/models"
)

var ErrNotFound = errors.New("booking not found")

type Repository interface {
	Save(ctx context.Context, b models.Booking) error
	Get(ctx context.Context, id string) (models.Booking, error)
}

type MemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookings: make(map[string]models.Booking)}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Save(_ context.Context, b models.Booking) error {
	r.mu.Lock()
	r.bookings[b.ID] = b
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	return b, nil
}

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) Save(ctx context.Context, b models.Booking) error {
	var flight []byte
	if b.Flight != nil {
		data, err := json.Marshal(b.Flight)
		if err != nil {
			return fmt.Errorf("encode flight details: %w", err)
		}
		flight = data
	}

	query := `
		INSERT INTO bookings (id, offer_id, offer_title, offer_price, name, email, phone,
			travelers, notes, flight, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if _, err := r.pool.Exec(ctx, query,
		b.ID, b.OfferID, b.OfferTitle, b.OfferPrice, b.Name, b.Email, b.Phone,
		b.Travelers, b.Notes, flight, b.Status, b.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.Booking, error) {
	query := `
		SELECT id::text, offer_id, offer_title, offer_price, name, email, phone,
			travelers, notes, flight, status, created_at
		FROM bookings
		WHERE id::text = $1`

	var (
		b      models.Booking
		flight []byte
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.OfferID, &b.OfferTitle, &b.OfferPrice, &b.Name, &b.Email, &b.Phone,
		&b.Travelers, &b.Notes, &flight, &b.Status, &b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Booking{}, ErrNotFound
		}
		return models.Booking{}, fmt.Errorf("get booking: %w", err)
	}

	if len(flight) > 0 {
		var fd models.FlightDetails
		if err := json.Unmarshal(flight, &fd); err != nil {
			return models.Booking{}, fmt.Errorf("decode flight details: %w", err)
		}
		b.Flight = &fd
	}
	return b, nil
}
