// README: Pricing rate store backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRateNotFound = errors.New("rate not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetRate(ctx context.Context, vehicleType string) (Rate, error) {
	row := s.db.QueryRow(ctx, `
		SELECT vehicle_type, base_price, per_km, currency
		FROM pricing_rates
		WHERE vehicle_type = $1`, vehicleType,
	)
	var r Rate
	err := row.Scan(&r.VehicleType, &r.BasePrice, &r.PerKm, &r.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{}, ErrRateNotFound
	}
	if err != nil {
		return Rate{}, err
	}
	return r, nil
}
