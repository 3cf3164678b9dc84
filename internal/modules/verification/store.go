// README: Verification record and driver statistics store backed by PostgreSQL.
package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"waybill/internal/types"
)

var ErrNotFound = errors.New("verification record not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, driverID types.ID) (*Record, error) {
	row := s.db.QueryRow(ctx, `
		SELECT driver_id, overall_status, active_type, basic, specific, submitted_at, updated_at
		FROM verification_records
		WHERE driver_id = $1`, string(driverID),
	)
	var rec Record
	var basic, specific []byte
	err := row.Scan(&rec.DriverID, &rec.OverallStatus, &rec.ActiveType, &basic, &specific, &rec.SubmittedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(basic, &rec.Basic); err != nil {
		return nil, fmt.Errorf("decode basic verification for %s: %w", driverID, err)
	}
	if err := json.Unmarshal(specific, &rec.Specific); err != nil {
		return nil, fmt.Errorf("decode specific verification for %s: %w", driverID, err)
	}
	return &rec, nil
}

// Save upserts the record. An approved record is never downgraded by a resubmission.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	basic, err := json.Marshal(rec.Basic)
	if err != nil {
		return fmt.Errorf("encode basic verification: %w", err)
	}
	specific, err := json.Marshal(rec.Specific)
	if err != nil {
		return fmt.Errorf("encode specific verification: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO verification_records (
			driver_id, overall_status, active_type, basic, specific, submitted_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (driver_id) DO UPDATE SET
			overall_status = CASE
				WHEN verification_records.overall_status = 'approved' THEN verification_records.overall_status
				ELSE EXCLUDED.overall_status
			END,
			active_type = EXCLUDED.active_type,
			basic = EXCLUDED.basic,
			specific = EXCLUDED.specific,
			submitted_at = EXCLUDED.submitted_at,
			updated_at = EXCLUDED.updated_at`,
		string(rec.DriverID),
		string(rec.OverallStatus),
		string(rec.ActiveType),
		basic,
		specific,
		rec.SubmittedAt,
		rec.UpdatedAt,
	)
	return err
}

// GetStatistics returns zero statistics for a driver without deliveries.
func (s *Store) GetStatistics(ctx context.Context, driverID types.ID) (Statistics, error) {
	row := s.db.QueryRow(ctx, `
		SELECT total_deliveries, completed_deliveries, pending_deliveries, rating, earnings, currency
		FROM driver_statistics
		WHERE driver_id = $1`, string(driverID),
	)
	var st Statistics
	err := row.Scan(&st.TotalDeliveries, &st.CompletedDeliveries, &st.PendingDeliveries, &st.Rating, &st.Earnings.Amount, &st.Earnings.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return Statistics{Earnings: types.NGN(0)}, nil
	}
	if err != nil {
		return Statistics{}, err
	}
	return st, nil
}
