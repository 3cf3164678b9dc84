// README: Order store backed by PostgreSQL; the wizard payload is kept as JSONB.
package orderflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"waybill/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, o *Order) error {
	payload, err := json.Marshal(o.Payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO orders (
			id, reference, client_id, status, delivery_token,
			payload, price_total, currency, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		string(o.ID),
		o.Reference,
		string(o.ClientID),
		string(o.Status),
		o.DeliveryToken,
		payload,
		o.PriceTotal.Amount,
		o.PriceTotal.Currency,
		o.CreatedAt,
	)
	return err
}

// UpdateDraft replaces the payload of an order that is still a draft.
func (s *Store) UpdateDraft(ctx context.Context, o *Order) (bool, error) {
	payload, err := json.Marshal(o.Payload)
	if err != nil {
		return false, fmt.Errorf("encode payload: %w", err)
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET reference = $1,
			delivery_token = $2,
			payload = $3,
			price_total = $4,
			currency = $5,
			updated_at = $6
		WHERE id = $7 AND client_id = $8 AND status = 'draft'`,
		o.Reference,
		o.DeliveryToken,
		payload,
		o.PriceTotal.Amount,
		o.PriceTotal.Currency,
		o.UpdatedAt,
		string(o.ID),
		string(o.ClientID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, reference, client_id, status, delivery_token,
		       payload, price_total, currency, created_at, updated_at
		FROM orders
		WHERE id = $1`, string(id),
	)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (s *Store) ListDraftsByClient(ctx context.Context, clientID types.ID, limit int) ([]*Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, reference, client_id, status, delivery_token,
		       payload, price_total, currency, created_at, updated_at
		FROM orders
		WHERE client_id = $1 AND status = 'draft'
		ORDER BY updated_at DESC
		LIMIT $2`, string(clientID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var payload []byte
	var createdAt, updatedAt time.Time
	err := row.Scan(
		&o.ID, &o.Reference, &o.ClientID, &o.Status, &o.DeliveryToken,
		&payload, &o.PriceTotal.Amount, &o.PriceTotal.Currency, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &o.Payload); err != nil {
		return nil, fmt.Errorf("decode payload for order %s: %w", o.ID, err)
	}
	o.CreatedAt = createdAt
	o.UpdatedAt = updatedAt
	return &o, nil
}
