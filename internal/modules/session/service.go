// README: Session manager persists user, order, and statistics snapshots after wizard mutations.
package session

import (
	"context"
	"time"

	"waybill/internal/types"
)

type Manager struct {
	store *Store
	now   func() time.Time
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

func (m *Manager) SaveUser(ctx context.Context, u User) error {
	u.UpdatedAt = m.now()
	return m.store.put(ctx, "user", string(u.ID), u)
}

func (m *Manager) LoadUser(ctx context.Context, id types.ID) (*User, error) {
	var u User
	if err := m.store.get(ctx, "user", string(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *Manager) SaveOrder(ctx context.Context, o Order) error {
	o.UpdatedAt = m.now()
	return m.store.put(ctx, "order", string(o.ID), o)
}

func (m *Manager) LoadOrder(ctx context.Context, id types.ID) (*Order, error) {
	var o Order
	if err := m.store.get(ctx, "order", string(id), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (m *Manager) SaveStatistics(ctx context.Context, userID types.ID, st Statistics) error {
	return m.store.put(ctx, "stats", string(userID), st)
}

func (m *Manager) LoadStatistics(ctx context.Context, userID types.ID) (*Statistics, error) {
	var st Statistics
	if err := m.store.get(ctx, "stats", string(userID), &st); err != nil {
		return nil, err
	}
	return &st, nil
}
