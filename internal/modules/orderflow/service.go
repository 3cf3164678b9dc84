// README: Order wizard service; session registry, draft resumption, and order persistence.
package orderflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"waybill/internal/modules/session"
	"waybill/internal/types"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrNotDraft        = errors.New("order is not a draft")
	ErrSessionNotFound = errors.New("wizard session not found")
	ErrForbidden       = errors.New("wizard session belongs to another user")
	ErrBadRequest      = errors.New("bad request")
)

type OrderStore interface {
	Create(ctx context.Context, o *Order) error
	UpdateDraft(ctx context.Context, o *Order) (bool, error)
	Get(ctx context.Context, id types.ID) (*Order, error)
	ListDraftsByClient(ctx context.Context, clientID types.ID, limit int) ([]*Order, error)
}

// SnapshotRecorder is the session-manager collaborator (satisfied by *session.Manager).
type SnapshotRecorder interface {
	SaveOrder(ctx context.Context, o session.Order) error
}

type Service struct {
	store     OrderStore
	estimator Estimator
	snapshots SnapshotRecorder
	cfg       SessionConfig
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[types.ID]*Session
}

func NewService(store OrderStore, estimator Estimator, snapshots SnapshotRecorder, cfg SessionConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		estimator: estimator,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[types.ID]*Session),
	}
}

type StartCommand struct {
	ClientID types.ID
	DraftID  types.ID
}

// Start opens a wizard session. With a DraftID the form is hydrated from the
// stored draft and the session opens on review; a non-draft order yields
// ErrNotDraft so the client can redirect instead of entering the wizard.
func (s *Service) Start(ctx context.Context, cmd StartCommand) (*Session, error) {
	if cmd.ClientID == "" {
		return nil, ErrBadRequest
	}
	data := NewOrderData()
	start := StepType
	if cmd.DraftID != "" {
		o, err := s.store.Get(ctx, cmd.DraftID)
		if err != nil {
			return nil, err
		}
		if o.ClientID != cmd.ClientID {
			return nil, ErrNotFound
		}
		if o.Status != StatusDraft {
			return nil, ErrNotDraft
		}
		data = o.Payload.OrderData.clone()
		start = StepReview
	}

	sess, err := newSession(newID(), cmd.ClientID, data, start, s.cfg, sessionDeps{
		estimator: s.estimator,
		creator:   s,
		logger:    s.logger,
	})
	if err != nil {
		return nil, err
	}
	sess.draftID = cmd.DraftID
	if cmd.DraftID != "" {
		// make the resumed estimate match the stored data
		sess.RefreshEstimate()
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Info("order wizard started",
		zap.String("session_id", string(sess.id)),
		zap.String("client_id", string(cmd.ClientID)),
		zap.String("draft_id", string(cmd.DraftID)))
	return sess, nil
}

func (s *Service) Session(id, clientID types.ID) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.clientID != clientID {
		return nil, ErrForbidden
	}
	return sess, nil
}

// Submit forwards to the session and discards it once the order exists.
func (s *Service) Submit(ctx context.Context, id, clientID types.ID, meta Metadata) (*SubmitResult, error) {
	sess, err := s.Session(id, clientID)
	if err != nil {
		return nil, err
	}
	res, err := sess.Submit(ctx, meta)
	if err != nil {
		return nil, err
	}
	s.remove(id)
	sess.Close()
	return res, nil
}

// End discards a session on navigation away.
func (s *Service) End(id, clientID types.ID) error {
	sess, err := s.Session(id, clientID)
	if err != nil {
		return err
	}
	s.remove(id)
	sess.Close()
	return nil
}

func (s *Service) remove(id types.ID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Shutdown closes every live session.
func (s *Service) Shutdown() {
	s.mu.Lock()
	live := s.sessions
	s.sessions = make(map[types.ID]*Session)
	s.mu.Unlock()
	for _, sess := range live {
		sess.Close()
	}
}

// CreateOrder persists the finalized payload; a DraftID updates that draft in place.
func (s *Service) CreateOrder(ctx context.Context, p OrderPayload) (CreateResult, error) {
	now := s.now()
	o := &Order{
		ID:            newID(),
		Reference:     p.OrderReference,
		ClientID:      p.ClientID,
		Status:        p.Status,
		DeliveryToken: p.DeliveryToken,
		Payload:       p,
		PriceTotal:    types.NGN(0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.PriceEstimate != nil {
		o.PriceTotal = p.PriceEstimate.TotalMoney()
	}

	if p.DraftID != "" {
		o.ID = p.DraftID
		ok, err := s.store.UpdateDraft(ctx, o)
		if err != nil {
			return CreateResult{}, err
		}
		if !ok {
			return CreateResult{Success: false, Message: "This draft can no longer be edited."}, nil
		}
	} else if err := s.store.Create(ctx, o); err != nil {
		return CreateResult{}, err
	}

	if s.snapshots != nil {
		if err := s.snapshots.SaveOrder(ctx, session.Order{
			ID:        o.ID,
			Reference: o.Reference,
			ClientID:  o.ClientID,
			Status:    string(o.Status),
			Total:     o.PriceTotal,
			UpdatedAt: now,
		}); err != nil {
			s.logger.Warn("order snapshot not saved", zap.String("order_id", string(o.ID)), zap.Error(err))
		}
	}
	return CreateResult{Success: true, OrderID: o.ID}, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListDrafts(ctx context.Context, clientID types.ID) ([]*Order, error) {
	return s.store.ListDraftsByClient(ctx, clientID, 20)
}
