// README: Verification wizard service; initial fetch with retries, session registry, and record submission.
package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"waybill/internal/modules/session"
	"waybill/internal/types"
)

var (
	ErrFetchFailed     = errors.New("could not load verification")
	ErrSessionNotFound = errors.New("wizard session not found")
	ErrForbidden       = errors.New("wizard session belongs to another driver")
	ErrBadRequest      = errors.New("bad request")
)

type RecordStore interface {
	Get(ctx context.Context, driverID types.ID) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	GetStatistics(ctx context.Context, driverID types.ID) (Statistics, error)
}

// SnapshotRecorder is the session-manager collaborator (satisfied by *session.Manager).
type SnapshotRecorder interface {
	UserRecorder
	SaveStatistics(ctx context.Context, userID types.ID, st session.Statistics) error
}

type Config struct {
	// FetchRetries bounds automatic retries of the initial record fetch.
	FetchRetries  int
	RetryInterval time.Duration
	// OnUpdateSuccess runs after a successful submission.
	OnUpdateSuccess func(ctx context.Context, rec Record)
}

type Service struct {
	store     RecordStore
	snapshots SnapshotRecorder
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[types.ID]*Session
}

func NewService(store RecordStore, snapshots SnapshotRecorder, cfg Config, logger *zap.Logger) *Service {
	if cfg.FetchRetries < 0 {
		cfg.FetchRetries = 0
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[types.ID]*Session),
	}
}

type StartCommand struct {
	DriverID types.ID
	// VehicleType overrides the record's active verification type.
	VehicleType VehicleType
}

// Start fetches the driver's record and statistics, then opens a session at
// the resolved step.
func (s *Service) Start(ctx context.Context, cmd StartCommand) (*Session, error) {
	if cmd.DriverID == "" {
		return nil, ErrBadRequest
	}
	if cmd.VehicleType != "" && !cmd.VehicleType.Valid() {
		return nil, ErrBadRequest
	}
	rec, stats, err := s.fetchInitial(ctx, cmd.DriverID)
	if err != nil {
		return nil, err
	}

	var snaps UserRecorder
	if s.snapshots != nil {
		snaps = s.snapshots
	}
	id := types.ID(strings.ReplaceAll(uuid.NewString(), "-", ""))
	sess, err := newSession(id, cmd.DriverID, rec, cmd.VehicleType, stats, sessionDeps{
		submitter: s,
		users:     snaps,
		onSuccess: s.cfg.OnUpdateSuccess,
		logger:    s.logger,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Info("verification wizard started",
		zap.String("session_id", string(sess.id)),
		zap.String("driver_id", string(cmd.DriverID)),
		zap.String("step", string(sess.Snapshot().CurrentStep)))
	return sess, nil
}

// fetchInitial loads the record with bounded retries while the statistics
// load runs alongside. A missing record is not an error; a statistics
// failure only drops the statistics.
func (s *Service) fetchInitial(ctx context.Context, driverID types.ID) (*Record, *Statistics, error) {
	var rec *Record
	var stats *Statistics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		op := func() error {
			r, err := s.store.Get(gctx, driverID)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				s.logger.Warn("verification fetch attempt failed", zap.String("driver_id", string(driverID)), zap.Error(err))
				return err
			}
			rec = r
			return nil
		}
		if err := backoff.Retry(op, s.retryPolicy(gctx)); err != nil {
			return fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
		return nil
	})

	g.Go(func() error {
		st, err := s.store.GetStatistics(gctx, driverID)
		if err != nil {
			s.logger.Warn("statistics fetch failed", zap.String("driver_id", string(driverID)), zap.Error(err))
			return nil
		}
		stats = &st
		if s.snapshots != nil {
			if err := s.snapshots.SaveStatistics(gctx, driverID, st); err != nil {
				s.logger.Warn("statistics snapshot not saved", zap.Error(err))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return rec, stats, nil
}

func (s *Service) retryPolicy(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.cfg.RetryInterval
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(s.cfg.FetchRetries)), ctx)
}

func (s *Service) Session(id, driverID types.ID) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.driverID != driverID {
		return nil, ErrForbidden
	}
	return sess, nil
}

func (s *Service) Submit(ctx context.Context, id, driverID types.ID) (StatusModal, error) {
	sess, err := s.Session(id, driverID)
	if err != nil {
		return StatusModal{}, err
	}
	m, err := sess.Submit(ctx)
	if err == nil && m.Status == ModalSuccess {
		s.remove(id)
		sess.Close()
	}
	return m, err
}

func (s *Service) End(id, driverID types.ID) error {
	sess, err := s.Session(id, driverID)
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

func (s *Service) Shutdown() {
	s.mu.Lock()
	live := s.sessions
	s.sessions = make(map[types.ID]*Session)
	s.mu.Unlock()
	for _, sess := range live {
		sess.Close()
	}
}

// SubmitVerification stores the payload as the driver's record with status submitted.
func (s *Service) SubmitVerification(ctx context.Context, driverID types.ID, p Payload) (SubmitResponse, error) {
	if !p.VehicleType.Valid() {
		return SubmitResponse{Success: false, Message: MsgBadVehicle}, nil
	}
	now := s.now().UTC()
	basic, specific := toRecord(p)
	rec := &Record{
		DriverID:      driverID,
		OverallStatus: StatusSubmitted,
		ActiveType:    p.VehicleType,
		Basic:         basic,
		Specific:      specific,
		SubmittedAt:   &now,
		UpdatedAt:     now,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return SubmitResponse{}, err
	}
	stored, err := s.store.Get(ctx, driverID)
	if err != nil {
		return SubmitResponse{}, err
	}
	return SubmitResponse{Success: true, Record: stored}, nil
}
