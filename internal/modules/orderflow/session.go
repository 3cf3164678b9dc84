// README: Order wizard session; owns form data, step position, errors, debounced estimates, and submission.
package orderflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"waybill/internal/modules/pricing"
	"waybill/internal/types"
	"waybill/internal/wizard"
)

var (
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrNotReviewStep    = errors.New("order can only be submitted from the review step")
	ErrSessionClosed    = errors.New("wizard session is closed")
	ErrUnknownSection   = errors.New("unknown form section")
	ErrAlreadySubmitted = errors.New("order already submitted")
)

const (
	defaultSubmitMessage   = "We couldn't create your order. Please try again."
	defaultEstimateMessage = "We couldn't estimate the price right now."
	NextScreenTracking     = "tracking"
)

// Estimator is the price estimation collaborator (satisfied by *pricing.Service).
type Estimator interface {
	Estimate(ctx context.Context, req pricing.Request) (pricing.Breakdown, error)
}

// OrderCreator receives the finalized payload.
type OrderCreator interface {
	CreateOrder(ctx context.Context, payload OrderPayload) (CreateResult, error)
}

// SubmitError carries the message shown to the user; the session keeps its
// data so the user can retry.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *SubmitError) Unwrap() error { return e.Err }

// ValidationError is returned when a step (or the final gate) rejects the form.
type ValidationError struct {
	Step   wizard.StepID
	Fields wizard.FieldErrors
}

func (e *ValidationError) Error() string { return "validation failed at step " + string(e.Step) }

func (e *ValidationError) Unwrap() error { return wizard.ErrValidation }

type SessionConfig struct {
	EstimateDebounce time.Duration
	EstimateTimeout  time.Duration
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.EstimateDebounce <= 0 {
		c.EstimateDebounce = 500 * time.Millisecond
	}
	if c.EstimateTimeout <= 0 {
		c.EstimateTimeout = 10 * time.Second
	}
	return c
}

// Snapshot is a read-only copy of the session for rendering.
type Snapshot struct {
	ID             types.ID                `json:"id"`
	DraftID        types.ID                `json:"draftId,omitempty"`
	Steps          []wizard.StepDefinition `json:"steps"`
	CurrentStep    wizard.StepID           `json:"currentStep"`
	Data           OrderData               `json:"data"`
	Errors         wizard.FieldErrors      `json:"validationErrors"`
	IsSubmitting   bool                    `json:"isSubmitting"`
	IsEstimating   bool                    `json:"isEstimating"`
	Estimate       *pricing.Breakdown      `json:"priceEstimate,omitempty"`
	EstimateError  string                  `json:"estimateError,omitempty"`
	Submitted      bool                    `json:"submitted"`
	OrderID        types.ID                `json:"orderId,omitempty"`
	OrderReference string                  `json:"orderReference,omitempty"`
}

type Session struct {
	id       types.ID
	clientID types.ID
	draftID  types.ID
	cfg      SessionConfig

	estimator Estimator
	creator   OrderCreator
	logger    *zap.Logger

	newReference func(time.Time) string
	newToken     func() string
	now          func() time.Time

	mu         sync.Mutex
	engine     *wizard.Engine
	data       OrderData
	errs       wizard.FieldErrors
	submitting bool
	submitted  bool
	orderID    types.ID
	reference  string
	closed     bool

	timer       *time.Timer
	estSeq      uint64
	estCancel   context.CancelFunc
	estimating  bool
	estimate    *pricing.Breakdown
	estimateErr string
}

type sessionDeps struct {
	estimator Estimator
	creator   OrderCreator
	logger    *zap.Logger
}

func newSession(id, clientID types.ID, data OrderData, start wizard.StepID, cfg SessionConfig, deps sessionDeps) (*Session, error) {
	engine, err := wizard.NewEngine(Steps, start)
	if err != nil {
		return nil, err
	}
	if deps.logger == nil {
		deps.logger = zap.NewNop()
	}
	return &Session{
		id:           id,
		clientID:     clientID,
		cfg:          cfg.withDefaults(),
		estimator:    deps.estimator,
		creator:      deps.creator,
		logger:       deps.logger.With(zap.String("wizard", "order"), zap.String("session_id", string(id))),
		newReference: NewReference,
		newToken:     NewDeliveryToken,
		now:          time.Now,
		engine:       engine,
		data:         data,
		errs:         wizard.FieldErrors{},
	}, nil
}

func (s *Session) ID() types.ID { return s.id }

func (s *Session) ClientID() types.ID { return s.clientID }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:             s.id,
		DraftID:        s.draftID,
		Steps:          s.engine.Steps(),
		CurrentStep:    s.engine.Current(),
		Data:           s.data.clone(),
		Errors:         s.errs.Clone(),
		IsSubmitting:   s.submitting,
		IsEstimating:   s.estimating,
		EstimateError:  s.estimateErr,
		Submitted:      s.submitted,
		OrderID:        s.orderID,
		OrderReference: s.reference,
	}
	if s.estimate != nil {
		b := *s.estimate
		snap.Estimate = &b
	}
	return snap
}

// Update applies a section patch. Editing a field clears its error; fields
// that affect price schedule a debounced recomputation.
func (s *Session) Update(section string, patch any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	reprice := true
	switch p := patch.(type) {
	case TypePatch:
		applyType(&s.data, s.errs, p)
		reprice = p.Priority != nil
	case PackagePatch:
		applyPackage(&s.data, s.errs, p)
	case LocationPatch:
		switch section {
		case "pickup":
			applyLocation(&s.data.Pickup, "pickup", s.errs, p)
		case "dropoff":
			applyLocation(&s.data.Dropoff, "dropoff", s.errs, p)
		default:
			return ErrUnknownSection
		}
	case VehiclePatch:
		applyVehicle(&s.data, s.errs, p)
	case PaymentPatch:
		applyPayment(&s.data, s.errs, p)
		reprice = false
	default:
		return ErrUnknownSection
	}

	if reprice {
		s.scheduleEstimateLocked()
	}
	return nil
}

// GoToNext validates the active step and advances. Moving from the
// penultimate step into review starts an immediate price recomputation.
func (s *Session) GoToNext() (wizard.StepID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrSessionClosed
	}
	if s.submitting {
		return s.engine.Current(), ErrSubmitInProgress
	}

	from := s.engine.Current()
	fieldErrs, err := s.engine.Next(func(step wizard.StepID) wizard.FieldErrors {
		return Validate(step, s.data)
	})
	if err != nil {
		if errors.Is(err, wizard.ErrValidation) {
			// recomputed wholesale on every attempt
			s.errs = fieldErrs.Clone()
			return from, &ValidationError{Step: from, Fields: fieldErrs}
		}
		return from, err
	}
	s.errs = wizard.FieldErrors{}

	if s.engine.Current() == StepReview {
		if run := s.beginEstimateLocked(); run != nil {
			go run()
		}
	}
	return s.engine.Current(), nil
}

// GoToPrevious moves back one step without validation. It returns false at
// the first step.
func (s *Session) GoToPrevious() (wizard.StepID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return s.engine.Current(), false
	}
	moved := s.engine.Previous()
	return s.engine.Current(), moved
}

// JumpTo serves the review screen's per-section Edit action.
func (s *Session) JumpTo(step wizard.StepID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmitInProgress
	}
	return s.engine.JumpTo(step)
}

// Submit builds the payload and hands it to the creator. Only one submission
// may be in flight; a second call while the first is pending is rejected
// without reaching the creator.
func (s *Session) Submit(ctx context.Context, meta Metadata) (*SubmitResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if s.submitted {
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	if s.engine.Current() != StepReview {
		s.mu.Unlock()
		return nil, ErrNotReviewStep
	}
	if errs := ValidateAll(s.data); !errs.Empty() {
		s.errs = errs.Clone()
		s.mu.Unlock()
		return nil, &ValidationError{Step: StepReview, Fields: errs}
	}
	payload := s.payloadLocked(meta)
	s.submitting = true
	s.mu.Unlock()

	res, err := s.creator.CreateOrder(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.logger.Warn("order submission failed", zap.Error(err))
		return nil, &SubmitError{Message: defaultSubmitMessage, Err: err}
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = defaultSubmitMessage
		}
		s.logger.Warn("order submission rejected", zap.String("message", msg))
		return nil, &SubmitError{Message: msg}
	}

	s.submitted = true
	s.orderID = res.OrderID
	s.reference = payload.OrderReference
	s.logger.Info("order submitted", zap.String("order_id", string(res.OrderID)), zap.String("reference", payload.OrderReference))
	return &SubmitResult{OrderID: res.OrderID, Reference: payload.OrderReference, NextScreen: NextScreenTracking}, nil
}

func (s *Session) payloadLocked(meta Metadata) OrderPayload {
	if meta.Channel == "" {
		meta.Channel = "mobile"
	}
	p := OrderPayload{
		OrderData:      s.data.clone(),
		DraftID:        s.draftID,
		ClientID:       s.clientID,
		OrderReference: s.newReference(s.now()),
		DeliveryToken:  s.newToken(),
		Status:         StatusDraft,
		Metadata:       meta,
	}
	if s.estimate != nil {
		b := *s.estimate
		p.PriceEstimate = &b
	}
	return p
}

// Close stops pending debounce timers and cancels any in-flight estimate.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.estCancel != nil {
		s.estCancel()
		s.estCancel = nil
	}
	s.estimating = false
}

func (s *Session) estimable() bool {
	return s.estimator != nil && !blank(s.data.Pickup.Address) && !blank(s.data.Dropoff.Address)
}

func (s *Session) scheduleEstimateLocked() {
	if s.closed {
		return
	}
	if !s.estimable() {
		s.dropEstimateLocked()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.EstimateDebounce, s.fireEstimate)
}

// dropEstimateLocked forgets the price once the route is incomplete. Bumping
// the token makes any in-flight response stale.
func (s *Session) dropEstimateLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.estCancel != nil {
		s.estCancel()
		s.estCancel = nil
	}
	s.estSeq++
	s.estimating = false
	s.estimate = nil
	s.estimateErr = ""
}

func (s *Session) fireEstimate() {
	s.mu.Lock()
	run := s.beginEstimateLocked()
	s.mu.Unlock()
	if run != nil {
		run()
	}
}

// beginEstimateLocked stamps a new request token and returns the function that
// performs the call. A response is applied only if its token is still the
// latest, so a slow stale response never overwrites a newer one.
func (s *Session) beginEstimateLocked() func() {
	if s.closed || !s.estimable() {
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.estCancel != nil {
		s.estCancel()
	}
	s.estSeq++
	token := s.estSeq
	req := s.data.clone().pricingRequest()
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.EstimateTimeout)
	s.estCancel = cancel
	s.estimating = true

	return func() {
		defer cancel()
		b, err := s.estimator.Estimate(ctx, req)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || token != s.estSeq {
			return
		}
		s.estimating = false
		s.estCancel = nil
		if err != nil {
			s.logger.Warn("price estimate failed", zap.Error(err), zap.Uint64("token", token))
			s.estimateErr = defaultEstimateMessage
			return
		}
		s.estimate = &b
		s.estimateErr = ""
	}
}

// RefreshEstimate recomputes the price now; it is the manual retry for a
// failed estimate.
func (s *Session) RefreshEstimate() {
	s.mu.Lock()
	run := s.beginEstimateLocked()
	s.mu.Unlock()
	if run != nil {
		go run()
	}
}
