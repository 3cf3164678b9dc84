// README: Driver verification wizard session; form edits, step movement, and guarded submission.
package verification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"waybill/internal/modules/session"
	"waybill/internal/types"
	"waybill/internal/wizard"
)

var (
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrNotReviewStep    = errors.New("verification can only be submitted from the review step")
	ErrSessionClosed    = errors.New("wizard session is closed")
	ErrUnknownSection   = errors.New("unknown form section")
	ErrAlreadySubmitted = errors.New("verification already submitted")
)

const (
	defaultSubmitMessage  = "We couldn't submit your documents. Please try again."
	defaultSuccessMessage = "Your documents have been submitted for review."
)

// Submitter receives the finalized verification payload.
type Submitter interface {
	SubmitVerification(ctx context.Context, driverID types.ID, p Payload) (SubmitResponse, error)
}

// UserRecorder is the session-manager collaborator (satisfied by *session.Manager).
type UserRecorder interface {
	SaveUser(ctx context.Context, u session.User) error
}

type ValidationError struct {
	Step   wizard.StepID
	Fields wizard.FieldErrors
}

func (e *ValidationError) Error() string { return "validation failed at step " + string(e.Step) }

func (e *ValidationError) Unwrap() error { return wizard.ErrValidation }

type BasicPatch struct {
	IdentificationType   *string        `json:"identificationType"`
	IdentificationNumber *string        `json:"identificationNumber"`
	PassportPhoto        *string        `json:"passportPhoto"`
	DateOfBirth          *string        `json:"dateOfBirth"`
	OperationalState     *string        `json:"operationalState"`
	OperationalLGA       *string        `json:"operationalLga"`
	BankAccounts         *[]BankAccount `json:"bankAccounts"`
}

type VehiclePatch struct {
	VehicleType *VehicleType `json:"vehicleType"`
}

type DocumentPatch struct {
	Number     *string `json:"number"`
	ImageURL   *string `json:"imageUrl"`
	ExpiryDate *string `json:"expiryDate"`
}

// SpecificPatch is keyed by document key, e.g. "ridersPermit" or "vehiclePictures.front".
type SpecificPatch map[string]DocumentPatch

type Snapshot struct {
	ID                types.ID                `json:"id"`
	DriverID          types.ID                `json:"driverId"`
	Steps             []wizard.StepDefinition `json:"steps"`
	CurrentStep       wizard.StepID           `json:"currentStep"`
	Data              FormData                `json:"data"`
	Errors            wizard.FieldErrors      `json:"validationErrors"`
	RequiredDocuments []string                `json:"requiredDocuments"`
	OverallStatus     Status                  `json:"overallStatus,omitempty"`
	IsLoading         bool                    `json:"isLoading"`
	Statistics        *Statistics             `json:"statistics,omitempty"`
	Modal             *StatusModal            `json:"statusModal,omitempty"`
}

type sessionDeps struct {
	submitter Submitter
	users     UserRecorder
	onSuccess func(ctx context.Context, rec Record)
	logger    *zap.Logger
}

type Session struct {
	id       types.ID
	driverID types.ID

	submitter Submitter
	users     UserRecorder
	onSuccess func(ctx context.Context, rec Record)
	logger    *zap.Logger

	mu        sync.Mutex
	engine    *wizard.Engine
	form      FormData
	errs      wizard.FieldErrors
	status    Status
	stats     *Statistics
	modal     *StatusModal
	loading   bool
	submitted bool
	closed    bool
}

func newSession(id, driverID types.ID, rec *Record, override VehicleType, stats *Statistics, deps sessionDeps) (*Session, error) {
	form, start := InitialState(rec, override)
	engine, err := wizard.NewEngine(Steps, start)
	if err != nil {
		return nil, err
	}
	if deps.logger == nil {
		deps.logger = zap.NewNop()
	}
	s := &Session{
		id:        id,
		driverID:  driverID,
		submitter: deps.submitter,
		users:     deps.users,
		onSuccess: deps.onSuccess,
		logger:    deps.logger.With(zap.String("wizard", "verification"), zap.String("session_id", string(id))),
		engine:    engine,
		form:      form,
		errs:      wizard.FieldErrors{},
		stats:     stats,
	}
	if rec != nil {
		s.status = rec.OverallStatus
	}
	return s, nil
}

func (s *Session) ID() types.ID { return s.id }

func (s *Session) DriverID() types.ID { return s.driverID }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:                s.id,
		DriverID:          s.driverID,
		Steps:             s.engine.Steps(),
		CurrentStep:       s.engine.Current(),
		Data:              s.form.clone(),
		Errors:            s.errs.Clone(),
		RequiredDocuments: RequiredDocuments(s.form.VehicleType, s.form.Basic.OperationalState),
		OverallStatus:     s.status,
		IsLoading:         s.loading,
	}
	if s.stats != nil {
		st := *s.stats
		snap.Statistics = &st
	}
	if s.modal != nil {
		m := *s.modal
		snap.Modal = &m
	}
	return snap
}

// Update applies a section patch and clears the errors of the edited fields.
func (s *Session) Update(section string, patch any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	switch p := patch.(type) {
	case BasicPatch:
		if section != "basic" {
			return ErrUnknownSection
		}
		s.applyBasic(p)
	case VehiclePatch:
		if section != "vehicle" {
			return ErrUnknownSection
		}
		if p.VehicleType != nil {
			s.form.VehicleType = *p.VehicleType
			s.errs.Clear("vehicleType")
			// the required set changed with the vehicle class
			s.errs.ClearPrefix("specificDocs")
		}
	case SpecificPatch:
		if section != "specific" {
			return ErrUnknownSection
		}
		// validate every key before touching the form
		for key := range p {
			if _, ok := docLabels[key]; !ok {
				return ErrUnknownDocument
			}
		}
		for key, dp := range p {
			s.applyDocument(key, dp)
		}
	default:
		return ErrUnknownSection
	}
	s.modal = nil
	return nil
}

func (s *Session) applyBasic(p BasicPatch) {
	b := &s.form.Basic
	set := func(dst *string, v *string, field string) {
		if v == nil {
			return
		}
		*dst = *v
		s.errs.ClearField("basic", field)
	}
	set(&b.IdentificationType, p.IdentificationType, "identificationType")
	set(&b.IdentificationNumber, p.IdentificationNumber, "identificationNumber")
	set(&b.PassportPhoto, p.PassportPhoto, "passportPhoto")
	set(&b.DateOfBirth, p.DateOfBirth, "dateOfBirth")
	set(&b.OperationalState, p.OperationalState, "operationalState")
	set(&b.OperationalLGA, p.OperationalLGA, "operationalLga")
	if p.BankAccounts != nil {
		b.BankAccounts = append([]BankAccount{}, (*p.BankAccounts)...)
		s.errs.ClearField("basic", "bankAccounts")
	}
}

func (s *Session) applyDocument(key string, p DocumentPatch) {
	if pic := pictureRef(&s.form.Specific, key); pic != nil {
		if p.ImageURL != nil {
			*pic = *p.ImageURL
			s.errs.ClearField("specificDocs", key)
		}
		return
	}
	doc := documentRef(&s.form.Specific, key)
	if p.Number != nil {
		doc.Number = *p.Number
	}
	if p.ImageURL != nil {
		doc.ImageURL = *p.ImageURL
	}
	if p.ExpiryDate != nil {
		doc.ExpiryDate = *p.ExpiryDate
	}
	s.errs.ClearField("specificDocs", key)
}

func (s *Session) GoToNext() (wizard.StepID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrSessionClosed
	}
	if s.loading {
		return s.engine.Current(), ErrSubmitInProgress
	}
	from := s.engine.Current()
	fieldErrs, err := s.engine.Next(func(step wizard.StepID) wizard.FieldErrors {
		return Validate(step, s.form)
	})
	if err != nil {
		if errors.Is(err, wizard.ErrValidation) {
			s.errs = fieldErrs.Clone()
			return from, &ValidationError{Step: from, Fields: fieldErrs}
		}
		return from, err
	}
	s.errs = wizard.FieldErrors{}
	return s.engine.Current(), nil
}

// GoToPrevious moves back one step. At intro it returns false and the caller
// dismisses the wizard.
func (s *Session) GoToPrevious() (wizard.StepID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return s.engine.Current(), false
	}
	moved := s.engine.Previous()
	return s.engine.Current(), moved
}

func (s *Session) JumpTo(step wizard.StepID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return ErrSubmitInProgress
	}
	return s.engine.JumpTo(step)
}

// Payload restructures the form for submission; documents outside the
// vehicle's set are dropped.
func (s *Session) Payload() Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloadLocked()
}

func (s *Session) payloadLocked() Payload {
	f := s.form.clone()
	return Payload{
		BasicInfo:    f.Basic,
		SpecificDocs: f.Specific.forVehicle(f.VehicleType, f.Basic.OperationalState),
		VehicleType:  f.VehicleType,
	}
}

// Submit sends the payload once; a call while one is in flight returns
// ErrSubmitInProgress without reaching the submitter. Submission failures
// come back as an error modal with retry enabled, not as an error.
func (s *Session) Submit(ctx context.Context) (StatusModal, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return StatusModal{}, ErrSessionClosed
	}
	if s.loading {
		s.mu.Unlock()
		return StatusModal{}, ErrSubmitInProgress
	}
	if s.submitted {
		s.mu.Unlock()
		return StatusModal{}, ErrAlreadySubmitted
	}
	if s.engine.Current() != StepReview {
		s.mu.Unlock()
		return StatusModal{}, ErrNotReviewStep
	}
	if errs := ValidateAll(s.form); !errs.Empty() {
		s.errs = errs.Clone()
		s.mu.Unlock()
		return StatusModal{}, &ValidationError{Step: StepReview, Fields: errs}
	}
	payload := s.payloadLocked()
	s.loading = true
	s.modal = nil
	s.mu.Unlock()

	resp, err := s.submitter.SubmitVerification(ctx, s.driverID, payload)

	modal := StatusModal{Status: ModalSuccess, Message: defaultSuccessMessage}
	switch {
	case err != nil:
		s.logger.Warn("verification submission failed", zap.Error(err))
		modal = StatusModal{Status: ModalError, Message: defaultSubmitMessage, Retry: true}
	case !resp.Success:
		msg := resp.Message
		if msg == "" {
			msg = defaultSubmitMessage
		}
		s.logger.Warn("verification submission rejected", zap.String("message", msg))
		modal = StatusModal{Status: ModalError, Message: msg, Retry: true}
	default:
		if resp.Message != "" {
			modal.Message = resp.Message
		}
		s.recordSuccess(ctx, payload, resp.Record)
	}

	s.mu.Lock()
	s.loading = false
	if modal.Status == ModalSuccess {
		s.submitted = true
		if resp.Record != nil {
			s.status = resp.Record.OverallStatus
		}
	}
	m := modal
	s.modal = &m
	s.mu.Unlock()
	return modal, nil
}

func (s *Session) recordSuccess(ctx context.Context, p Payload, rec *Record) {
	status := StatusSubmitted
	if rec != nil {
		status = rec.OverallStatus
	}
	if s.users != nil {
		err := s.users.SaveUser(ctx, session.User{
			ID:                 s.driverID,
			Role:               "driver",
			VerificationStatus: string(status),
			VehicleType:        string(p.VehicleType),
		})
		if err != nil {
			s.logger.Warn("user snapshot not saved", zap.Error(err))
		}
	}
	if s.onSuccess != nil && rec != nil {
		s.onSuccess(ctx, *rec)
	}
	s.logger.Info("verification submitted", zap.String("driver_id", string(s.driverID)), zap.String("status", string(status)))
}

func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// DecodePatch decodes a raw section body into the patch type Update expects.
func DecodePatch(section string, raw []byte) (any, error) {
	switch section {
	case "basic":
		var v BasicPatch
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "vehicle":
		var v VehiclePatch
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "specific":
		v := SpecificPatch{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, ErrUnknownSection
	}
}
