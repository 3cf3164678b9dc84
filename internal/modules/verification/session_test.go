package verification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waybill/internal/modules/session"
	"waybill/internal/types"
	"waybill/internal/wizard"
)

type funcSubmitter struct {
	calls atomic.Int32
	fn    func(p Payload) (SubmitResponse, error)
}

func (f *funcSubmitter) SubmitVerification(_ context.Context, _ types.ID, p Payload) (SubmitResponse, error) {
	f.calls.Add(1)
	return f.fn(p)
}

type recordedUsers struct {
	mu    sync.Mutex
	users []session.User
}

func (r *recordedUsers) SaveUser(_ context.Context, u session.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, u)
	return nil
}

func newTestSession(t *testing.T, rec *Record, deps sessionDeps) *Session {
	t.Helper()
	s, err := newSession("vs1", "d1", rec, "", nil, deps)
	require.NoError(t, err)
	return s
}

func ptr[T any](v T) *T { return &v }

func TestSession_FreshStartsAtIntro(t *testing.T) {
	s := newTestSession(t, nil, sessionDeps{})
	assert.Equal(t, StepIntro, s.Snapshot().CurrentStep)

	step, moved := s.GoToPrevious()
	assert.False(t, moved, "previous at intro exits the wizard")
	assert.Equal(t, StepIntro, step)

	step, err := s.GoToNext()
	require.NoError(t, err)
	assert.Equal(t, StepBasic, step)

	step, err = s.GoToNext()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepBasic, step)
	assert.Len(t, s.Snapshot().Errors, 6)
}

func TestSession_EditsClearFieldErrors(t *testing.T) {
	s := newTestSession(t, nil, sessionDeps{})
	_, _ = s.GoToNext()
	_, err := s.GoToNext()
	require.Error(t, err)

	require.NoError(t, s.Update("basic", BasicPatch{OperationalState: ptr("Lagos")}))
	errs := s.Snapshot().Errors
	assert.NotContains(t, errs, "basic.operationalState")
	assert.Contains(t, errs, "basic.operationalLga")
}

func TestSession_WalkThroughToReview(t *testing.T) {
	s := newTestSession(t, nil, sessionDeps{})
	_, _ = s.GoToNext()

	b := completeBasic()
	require.NoError(t, s.Update("basic", BasicPatch{
		IdentificationType:   &b.IdentificationType,
		IdentificationNumber: &b.IdentificationNumber,
		PassportPhoto:        &b.PassportPhoto,
		OperationalState:     ptr("Lagos"),
		OperationalLGA:       &b.OperationalLGA,
		BankAccounts:         &b.BankAccounts,
	}))
	_, err := s.GoToNext()
	require.NoError(t, err)

	_, err = s.GoToNext()
	require.Error(t, err)
	assert.Equal(t, MsgVehicleType, s.Snapshot().Errors["vehicleType"])

	require.NoError(t, s.Update("vehicle", VehiclePatch{VehicleType: ptr(VehicleTricycle)}))
	assert.Empty(t, s.Snapshot().Errors)
	_, err = s.GoToNext()
	require.Error(t, err)
	assert.Contains(t, s.Snapshot().Errors, DocumentKey(DocLasdriCard))

	patch := SpecificPatch{}
	for _, key := range RequiredDocuments(VehicleTricycle, "Lagos") {
		patch[key] = DocumentPatch{ImageURL: ptr(url)}
	}
	require.NoError(t, s.Update("specific", patch))
	assert.Empty(t, s.Snapshot().Errors)

	step, err := s.GoToNext()
	require.NoError(t, err)
	assert.Equal(t, StepReview, step)

	require.NoError(t, s.JumpTo(StepBasic))
	assert.ErrorIs(t, s.JumpTo(StepReview), wizard.ErrJumpForward)
}

func TestSession_UpdateRejectsUnknownInput(t *testing.T) {
	s := newTestSession(t, nil, sessionDeps{})
	assert.ErrorIs(t, s.Update("specific", SpecificPatch{"spaceshipLicense": {}}), ErrUnknownDocument)
	assert.ErrorIs(t, s.Update("basic", VehiclePatch{}), ErrUnknownSection)
	assert.ErrorIs(t, s.Update("vehicle", "car"), ErrUnknownSection)
}

func TestDecodePatch(t *testing.T) {
	p, err := DecodePatch("specific", []byte(`{"ridersPermit":{"number":"RP-9"}}`))
	require.NoError(t, err)
	sp, ok := p.(SpecificPatch)
	require.True(t, ok)
	assert.Equal(t, "RP-9", *sp["ridersPermit"].Number)

	p, err = DecodePatch("vehicle", []byte(`{"vehicleType":"car"}`))
	require.NoError(t, err)
	assert.Equal(t, VehicleCar, *p.(VehiclePatch).VehicleType)

	_, err = DecodePatch("bank", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestSession_ApprovedResumesAtReview(t *testing.T) {
	s := newTestSession(t, &Record{OverallStatus: StatusApproved}, sessionDeps{})
	snap := s.Snapshot()
	assert.Equal(t, StepReview, snap.CurrentStep)
	assert.Equal(t, StatusApproved, snap.OverallStatus)
}

func TestSession_SubmitAtMostOnce(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	sub := &funcSubmitter{fn: func(Payload) (SubmitResponse, error) {
		close(entered)
		<-release
		return SubmitResponse{Success: true, Record: &Record{OverallStatus: StatusSubmitted}}, nil
	}}
	s := newTestSession(t, serverRecord(StatusSubmitted), sessionDeps{submitter: sub})
	require.Equal(t, StepReview, s.Snapshot().CurrentStep)

	done := make(chan StatusModal, 1)
	go func() {
		m, err := s.Submit(context.Background())
		assert.NoError(t, err)
		done <- m
	}()
	<-entered
	assert.True(t, s.Snapshot().IsLoading)

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	_, err = s.GoToNext()
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	step, moved := s.GoToPrevious()
	assert.False(t, moved)
	assert.Equal(t, StepReview, step)

	close(release)
	m := <-done
	assert.Equal(t, ModalSuccess, m.Status)
	assert.Equal(t, int32(1), sub.calls.Load())
	assert.False(t, s.Snapshot().IsLoading)
}

func TestSession_SubmitAfterSuccessRejected(t *testing.T) {
	sub := &funcSubmitter{fn: func(Payload) (SubmitResponse, error) {
		return SubmitResponse{Success: true, Record: &Record{OverallStatus: StatusSubmitted}}, nil
	}}
	s := newTestSession(t, serverRecord(StatusRejected), sessionDeps{submitter: sub})

	m, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, ModalSuccess, m.Status)

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, int32(1), sub.calls.Load())
}

func TestSession_SubmitSuccessUpdatesCollaborators(t *testing.T) {
	var gotPayload Payload
	sub := &funcSubmitter{fn: func(p Payload) (SubmitResponse, error) {
		gotPayload = p
		return SubmitResponse{Success: true, Record: &Record{DriverID: "d1", OverallStatus: StatusSubmitted}}, nil
	}}
	users := &recordedUsers{}
	var notified []Record
	s := newTestSession(t, serverRecord(StatusRejected), sessionDeps{
		submitter: sub,
		users:     users,
		onSuccess: func(_ context.Context, rec Record) { notified = append(notified, rec) },
	})

	m, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusModal{Status: ModalSuccess, Message: defaultSuccessMessage}, m)

	assert.Equal(t, VehicleBicycle, gotPayload.VehicleType)
	assert.Equal(t, "04/07/1990", gotPayload.BasicInfo.DateOfBirth)
	assert.Empty(t, gotPayload.SpecificDocs.DriversLicense.ImageURL, "documents outside the bicycle set are dropped")

	require.Len(t, users.users, 1)
	assert.Equal(t, session.User{ID: "d1", Role: "driver", VerificationStatus: "submitted", VehicleType: "bicycle"}, users.users[0])
	require.Len(t, notified, 1)
	assert.Equal(t, StatusSubmitted, s.Snapshot().OverallStatus)
}

func TestSession_SubmitFailureShowsRetry(t *testing.T) {
	tests := []struct {
		name    string
		resp    SubmitResponse
		err     error
		wantMsg string
	}{
		{"transport", SubmitResponse{}, errors.New("dial tcp: timeout"), defaultSubmitMessage},
		{"rejected", SubmitResponse{Message: "Document images are unreadable"}, nil, "Document images are unreadable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := &funcSubmitter{fn: func(Payload) (SubmitResponse, error) { return tc.resp, tc.err }}
			users := &recordedUsers{}
			s := newTestSession(t, serverRecord(StatusRejected), sessionDeps{submitter: sub, users: users})
			before := s.Snapshot().Data

			m, err := s.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, StatusModal{Status: ModalError, Message: tc.wantMsg, Retry: true}, m)

			snap := s.Snapshot()
			assert.Equal(t, before, snap.Data)
			assert.Equal(t, StepReview, snap.CurrentStep)
			require.NotNil(t, snap.Modal)
			assert.Empty(t, users.users)

			// manual retry reaches the submitter again
			_, err = s.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int32(2), sub.calls.Load())
		})
	}
}

func TestSession_SubmitGates(t *testing.T) {
	sub := &funcSubmitter{fn: func(Payload) (SubmitResponse, error) { return SubmitResponse{Success: true}, nil }}

	s := newTestSession(t, nil, sessionDeps{submitter: sub})
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotReviewStep)

	// approved drivers resume at review even with documents missing
	s = newTestSession(t, &Record{OverallStatus: StatusApproved}, sessionDeps{submitter: sub})
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, wizard.ErrValidation)
	assert.Zero(t, sub.calls.Load())

	s.Close()
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}
