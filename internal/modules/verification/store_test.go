package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waybill/internal/testutil"
	"waybill/internal/types"
)

func TestStore_SaveAndGet(t *testing.T) {
	store := NewStore(testutil.Pool(t, "verification_records", "driver_statistics"))
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

	_, err := store.Get(ctx, "d_store")
	assert.ErrorIs(t, err, ErrNotFound)

	rec := serverRecord(StatusSubmitted)
	rec.DriverID = "d_store"
	rec.SubmittedAt = &now
	rec.UpdatedAt = now
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "d_store")
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, got.OverallStatus)
	assert.Equal(t, VehicleBicycle, got.ActiveType)
	assert.Equal(t, rec.Basic, got.Basic)
	require.NotNil(t, got.SubmittedAt)
	assert.True(t, now.Equal(*got.SubmittedAt))

	_, err = store.db.Exec(ctx, `UPDATE verification_records SET overall_status = 'approved' WHERE driver_id = 'd_store'`)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, rec))
	got, err = store.Get(ctx, "d_store")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.OverallStatus, "approval survives resubmission")
}

func TestStore_Statistics(t *testing.T) {
	store := NewStore(testutil.Pool(t, "driver_statistics"))
	ctx := context.Background()

	st, err := store.GetStatistics(ctx, "d_none")
	require.NoError(t, err)
	assert.Equal(t, types.NGN(0), st.Earnings)

	_, err = store.db.Exec(ctx, `
		INSERT INTO driver_statistics (driver_id, total_deliveries, completed_deliveries, pending_deliveries, rating, earnings)
		VALUES ('d_stats', 5, 4, 1, 4.5, 1200000)`)
	require.NoError(t, err)

	st, err = store.GetStatistics(ctx, "d_stats")
	require.NoError(t, err)
	assert.Equal(t, 5, st.TotalDeliveries)
	assert.Equal(t, types.NGN(1200000), st.Earnings)
}
