package orderflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waybill/internal/modules/pricing"
	"waybill/internal/testutil"
	"waybill/internal/types"
)

func TestStore_DraftLifecycle(t *testing.T) {
	store := NewStore(testutil.Pool(t, "orders"))
	ctx := context.Background()
	now := fixedNow()

	payload := OrderPayload{
		OrderData:      validOrderData(),
		ClientID:       "c_store",
		OrderReference: "WB-20261014-AAAAAA",
		DeliveryToken:  "000111",
		Status:         StatusDraft,
		PriceEstimate:  &pricing.Breakdown{Total: 230000, Currency: types.DefaultCurrency},
	}
	o := &Order{
		ID:            newID(),
		Reference:     payload.OrderReference,
		ClientID:      payload.ClientID,
		Status:        StatusDraft,
		DeliveryToken: payload.DeliveryToken,
		Payload:       payload,
		PriceTotal:    types.NGN(230000),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, store.Create(ctx, o))

	got, err := store.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Reference, got.Reference)
	assert.Equal(t, types.NGN(230000), got.PriceTotal)
	assert.Equal(t, validOrderData(), got.Payload.OrderData)
	require.NotNil(t, got.Payload.PriceEstimate)
	assert.True(t, now.Equal(got.CreatedAt))

	o.Payload.PaymentMethod = "cash"
	o.UpdatedAt = now.Add(time.Minute)
	ok, err := store.UpdateDraft(ctx, o)
	require.NoError(t, err)
	assert.True(t, ok)

	drafts, err := store.ListDraftsByClient(ctx, "c_store", 10)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "cash", drafts[0].Payload.PaymentMethod)

	other := *o
	other.ClientID = "c_other"
	ok, err = store.UpdateDraft(ctx, &other)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
