package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgxURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/waybill?sslmode=disable", pgxURL("postgres://u:p@db:5432/waybill?sslmode=disable"))
	assert.Equal(t, "pgx5://db/waybill", pgxURL("postgresql://db/waybill"))
	assert.Equal(t, "pgx5://db/waybill", pgxURL("pgx5://db/waybill"))
}

func TestIdentityFromClaims(t *testing.T) {
	id := identityFromClaims("u1", map[string]interface{}{"role": "driver"})
	assert.Equal(t, "driver", id.Role)

	id = identityFromClaims("u2", map[string]interface{}{"role": 7})
	assert.Empty(t, id.Role)
}

func TestStaticVerifier(t *testing.T) {
	v := StaticVerifier{"tok": {UID: "c1", Role: "client"}}

	id, err := v.VerifyIDToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "c1", id.UID)

	_, err = v.VerifyIDToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewLogger(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn"} {
		l, err := NewLogger(lvl)
		require.NoError(t, err, lvl)
		assert.NotNil(t, l)
	}
	_, err := NewLogger("loud")
	assert.Error(t, err)
}
