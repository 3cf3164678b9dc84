package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("WAYBILL_CONFIG", "")
	t.Setenv("WAYBILL_FIREBASE_DEV_TOKENS", "tok=c1:client")
	t.Setenv("WAYBILL_WIZARD_ESTIMATE_DEBOUNCE", "250ms")
	t.Setenv("WAYBILL_WIZARD_FETCH_RETRIES", "5")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Equal(t, 250*time.Millisecond, c.Wizard.EstimateDebounce)
	assert.Equal(t, 5, c.Wizard.FetchRetries)
	assert.Equal(t, 15*time.Minute, c.S3.PresignTTL)
	assert.Equal(t, 24*time.Hour, c.Session.TTL)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waybill.yaml")
	require.NoError(t, os.WriteFile(path, []byte("firebase:\n  project_id: waybill-prod\nhttp:\n  addr: \":9090\"\n"), 0o600))
	t.Setenv("WAYBILL_CONFIG", path)
	t.Setenv("WAYBILL_HTTP_ADDR", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "waybill-prod", c.Firebase.ProjectID)
	assert.Equal(t, ":9090", c.HTTP.Addr)
}

func TestLoad_RequiresAuthSource(t *testing.T) {
	t.Setenv("WAYBILL_CONFIG", "")
	t.Setenv("WAYBILL_FIREBASE_PROJECT_ID", "")
	t.Setenv("WAYBILL_FIREBASE_DEV_TOKENS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseDevTokens(t *testing.T) {
	got, err := FirebaseConfig{DevTokens: "a=c1:client, b=d1:driver,c=u3"}.ParseDevTokens()
	require.NoError(t, err)
	assert.Equal(t, map[string]DevIdentity{
		"a": {UID: "c1", Role: "client"},
		"b": {UID: "d1", Role: "driver"},
		"c": {UID: "u3"},
	}, got)

	_, err = FirebaseConfig{DevTokens: "broken"}.ParseDevTokens()
	assert.Error(t, err)
}
