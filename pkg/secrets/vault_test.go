package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVaultURL(t *testing.T) {
	url, err := buildVaultURL("https://vault.example:8200/", "secret", "/mental-health/api", 2)
	require.NoError(t, err)
	assert.Equal(t, "https://vault.example:8200/v1/secret/data/mental-health/api", url)

	url, err = buildVaultURL("https://vault.example:8200", "kv", "mental-health/api", 1)
	require.NoError(t, err)
	assert.Equal(t, "https://vault.example:8200/v1/kv/mental-health/api", url)

	_, err = buildVaultURL("", "secret", "mental-health/api", 2)
	assert.Error(t, err)
}

func TestExtractVaultData(t *testing.T) {
	v2 := map[string]interface{}{
		"data": map[string]interface{}{
			"data": map[string]interface{}{"DIFY_API_KEY": "app-123"},
		},
	}
	data, err := extractVaultData(v2, 2)
	require.NoError(t, err)
	assert.Equal(t, "app-123", data["DIFY_API_KEY"])

	v1 := map[string]interface{}{
		"data": map[string]interface{}{"REDIS_PASSWORD": "s3cret"},
	}
	data, err = extractVaultData(v1, 1)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", data["REDIS_PASSWORD"])

	_, err = extractVaultData(map[string]interface{}{}, 2)
	assert.Error(t, err)
}

func TestApplyVaultSecrets_SkipsExistingKeysWithoutOverwrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("X-Vault-Token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":{"DIFY_API_KEY":"app-from-vault","VAULT_TEST_NEW_KEY":"fresh"}}}`))
	}))
	defer server.Close()

	t.Setenv("DIFY_API_KEY", "app-from-env")
	t.Setenv("VAULT_TEST_NEW_KEY", "")

	result, err := ApplyVaultSecrets(context.Background(), VaultConfig{
		Enabled:   true,
		Addr:      server.URL,
		Token:     "test-token",
		Mount:     "secret",
		Path:      "mental-health/api",
		KVVersion: 2,
		Timeout:   time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "app-from-env", os.Getenv("DIFY_API_KEY"))
	assert.Equal(t, "fresh", os.Getenv("VAULT_TEST_NEW_KEY"))
}

func TestApplyVaultSecrets_DisabledIsNoop(t *testing.T) {
	result, err := ApplyVaultSecrets(context.Background(), VaultConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, result.Enabled)
}
