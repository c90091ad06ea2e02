package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"resumatch/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeVault serves sys/health and KVv2 reads from secrets, keyed by request path
func newFakeVault(t *testing.T, sealed bool, secrets map[string]map[string]any) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/sys/health" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"initialized": true,
				"sealed":      sealed,
				"version":     "1.17.0",
			})
			return
		}

		data, ok := secrets[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": map[string]any{"version": 3},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("config token wins", func(t *testing.T) {
		t.Setenv(vaultTokenEnv, "env-token")

		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"})
		require.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("environment before file", func(t *testing.T) {
		t.Setenv(vaultTokenEnv, "env-token")

		token, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
		require.NoError(t, err)
		assert.Equal(t, "env-token", token)
	})

	t.Run("token file is trimmed", func(t *testing.T) {
		t.Setenv(vaultTokenEnv, "")
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		t.Setenv(vaultTokenEnv, "")

		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read vault token file")
	})

	t.Run("blank token file", func(t *testing.T) {
		t.Setenv(vaultTokenEnv, "")
		tokenFile := filepath.Join(t.TempDir(), "empty-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("   \n  \n"), 0600))

		_, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})
}

func TestSecretVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int64
		wantErr bool
	}{
		{name: "int64", input: int64(42), want: 42},
		{name: "float64", input: float64(42), want: 42},
		{name: "json number", input: json.Number("7"), want: 7},
		{name: "string", input: "42", want: 42},
		{name: "bad string", input: "not-a-number", wantErr: true},
		{name: "missing", input: nil, wantErr: true},
		{name: "unsupported type", input: []string{"42"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := secretVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeKVv2(t *testing.T) {
	t.Run("valid secret", func(t *testing.T) {
		secret, err := decodeKVv2(&api.Secret{Data: map[string]any{
			"data":     map[string]any{"api_key": "hf-token"},
			"metadata": map[string]any{"version": json.Number("2")},
		}}, "secret/data/hf")
		require.NoError(t, err)
		assert.Equal(t, "hf-token", secret.Data["api_key"])
		assert.Equal(t, int64(2), secret.Version)
	})

	invalid := map[string]*api.Secret{
		"nil secret":       nil,
		"missing data":     {Data: map[string]any{"metadata": map[string]any{"version": int64(1)}}},
		"data not a map":   {Data: map[string]any{"data": "nope", "metadata": map[string]any{"version": int64(1)}}},
		"missing metadata": {Data: map[string]any{"data": map[string]any{}}},
		"missing version":  {Data: map[string]any{"data": map[string]any{}, "metadata": map[string]any{}}},
	}
	for name, raw := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := decodeKVv2(raw, "secret/data/hf")
			assert.Error(t, err)
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{NLP: NLPConfig{GeminiAPIKey: "from-env"}}

	require.NoError(t, ApplyVaultSecrets(cfg, errors.NewDiscardLogger()))
	assert.Equal(t, "from-env", cfg.NLP.GeminiAPIKey)
}

func TestApplyVaultSecretsFromServer(t *testing.T) {
	server := newFakeVault(t, false, map[string]map[string]any{
		"/v1/secret/data/hf":     {"api_key": "hf-from-vault"},
		"/v1/secret/data/gemini": {"api_key": "gemini-from-vault"},
	})

	cfg := &Config{
		NLP: NLPConfig{
			Provider:   ProviderHuggingFace,
			Similarity: OperationNLPConfig{Provider: ProviderGemini},
		},
		Vault: VaultConfig{
			Enabled: true,
			Address: server.URL,
			Token:   "root",
			Secrets: VaultSecrets{
				HuggingFaceKey: "secret/data/hf",
				GeminiKey:      "secret/data/gemini",
			},
		},
	}

	require.NoError(t, ApplyVaultSecrets(cfg, errors.NewDiscardLogger()))

	assert.Equal(t, "hf-from-vault", cfg.NLP.HuggingFaceAPIKey)
	assert.Equal(t, "gemini-from-vault", cfg.NLP.GeminiAPIKey)
	assert.Equal(t, "hf-from-vault", cfg.NLP.Entities.APIKey)
	assert.Equal(t, "gemini-from-vault", cfg.NLP.Similarity.APIKey)
}

func TestNewVaultClientSealed(t *testing.T) {
	server := newFakeVault(t, true, nil)

	_, err := NewVaultClient(VaultConfig{Enabled: true, Address: server.URL, Token: "root"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault is sealed")
}

func TestVaultClientProviderKeyMissingSecret(t *testing.T) {
	server := newFakeVault(t, false, map[string]map[string]any{
		"/v1/secret/data/wrong-field": {"token": "x"},
	})

	client, err := NewVaultClient(VaultConfig{Enabled: true, Address: server.URL, Token: "root"}, nil)
	require.NoError(t, err)

	_, err = client.ProviderKey("secret/data/absent")
	assert.Error(t, err)

	_, err = client.ProviderKey("secret/data/wrong-field")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "api_key" not found`)
}

type fakeKeyReader struct {
	keys  map[string]string
	err   error
	reads []string
}

func (f *fakeKeyReader) ProviderKey(path string) (string, error) {
	f.reads = append(f.reads, path)
	if f.err != nil {
		return "", f.err
	}
	return f.keys[path], nil
}

func TestApplyProviderKeys(t *testing.T) {
	t.Run("empty paths skip reads", func(t *testing.T) {
		reader := &fakeKeyReader{}
		cfg := &Config{}

		require.NoError(t, applyProviderKeys(reader, cfg, nil))
		assert.Empty(t, reader.reads)
	})

	t.Run("empty secret keeps existing key", func(t *testing.T) {
		reader := &fakeKeyReader{keys: map[string]string{"secret/data/gemini": ""}}
		cfg := &Config{
			NLP:   NLPConfig{GeminiAPIKey: "from-env"},
			Vault: VaultConfig{Secrets: VaultSecrets{GeminiKey: "secret/data/gemini"}},
		}

		require.NoError(t, applyProviderKeys(reader, cfg, nil))
		assert.Equal(t, []string{"secret/data/gemini"}, reader.reads)
		assert.Equal(t, "from-env", cfg.NLP.GeminiAPIKey)
	})

	t.Run("read failure is returned", func(t *testing.T) {
		reader := &fakeKeyReader{err: assert.AnError}
		cfg := &Config{Vault: VaultConfig{Secrets: VaultSecrets{GeminiKey: "secret/data/gemini"}}}

		err := applyProviderKeys(reader, cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load gemini API key from vault")
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestSetProviderKey(t *testing.T) {
	t.Run("fills operations served by the provider", func(t *testing.T) {
		cfg := &Config{NLP: NLPConfig{
			Provider:   ProviderHuggingFace,
			Similarity: OperationNLPConfig{Provider: ProviderGemini},
		}}

		setProviderKey(cfg, ProviderHuggingFace, "hf-secret")

		assert.Equal(t, "hf-secret", cfg.NLP.HuggingFaceAPIKey)
		assert.Equal(t, "hf-secret", cfg.NLP.Entities.APIKey)
		assert.Empty(t, cfg.NLP.Similarity.APIKey)
	})

	t.Run("keeps operation specific keys", func(t *testing.T) {
		cfg := &Config{NLP: NLPConfig{
			Provider: ProviderGemini,
			Entities: OperationNLPConfig{APIKey: "entities-specific"},
		}}

		setProviderKey(cfg, ProviderGemini, "gemini-secret")

		assert.Equal(t, "gemini-secret", cfg.NLP.GeminiAPIKey)
		assert.Equal(t, "entities-specific", cfg.NLP.Entities.APIKey)
		assert.Equal(t, "gemini-secret", cfg.NLP.Similarity.APIKey)
	})
}
