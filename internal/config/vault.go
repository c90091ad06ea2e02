package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"resumatch/internal/errors"

	"github.com/hashicorp/vault/api"
)

const (
	vaultTokenEnv = "VAULT_TOKEN"
	// field holding the provider token inside each KVv2 secret
	vaultKeyField = "api_key"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool         `mapstructure:"enabled"`
	Address   string       `mapstructure:"address"`
	Token     string       `mapstructure:"token"`
	TokenFile string       `mapstructure:"tokenFile"`
	Namespace string       `mapstructure:"namespace"`
	Secrets   VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets holds the KVv2 paths of the provider API keys
type VaultSecrets struct {
	HuggingFaceKey string `mapstructure:"huggingFaceKey"`
	GeminiKey      string `mapstructure:"geminiKey"`
}

// VaultClient reads provider keys from a KVv2 mount
type VaultClient struct {
	logical *api.Logical
	logger  *errors.Logger
}

// NewVaultClient connects to Vault and checks that it is unsealed. It returns nil when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}

	token, err := resolveVaultToken(cfg)
	if err != nil {
		return nil, err
	}

	apiConfig := api.DefaultConfig()
	if cfg.Address != "" {
		apiConfig.Address = cfg.Address
	}
	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to create vault client", err)
	}
	client.SetToken(token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	health, err := client.Sys().Health()
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to connect to vault", err).
			WithContext("address", client.Address())
	}
	if health.Sealed {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "vault is sealed", nil).
			WithContext("address", client.Address())
	}

	logger.Info("Connected to Vault",
		"address", client.Address(),
		"namespace", cfg.Namespace,
		"version", health.Version)

	return &VaultClient{logical: client.Logical(), logger: logger}, nil
}

// resolveVaultToken takes the first non-empty token from config, VAULT_TOKEN, then the token file
func resolveVaultToken(cfg VaultConfig) (string, error) {
	if token := strings.TrimSpace(cfg.Token); token != "" {
		return token, nil
	}
	if token := strings.TrimSpace(os.Getenv(vaultTokenEnv)); token != "" {
		return token, nil
	}
	if cfg.TokenFile != "" {
		data, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to read vault token file", err).
				WithContext("file", cfg.TokenFile)
		}
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
	}
	return "", errors.NewConfigError(errors.ErrCodeInvalidConfig, "vault token is required when vault is enabled", nil)
}

// kvSecret is the payload of a KVv2 read
type kvSecret struct {
	Data    map[string]any
	Version int64
}

// ProviderKey reads the api_key field of the KVv2 secret at path
func (vc *VaultClient) ProviderKey(path string) (string, error) {
	raw, err := vc.logical.Read(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret from %s: %w", path, err)
	}

	secret, err := decodeKVv2(raw, path)
	if err != nil {
		return "", err
	}

	value, ok := secret.Data[vaultKeyField]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %s", vaultKeyField, path)
	}
	key, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key %q is not a string in secret %s", vaultKeyField, path)
	}

	vc.logger.Debug("Provider key read from Vault", "path", path, "version", secret.Version)
	return key, nil
}

func decodeKVv2(raw *api.Secret, path string) (*kvSecret, error) {
	if raw == nil || raw.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	data, ok := raw.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	metadata, ok := raw.Data["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}

	version, err := secretVersion(metadata["version"])
	if err != nil {
		return nil, fmt.Errorf("invalid secret version at %s: %w", path, err)
	}
	return &kvSecret{Data: data, Version: version}, nil
}

// secretVersion accepts the shapes a KVv2 version takes after JSON decoding
func secretVersion(raw any) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, fmt.Errorf("missing version")
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected version type %T", raw)
	}
}

// providerKeyReader is the part of VaultClient ApplyVaultSecrets needs
type providerKeyReader interface {
	ProviderKey(path string) (string, error)
}

// ApplyVaultSecrets loads the configured provider keys from Vault into the NLP config
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		return nil
	}

	client, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return err
	}
	return applyProviderKeys(client, cfg, logger)
}

func applyProviderKeys(reader providerKeyReader, cfg *Config, logger *errors.Logger) error {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}

	paths := []struct {
		provider string
		path     string
	}{
		{ProviderHuggingFace, cfg.Vault.Secrets.HuggingFaceKey},
		{ProviderGemini, cfg.Vault.Secrets.GeminiKey},
	}

	for _, p := range paths {
		if p.path == "" {
			continue
		}

		key, err := reader.ProviderKey(p.path)
		if err != nil {
			return errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("failed to load %s API key from vault", p.provider), err).
				WithContext("path", p.path)
		}
		if key == "" {
			logger.Warn("Empty provider API key in Vault, keeping existing key", "provider", p.provider, "path", p.path)
			continue
		}

		setProviderKey(cfg, p.provider, key)
		logger.Info("Provider API key loaded from Vault", "provider", p.provider)
	}
	return nil
}

// setProviderKey sets the global key for provider and fills keyless operations served by it
func setProviderKey(cfg *Config, provider, key string) {
	switch provider {
	case ProviderHuggingFace:
		cfg.NLP.HuggingFaceAPIKey = key
	case ProviderGemini:
		cfg.NLP.GeminiAPIKey = key
	}

	for _, op := range []*OperationNLPConfig{&cfg.NLP.Entities, &cfg.NLP.Similarity} {
		if op.APIKey != "" {
			continue
		}
		effective := op.Provider
		if effective == "" {
			effective = cfg.NLP.Provider
		}
		if effective == provider {
			op.APIKey = key
		}
	}
}
