// Package config reads the process configuration from the environment.
package config

import (
	"context"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	awsclient "github.com/votechain/metavote/internal/client/aws"
	"github.com/votechain/metavote/internal/constants"
	"github.com/votechain/metavote/internal/helpers"
	"github.com/votechain/metavote/internal/keys"
	"github.com/votechain/metavote/internal/metatx"
	"go.uber.org/zap/zapcore"
)

// DefaultHTTPTimeout bounds discovery, relay and RPC calls.
const DefaultHTTPTimeout = 15 * time.Second

// Config is the resolved process configuration.
type Config struct {
	Stage    string
	LogLevel zapcore.Level

	RPCURL string
	// ChainID is nil when the node should be asked.
	ChainID *big.Int

	AddressSource     string
	VotingContract    string
	ForwarderContract string
	BackendURL        string
	RelayBaseURL      string

	GasLimit uint64
	GasPrice *big.Int

	SignerKeySource        string
	SignerPrivateKey       string
	SignerPrivateKeyARN    string
	SignerKeystorePath     string
	SignerKeystorePassword string

	HTTPTimeout time.Duration

	APIPort        string
	RateLimitRPS   float64
	RateLimitBurst int
	CORS           CORSConfig
}

// CORSConfig mirrors the CORS_* variables.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
}

// LoadDotEnv loads .env files into the environment. A missing file is not an
// error; the returned error is only informational.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load reads and validates the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Stage:                  getEnv(constants.EnvStage, "dev"),
		RPCURL:                 strings.TrimSpace(os.Getenv(constants.EnvRPCURL)),
		AddressSource:          strings.ToLower(getEnv(constants.EnvAddressSource, constants.AddressSourceStatic)),
		VotingContract:         strings.TrimSpace(os.Getenv(constants.EnvVotingContract)),
		ForwarderContract:      strings.TrimSpace(os.Getenv(constants.EnvForwarderContract)),
		BackendURL:             strings.TrimSuffix(strings.TrimSpace(os.Getenv(constants.EnvBackendURL)), "/"),
		RelayBaseURL:           strings.TrimSuffix(strings.TrimSpace(os.Getenv(constants.EnvRelayBaseURL)), "/"),
		SignerKeySource:        strings.ToLower(getEnv(constants.EnvSignerKeySource, constants.KeySourceEnv)),
		SignerPrivateKey:       os.Getenv(constants.EnvSignerPrivateKey),
		SignerPrivateKeyARN:    os.Getenv(constants.EnvSignerPrivateKeyARN),
		SignerKeystorePath:     os.Getenv(constants.EnvSignerKeystorePath),
		SignerKeystorePassword: os.Getenv(constants.EnvSignerKeystorePass),
		APIPort:                getEnv(constants.EnvAPIPort, constants.DefaultAPIPort),
		CORS: CORSConfig{
			AllowedOrigins:   splitList(getEnv(constants.EnvCORSAllowedOrigins, "http://localhost:3000")),
			AllowedMethods:   splitList(getEnv(constants.EnvCORSAllowedMethods, "GET,POST,OPTIONS")),
			AllowedHeaders:   splitList(getEnv(constants.EnvCORSAllowedHeaders, "Origin,Content-Type,Accept,X-Correlation-ID")),
			ExposedHeaders:   splitList(os.Getenv(constants.EnvCORSExposedHeaders)),
			AllowCredentials: os.Getenv(constants.EnvCORSAllowCreds) == "true",
		},
	}

	var err error
	if cfg.LogLevel, err = parseLogLevel(getEnv(constants.EnvLogLevel, constants.DefaultLogLevel)); err != nil {
		return nil, err
	}
	if cfg.ChainID, err = parseChainID(os.Getenv(constants.EnvChainID)); err != nil {
		return nil, err
	}
	if cfg.GasLimit, err = parseUint(constants.EnvGasLimit, constants.DefaultGasLimit); err != nil {
		return nil, err
	}
	if cfg.GasPrice, err = parseBigInt(constants.EnvGasPriceWei, constants.DefaultGasPriceWei); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = parseDuration(constants.EnvHTTPTimeout, DefaultHTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = parseFloat(constants.EnvRateLimitRPS, constants.DefaultRateLimitRPS); err != nil {
		return nil, err
	}
	burst, err := parseUint(constants.EnvRateLimitBurst, constants.DefaultRateLimitBurst)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = int(burst)

	if cfg.RelayBaseURL == "" {
		cfg.RelayBaseURL = cfg.BackendURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected modes have what they need.
func (c *Config) Validate() error {
	if !helpers.IsValidStage(c.Stage) {
		return &metatx.ConfigurationError{Field: constants.EnvStage, Reason: "must be prod, dev, local or test"}
	}
	if c.RPCURL == "" {
		return missing(constants.EnvRPCURL)
	}

	switch c.AddressSource {
	case constants.AddressSourceStatic:
		if _, err := metatx.ParseAddress(constants.EnvVotingContract, c.VotingContract); err != nil {
			return &metatx.ConfigurationError{Field: constants.EnvVotingContract, Reason: "invalid address", Err: err}
		}
		if _, err := metatx.ParseAddress(constants.EnvForwarderContract, c.ForwarderContract); err != nil {
			return &metatx.ConfigurationError{Field: constants.EnvForwarderContract, Reason: "invalid address", Err: err}
		}
	case constants.AddressSourceDiscovery:
		if c.BackendURL == "" {
			return missing(constants.EnvBackendURL)
		}
	default:
		return &metatx.ConfigurationError{
			Field:  constants.EnvAddressSource,
			Reason: "must be " + constants.AddressSourceStatic + " or " + constants.AddressSourceDiscovery,
		}
	}

	if c.RelayBaseURL == "" {
		return missing(constants.EnvRelayBaseURL)
	}
	if c.GasLimit == 0 {
		return &metatx.ConfigurationError{Field: constants.EnvGasLimit, Reason: "must be positive"}
	}

	switch c.SignerKeySource {
	case constants.KeySourceEnv:
		if _, err := keys.ParsePrivateKey(c.SignerPrivateKey); err != nil {
			return &metatx.ConfigurationError{Field: constants.EnvSignerPrivateKey, Reason: "missing or malformed", Err: err}
		}
	case constants.KeySourceKeystore:
		if c.SignerKeystorePath == "" {
			return missing(constants.EnvSignerKeystorePath)
		}
	case constants.KeySourceAWS:
		if c.SignerPrivateKeyARN == "" && c.SignerPrivateKey == "" {
			return missing(constants.EnvSignerPrivateKeyARN)
		}
	default:
		return &metatx.ConfigurationError{
			Field:  constants.EnvSignerKeySource,
			Reason: "must be env, keystore or aws",
		}
	}
	return nil
}

// KeyProvider builds the key provider selected by SIGNER_KEY_SOURCE.
func (c *Config) KeyProvider(ctx context.Context) (metatx.KeyProvider, error) {
	switch c.SignerKeySource {
	case constants.KeySourceEnv:
		return keys.NewHexKeyProvider(c.SignerPrivateKey), nil
	case constants.KeySourceKeystore:
		return keys.NewKeystoreKeyProvider(c.SignerKeystorePath, c.SignerKeystorePassword), nil
	case constants.KeySourceAWS:
		secrets, err := awsclient.NewSecretsManagerClient(ctx)
		if err != nil {
			return nil, &metatx.ConfigurationError{Field: constants.EnvSignerPrivateKeyARN, Reason: "secrets manager unavailable", Err: err}
		}
		return keys.NewSecretsManagerKeyProvider(secrets, c.SignerPrivateKeyARN, constants.EnvSignerPrivateKey), nil
	default:
		return nil, &metatx.ConfigurationError{Field: constants.EnvSignerKeySource, Reason: "unknown key source " + c.SignerKeySource}
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func missing(field string) error {
	return &metatx.ConfigurationError{Field: field, Reason: "not set"}
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLogLevel(v string) (zapcore.Level, error) {
	if strings.EqualFold(v, "warning") {
		v = "warn"
	}
	level, err := zapcore.ParseLevel(strings.ToLower(v))
	if err != nil {
		return zapcore.InfoLevel, &metatx.ConfigurationError{Field: constants.EnvLogLevel, Reason: "unknown log level", Err: err}
	}
	return level, nil
}

func parseChainID(v string) (*big.Int, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "0" {
		return nil, nil
	}
	id, ok := new(big.Int).SetString(v, 10)
	if !ok || id.Sign() < 0 {
		return nil, &metatx.ConfigurationError{Field: constants.EnvChainID, Reason: "not a positive integer"}
	}
	return id, nil
}

func parseUint(key string, fallback uint64) (uint64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, &metatx.ConfigurationError{Field: key, Reason: "not an unsigned integer", Err: err}
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, &metatx.ConfigurationError{Field: key, Reason: "not a positive number", Err: err}
	}
	return f, nil
}

func parseBigInt(key, fallback string) (*big.Int, error) {
	v := getEnv(key, fallback)
	n, ok := new(big.Int).SetString(v, 10)
	if !ok || n.Sign() < 0 {
		return nil, &metatx.ConfigurationError{Field: key, Reason: "not a non-negative decimal integer"}
	}
	return n, nil
}

// parseDuration accepts Go durations ("15s") or plain seconds ("15").
func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, &metatx.ConfigurationError{Field: key, Reason: "not a positive duration", Err: err}
	}
	return d, nil
}
