// Package keys provides metatx.KeyProvider implementations.
package keys

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/votechain/metavote/internal/logger"
	"github.com/votechain/metavote/internal/metatx"
	"go.uber.org/zap"
)

// ParsePrivateKey parses a hex private key with or without 0x prefix. The
// error never echoes the input.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return nil, &metatx.SigningError{Reason: "key material absent"}
	}
	hexKey = strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, &metatx.SigningError{Reason: "malformed private key"}
	}
	return key, nil
}

// HexKeyProvider serves a key given as a hex string, e.g. from the
// environment.
type HexKeyProvider struct {
	hexKey string
}

// NewHexKeyProvider creates a provider for hexKey.
func NewHexKeyProvider(hexKey string) *HexKeyProvider {
	return &HexKeyProvider{hexKey: hexKey}
}

func (p *HexKeyProvider) PrivateKey(context.Context) (*ecdsa.PrivateKey, error) {
	return ParsePrivateKey(p.hexKey)
}

// KeystoreKeyProvider decrypts a go-ethereum JSON keystore file. The
// decrypted key is kept in memory after the first successful call.
type KeystoreKeyProvider struct {
	path     string
	password string

	mu  sync.Mutex
	key *ecdsa.PrivateKey
}

// NewKeystoreKeyProvider creates a provider for the keystore file at path.
func NewKeystoreKeyProvider(path, password string) *KeystoreKeyProvider {
	return &KeystoreKeyProvider{path: path, password: password}
}

func (p *KeystoreKeyProvider) PrivateKey(context.Context) (*ecdsa.PrivateKey, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.key != nil {
		return p.key, nil
	}

	keyJSON, err := os.ReadFile(p.path)
	if err != nil {
		return nil, &metatx.SigningError{Reason: "read keystore file", Err: err}
	}
	decrypted, err := keystore.DecryptKey(keyJSON, p.password)
	if err != nil {
		return nil, &metatx.SigningError{Reason: "decrypt keystore file", Err: err}
	}

	logger.Log.Info("Loaded signer key from keystore",
		zap.String("path", p.path),
		zap.String("address", decrypted.Address.Hex()),
	)
	p.key = decrypted.PrivateKey
	return p.key, nil
}

// SecretFetcher reads a plain string secret.
type SecretFetcher interface {
	GetSecretString(ctx context.Context, secretArn string, fallbackEnvVar string) (string, error)
}

// SecretsManagerKeyProvider reads the hex key from a secret store. The
// secret is fetched once and cached.
type SecretsManagerKeyProvider struct {
	secrets        SecretFetcher
	secretArn      string
	fallbackEnvVar string

	mu  sync.Mutex
	key *ecdsa.PrivateKey
}

// NewSecretsManagerKeyProvider creates a provider reading secretArn, falling
// back to the fallbackEnvVar environment variable.
func NewSecretsManagerKeyProvider(secrets SecretFetcher, secretArn, fallbackEnvVar string) *SecretsManagerKeyProvider {
	return &SecretsManagerKeyProvider{
		secrets:        secrets,
		secretArn:      secretArn,
		fallbackEnvVar: fallbackEnvVar,
	}
}

func (p *SecretsManagerKeyProvider) PrivateKey(ctx context.Context) (*ecdsa.PrivateKey, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.key != nil {
		return p.key, nil
	}

	secret, err := p.secrets.GetSecretString(ctx, p.secretArn, p.fallbackEnvVar)
	if err != nil {
		return nil, &metatx.SigningError{Reason: "fetch signer key secret", Err: err}
	}
	key, err := ParsePrivateKey(secret)
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", p.secretArn, err)
	}
	p.key = key
	return p.key, nil
}
