package keys

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/votechain/metavote/internal/metatx"
)

const testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestParsePrivateKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain hex", input: testKeyHex},
		{name: "0x prefix", input: "0x" + testKeyHex},
		{name: "surrounding whitespace", input: "  0x" + testKeyHex + "\n"},
		{name: "empty", input: "", wantErr: true},
		{name: "too short", input: testKeyHex[:40], wantErr: true},
		{name: "not hex", input: "zz" + testKeyHex[2:], wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParsePrivateKey(tt.input)
			if tt.wantErr {
				var signingErr *metatx.SigningError
				require.ErrorAs(t, err, &signingErr)
				assert.NotContains(t, err.Error(), testKeyHex[2:40])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", crypto.PubkeyToAddress(key.PublicKey).Hex())
		})
	}
}

func TestKeystoreKeyProvider(t *testing.T) {
	dir := t.TempDir()
	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)

	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(key, "correct horse")
	require.NoError(t, err)

	t.Run("decrypts with the right password", func(t *testing.T) {
		provider := NewKeystoreKeyProvider(account.URL.Path, "correct horse")
		got, err := provider.PrivateKey(context.Background())
		require.NoError(t, err)
		assert.Equal(t, account.Address, crypto.PubkeyToAddress(got.PublicKey))
	})

	t.Run("wrong password", func(t *testing.T) {
		provider := NewKeystoreKeyProvider(account.URL.Path, "battery staple")
		_, err := provider.PrivateKey(context.Background())
		var signingErr *metatx.SigningError
		assert.ErrorAs(t, err, &signingErr)
	})

	t.Run("missing file", func(t *testing.T) {
		provider := NewKeystoreKeyProvider(filepath.Join(dir, "missing.json"), "correct horse")
		_, err := provider.PrivateKey(context.Background())
		var signingErr *metatx.SigningError
		assert.ErrorAs(t, err, &signingErr)
	})
}

type fakeSecrets struct {
	value string
	err   error
	calls int
}

func (f *fakeSecrets) GetSecretString(context.Context, string, string) (string, error) {
	f.calls++
	return f.value, f.err
}

func TestSecretsManagerKeyProvider(t *testing.T) {
	t.Run("fetches once and caches", func(t *testing.T) {
		secrets := &fakeSecrets{value: "0x" + testKeyHex}
		provider := NewSecretsManagerKeyProvider(secrets, "arn:signer", "")

		first, err := provider.PrivateKey(context.Background())
		require.NoError(t, err)
		second, err := provider.PrivateKey(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, secrets.calls)
	})

	t.Run("fetch failure is a signing error", func(t *testing.T) {
		provider := NewSecretsManagerKeyProvider(&fakeSecrets{err: errors.New("throttled")}, "arn:signer", "")
		_, err := provider.PrivateKey(context.Background())
		var signingErr *metatx.SigningError
		assert.ErrorAs(t, err, &signingErr)
	})

	t.Run("malformed secret is a signing error", func(t *testing.T) {
		provider := NewSecretsManagerKeyProvider(&fakeSecrets{value: "not-a-key"}, "arn:signer", "")
		_, err := provider.PrivateKey(context.Background())
		var signingErr *metatx.SigningError
		assert.ErrorAs(t, err, &signingErr)
		assert.NotContains(t, err.Error(), "not-a-key")
	})
}

func TestHexKeyProvider_WorksWithSigner(t *testing.T) {
	signer := metatx.NewSigner(NewHexKeyProvider("0x" + testKeyHex))
	addr, err := signer.Address(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", addr.Hex())
}
