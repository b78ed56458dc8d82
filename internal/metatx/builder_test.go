package metatx_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/votechain/metavote/internal/metatx"
)

func TestBuilder_Build(t *testing.T) {
	sender := common.HexToAddress("0xABC0000000000000000000000000000000000001")
	target := common.HexToAddress("0xDEF0000000000000000000000000000000000002")
	data := []byte{0x12, 0x34}

	builder := metatx.NewBuilder(big.NewInt(1337), forwarderAddress, 1_000_000)
	draft, err := builder.Build(sender, target, data, big.NewInt(7))
	require.NoError(t, err)

	req := draft.Request
	assert.Equal(t, sender, req.From)
	assert.Equal(t, target, req.To)
	assert.Equal(t, int64(0), req.Value.Int64())
	assert.Equal(t, int64(1_000_000), req.Gas.Int64())
	assert.Equal(t, int64(7), req.Nonce.Int64())
	assert.Equal(t, data, req.Data)

	assert.Equal(t, "MinimalForwarder", draft.Domain.Name)
	assert.Equal(t, "0.0.1", draft.Domain.Version)
	assert.Equal(t, int64(1337), draft.Domain.ChainID.Int64())
	assert.Equal(t, forwarderAddress, draft.Domain.VerifyingContract)
	assert.True(t, draft.Schema.Equal(metatx.ForwardRequestSchema()))

	// The request must not alias caller memory.
	data[0] = 0xff
	assert.Equal(t, byte(0x12), req.Data[0])
}

func TestBuilder_BuildInvalid(t *testing.T) {
	sender := common.HexToAddress("0xABC0000000000000000000000000000000000001")
	target := common.HexToAddress("0xDEF0000000000000000000000000000000000002")

	tests := []struct {
		name      string
		builder   *metatx.Builder
		from      common.Address
		to        common.Address
		nonce     *big.Int
		wantField string
	}{
		{
			name:      "zero sender",
			builder:   metatx.NewBuilder(big.NewInt(1337), forwarderAddress, 1_000_000),
			to:        target,
			nonce:     big.NewInt(0),
			wantField: "from",
		},
		{
			name:      "zero target",
			builder:   metatx.NewBuilder(big.NewInt(1337), forwarderAddress, 1_000_000),
			from:      sender,
			nonce:     big.NewInt(0),
			wantField: "to",
		},
		{
			name:      "missing nonce",
			builder:   metatx.NewBuilder(big.NewInt(1337), forwarderAddress, 1_000_000),
			from:      sender,
			to:        target,
			wantField: "nonce",
		},
		{
			name:      "negative nonce",
			builder:   metatx.NewBuilder(big.NewInt(1337), forwarderAddress, 1_000_000),
			from:      sender,
			to:        target,
			nonce:     big.NewInt(-1),
			wantField: "nonce",
		},
		{
			name:      "zero forwarder",
			builder:   metatx.NewBuilder(big.NewInt(1337), common.Address{}, 1_000_000),
			from:      sender,
			to:        target,
			nonce:     big.NewInt(0),
			wantField: "verifyingContract",
		},
		{
			name:      "zero gas ceiling",
			builder:   metatx.NewBuilder(big.NewInt(1337), forwarderAddress, 0),
			from:      sender,
			to:        target,
			nonce:     big.NewInt(0),
			wantField: "gas",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := tt.builder.Build(tt.from, tt.to, nil, tt.nonce)
			assert.Nil(t, draft)

			var invalid *metatx.InvalidRequestError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.wantField, invalid.Field)
		})
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "checksummed", input: "0x5FbDB2315678afecb367f032d93F642f64180aa3"},
		{name: "lowercase", input: "0x5fbdb2315678afecb367f032d93f642f64180aa3"},
		{name: "uppercase body", input: "0x5FBDB2315678AFECB367F032D93F642F64180AA3"},
		{name: "bad checksum", input: "0x5fBDB2315678afecb367f032d93F642f64180aa3", wantErr: true},
		{name: "too short", input: "0x5FbDB2315678afecb367f032d93F642f64180a", wantErr: true},
		{name: "not hex", input: "0xZZbDB2315678afecb367f032d93F642f64180aa3", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0x0000000000000000000000000000000000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := metatx.ParseAddress("to", tt.input)
			if tt.wantErr {
				var invalid *metatx.InvalidRequestError
				assert.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, common.HexToAddress(tt.input), addr)
		})
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, metatx.IsTransient(&metatx.DiscoveryError{}))
	assert.True(t, metatx.IsTransient(&metatx.ChainReadError{}))
	assert.True(t, metatx.IsTransient(&metatx.RelayUnreachableError{}))
	assert.False(t, metatx.IsTransient(&metatx.RelayRejectedError{StatusCode: 400}))
	assert.False(t, metatx.IsTransient(&metatx.SigningError{}))
	assert.False(t, metatx.IsTransient(&metatx.ConfigurationError{}))
	assert.False(t, metatx.IsTransient(&metatx.InvalidRequestError{}))
}
