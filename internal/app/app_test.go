package app

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/votechain/metavote/internal/config"
	"github.com/votechain/metavote/internal/constants"
	"github.com/votechain/metavote/internal/metatx"
	"github.com/votechain/metavote/internal/relay"
)

const (
	testKeyHex    = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSender    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testVoting    = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	testForwarder = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// fakeNode answers eth_chainId with 1337 and every eth_call with nonce.
type fakeNode struct {
	nonce int64

	mu      sync.Mutex
	relayed []relay.Payload
}

func (n *fakeNode) relays() []relay.Payload {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]relay.Payload(nil), n.relayed...)
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/relay" {
		var payload relay.Payload
		_ = json.NewDecoder(r.Body).Decode(&payload)
		n.mu.Lock()
		n.relayed = append(n.relayed, payload)
		n.mu.Unlock()
		_, _ = w.Write([]byte(`{"tx_hash":"0xfeed"}`))
		return
	}

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var result string
	switch req.Method {
	case "eth_chainId":
		result = hexutil.EncodeBig(big.NewInt(1337))
	case "eth_call":
		result = hexutil.Encode(math.U256Bytes(big.NewInt(n.nonce)))
	default:
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
		})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"result":  result,
	})
}

func testConfig(serverURL string) *config.Config {
	gasPrice, _ := new(big.Int).SetString(constants.DefaultGasPriceWei, 10)
	return &config.Config{
		RPCURL:            serverURL + "/rpc",
		AddressSource:     constants.AddressSourceStatic,
		VotingContract:    testVoting,
		ForwarderContract: testForwarder,
		RelayBaseURL:      serverURL,
		GasLimit:          constants.DefaultGasLimit,
		GasPrice:          gasPrice,
		SignerKeySource:   constants.KeySourceEnv,
		SignerPrivateKey:  testKeyHex,
		HTTPTimeout:       5 * time.Second,
	}
}

func TestNew_EndToEndVote(t *testing.T) {
	node := &fakeNode{nonce: 7}
	server := httptest.NewServer(node)
	defer server.Close()

	a, err := New(context.Background(), testConfig(server.URL))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, int64(1337), a.ChainID.Int64())

	outcome, err := a.Pipeline.Submit(context.Background(), "3", "yes")
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", outcome.TransactionHash)
	assert.Equal(t, constants.PendingStatus, outcome.Status)

	relays := node.relays()
	require.Len(t, relays, 1)
	payload := relays[0]
	assert.Equal(t, testSender, payload.Request.From)
	assert.Equal(t, common.HexToAddress(testVoting).Hex(), payload.Request.To)
	assert.Equal(t, "7", payload.Request.Nonce)
	assert.Equal(t, "1000000", payload.Request.Gas)
	assert.Equal(t, "0", payload.Request.Value)
	assert.Equal(t, constants.DefaultGasPriceWei, payload.Request.GasPrice)

	sig, err := hexutil.Decode(payload.Signature)
	require.NoError(t, err)
	require.Len(t, sig, metatx.SignatureLength)
}

func TestNew_ConfiguredChainIDSkipsNode(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.ChainID = big.NewInt(31337)

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, int64(31337), a.ChainID.Int64())
}

func TestNew_NodeDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(context.Background(), testConfig(url))

	var chainErr *metatx.ChainReadError
	require.ErrorAs(t, err, &chainErr)
	assert.Equal(t, "eth_chainId", chainErr.Op)
}

func TestNew_DiscoverySource(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.ChainID = big.NewInt(1337)
	cfg.AddressSource = constants.AddressSourceDiscovery
	cfg.BackendURL = "http://127.0.0.1:1"

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Resolver.Resolve(context.Background())
	var discoveryErr *metatx.DiscoveryError
	assert.ErrorAs(t, err, &discoveryErr)
}
