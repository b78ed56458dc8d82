// Package chain reads forwarder and voting contract state over JSON-RPC.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/votechain/metavote/internal/logger"
	"github.com/votechain/metavote/internal/metatx"
	"github.com/votechain/metavote/internal/vote"
	"go.uber.org/zap"
)

// ForwarderABI covers the forwarder view used to read nonces.
const ForwarderABI = `[
	{"type":"function","name":"getNonce","stateMutability":"view","inputs":[{"name":"from","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var forwarderABI = mustParseABI(ForwarderABI)

// DefaultCallTimeout bounds a single view call when none is configured.
const DefaultCallTimeout = 10 * time.Second

// Backend is the part of an RPC client the reader needs.
type Backend interface {
	ethereum.ContractCaller
	ChainID(ctx context.Context) (*big.Int, error)
}

// Reader performs read-only calls against the forwarder and voting contracts.
type Reader struct {
	backend Backend
	timeout time.Duration
	logger  *zap.Logger
	closer  func()
}

// Dial connects to the node at rpcURL. Close releases the connection.
func Dial(ctx context.Context, rpcURL string, timeout time.Duration) (*Reader, error) {
	if rpcURL == "" {
		return nil, &metatx.ConfigurationError{Field: "RPC_URL", Reason: "not set"}
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, &metatx.ChainReadError{Op: "dial", Err: err}
	}

	reader := NewReader(client, timeout)
	reader.closer = client.Close
	logger.Log.Info("Connected to node RPC")
	return reader, nil
}

// Close releases the RPC connection, if the reader owns one.
func (r *Reader) Close() {
	if r.closer != nil {
		r.closer()
	}
}

// NewReader creates a reader over backend.
func NewReader(backend Backend, timeout time.Duration) *Reader {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Reader{
		backend: backend,
		timeout: timeout,
		logger:  logger.Log,
	}
}

// Nonce returns the forwarder's current nonce for sender. Reading twice
// without an intervening execution yields the same value.
func (r *Reader) Nonce(ctx context.Context, forwarder, sender common.Address) (*big.Int, error) {
	out, err := r.call(ctx, "getNonce", forwarderABI, forwarder, "getNonce", sender)
	if err != nil {
		return nil, err
	}
	nonce, err := singleUint(forwarderABI, "getNonce", out)
	if err != nil {
		return nil, &metatx.ChainReadError{Op: "getNonce", Err: err}
	}

	r.logger.Debug("Fetched forwarder nonce",
		zap.String("forwarder", forwarder.Hex()),
		zap.String("sender", sender.Hex()),
		zap.String("nonce", nonce.String()),
	)
	return nonce, nil
}

// Votes returns getVotes(topicID, option) on the voting contract.
func (r *Reader) Votes(ctx context.Context, voting common.Address, topicID, option string) (*big.Int, error) {
	votingABI := vote.ABI()
	out, err := r.call(ctx, "getVotes", votingABI, voting, "getVotes", topicID, option)
	if err != nil {
		return nil, err
	}
	count, err := singleUint(votingABI, "getVotes", out)
	if err != nil {
		return nil, &metatx.ChainReadError{Op: "getVotes", Err: err}
	}
	return count, nil
}

// Tally reads the vote count of every option of a topic.
func (r *Reader) Tally(ctx context.Context, voting common.Address, topicID string, options []string) (map[string]*big.Int, error) {
	tally := make(map[string]*big.Int, len(options))
	for _, option := range options {
		if err := ctx.Err(); err != nil {
			return nil, &metatx.ChainReadError{Op: "getVotes", Err: err}
		}
		count, err := r.Votes(ctx, voting, topicID, option)
		if err != nil {
			return nil, err
		}
		tally[option] = count
	}
	return tally, nil
}

// ChainID asks the node for its chain id.
func (r *Reader) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id, err := r.backend.ChainID(ctx)
	if err != nil {
		return nil, &metatx.ChainReadError{Op: "eth_chainId", Err: err}
	}
	if id == nil || id.Sign() <= 0 {
		return nil, &metatx.ChainReadError{Op: "eth_chainId", Err: errors.New("node reported no chain id")}
	}
	return id, nil
}

func (r *Reader) call(ctx context.Context, op string, contractABI abi.ABI, to common.Address, method string, args ...interface{}) ([]byte, error) {
	input, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, &metatx.ChainReadError{Op: op, Err: fmt.Errorf("pack call: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		r.logger.Warn("Contract call failed",
			zap.String("method", method),
			zap.String("contract", to.Hex()),
			zap.Error(err),
		)
		return nil, &metatx.ChainReadError{Op: op, Err: err}
	}
	if len(out) == 0 {
		return nil, &metatx.ChainReadError{Op: op, Err: fmt.Errorf("empty result from %s, is a contract deployed there?", to.Hex())}
	}
	return out, nil
}

func singleUint(contractABI abi.ABI, method string, out []byte) (*big.Int, error) {
	values, err := contractABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack result: %w", err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("got %d return values, want 1", len(values))
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("return value is %T, want uint256", values[0])
	}
	return v, nil
}

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("invalid ABI definition: " + err.Error())
	}
	return parsed
}
