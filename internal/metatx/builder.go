package metatx

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Builder assembles forward requests for one forwarder deployment.
type Builder struct {
	chainID   *big.Int
	forwarder common.Address
	gasLimit  *big.Int
}

// NewBuilder creates a builder for the forwarder at the given chain. gasLimit
// is the fixed ceiling put in every request; it is never estimated.
func NewBuilder(chainID *big.Int, forwarder common.Address, gasLimit uint64) *Builder {
	return &Builder{
		chainID:   cloneInt(chainID),
		forwarder: forwarder,
		gasLimit:  new(big.Int).SetUint64(gasLimit),
	}
}

// Build returns the request {from, to, value=0, gas=ceiling, nonce, data}
// with the domain and schema it has to be signed under.
func (b *Builder) Build(from, to common.Address, data []byte, nonce *big.Int) (*Draft, error) {
	if from == (common.Address{}) {
		return nil, &InvalidRequestError{Field: "from", Reason: "zero address"}
	}
	if to == (common.Address{}) {
		return nil, &InvalidRequestError{Field: "to", Reason: "zero address"}
	}
	if b.forwarder == (common.Address{}) {
		return nil, &InvalidRequestError{Field: "verifyingContract", Reason: "zero address"}
	}
	if b.chainID == nil || b.chainID.Sign() <= 0 {
		return nil, &InvalidRequestError{Field: "chainId", Reason: "must be positive"}
	}
	if nonce == nil || nonce.Sign() < 0 {
		return nil, &InvalidRequestError{Field: "nonce", Reason: "must be a non-negative integer"}
	}
	if b.gasLimit.Sign() <= 0 {
		return nil, &InvalidRequestError{Field: "gas", Reason: "must be positive"}
	}

	req := &ForwardRequest{
		From:  from,
		To:    to,
		Value: new(big.Int),
		Gas:   new(big.Int).Set(b.gasLimit),
		Nonce: new(big.Int).Set(nonce),
		Data:  append([]byte(nil), data...),
	}

	return &Draft{
		Request: req,
		Domain:  ForwarderDomain(b.chainID, b.forwarder),
		Schema:  ForwardRequestSchema(),
	}, nil
}

// ParseAddress validates a hex address string. All-lowercase and
// all-uppercase forms are accepted; mixed case must carry a valid EIP-55
// checksum.
func ParseAddress(field, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return common.Address{}, &InvalidRequestError{Field: field, Reason: "missing address"}
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, &InvalidRequestError{Field: field, Reason: "not a 20-byte hex address"}
	}
	addr := common.HexToAddress(value)
	body := strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && addr.Hex() != "0x"+body {
		return common.Address{}, &InvalidRequestError{Field: field, Reason: "bad EIP-55 checksum"}
	}
	if addr == (common.Address{}) {
		return common.Address{}, &InvalidRequestError{Field: field, Reason: "zero address"}
	}
	return addr, nil
}
