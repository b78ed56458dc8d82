package metatx

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/votechain/metavote/internal/constants"
)

// ForwardRequest is one delegated call intent, as understood by the forwarder.
type ForwardRequest struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	Gas   *big.Int
	Nonce *big.Int
	Data  []byte
}

// Clone returns a deep copy of the request.
func (r *ForwardRequest) Clone() *ForwardRequest {
	if r == nil {
		return nil
	}
	return &ForwardRequest{
		From:  r.From,
		To:    r.To,
		Value: cloneInt(r.Value),
		Gas:   cloneInt(r.Gas),
		Nonce: cloneInt(r.Nonce),
		Data:  bytes.Clone(r.Data),
	}
}

// Domain identifies the signing context. It must match what the forwarder
// contract computes for its own domain separator.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// ForwarderDomain returns the MinimalForwarder domain for a deployment.
func ForwarderDomain(chainID *big.Int, forwarder common.Address) Domain {
	return Domain{
		Name:              constants.ForwarderDomainName,
		Version:           constants.ForwarderDomainVersion,
		ChainID:           cloneInt(chainID),
		VerifyingContract: forwarder,
	}
}

// TypeField is one (name, type) entry of a struct schema.
type TypeField struct {
	Name string
	Type string
}

// TypeSchema is the ordered field list of the signed struct.
type TypeSchema []TypeField

// ForwardRequestSchema returns the field list of the forwarder's
// ForwardRequest struct. Order is significant.
func ForwardRequestSchema() TypeSchema {
	return TypeSchema{
		{Name: "from", Type: "address"},
		{Name: "to", Type: "address"},
		{Name: "value", Type: "uint256"},
		{Name: "gas", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "data", Type: "bytes"},
	}
}

// Equal reports whether both schemas list the same fields in the same order.
func (s TypeSchema) Equal(other TypeSchema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Draft is a built request together with the descriptors needed to sign it.
type Draft struct {
	Request *ForwardRequest
	Domain  Domain
	Schema  TypeSchema
}

// SignedEnvelope pairs a request with its signature. It is immutable: the
// accessors hand out copies.
type SignedEnvelope struct {
	request   *ForwardRequest
	signature []byte
}

// NewSignedEnvelope copies req and signature into a new envelope.
func NewSignedEnvelope(req *ForwardRequest, signature []byte) *SignedEnvelope {
	return &SignedEnvelope{
		request:   req.Clone(),
		signature: bytes.Clone(signature),
	}
}

// Request returns a copy of the signed request.
func (e *SignedEnvelope) Request() *ForwardRequest {
	return e.request.Clone()
}

// Signature returns a copy of the 65-byte signature.
func (e *SignedEnvelope) Signature() []byte {
	return bytes.Clone(e.signature)
}

// RelayOutcome is the relay's acknowledgment of a submitted request. It says
// nothing about on-chain finality.
type RelayOutcome struct {
	TransactionHash string `json:"tx_hash"`
	Status          string `json:"status"`
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
