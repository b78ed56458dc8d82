package metatx

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/votechain/metavote/internal/constants"
)

// SignatureLength is r || s || v.
const SignatureLength = crypto.SignatureLength

// KeyProvider hands out the sender's signing key on demand. Implementations
// may read it from the environment, an encrypted keystore or a secret store.
type KeyProvider interface {
	PrivateKey(ctx context.Context) (*ecdsa.PrivateKey, error)
}

// Signer produces EIP-712 signatures over forward requests.
type Signer struct {
	keys KeyProvider
}

// NewSigner creates a signer backed by keys.
func NewSigner(keys KeyProvider) *Signer {
	return &Signer{keys: keys}
}

// Address returns the address of the provider's key.
func (s *Signer) Address(ctx context.Context) (common.Address, error) {
	key, err := s.key(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// Sign signs req under domain and schema and returns the envelope to relay.
// The key must belong to req.From.
func (s *Signer) Sign(ctx context.Context, req *ForwardRequest, domain Domain, schema TypeSchema) (*SignedEnvelope, error) {
	key, err := s.key(ctx)
	if err != nil {
		return nil, err
	}
	if signer := crypto.PubkeyToAddress(key.PublicKey); signer != req.From {
		return nil, &SigningError{Reason: fmt.Sprintf("key belongs to %s, request is from %s", signer.Hex(), req.From.Hex())}
	}

	hash, err := TypedDataHash(domain, schema, req)
	if err != nil {
		return nil, &SigningError{Reason: "encode typed data", Err: err}
	}

	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return nil, &SigningError{Reason: "sign digest", Err: err}
	}
	// The forwarder's ECDSA.recover expects v in {27, 28}.
	sig[crypto.RecoveryIDOffset] += 27

	return NewSignedEnvelope(req, sig), nil
}

func (s *Signer) key(ctx context.Context) (*ecdsa.PrivateKey, error) {
	if s.keys == nil {
		return nil, &SigningError{Reason: "no key provider"}
	}
	key, err := s.keys.PrivateKey(ctx)
	if err != nil {
		var signingErr *SigningError
		if errors.As(err, &signingErr) {
			return nil, err
		}
		return nil, &SigningError{Reason: "load key", Err: err}
	}
	if key == nil || key.D == nil {
		return nil, &SigningError{Reason: "key material absent"}
	}
	return key, nil
}

// Recover returns the address that produced sig over req.
func Recover(domain Domain, schema TypeSchema, req *ForwardRequest, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	hash, err := TypedDataHash(domain, schema, req)
	if err != nil {
		return common.Address{}, err
	}

	normalized := append([]byte(nil), sig...)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verify reports whether the envelope was signed by its request's sender.
func Verify(domain Domain, schema TypeSchema, env *SignedEnvelope) error {
	req := env.Request()
	signer, err := Recover(domain, schema, req, env.Signature())
	if err != nil {
		return err
	}
	if signer != req.From {
		return fmt.Errorf("signature recovers to %s, want %s", signer.Hex(), req.From.Hex())
	}
	return nil
}

// TypedDataHash computes keccak256("\x19\x01" || domainSeparator || hashStruct(req)).
func TypedDataHash(domain Domain, schema TypeSchema, req *ForwardRequest) ([]byte, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if !schema.Equal(ForwardRequestSchema()) {
		return nil, errors.New("schema does not match the forwarder's ForwardRequest")
	}
	if domain.ChainID == nil {
		return nil, errors.New("domain chain id missing")
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData(domain, schema, req))
	if err != nil {
		return nil, err
	}
	return hash, nil
}

func typedData(domain Domain, schema TypeSchema, req *ForwardRequest) apitypes.TypedData {
	fields := make([]apitypes.Type, 0, len(schema))
	for _, f := range schema {
		fields = append(fields, apitypes.Type{Name: f.Name, Type: f.Type})
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			constants.ForwardRequestType: fields,
		},
		PrimaryType: constants.ForwardRequestType,
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           (*math.HexOrDecimal256)(cloneInt(domain.ChainID)),
			VerifyingContract: domain.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"from":  req.From.Hex(),
			"to":    req.To.Hex(),
			"value": decimal(req.Value),
			"gas":   decimal(req.Gas),
			"nonce": decimal(req.Nonce),
			"data":  hexutil.Encode(req.Data),
		},
	}
}

func decimal(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
