// Package address resolves the voting and forwarder contract addresses.
package address

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	httpclient "github.com/votechain/metavote/internal/client/http"
	"github.com/votechain/metavote/internal/constants"
	"github.com/votechain/metavote/internal/logger"
	"github.com/votechain/metavote/internal/metatx"
	"go.uber.org/zap"
)

// DefaultDiscoveryTimeout bounds the discovery call when none is configured.
const DefaultDiscoveryTimeout = 10 * time.Second

// Addresses are the contract pair a vote is routed through.
type Addresses struct {
	VotingContract common.Address
	Forwarder      common.Address
}

// Resolver returns the contract addresses for the current deployment.
type Resolver interface {
	Resolve(ctx context.Context) (Addresses, error)
}

// StaticResolver serves addresses from configuration.
type StaticResolver struct {
	voting    string
	forwarder string
}

// NewStaticResolver creates a resolver for fixed addresses.
func NewStaticResolver(voting, forwarder string) *StaticResolver {
	return &StaticResolver{voting: voting, forwarder: forwarder}
}

func (r *StaticResolver) Resolve(context.Context) (Addresses, error) {
	return parseAddresses(constants.EnvVotingContract, r.voting, constants.EnvForwarderContract, r.forwarder)
}

// discoveryResponse accepts both the documented keys and the misspelled ones
// the legacy backend still emits.
type discoveryResponse struct {
	VotingAddress    string `json:"VOTING_ADDRESS"`
	ForwarderAddress string `json:"FORWARDER_ADDRESS"`
	LegacyVoting     string `json:"VOTING_ADRESS"`
	LegacyForwarder  string `json:"FORWARDER_ADRESS"`
}

// Discovery routes, in order. The legacy backend only serves the misspelled one.
var discoveryPaths = []string{"/addresses", "/adresses"}

// DiscoveryResolver fetches addresses from GET {backend}/addresses, falling
// back to /adresses when the first route is not found.
type DiscoveryResolver struct {
	client  *httpclient.HTTPClient
	timeout time.Duration
}

// NewDiscoveryResolver creates a resolver that asks the backend behind client.
func NewDiscoveryResolver(client *httpclient.HTTPClient, timeout time.Duration) *DiscoveryResolver {
	if timeout <= 0 {
		timeout = DefaultDiscoveryTimeout
	}
	return &DiscoveryResolver{client: client, timeout: timeout}
}

func (r *DiscoveryResolver) Resolve(ctx context.Context) (Addresses, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := r.fetch(ctx)
	if err != nil {
		return Addresses{}, err
	}

	voting := firstNonEmpty(body.VotingAddress, body.LegacyVoting)
	forwarder := firstNonEmpty(body.ForwarderAddress, body.LegacyForwarder)

	addrs, err := parseAddresses("VOTING_ADDRESS", voting, "FORWARDER_ADDRESS", forwarder)
	if err != nil {
		return Addresses{}, err
	}

	logger.Log.Debug("Discovered contract addresses",
		zap.String("voting", addrs.VotingContract.Hex()),
		zap.String("forwarder", addrs.Forwarder.Hex()),
	)
	return addrs, nil
}

func (r *DiscoveryResolver) fetch(ctx context.Context) (*discoveryResponse, error) {
	var lastErr error
	for _, path := range discoveryPaths {
		endpoint := r.client.GetBaseURL() + path

		resp, err := r.client.Get(ctx, path)
		if err != nil {
			if resp != nil {
				resp.Body.Close()
			}
			lastErr = &metatx.DiscoveryError{URL: endpoint, Err: err}
			var httpErr *httpclient.HTTPError
			if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
				continue
			}
			return nil, lastErr
		}

		var body discoveryResponse
		if err := r.client.ProcessJSONResponse(resp, &body); err != nil {
			return nil, &metatx.DiscoveryError{URL: endpoint, Err: err}
		}
		if path != discoveryPaths[0] {
			logger.Log.Debug("Addresses served by legacy route", zap.String("url", endpoint))
		}
		return &body, nil
	}
	return nil, lastErr
}

func parseAddresses(votingField, voting, forwarderField, forwarder string) (Addresses, error) {
	votingAddr, err := parseConfigured(votingField, voting)
	if err != nil {
		return Addresses{}, err
	}
	forwarderAddr, err := parseConfigured(forwarderField, forwarder)
	if err != nil {
		return Addresses{}, err
	}
	return Addresses{VotingContract: votingAddr, Forwarder: forwarderAddr}, nil
}

func parseConfigured(field, value string) (common.Address, error) {
	addr, err := metatx.ParseAddress(field, value)
	if err != nil {
		var invalid *metatx.InvalidRequestError
		if errors.As(err, &invalid) {
			return common.Address{}, &metatx.ConfigurationError{Field: field, Reason: invalid.Reason}
		}
		return common.Address{}, &metatx.ConfigurationError{Field: field, Reason: "invalid address", Err: err}
	}
	return addr, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
