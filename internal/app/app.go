// Package app assembles the vote pipeline from configuration. The API server
// and the CLI share it.
package app

import (
	"context"
	"math/big"

	"github.com/votechain/metavote/internal/address"
	"github.com/votechain/metavote/internal/chain"
	httpclient "github.com/votechain/metavote/internal/client/http"
	"github.com/votechain/metavote/internal/config"
	"github.com/votechain/metavote/internal/constants"
	"github.com/votechain/metavote/internal/logger"
	"github.com/votechain/metavote/internal/metatx"
	"github.com/votechain/metavote/internal/metrics"
	"github.com/votechain/metavote/internal/middleware"
	"github.com/votechain/metavote/internal/pipeline"
	"github.com/votechain/metavote/internal/relay"
	"go.uber.org/zap"
)

// App holds the wired components. Close releases the RPC connection.
type App struct {
	Config   *config.Config
	ChainID  *big.Int
	Reader   *chain.Reader
	Resolver address.Resolver
	Signer   *metatx.Signer
	Relay    *relay.Client
	Pipeline *pipeline.Pipeline
	Metrics  *metrics.Metrics
}

// New dials the node, picks the address source and key provider, and builds
// the pipeline. When cfg.ChainID is nil the node is asked for it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	m := metrics.New()

	reader, err := chain.Dial(ctx, cfg.RPCURL, cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}

	chainID := cfg.ChainID
	if chainID == nil {
		if chainID, err = reader.ChainID(ctx); err != nil {
			reader.Close()
			return nil, err
		}
		logger.Log.Info("Using chain id reported by node", zap.String("chain_id", chainID.String()))
	}

	keyProvider, err := cfg.KeyProvider(ctx)
	if err != nil {
		reader.Close()
		return nil, err
	}
	signer := metatx.NewSigner(keyProvider)

	resolver := newResolver(cfg, m)

	relayHTTP := httpclient.NewHTTPClient(
		httpclient.WithBaseURL(cfg.RelayBaseURL),
		httpclient.WithTimeout(cfg.HTTPTimeout),
		httpclient.WithMetricsCollector(m),
		httpclient.WithContextHeader(middleware.CorrelationIDHeader, middleware.CorrelationIDFromContext),
		httpclient.WithMiddleware(httpclient.LoggingMiddleware()),
	)
	relayClient := relay.NewClient(relayHTTP, cfg.GasPrice, cfg.HTTPTimeout)

	p := pipeline.New(resolver, reader, signer, relayClient, chainID, cfg.GasLimit,
		pipeline.WithRecorder(m),
	)

	return &App{
		Config:   cfg,
		ChainID:  chainID,
		Reader:   reader,
		Resolver: resolver,
		Signer:   signer,
		Relay:    relayClient,
		Pipeline: p,
		Metrics:  m,
	}, nil
}

func newResolver(cfg *config.Config, m *metrics.Metrics) address.Resolver {
	if cfg.AddressSource == constants.AddressSourceDiscovery {
		discoveryHTTP := httpclient.NewHTTPClient(
			httpclient.WithBaseURL(cfg.BackendURL),
			httpclient.WithTimeout(cfg.HTTPTimeout),
			httpclient.WithMetricsCollector(m),
			httpclient.WithContextHeader(middleware.CorrelationIDHeader, middleware.CorrelationIDFromContext),
		)
		return address.NewDiscoveryResolver(discoveryHTTP, cfg.HTTPTimeout)
	}
	return address.NewStaticResolver(cfg.VotingContract, cfg.ForwarderContract)
}

// Close releases the RPC connection.
func (a *App) Close() {
	a.Reader.Close()
}
