// Package pipeline turns a vote into a relayed meta-transaction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/votechain/metavote/internal/address"
	"github.com/votechain/metavote/internal/logger"
	"github.com/votechain/metavote/internal/metatx"
	"github.com/votechain/metavote/internal/metrics"
	"github.com/votechain/metavote/internal/vote"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=../mocks/mock_pipeline.go -package=mocks github.com/votechain/metavote/internal/pipeline AddressResolver,NonceSource,RequestSigner,Relayer,SubmissionRecorder

// AddressResolver returns the contracts a vote is routed through.
type AddressResolver interface {
	Resolve(ctx context.Context) (address.Addresses, error)
}

// NonceSource reads the forwarder nonce of a sender.
type NonceSource interface {
	Nonce(ctx context.Context, forwarder, sender common.Address) (*big.Int, error)
}

// RequestSigner signs forward requests with the sender's key.
type RequestSigner interface {
	Address(ctx context.Context) (common.Address, error)
	Sign(ctx context.Context, req *metatx.ForwardRequest, domain metatx.Domain, schema metatx.TypeSchema) (*metatx.SignedEnvelope, error)
}

// Relayer hands a signed envelope to the relay service.
type Relayer interface {
	Submit(ctx context.Context, env *metatx.SignedEnvelope) (*metatx.RelayOutcome, error)
}

// SubmissionRecorder observes finished submissions.
type SubmissionRecorder interface {
	RecordSubmission(outcome string, duration time.Duration)
	RecordRetry()
}

// Step names used in logs and cancellation errors.
const (
	StepEncode  = "encode"
	StepSender  = "sender"
	StepResolve = "resolve"
	StepNonce   = "nonce"
	StepBuild   = "build"
	StepSign    = "sign"
	StepVerify  = "verify"
	StepRelay   = "relay"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder reports every finished submission to rec.
func WithRecorder(rec SubmissionRecorder) Option {
	return func(p *Pipeline) {
		if rec != nil {
			p.recorder = rec
		}
	}
}

// WithLogger replaces the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithGuard shares a single-flight guard between pipelines.
func WithGuard(g *Guard) Option {
	return func(p *Pipeline) {
		if g != nil {
			p.guard = g
		}
	}
}

// Pipeline runs Encode, Resolve, Nonce, Build, Sign and Relay for one vote.
// It holds no per-vote state; concurrent submissions from one sender are
// serialized by its Guard.
type Pipeline struct {
	resolver AddressResolver
	nonces   NonceSource
	signer   RequestSigner
	relayer  Relayer
	chainID  *big.Int
	gasLimit uint64
	guard    *Guard
	recorder SubmissionRecorder
	logger   *zap.Logger
}

// New wires a pipeline. chainID and gasLimit parameterize every request it builds.
func New(resolver AddressResolver, nonces NonceSource, signer RequestSigner, relayer Relayer, chainID *big.Int, gasLimit uint64, opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver: resolver,
		nonces:   nonces,
		signer:   signer,
		relayer:  relayer,
		chainID:  chainID,
		gasLimit: gasLimit,
		guard:    NewGuard(),
		recorder: noopRecorder{},
		logger:   logger.Log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit casts option on topicID. It returns the relay's acknowledgment; the
// transaction itself may still fail on-chain.
func (p *Pipeline) Submit(ctx context.Context, topicID, option string) (*metatx.RelayOutcome, error) {
	start := time.Now()
	outcome, err := p.submit(ctx, topicID, option)
	p.recorder.RecordSubmission(Classify(err), time.Since(start))
	return outcome, err
}

func (p *Pipeline) submit(ctx context.Context, topicID, option string) (*metatx.RelayOutcome, error) {
	if err := checkpoint(ctx, StepEncode); err != nil {
		return nil, err
	}
	data, err := vote.Encode(topicID, option)
	if err != nil {
		return nil, &metatx.InvalidRequestError{Field: "vote", Reason: err.Error()}
	}

	if err := checkpoint(ctx, StepSender); err != nil {
		return nil, err
	}
	sender, err := p.signer.Address(ctx)
	if err != nil {
		return nil, err
	}

	log := p.logger.With(
		zap.String("sender", sender.Hex()),
		zap.String("topic_id", topicID),
		zap.String("option", option),
	)

	outcome, shared, err := p.guard.Do(ctx, sender, voteKey(topicID, option), func(runCtx context.Context) (*metatx.RelayOutcome, error) {
		return p.run(runCtx, log, sender, data)
	})
	if shared {
		log.Debug("Joined in-flight submission")
	}
	if err != nil {
		log.Warn("Vote submission failed", zap.Error(err))
		return nil, err
	}
	return outcome, nil
}

func (p *Pipeline) run(ctx context.Context, log *zap.Logger, sender common.Address, data []byte) (*metatx.RelayOutcome, error) {
	if err := checkpoint(ctx, StepResolve); err != nil {
		return nil, err
	}
	addrs, err := p.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	if err := checkpoint(ctx, StepNonce); err != nil {
		return nil, err
	}
	nonce, err := p.nonces.Nonce(ctx, addrs.Forwarder, sender)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("nonce", nonce.String()))

	if err := checkpoint(ctx, StepBuild); err != nil {
		return nil, err
	}
	draft, err := metatx.NewBuilder(p.chainID, addrs.Forwarder, p.gasLimit).Build(sender, addrs.VotingContract, data, nonce)
	if err != nil {
		return nil, err
	}

	if err := checkpoint(ctx, StepSign); err != nil {
		return nil, err
	}
	env, err := p.signer.Sign(ctx, draft.Request, draft.Domain, draft.Schema)
	if err != nil {
		return nil, err
	}
	if err := metatx.Verify(draft.Domain, draft.Schema, env); err != nil {
		return nil, &metatx.SigningError{Reason: "signature does not recover to sender", Err: err}
	}

	if err := checkpoint(ctx, StepRelay); err != nil {
		return nil, err
	}
	outcome, err := p.relayer.Submit(ctx, env)
	if err != nil {
		return nil, err
	}

	log.Info("Vote relayed",
		zap.String("tx_hash", outcome.TransactionHash),
		zap.String("status", outcome.Status),
	)
	return outcome, nil
}

func checkpoint(ctx context.Context, step string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}

func voteKey(topicID, option string) string {
	return topicID + "\x00" + option
}

// Classify maps a submission error to a metrics outcome label.
func Classify(err error) string {
	var (
		invalid     *metatx.InvalidRequestError
		cfgErr      *metatx.ConfigurationError
		discovery   *metatx.DiscoveryError
		chainErr    *metatx.ChainReadError
		signing     *metatx.SigningError
		rejected    *metatx.RelayRejectedError
		unreachable *metatx.RelayUnreachableError
	)
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case errors.Is(err, ErrSubmissionInFlight):
		return metrics.OutcomeBusy
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Typed errors wrap the context error when a step was cut off.
		return metrics.OutcomeCancelled
	case errors.As(err, &invalid):
		return metrics.OutcomeInvalid
	case errors.As(err, &cfgErr):
		return metrics.OutcomeConfig
	case errors.As(err, &discovery):
		return metrics.OutcomeDiscovery
	case errors.As(err, &chainErr):
		return metrics.OutcomeChainRead
	case errors.As(err, &signing):
		return metrics.OutcomeSigning
	case errors.As(err, &rejected):
		return metrics.OutcomeRejected
	case errors.As(err, &unreachable):
		return metrics.OutcomeUnreachable
	default:
		return metrics.OutcomeError
	}
}

type noopRecorder struct{}

func (noopRecorder) RecordSubmission(string, time.Duration) {}
func (noopRecorder) RecordRetry()                           {}
