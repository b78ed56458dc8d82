package pipeline

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/votechain/metavote/internal/metatx"
	"go.uber.org/zap"
)

// RetryConfig bounds SubmitWithRetry.
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryConfig retries a transient failure up to three times.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsedTime:  30 * time.Second,
	}
}

func (c RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.InitialInterval
	exp.MaxInterval = c.MaxInterval
	exp.MaxElapsedTime = c.MaxElapsedTime
	return backoff.WithContext(backoff.WithMaxRetries(exp, c.MaxRetries), ctx)
}

// SubmitWithRetry restarts the whole pipeline, fetching a fresh nonce each
// time, after discovery, chain read or relay transport failures. Anything
// else, including a relay rejection, is returned at once.
func (p *Pipeline) SubmitWithRetry(ctx context.Context, topicID, option string, cfg RetryConfig) (*metatx.RelayOutcome, error) {
	var outcome *metatx.RelayOutcome

	operation := func() error {
		result, err := p.Submit(ctx, topicID, option)
		if err != nil {
			if metatx.IsTransient(err) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		outcome = result
		return nil
	}

	notify := func(err error, wait time.Duration) {
		p.recorder.RecordRetry()
		p.logger.Warn("Transient failure, restarting vote submission",
			zap.String("topic_id", topicID),
			zap.String("option", option),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, cfg.backOff(ctx), notify); err != nil {
		return nil, err
	}
	return outcome, nil
}
