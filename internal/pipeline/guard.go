package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/votechain/metavote/internal/metatx"
	"golang.org/x/sync/singleflight"
)

// DefaultRunTimeout bounds one shared submission once it no longer follows
// any single caller's context.
const DefaultRunTimeout = 2 * time.Minute

// ErrSubmissionInFlight is returned when a sender submits a different vote
// while an earlier one has not finished.
var ErrSubmissionInFlight = errors.New("another vote from this sender is in flight")

// flight is one running submission and the callers waiting on it.
type flight struct {
	key      string
	groupKey string
	waiters  []context.Context
	stops    []func() bool
	gone     bool
	cancel   context.CancelFunc
}

// Guard allows one in-flight submission per sender. A repeat of the same
// vote joins the running call and shares its result.
//
// The run does not belong to the caller that started it. It is cancelled
// only once every waiting caller has gone, and a caller that gives up
// returns at once while the others keep waiting. The entry is removed by
// the run itself, under the guard's lock, so a caller either joins a live
// run or starts a fresh one.
type Guard struct {
	mu         sync.Mutex
	inflight   map[common.Address]*flight
	group      singleflight.Group
	seq        uint64
	runTimeout time.Duration
}

// NewGuard creates an empty guard with DefaultRunTimeout.
func NewGuard() *Guard {
	return NewGuardWithTimeout(DefaultRunTimeout)
}

// NewGuardWithTimeout creates an empty guard whose shared runs are cut off
// after runTimeout.
func NewGuardWithTimeout(runTimeout time.Duration) *Guard {
	if runTimeout <= 0 {
		runTimeout = DefaultRunTimeout
	}
	return &Guard{
		inflight:   make(map[common.Address]*flight),
		runTimeout: runTimeout,
	}
}

// Do runs fn for sender unless a call for sender is already running. fn
// receives a context that keeps ctx's values but is cancelled only when all
// waiting callers are gone or the run timeout expires. shared reports whether
// more than one caller received the result.
func (g *Guard) Do(ctx context.Context, sender common.Address, key string, fn func(context.Context) (*metatx.RelayOutcome, error)) (outcome *metatx.RelayOutcome, shared bool, err error) {
	f, ch, err := g.enter(ctx, sender, key, fn)
	if err != nil {
		return nil, false, err
	}

	select {
	case res := <-ch:
		return flightResult(res)
	case <-ctx.Done():
		if g.abandoned(f) {
			// Last one out: the run is cancelled now, wait for it to unwind.
			return flightResult(<-ch)
		}
		return nil, false, ctx.Err()
	}
}

// InFlight reports whether sender has a submission running.
func (g *Guard) InFlight(sender common.Address) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inflight[sender]
	return ok
}

func (g *Guard) enter(ctx context.Context, sender common.Address, key string, fn func(context.Context) (*metatx.RelayOutcome, error)) (*flight, <-chan singleflight.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f, ok := g.inflight[sender]
	if ok {
		if f.key != key || f.gone {
			return nil, nil, ErrSubmissionInFlight
		}
		g.watch(f, ctx)
		// The entry is still registered, so the run has not returned and
		// its singleflight key is live: this call joins it and never runs.
		ch := g.group.DoChan(f.groupKey, func() (interface{}, error) {
			return nil, errors.New("joined a finished submission")
		})
		return f, ch, nil
	}

	g.seq++
	base, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.runTimeout)
	f = &flight{
		key:      key,
		groupKey: fmt.Sprintf("%s\x00%s\x00%d", sender.Hex(), key, g.seq),
		cancel:   cancel,
	}
	g.inflight[sender] = f
	g.watch(f, ctx)

	runCtx := &flightContext{Context: base, guard: g, flight: f}
	ch := g.group.DoChan(f.groupKey, func() (interface{}, error) {
		defer g.finish(sender, f)
		return fn(runCtx)
	})
	return f, ch, nil
}

// watch registers ctx as a waiter of f. Caller holds g.mu.
func (g *Guard) watch(f *flight, ctx context.Context) {
	f.waiters = append(f.waiters, ctx)
	f.stops = append(f.stops, context.AfterFunc(ctx, func() { g.abandoned(f) }))
}

// abandoned reports whether every waiter of f has gone, cancelling the run
// the first time that holds.
func (g *Guard) abandoned(f *flight) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if f.gone {
		return true
	}
	for _, w := range f.waiters {
		if w.Err() == nil {
			return false
		}
	}
	f.gone = true
	f.cancel()
	return true
}

func (g *Guard) finish(sender common.Address, f *flight) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inflight[sender] == f {
		delete(g.inflight, sender)
	}
	for _, stop := range f.stops {
		stop()
	}
	f.cancel()
}

func flightResult(res singleflight.Result) (*metatx.RelayOutcome, bool, error) {
	if res.Err != nil {
		return nil, res.Shared, res.Err
	}
	return res.Val.(*metatx.RelayOutcome), res.Shared, nil
}

// flightContext is the context a shared run sees. Err checks the waiters
// first, so a step boundary notices the last caller leaving without waiting
// for the AfterFunc callback.
type flightContext struct {
	context.Context
	guard  *Guard
	flight *flight
}

func (c *flightContext) Err() error {
	c.guard.abandoned(c.flight)
	return c.Context.Err()
}
