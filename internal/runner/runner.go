package runner

import (
	"context"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hperssn/reflex/internal/clock"
	"github.com/hperssn/reflex/internal/domain"
	"github.com/hperssn/reflex/internal/storage"
)

const defaultStoreTimeout = 2 * time.Second

type Snapshot struct {
	SessionID string          `json:"sessionId"`
	Phase     domain.Phase    `json:"phase"`
	BestMs    *int            `json:"bestMs"`
	Attempts  int             `json:"attempts"`
	Outcome   *domain.Outcome `json:"outcome,omitempty"`
}

type Option func(*Controller)

func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

func WithRand(r *rand.Rand) Option {
	return func(ctrl *Controller) { ctrl.rng = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(ctrl *Controller) { ctrl.logger = l }
}

func WithSessionID(id string) Option {
	return func(ctrl *Controller) { ctrl.sessionID = id }
}

func WithStoreTimeout(d time.Duration) Option {
	return func(ctrl *Controller) { ctrl.storeTimeout = d }
}

type pendingTimer struct {
	gen   uint64
	timer clock.Timer
}

// Controller owns the one Session and is the only place its transitions
// happen. Every entry point takes mu, so the delay callback and user input
// never interleave.
type Controller struct {
	mu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc

	session   domain.Session
	sessionID string

	clock        clock.Clock
	rng          *rand.Rand
	repo         storage.Repository
	logger       *zap.Logger
	storeTimeout time.Duration

	gen     uint64
	pending *pendingTimer
	events  *broadcaster
	closed  bool
}

func NewController(ctx context.Context, repo storage.Repository, opts ...Option) *Controller {
	c := &Controller{
		clock:        clock.System,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		repo:         repo,
		logger:       zap.NewNop(),
		storeTimeout: defaultStoreTimeout,
		events:       newBroadcaster(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.Named("controller")
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.session = domain.NewSession(c.sessionID, c.loadBest())

	c.logger.Info("session ready",
		zap.String("session_id", c.session.ID),
		zap.Bool("has_best", c.session.Best != nil),
	)

	return c
}

func (c *Controller) Start() Snapshot {
	return c.dispatch(domain.InputStart)
}

// Input is a pointer or key press on the test surface.
func (c *Controller) Input() Snapshot {
	return c.dispatch(domain.InputPointer)
}

func (c *Controller) Retry() Snapshot {
	return c.dispatch(domain.InputRetry)
}

// Shortcut is the single-key control: it starts a test from Ready, TooEarly
// and Result, and acts as Input while Waiting or showing the stimulus.
func (c *Controller) Shortcut() Snapshot {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	in := domain.InputStart
	switch c.session.Phase {
	case domain.PhaseWaiting, domain.PhaseStimulus:
		in = domain.InputPointer
	}
	return c.applyLocked(in, now)
}

func (c *Controller) dispatch(in domain.Input) Snapshot {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.applyLocked(in, now)
}

func (c *Controller) applyLocked(in domain.Input, now time.Time) Snapshot {
	if c.closed {
		return c.snapshotLocked()
	}

	prev := c.session
	next, eff := domain.Transition(prev, in, now, c.rng)
	c.session = next

	if eff.Cancel {
		c.cancelPendingLocked()
	}
	if eff.Arm > 0 {
		c.armLocked(eff.Arm)
	}
	if eff.NewBest {
		c.saveBestLocked(*next.Best)
	}

	snap := c.snapshotLocked()

	if next.Phase == prev.Phase {
		c.logger.Debug("input ignored",
			zap.String("phase", string(prev.Phase)),
			zap.Stringer("input", in),
		)
		return snap
	}

	c.logger.Debug("transition",
		zap.String("from", string(prev.Phase)),
		zap.String("to", string(next.Phase)),
		zap.Stringer("input", in),
	)
	c.events.publish(PhaseEvent{
		ID:        uuid.New().String(),
		SessionID: next.ID,
		From:      prev.Phase,
		To:        next.Phase,
		Trigger:   in.String(),
		At:        now,
		Snapshot:  snap,
	})

	return snap
}

func (c *Controller) armLocked(d time.Duration) {
	c.cancelPendingLocked()

	c.gen++
	gen := c.gen
	c.pending = &pendingTimer{
		gen:   gen,
		timer: c.clock.AfterFunc(d, func() { c.fire(gen) }),
	}

	c.logger.Debug("stimulus armed", zap.Duration("delay", d), zap.Uint64("gen", gen))
}

func (c *Controller) fire(gen uint64) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil || c.pending.gen != gen {
		c.logger.Debug("stale stimulus timer dropped", zap.Uint64("gen", gen))
		return
	}
	c.pending = nil

	c.applyLocked(domain.InputTimerFired, now)
}

// cancelPendingLocked is safe to call with nothing armed.
func (c *Controller) cancelPendingLocked() {
	if c.pending == nil {
		return
	}
	c.pending.timer.Stop()
	c.pending = nil
}

func (c *Controller) loadBest() *int {
	if c.repo == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.storeTimeout)
	defer cancel()

	ms, ok, err := c.repo.LoadBest(ctx)
	if err != nil {
		c.logger.Warn("could not load best time, starting without one", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return &ms
}

func (c *Controller) saveBestLocked(ms int) {
	c.logger.Info("new best", zap.Int("ms", ms))

	if c.repo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.storeTimeout)
	defer cancel()

	if err := c.repo.SaveBest(ctx, ms); err != nil {
		c.logger.Error("failed to persist best time", zap.Int("ms", ms), zap.Error(err))
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: c.session.ID,
		Phase:     c.session.Phase,
		Attempts:  len(c.session.Attempts),
	}
	if c.session.Best != nil {
		best := *c.session.Best
		snap.BestMs = &best
	}
	if out, ok := domain.Summarize(c.session); ok {
		snap.Outcome = &out
	}
	return snap
}

// Session returns a copy of the controller state.
func (c *Controller) Session() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	s.Attempts = slices.Clone(c.session.Attempts)
	if c.session.Best != nil {
		best := *c.session.Best
		s.Best = &best
	}
	return s
}

// LastAttempt returns the most recent measurement, if any.
func (c *Controller) LastAttempt() (domain.Attempt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.session.Attempts) == 0 {
		return domain.Attempt{}, false
	}
	return c.session.Attempts[len(c.session.Attempts)-1], true
}

func (c *Controller) Subscribe() (<-chan PhaseEvent, func()) {
	return c.events.subscribe()
}

// Close cancels any pending stimulus and ends all subscriptions. Later
// inputs are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancelPendingLocked()
	c.cancel()
	c.events.close()
}
