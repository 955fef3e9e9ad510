package keepaway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aretw0/keepaway/internal/compiler"
	"github.com/aretw0/keepaway/internal/logging"
	"github.com/aretw0/keepaway/internal/runtime"
	"github.com/aretw0/keepaway/pkg/domain"
	"github.com/aretw0/keepaway/pkg/observability"
	"github.com/aretw0/keepaway/pkg/ports"
	"github.com/aretw0/keepaway/pkg/registry"
)

// DefaultLockTTL bounds how long a replica may hold the compute lock for one answer.
const DefaultLockTTL = 30 * time.Second

// Run builds a registry from defs, runs the simulation and returns the answer.
func Run(defs []domain.Definition, rounds int, dampener int64) (int64, error) {
	res, err := simulate(defs, rounds, dampener)
	if err != nil {
		return 0, err
	}
	return res.Answer, nil
}

func simulate(defs []domain.Definition, rounds int, dampener int64, opts ...runtime.EngineOption) (domain.Result, error) {
	eng, err := runtime.NewEngine(rounds, dampener, opts...)
	if err != nil {
		return domain.Result{}, err
	}
	reg, err := registry.New(defs)
	if err != nil {
		return domain.Result{}, err
	}
	return eng.Run(reg)
}

// Solver is the high-level entry point for the keepaway library.
// It parses puzzle input, consults the answer cache and runs the engine under a deadline.
type Solver struct {
	logger  *slog.Logger
	cache   ports.AnswerCache
	locker  ports.DistributedLocker
	metrics *observability.Metrics
	hooks   domain.LifecycleHooks
	timeout time.Duration
	lockTTL time.Duration
	parser  *compiler.Parser
	group   singleflight.Group
}

// Option defines a functional option for configuring the Solver.
type Option func(*Solver)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = logger
	}
}

// WithCache enables answer caching.
func WithCache(cache ports.AnswerCache) Option {
	return func(s *Solver) {
		s.cache = cache
	}
}

// WithLocker serializes uncached computation of the same answer across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Solver) {
		s.locker = locker
	}
}

// WithHooks registers observability hooks passed to every engine run.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Solver) {
		s.hooks = hooks
	}
}

// WithMetrics records run outcomes and cache lookups.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Solver) {
		s.metrics = m
	}
}

// WithTimeout bounds each solve. Zero means no bound beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Solver) {
		s.timeout = d
	}
}

// New initializes a Solver.
func New(opts ...Option) *Solver {
	s := &Solver{
		lockTTL: DefaultLockTTL,
		parser:  compiler.NewParser(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// Parse decodes puzzle text into definitions without running anything.
func (s *Solver) Parse(input []byte) ([]domain.Definition, error) {
	return s.parser.Parse(input)
}

// Solve parses input and returns the result for mode.
// Identical concurrent calls share one computation; finished answers are cached.
func (s *Solver) Solve(ctx context.Context, input []byte, mode domain.Mode) (domain.Result, error) {
	if mode != domain.ModeBounded && mode != domain.ModeUnbounded {
		return domain.Result{}, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}
	rounds, dampener := mode.Params()
	defs, err := s.parser.Parse(input)
	if err != nil {
		return domain.Result{}, err
	}
	key := CacheKey(input, mode)

	ch := s.group.DoChan(key, func() (any, error) {
		// Detached from the first caller so a cancelled waiter does not abort the shared run.
		return s.solveOnce(context.WithoutCancel(ctx), key, string(mode), defs, rounds, dampener)
	})

	started := time.Now()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	select {
	case <-ctx.Done():
		// The shared run carries on for the other waiters and the cache.
		if s.metrics != nil {
			s.metrics.ObserveRun(string(mode), time.Since(started), ctx.Err())
		}
		return domain.Result{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return domain.Result{}, r.Err
		}
		// Waiters share one value; each gets its own slice.
		res := r.Val.(domain.Result)
		res.Inspections = append([]int64(nil), res.Inspections...)
		return res, nil
	}
}

func (s *Solver) solveOnce(ctx context.Context, key, mode string, defs []domain.Definition, rounds int, dampener int64) (domain.Result, error) {
	if res, ok := s.lookup(ctx, key); ok {
		return res, nil
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, key, s.lockTTL)
		if err != nil {
			return domain.Result{}, fmt.Errorf("failed to acquire compute lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				s.logger.Warn("failed to release compute lock (will expire via TTL)", "key", key, "err", err)
			}
		}()
		// Another replica may have finished while we waited.
		if res, ok := s.lookup(ctx, key); ok {
			return res, nil
		}
	}

	started := time.Now()
	res, err := simulate(defs, rounds, dampener, s.engineOptions()...)
	if s.metrics != nil {
		s.metrics.ObserveRun(mode, time.Since(started), err)
	}
	if err != nil {
		return domain.Result{}, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, &res); err != nil {
			s.logger.Warn("failed to cache answer", "key", key, "err", err)
		}
	}
	return res, nil
}

func (s *Solver) lookup(ctx context.Context, key string) (domain.Result, bool) {
	if s.cache == nil {
		return domain.Result{}, false
	}
	cached, err := s.cache.Get(ctx, key)
	if s.metrics != nil {
		s.metrics.ObserveCache(err == nil)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("answer cache lookup failed", "key", key, "err", err)
		}
		return domain.Result{}, false
	}
	res := *cached
	res.Cached = true
	s.logger.Debug("answer served from cache", "key", key, "answer", res.Answer)
	return res, true
}

// Simulate runs already-parsed definitions under the solver's deadline.
// The engine has no early exit: on deadline the wait is abandoned and the
// computation finishes in the background with its result discarded.
func (s *Solver) Simulate(ctx context.Context, defs []domain.Definition, rounds int, dampener int64) (domain.Result, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	type outcome struct {
		res domain.Result
		err error
	}
	started := time.Now()
	done := make(chan outcome, 1)
	go func() {
		res, err := simulate(defs, rounds, dampener, s.engineOptions()...)
		done <- outcome{res, err}
	}()

	var o outcome
	select {
	case <-ctx.Done():
		o.err = ctx.Err()
	case o = <-done:
	}
	if s.metrics != nil {
		s.metrics.ObserveRun("custom", time.Since(started), o.err)
	}
	return o.res, o.err
}

func (s *Solver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *Solver) engineOptions() []runtime.EngineOption {
	hooks := s.hooks
	if s.metrics != nil {
		hooks = observability.Chain(hooks, s.metrics.Hooks())
	}
	return []runtime.EngineOption{
		runtime.WithLogger(s.logger),
		runtime.WithHooks(hooks),
	}
}

// CacheKey identifies an answer by the SHA-256 of the raw input and the mode.
func CacheKey(input []byte, mode domain.Mode) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:]) + ":" + string(mode)
}
