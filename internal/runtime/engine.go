package runtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/keepaway/internal/logging"
	"github.com/aretw0/keepaway/pkg/domain"
	"github.com/aretw0/keepaway/pkg/registry"
	"github.com/google/uuid"
)

// Engine drives the round/turn protocol over a registry.
// It is single-threaded and has no early exit: callers that need a deadline wrap Run.
type Engine struct {
	rounds   int
	dampener int64
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	runID    string
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithRunID sets the correlation id reported in events and the result.
// A random id is generated when none is given.
func WithRunID(id string) EngineOption {
	return func(e *Engine) {
		e.runID = id
	}
}

// NewEngine creates an engine for the given number of rounds and dampener.
func NewEngine(rounds int, dampener int64, opts ...EngineOption) (*Engine, error) {
	if rounds <= 0 {
		return nil, fmt.Errorf("%w: rounds must be positive, got %d", domain.ErrInvalidRunConfig, rounds)
	}
	if dampener <= 0 {
		return nil, fmt.Errorf("%w: dampener must be positive, got %d", domain.ErrInvalidRunConfig, dampener)
	}
	e := &Engine{
		rounds:   rounds,
		dampener: dampener,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	return e, nil
}

// Run executes every round against reg and reduces the counters to the answer.
// The registry is mutated in place; on error the run is abandoned mid-way.
func (e *Engine) Run(reg *registry.Registry) (domain.Result, error) {
	modulus := reg.GlobalModulus()
	started := time.Now()

	e.logger.Info("run started",
		"run_id", e.runID,
		"agents", reg.Len(),
		"rounds", e.rounds,
		"dampener", e.dampener,
		"modulus", modulus,
	)
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(&domain.RunEvent{
			EventBase: e.event(domain.EventRunStart),
			Agents:    reg.Len(),
			Rounds:    e.rounds,
			Dampener:  e.dampener,
			Modulus:   modulus,
		})
	}

	for round := 1; round <= e.rounds; round++ {
		for id := 0; id < reg.Len(); id++ {
			if err := e.turn(reg, round, id, modulus); err != nil {
				e.logger.Error("run aborted", "run_id", e.runID, "round", round, "agent", id, "error", err)
				return domain.Result{}, err
			}
		}
		if e.hooks.OnRoundComplete != nil {
			e.hooks.OnRoundComplete(&domain.RoundEvent{
				EventBase:   e.event(domain.EventRoundComplete),
				Round:       round,
				Inspections: reg.Inspections(),
				Items:       reg.TotalItems(),
			})
		}
		e.logger.Debug("round complete", "run_id", e.runID, "round", round)
	}

	inspections := reg.Inspections()
	answer, err := TopTwoProduct(inspections)
	if err != nil {
		return domain.Result{}, err
	}

	res := domain.Result{
		RunID:       e.runID,
		Answer:      answer,
		Rounds:      e.rounds,
		Dampener:    e.dampener,
		Modulus:     modulus,
		Inspections: inspections,
	}
	e.logger.Info("run complete", "run_id", e.runID, "answer", answer, "duration", time.Since(started))
	if e.hooks.OnRunComplete != nil {
		e.hooks.OnRunComplete(&res)
	}
	return res, nil
}

// turn drains the agent's queue as it stands now. Items the agent throws to
// itself land in a fresh queue and wait for the next round, so an agent whose
// test routes an item back to itself cannot loop forever inside one turn.
func (e *Engine) turn(reg *registry.Registry, round, id int, modulus int64) error {
	agent := reg.Agent(id)
	items := reg.DrainQueue(id)

	var toTrue, toFalse int
	for _, item := range items {
		reg.IncrementInspections(id)

		v, err := Apply(agent.Transform, item)
		if err != nil {
			err.Round, err.AgentID = round, id
			return err
		}
		v /= e.dampener
		if e.dampener == 1 {
			v %= modulus
		}

		if v%agent.Divisor == 0 {
			toTrue++
			reg.AppendItem(agent.IfTrue, v)
		} else {
			toFalse++
			reg.AppendItem(agent.IfFalse, v)
		}
	}

	if e.hooks.OnTurn != nil {
		e.hooks.OnTurn(&domain.TurnEvent{
			EventBase: e.event(domain.EventTurn),
			Round:     round,
			AgentID:   id,
			Inspected: len(items),
			ToTrue:    toTrue,
			ToFalse:   toFalse,
		})
	}
	return nil
}

func (e *Engine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: e.runID}
}
