package sim

import (
	"errors"
	"time"
)

var (
	// ErrMissingWorld indicates a host was constructed without a world.
	ErrMissingWorld = errors.New("sim: world is nil")
	// ErrMissingEngineCore indicates NewEngine was invoked without a core.
	ErrMissingEngineCore = errors.New("sim: engine core is nil")
)

// EngineOption configures NewEngine behaviour. Options are applied in order;
// later options override earlier ones.
type EngineOption interface {
	apply(*engineConfig)
}

type engineOptionFunc func(*engineConfig)

func (f engineOptionFunc) apply(cfg *engineConfig) {
	if f != nil {
		f(cfg)
	}
}

type engineConfig struct {
	loopConfig LoopConfig
	loopHooks  LoopHooks
}

// WithLoopConfig overrides the default command queue and tick loop sizing.
func WithLoopConfig(config LoopConfig) EngineOption {
	return engineOptionFunc(func(cfg *engineConfig) {
		cfg.loopConfig = config
	})
}

// WithLoopHooks supplies custom loop callbacks.
func WithLoopHooks(hooks LoopHooks) EngineOption {
	return engineOptionFunc(func(cfg *engineConfig) {
		cfg.loopHooks = hooks
	})
}

// NewEngine wraps core in a command queue and fixed-timestep loop. Cores that
// expose PrepareStep have it run ahead of the user Prepare hook every tick.
func NewEngine(core EngineCore, opts ...EngineOption) (*Loop, error) {
	if core == nil {
		return nil, ErrMissingEngineCore
	}

	cfg := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}

	hooks := cfg.loopHooks
	if preparer, ok := core.(interface {
		PrepareStep(uint64, time.Time)
	}); ok {
		userPrepare := hooks.Prepare
		hooks.Prepare = func(ctx LoopTickContext) {
			preparer.PrepareStep(ctx.Tick, ctx.Now)
			if userPrepare != nil {
				userPrepare(ctx)
			}
		}
	}

	loop := NewLoop(core, cfg.loopConfig, hooks)
	if loop == nil {
		return nil, ErrMissingEngineCore
	}
	return loop, nil
}
