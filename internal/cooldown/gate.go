// Package cooldown enforces a minimum interval between successful
// capital-committing calls, globally or per trading symbol.
package cooldown

import (
	"fmt"
	"sync"
	"time"

	"github.com/wardenlabs/tradewarden/internal/model"
)

// Config holds the cooldown settings.
type Config struct {
	MinInterval time.Duration `yaml:"min_interval"`
	PerSymbol   bool          `yaml:"per_symbol"`
}

// Validate rejects a negative interval. Zero disables the gate.
func (c Config) Validate() error {
	if c.MinInterval < 0 {
		return fmt.Errorf("cooldown: min_interval must not be negative, got %s", c.MinInterval)
	}
	return nil
}

// Gate is the cooldown pipeline stage. The timestamp advances only on a
// confirmed successful outcome, mirroring the spend tracker's discipline.
type Gate struct {
	minInterval time.Duration
	perSymbol   bool
	now         func() time.Time

	mu       sync.Mutex
	last     time.Time
	bySymbol map[string]time.Time
}

// New builds a gate from validated config.
func New(cfg Config) (*Gate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFatalConfiguration, err)
	}
	return &Gate{
		minInterval: cfg.MinInterval,
		perSymbol:   cfg.PerSymbol,
		now:         time.Now,
		bySymbol:    make(map[string]time.Time),
	}, nil
}

func (g *Gate) Name() string { return "cooldown" }

// Decide blocks a capital-committing call made before the interval since
// the last confirmed success has elapsed.
func (g *Gate) Decide(ctx *model.ToolCallContext) model.Decision {
	if !ctx.CapitalCommitting() || g.minInterval == 0 {
		return model.Allow()
	}

	g.mu.Lock()
	last := g.lastLocked(ctx.Symbol)
	g.mu.Unlock()

	if last.IsZero() {
		return model.Allow()
	}

	elapsed := g.now().Sub(last)
	if elapsed < g.minInterval {
		remaining := (g.minInterval - elapsed).Round(time.Second)
		return model.BlockRule(
			fmt.Sprintf("cooldown active: %s remaining of %s minimum between trades", remaining, g.minInterval),
			"cooldown.min_interval",
		)
	}
	return model.Allow()
}

// Record stamps the last-success time. Failed or abandoned calls never
// advance it.
func (g *Gate) Record(ctx *model.ToolCallContext, outcome model.Outcome) {
	if outcome != model.OutcomeSuccess || !ctx.CapitalCommitting() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if g.perSymbol && ctx.Symbol != "" {
		g.bySymbol[ctx.Symbol] = now
	} else {
		g.last = now
	}
}

func (g *Gate) lastLocked(symbol string) time.Time {
	if g.perSymbol && symbol != "" {
		return g.bySymbol[symbol]
	}
	return g.last
}
