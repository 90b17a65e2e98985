// Package slippage blocks trades whose reported price impact exceeds the
// configured ceiling. The guard is stateless.
package slippage

import (
	"fmt"

	"github.com/wardenlabs/tradewarden/internal/model"
)

// Config holds the price-impact ceiling in percent (1.0 = 1%).
type Config struct {
	MaxPriceImpactPct float64 `yaml:"max_price_impact_percent"`
}

// Validate rejects a non-positive ceiling.
func (c Config) Validate() error {
	if c.MaxPriceImpactPct <= 0 {
		return fmt.Errorf("slippage: max_price_impact_percent must be positive, got %v", c.MaxPriceImpactPct)
	}
	return nil
}

// defaultImpactPct is assumed when a capital-committing call carries no
// price-impact figure, matching the convention of the quoting tools.
const defaultImpactPct = 0.5

// Guard is the slippage pipeline stage.
type Guard struct {
	maxPct float64
}

// New builds a guard from validated config.
func New(cfg Config) (*Guard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFatalConfiguration, err)
	}
	return &Guard{maxPct: cfg.MaxPriceImpactPct}, nil
}

func (g *Guard) Name() string { return "slippage_guard" }

// Decide blocks capital-committing calls whose reported price impact is
// above the ceiling. Read-only calls pass untouched.
func (g *Guard) Decide(ctx *model.ToolCallContext) model.Decision {
	if !ctx.CapitalCommitting() {
		return model.Allow()
	}

	impact := defaultImpactPct
	if v, ok := priceImpact(ctx.Args); ok {
		impact = v
	}

	if impact > g.maxPct {
		return model.BlockRule(
			fmt.Sprintf("price impact %.2f%% exceeds maximum allowed %.2f%%", impact, g.maxPct),
			"slippage.max_impact",
		)
	}
	return model.Allow()
}

// priceImpact reads the reported impact from the call arguments. Quoting
// collaborators report it as price_impact_percent; slippage_percent is the
// caller-requested tolerance and serves as a fallback.
func priceImpact(args map[string]any) (float64, bool) {
	for _, key := range []string{"price_impact_percent", "slippage_percent"} {
		switch v := args[key].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		}
	}
	return 0, false
}
