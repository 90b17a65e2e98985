package slippage

import (
	"testing"

	"github.com/wardenlabs/tradewarden/internal/model"
)

func newTestGuard(t *testing.T, maxPct float64) *Guard {
	t.Helper()
	g, err := New(Config{MaxPriceImpactPct: maxPct})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func tradeWith(args map[string]any) *model.ToolCallContext {
	return &model.ToolCallContext{
		Tool: "swap_execute",
		Kind: model.KindCapital,
		Args: args,
	}
}

func TestValidateRejectsNonPositiveCeiling(t *testing.T) {
	for _, pct := range []float64{0, -1} {
		if _, err := New(Config{MaxPriceImpactPct: pct}); err == nil {
			t.Errorf("expected error for ceiling %v", pct)
		}
	}
}

func TestBlocksAboveCeiling(t *testing.T) {
	g := newTestGuard(t, 1.0)

	d := g.Decide(tradeWith(map[string]any{"price_impact_percent": 1.5}))
	if d.Allowed {
		t.Fatal("expected block above the ceiling")
	}
	if d.RuleID != "slippage.max_impact" {
		t.Errorf("expected rule slippage.max_impact, got %q", d.RuleID)
	}
}

func TestAllowsAtCeiling(t *testing.T) {
	g := newTestGuard(t, 1.0)
	if d := g.Decide(tradeWith(map[string]any{"price_impact_percent": 1.0})); !d.Allowed {
		t.Errorf("impact at the ceiling blocked: %s", d.Reason)
	}
}

func TestAssumesDefaultImpactWhenAbsent(t *testing.T) {
	// The assumed figure is 0.5%, so a 0.4% ceiling blocks and 1.0% allows.
	if d := newTestGuard(t, 0.4).Decide(tradeWith(nil)); d.Allowed {
		t.Error("expected block with assumed impact above ceiling")
	}
	if d := newTestGuard(t, 1.0).Decide(tradeWith(nil)); !d.Allowed {
		t.Errorf("expected allow with assumed impact below ceiling: %s", d.Reason)
	}
}

func TestSlippagePercentFallback(t *testing.T) {
	g := newTestGuard(t, 1.0)
	d := g.Decide(tradeWith(map[string]any{"slippage_percent": 3.0}))
	if d.Allowed {
		t.Error("expected slippage_percent fallback to block")
	}
}

func TestReadOnlyIgnored(t *testing.T) {
	g := newTestGuard(t, 0.1)
	quote := &model.ToolCallContext{
		Tool: "swap_quote",
		Kind: model.KindReadOnly,
		Args: map[string]any{"price_impact_percent": 50.0},
	}
	if d := g.Decide(quote); !d.Allowed {
		t.Errorf("read-only call blocked: %s", d.Reason)
	}
}
