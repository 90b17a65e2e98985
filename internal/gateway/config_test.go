package gateway

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wardenlabs/tradewarden/internal/model"
)

func writeLimits(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write limits: %v", err)
	}
	return path
}

func TestLoadStarterLimits(t *testing.T) {
	cfg, err := LoadLimits(writeLimits(t, DefaultLimitsYAML()))
	if err != nil {
		t.Fatalf("LoadLimits: %v", err)
	}
	if cfg.Spend.MaxPerTrade.String() != "600" || cfg.Spend.MaxDaily.String() != "1000" {
		t.Errorf("unexpected spend caps %s / %s", cfg.Spend.MaxPerTrade, cfg.Spend.MaxDaily)
	}
	if cfg.Slippage.MaxPriceImpactPct != 1.0 {
		t.Errorf("unexpected slippage ceiling %v", cfg.Slippage.MaxPriceImpactPct)
	}
	if cfg.Cooldown.MinInterval != time.Minute {
		t.Errorf("unexpected cooldown interval %s", cfg.Cooldown.MinInterval)
	}
}

func TestLoadLimitsAcceptsBareNumerals(t *testing.T) {
	cfg, err := LoadLimits(writeLimits(t, `spend:
  max_per_trade: 250.50
  max_daily: 900
  unpriced: allow
slippage:
  max_price_impact_percent: 0.8
cooldown:
  min_interval: 30s
`))
	if err != nil {
		t.Fatalf("LoadLimits: %v", err)
	}
	if cfg.Spend.MaxPerTrade.String() != "250.5" {
		t.Errorf("unexpected per-trade cap %s", cfg.Spend.MaxPerTrade)
	}
}

func TestLoadLimitsMissingFileIsFatal(t *testing.T) {
	_, err := LoadLimits(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, model.ErrFatalConfiguration) {
		t.Errorf("expected ErrFatalConfiguration, got %v", err)
	}
}

func TestLoadLimitsMalformedYAMLIsFatal(t *testing.T) {
	_, err := LoadLimits(writeLimits(t, "spend: [oops\n"))
	if !errors.Is(err, model.ErrFatalConfiguration) {
		t.Errorf("expected ErrFatalConfiguration, got %v", err)
	}
}

func TestLoadLimitsRequiresUnpricedPolicy(t *testing.T) {
	_, err := LoadLimits(writeLimits(t, `spend:
  max_per_trade: "100"
  max_daily: "500"
slippage:
  max_price_impact_percent: 1.0
cooldown:
  min_interval: 0s
`))
	if !errors.Is(err, model.ErrFatalConfiguration) {
		t.Errorf("expected ErrFatalConfiguration for missing unpriced policy, got %v", err)
	}
}

func TestLoadLimitsValidatesEveryStage(t *testing.T) {
	_, err := LoadLimits(writeLimits(t, `spend:
  max_per_trade: "100"
  max_daily: "500"
  unpriced: block
slippage:
  max_price_impact_percent: -2
cooldown:
  min_interval: 0s
`))
	if !errors.Is(err, model.ErrFatalConfiguration) {
		t.Errorf("expected ErrFatalConfiguration for bad slippage ceiling, got %v", err)
	}
}
