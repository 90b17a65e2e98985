package gateway

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wardenlabs/tradewarden/internal/cooldown"
	"github.com/wardenlabs/tradewarden/internal/model"
	"github.com/wardenlabs/tradewarden/internal/slippage"
	"github.com/wardenlabs/tradewarden/internal/spend"
)

// LimitsConfig aggregates the limit-stage settings. There are no implicit
// defaults: a missing or malformed file refuses startup instead of
// degrading to a permissive state.
type LimitsConfig struct {
	Spend    spend.Config    `yaml:"spend"`
	Slippage slippage.Config `yaml:"slippage"`
	Cooldown cooldown.Config `yaml:"cooldown"`
}

// LoadLimits reads and validates the limits file.
func LoadLimits(path string) (LimitsConfig, error) {
	var cfg LimitsConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: read limits %s: %v", model.ErrFatalConfiguration, path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse limits %s: %v", model.ErrFatalConfiguration, path, err)
	}

	if err := cfg.Spend.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", model.ErrFatalConfiguration, err)
	}
	if err := cfg.Slippage.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", model.ErrFatalConfiguration, err)
	}
	if err := cfg.Cooldown.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", model.ErrFatalConfiguration, err)
	}
	return cfg, nil
}

// DefaultLimitsYAML returns a commented starter limits file for init.
func DefaultLimitsYAML() string {
	return `# tradewarden limits configuration
# All monetary values are USD.

spend:
  max_per_trade: "600"
  max_daily: "1000"
  # Trades whose USD value cannot be determined: "block" or "allow".
  # This must be set explicitly; there is no default.
  unpriced: block
  # Optional sqlite journal so the daily total survives restarts.
  # journal_path: /var/lib/tradewarden/spend.db

slippage:
  max_price_impact_percent: 1.0

cooldown:
  min_interval: 60s
  per_symbol: false
`
}
