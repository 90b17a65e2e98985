package spend

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// UnpricedPolicy decides trades whose USD value cannot be determined.
// There is deliberately no default: the operator must pick one.
type UnpricedPolicy string

const (
	// UnpricedBlock rejects trades without a determinable USD value.
	UnpricedBlock UnpricedPolicy = "block"
	// UnpricedAllow admits them without counting against the caps.
	UnpricedAllow UnpricedPolicy = "allow"
)

// Config holds the spend limits. Caps are USD amounts.
type Config struct {
	MaxPerTrade decimal.Decimal `yaml:"max_per_trade"`
	MaxDaily    decimal.Decimal `yaml:"max_daily"`
	Unpriced    UnpricedPolicy  `yaml:"unpriced"`

	// JournalPath enables the persistent sqlite trade journal. Empty means
	// in-memory only.
	JournalPath string `yaml:"journal_path"`
}

// UnmarshalYAML decodes the caps from scalar nodes. decimal.Decimal has no
// YAML support of its own; amounts arrive as quoted or bare numerals.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxPerTrade yaml.Node      `yaml:"max_per_trade"`
		MaxDaily    yaml.Node      `yaml:"max_daily"`
		Unpriced    UnpricedPolicy `yaml:"unpriced"`
		JournalPath string         `yaml:"journal_path"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parse := func(node yaml.Node, name string) (decimal.Decimal, error) {
		if node.Value == "" {
			return decimal.Zero, nil
		}
		v, err := decimal.NewFromString(node.Value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("spend: %s: invalid amount %q", name, node.Value)
		}
		return v, nil
	}

	var err error
	if c.MaxPerTrade, err = parse(raw.MaxPerTrade, "max_per_trade"); err != nil {
		return err
	}
	if c.MaxDaily, err = parse(raw.MaxDaily, "max_daily"); err != nil {
		return err
	}
	c.Unpriced = raw.Unpriced
	c.JournalPath = raw.JournalPath
	return nil
}

// Validate rejects incomplete limit configuration.
func (c Config) Validate() error {
	if c.MaxPerTrade.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("spend: max_per_trade must be positive, got %s", c.MaxPerTrade)
	}
	if c.MaxDaily.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("spend: max_daily must be positive, got %s", c.MaxDaily)
	}
	if c.MaxPerTrade.GreaterThan(c.MaxDaily) {
		return fmt.Errorf("spend: max_per_trade %s exceeds max_daily %s", c.MaxPerTrade, c.MaxDaily)
	}
	switch c.Unpriced {
	case UnpricedBlock, UnpricedAllow:
		return nil
	case "":
		return fmt.Errorf("spend: unpriced policy is required (block or allow)")
	default:
		return fmt.Errorf("spend: unknown unpriced policy %q", c.Unpriced)
	}
}
