package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ActionKind classifies what a tool call can do to the portfolio.
type ActionKind string

const (
	// KindReadOnly covers quotes, data queries, and address derivation.
	KindReadOnly ActionKind = "read_only"
	// KindCapital covers calls that commit capital when they succeed.
	KindCapital ActionKind = "capital_committing"
)

// Outcome is the terminal status of an executed tool call.
type Outcome string

const (
	OutcomeSuccess   Outcome = "done"
	OutcomeError     Outcome = "error"
	OutcomeAbandoned Outcome = "abandoned"
)

// ToolCallContext is the immutable per-call view every pipeline stage sees.
// The gateway builds one per accepted request; nothing mutates it afterwards.
type ToolCallContext struct {
	CallID      string
	Tool        string
	Args        map[string]any
	RawArgs     json.RawMessage
	Kind        ActionKind
	TradeValue  *decimal.Decimal // USD value; nil when the trade cannot be priced
	Symbol      string
	Network     string
	RequestedAt time.Time
}

// Priced reports whether a USD value could be determined for the call.
func (c *ToolCallContext) Priced() bool {
	return c.TradeValue != nil
}

// CapitalCommitting reports whether the call commits capital on success.
func (c *ToolCallContext) CapitalCommitting() bool {
	return c.Kind == KindCapital
}

// Decision is the outcome of one interceptor stage. Immutable once built.
type Decision struct {
	Allowed bool
	Reason  string
	RuleID  string
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Block returns a blocking decision with a human-readable reason.
func Block(reason string) Decision {
	return Decision{Reason: reason}
}

// BlockRule returns a blocking decision attributed to a policy rule.
func BlockRule(reason, ruleID string) Decision {
	return Decision{Reason: reason, RuleID: ruleID}
}
