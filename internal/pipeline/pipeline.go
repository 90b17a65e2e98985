// Package pipeline composes the governance stages into a fixed, ordered,
// short-circuiting chain wrapped by an audit boundary.
package pipeline

import (
	"fmt"
	"os"

	"github.com/wardenlabs/tradewarden/internal/audit"
	"github.com/wardenlabs/tradewarden/internal/model"
)

// Interceptor is one governance stage. Decide must not block unboundedly;
// any external lookup a stage depends on has to be time-bounded and turn a
// timeout into a Block, never a hang.
type Interceptor interface {
	Name() string
	Decide(ctx *model.ToolCallContext) model.Decision
}

// Recorder is implemented by state-bearing stages (spend tracker, cooldown
// gate). Record is invoked only after a call reaches a successful terminal
// state; attempted or failed calls never mutate stage state.
type Recorder interface {
	Record(ctx *model.ToolCallContext, outcome model.Outcome)
}

// Releaser is implemented by stages that reserve capacity during Decide.
// Release drops the reservation when the call ends any way but success.
type Releaser interface {
	Release(ctx *model.ToolCallContext)
}

// Sink receives one audit entry per call attempt. *audit.Log satisfies it.
type Sink interface {
	Record(entry audit.Entry) error
}

// Chain evaluates its stages strictly in the order given at construction:
// policy, spend limit, slippage guard, cooldown. The first Block stops
// further evaluation; the audit boundary fires regardless of where the
// chain stopped.
type Chain struct {
	stages     []Interceptor
	sink       Sink
	policyHash func() string
}

// New builds a chain. The policyHash callback is read per entry so audit
// records stay attributable across hot reloads. A nil sink disables the
// audit boundary (dry-run tooling only).
func New(sink Sink, policyHash func() string, stages ...Interceptor) *Chain {
	if policyHash == nil {
		policyHash = func() string { return "" }
	}
	return &Chain{stages: stages, sink: sink, policyHash: policyHash}
}

// Admit runs the stages in order. On the first Block it releases any
// reservations earlier stages took, records the audit entry, and returns
// the blocking decision with the name of the stage that blocked. On Allow
// the entry is deferred to Finish, which must be called once the execution
// reaches a terminal state.
func (c *Chain) Admit(ctx *model.ToolCallContext) (model.Decision, string) {
	for _, stage := range c.stages {
		decision := stage.Decide(ctx)
		if decision.Allowed {
			continue
		}
		c.releaseAll(ctx)
		c.write(ctx, audit.Entry{
			Decision: audit.DecisionBlock,
			Stage:    stage.Name(),
			Reason:   decision.Reason,
			RuleID:   decision.RuleID,
		})
		return decision, stage.Name()
	}
	return model.Allow(), ""
}

// Finish completes an admitted call. A successful outcome runs the Record
// hooks; every other outcome releases reservations instead. Exactly one
// audit entry is written either way.
func (c *Chain) Finish(ctx *model.ToolCallContext, outcome model.Outcome, execErr error) {
	if outcome == model.OutcomeSuccess {
		for _, stage := range c.stages {
			if r, ok := stage.(Recorder); ok {
				r.Record(ctx, outcome)
			}
		}
	} else {
		c.releaseAll(ctx)
	}

	entry := audit.Entry{
		Decision: audit.DecisionAllow,
		Outcome:  string(outcome),
	}
	if execErr != nil {
		entry.Reason = execErr.Error()
	}
	c.write(ctx, entry)
}

// Reject records a pre-pipeline rejection (authentication, schema) so every
// call attempt leaves exactly one audit entry. Authentication rejections
// carry their own decision value and never read as policy blocks.
func (c *Chain) Reject(ctx *model.ToolCallContext, decision, stage, reason string) {
	c.write(ctx, audit.Entry{
		Decision: decision,
		Stage:    stage,
		Reason:   reason,
	})
}

func (c *Chain) releaseAll(ctx *model.ToolCallContext) {
	for _, stage := range c.stages {
		if r, ok := stage.(Releaser); ok {
			r.Release(ctx)
		}
	}
}

func (c *Chain) write(ctx *model.ToolCallContext, entry audit.Entry) {
	if c.sink == nil {
		return
	}
	entry.CallID = ctx.CallID
	entry.Tool = ctx.Tool
	entry.Kind = string(ctx.Kind)
	entry.Network = ctx.Network
	entry.PolicyHash = c.policyHash()
	if ctx.Priced() {
		entry.TradeValue = ctx.TradeValue.String()
	}
	if err := c.sink.Record(entry); err != nil {
		fmt.Fprintf(os.Stderr, "audit write failed: %v\n", err)
	}
}
