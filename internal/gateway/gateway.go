// Package gateway is the sole bridge between the sandboxed decision script
// and host capabilities. Every call is authenticated, schema-validated,
// driven through the governance pipeline, and drained to a terminal status
// before control returns to the script.
package gateway

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wardenlabs/tradewarden/internal/audit"
	"github.com/wardenlabs/tradewarden/internal/identity"
	"github.com/wardenlabs/tradewarden/internal/model"
	"github.com/wardenlabs/tradewarden/internal/pipeline"
	"github.com/wardenlabs/tradewarden/internal/tokens"
	"github.com/wardenlabs/tradewarden/internal/tools"
)

// Request is a tool call from the script.
type Request struct {
	ToolName        string         `json:"tool_name"`
	Args            map[string]any `json:"args"`
	InvocationToken string         `json:"invocation_token"`
}

// Response is the terminal result returned to the script. Status is always
// "done" or "error"; intermediate streaming states are drained internally.
type Response struct {
	Status string         `json:"status"`
	Output map[string]any `json:"output,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError carries the rejection taxonomy and a human-readable reason.
type ResponseError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	RuleID  string `json:"rule_id,omitempty"`
}

// Error kinds surfaced to the script.
const (
	KindAuthenticationFailure = "authentication_failure"
	KindSchemaViolation       = "schema_violation"
	KindPolicyDenied          = "policy_denied"
	KindLimitExceeded         = "limit_exceeded"
	KindExecutionError        = "execution_error"
	KindCancelled             = "cancelled"
)

// Gateway drives tool calls through authentication, schema validation, the
// governance pipeline, and execution.
type Gateway struct {
	verifier *identity.Verifier
	registry *tools.Registry
	chain    *pipeline.Chain
	now      func() time.Time
}

// New assembles a gateway.
func New(verifier *identity.Verifier, registry *tools.Registry, chain *pipeline.Chain) *Gateway {
	return &Gateway{
		verifier: verifier,
		registry: registry,
		chain:    chain,
		now:      time.Now,
	}
}

// Invoke handles one tool call end to end. The returned response is always
// terminal; a cancelled ctx abandons the call without recording any
// tracker state.
func (g *Gateway) Invoke(ctx context.Context, req Request) Response {
	call, resp := g.admit(req)
	if resp != nil {
		return *resp
	}

	tool, _ := g.registry.Lookup(req.ToolName)
	return g.execute(ctx, tool, call)
}

// ToolNames returns the registered tool names.
func (g *Gateway) ToolNames() []string {
	return g.registry.Names()
}

// Check runs authentication, schema validation, and the pipeline without
// executing the tool. Reservations taken during admission are released and
// the attempt is audited as abandoned.
func (g *Gateway) Check(req Request) Response {
	call, resp := g.admit(req)
	if resp != nil {
		return *resp
	}
	g.chain.Finish(call, model.OutcomeAbandoned, nil)
	return Response{
		Status: "done",
		Output: map[string]any{"decision": "allow", "dry_run": true},
	}
}

// admit performs the pre-execution ladder: token, registry, schema,
// context build, pipeline. It returns a terminal response on rejection.
func (g *Gateway) admit(req Request) (*model.ToolCallContext, *Response) {
	call := g.buildContext(req)

	// Token first. An authentication failure is not a policy decision and
	// must not read as a policy block in the audit stream.
	if !g.verifier.Verify(req.InvocationToken) {
		g.chain.Reject(call, audit.DecisionAuthReject, "authentication", "invalid or missing invocation token")
		return nil, errResponse(KindAuthenticationFailure, "invalid or missing invocation token", "")
	}

	tool, ok := g.registry.Lookup(req.ToolName)
	if !ok {
		g.chain.Reject(call, audit.DecisionBlock, "policy", fmt.Sprintf("unknown tool %s", req.ToolName))
		return nil, errResponse(KindPolicyDenied, fmt.Sprintf("unknown tool %s", req.ToolName), "policy.unknown_tool")
	}

	if err := tool.Schema().Validate(req.Args); err != nil {
		g.chain.Reject(call, audit.DecisionBlock, "schema", err.Error())
		return nil, errResponse(KindSchemaViolation, err.Error(), "")
	}

	// Rebuild with the tool's declared kind now that the tool is known.
	call = g.finishContext(call, tool)

	if decision, stage := g.chain.Admit(call); !decision.Allowed {
		kind := KindLimitExceeded
		if stage == "policy" {
			kind = KindPolicyDenied
		}
		return nil, errResponse(kind, decision.Reason, decision.RuleID)
	}

	return call, nil
}

// execute drains the invocation to a terminal status. The script never
// observes a half-finished call.
func (g *Gateway) execute(ctx context.Context, tool tools.Tool, call *model.ToolCallContext) Response {
	inv := tool.Start(ctx, call.Args)

	for !inv.Status().Terminal() {
		if err := ctx.Err(); err != nil {
			// Abandoned: release reservations, never record success state.
			g.chain.Finish(call, model.OutcomeAbandoned, err)
			return *errResponse(KindCancelled, "call abandoned: "+err.Error(), "")
		}
		inv.Step(ctx)
	}

	if inv.Status() == tools.StatusError {
		execErr := &model.ExecutionError{Tool: call.Tool, Err: inv.Err()}
		g.chain.Finish(call, model.OutcomeError, execErr)
		return *errResponse(KindExecutionError, execErr.Error(), "")
	}

	g.chain.Finish(call, model.OutcomeSuccess, nil)
	return Response{Status: "done", Output: inv.Output()}
}

// buildContext creates the immutable per-call context. The action kind is
// stamped by finishContext once the tool is resolved; rejections before
// that point never reach the pipeline.
func (g *Gateway) buildContext(req Request) *model.ToolCallContext {
	args := req.Args
	if args == nil {
		args = map[string]any{}
	}
	raw, _ := json.Marshal(args)

	call := &model.ToolCallContext{
		CallID:      newCallID(),
		Tool:        req.ToolName,
		Args:        args,
		RawArgs:     raw,
		RequestedAt: g.now().UTC(),
	}
	if s, ok := args["symbol"].(string); ok {
		call.Symbol = s
	}
	if n, ok := args["network"].(string); ok {
		call.Network = n
	}
	call.TradeValue = priceArgs(args)
	return call
}

// finishContext stamps the resolved tool's action kind onto a fresh copy.
func (g *Gateway) finishContext(call *model.ToolCallContext, tool tools.Tool) *model.ToolCallContext {
	finished := *call
	finished.Kind = tool.Kind()
	return &finished
}

// priceArgs determines the trade's USD value. An explicit amount_usd wins;
// otherwise stablecoin amounts are priced 1:1 via the token registry.
// Anything else stays unpriced and the spend tracker's configured policy
// decides.
func priceArgs(args map[string]any) *decimal.Decimal {
	switch usd := args["amount_usd"].(type) {
	case float64:
		v := decimal.NewFromFloat(usd)
		return &v
	case int:
		v := decimal.NewFromInt(int64(usd))
		return &v
	}

	token, _ := args["input_token"].(string)
	amount, _ := args["amount"].(string)
	if token == "" || amount == "" {
		return nil
	}
	if v, ok := tokens.USDValue(token, amount); ok {
		return &v
	}
	return nil
}

func errResponse(kind, message, ruleID string) *Response {
	return &Response{
		Status: "error",
		Error:  &ResponseError{Kind: kind, Message: message, RuleID: ruleID},
	}
}

func newCallID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("call-%x", time.Now().UnixNano())
	}
	return "call-" + hex.EncodeToString(b)
}
