package tools

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/wardenlabs/tradewarden/internal/model"
	"github.com/wardenlabs/tradewarden/internal/tokens"
	"github.com/wardenlabs/tradewarden/internal/wallet"
)

// Swap tool names.
const (
	ToolSwapQuote   = "swap_quote"
	ToolSwapExecute = "swap_execute"
)

// paperImpactPct is the simulated price impact reported by the paper broker.
const paperImpactPct = 0.3

// PaperBroker simulates quoting and swap execution against the token
// registry, standing in for a live aggregator. Executions are multi-step:
// the invocation passes through a streaming state before reaching done, so
// the gateway's drain loop is exercised on every trade.
type PaperBroker struct {
	mu    sync.Mutex
	nonce uint64
}

// NewPaperBroker creates a paper broker.
func NewPaperBroker() *PaperBroker {
	return &PaperBroker{}
}

// Tools returns the quote and execute tools backed by this broker.
func (b *PaperBroker) Tools() []Tool {
	return []Tool{
		&swapQuoteTool{broker: b},
		&swapExecuteTool{broker: b},
	}
}

var swapSchema = Schema{Fields: []Field{
	{Name: "symbol", Type: "string", Required: true},
	{Name: "input_token", Type: "string", Required: true},
	{Name: "amount", Type: "string", Required: true},
	{Name: "amount_usd", Type: "number"},
	{Name: "slippage_percent", Type: "number"},
	{Name: "price_impact_percent", Type: "number"},
	{Name: "network", Type: "string"},
}}

// quote prices a swap request against the token registry.
func (b *PaperBroker) quote(args map[string]any) (map[string]any, error) {
	inputToken, _ := args["input_token"].(string)
	amount, _ := args["amount"].(string)

	raw, err := decimal.NewFromString(amount)
	if err != nil || raw.IsNegative() {
		return nil, fmt.Errorf("amount %q is not a valid token amount", amount)
	}

	out := map[string]any{
		"price_impact_percent": paperImpactPct,
	}
	if usd, ok := tokens.USDValue(inputToken, amount); ok {
		out["amount_usd"] = usd.String()
	}
	if info, ok := tokens.Lookup(inputToken); ok {
		out["input_symbol"] = info.Symbol
		out["input_decimals"] = info.Decimals
	}
	return out, nil
}

// execute simulates a fill and returns a deterministic paper tx hash.
func (b *PaperBroker) execute(args map[string]any) (map[string]any, error) {
	quoted, err := b.quote(args)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.nonce++
	nonce := b.nonce
	b.mu.Unlock()

	symbol, _ := args["symbol"].(string)
	amount, _ := args["amount"].(string)
	seed := fmt.Sprintf("paper:%s:%s:%d", symbol, amount, nonce)
	txHash := wallet.Keccak256([]byte(seed))

	quoted["tx_hash"] = "0x" + hex.EncodeToString(txHash)
	quoted["status"] = "filled"
	return quoted, nil
}

type swapQuoteTool struct {
	broker *PaperBroker
}

func (t *swapQuoteTool) Name() string           { return ToolSwapQuote }
func (t *swapQuoteTool) Kind() model.ActionKind { return model.KindReadOnly }
func (t *swapQuoteTool) Schema() Schema         { return swapSchema }

func (t *swapQuoteTool) Start(_ context.Context, args map[string]any) Invocation {
	return Immediate(func(context.Context) (map[string]any, error) {
		return t.broker.quote(args)
	})
}

type swapExecuteTool struct {
	broker *PaperBroker
}

func (t *swapExecuteTool) Name() string           { return ToolSwapExecute }
func (t *swapExecuteTool) Kind() model.ActionKind { return model.KindCapital }
func (t *swapExecuteTool) Schema() Schema         { return swapSchema }

func (t *swapExecuteTool) Start(_ context.Context, args map[string]any) Invocation {
	return &swapExecution{broker: t.broker, args: args, status: StatusSent}
}

// swapExecution advances sent -> streaming -> done so callers must drain.
type swapExecution struct {
	broker *PaperBroker
	args   map[string]any
	status Status
	out    map[string]any
	err    error
}

func (e *swapExecution) Status() Status         { return e.status }
func (e *swapExecution) Output() map[string]any { return e.out }
func (e *swapExecution) Err() error             { return e.err }

func (e *swapExecution) Step(ctx context.Context) error {
	if e.status.Terminal() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		e.status = StatusError
		e.err = err
		return err
	}

	switch e.status {
	case StatusSent:
		e.status = StatusStreaming
		return nil
	default:
		out, err := e.broker.execute(e.args)
		if err != nil {
			e.status = StatusError
			e.err = err
			return err
		}
		e.status = StatusDone
		e.out = out
		return nil
	}
}
