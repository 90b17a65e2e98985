package tools

import (
	"context"
	"testing"

	"github.com/wardenlabs/tradewarden/internal/model"
)

const usdcMainnet = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"

func swapArgs() map[string]any {
	return map[string]any{
		"symbol":      "USDC",
		"input_token": usdcMainnet,
		"amount":      "250000000",
	}
}

func TestPaperQuotePricesStablecoin(t *testing.T) {
	broker := NewPaperBroker()
	var quote Tool
	for _, tool := range broker.Tools() {
		if tool.Name() == ToolSwapQuote {
			quote = tool
		}
	}
	if quote == nil {
		t.Fatal("swap_quote not offered")
	}
	if quote.Kind() != model.KindReadOnly {
		t.Errorf("expected quote to be read-only, got %s", quote.Kind())
	}

	out := runTool(t, quote, swapArgs())
	if out["amount_usd"] != "250" {
		t.Errorf("expected amount_usd 250, got %v", out["amount_usd"])
	}
	if out["input_symbol"] != "USDC" {
		t.Errorf("expected input_symbol USDC, got %v", out["input_symbol"])
	}
	if _, ok := out["price_impact_percent"].(float64); !ok {
		t.Error("expected a reported price impact")
	}
}

func TestPaperExecuteStreamsToDone(t *testing.T) {
	broker := NewPaperBroker()
	var execute Tool
	for _, tool := range broker.Tools() {
		if tool.Name() == ToolSwapExecute {
			execute = tool
		}
	}
	if execute == nil {
		t.Fatal("swap_execute not offered")
	}
	if execute.Kind() != model.KindCapital {
		t.Errorf("expected execute to be capital-committing, got %s", execute.Kind())
	}

	inv := execute.Start(context.Background(), swapArgs())
	if inv.Status() != StatusSent {
		t.Fatalf("expected sent, got %s", inv.Status())
	}
	inv.Step(context.Background())
	if inv.Status() != StatusStreaming {
		t.Fatalf("expected streaming after first step, got %s", inv.Status())
	}
	inv.Step(context.Background())
	if inv.Status() != StatusDone {
		t.Fatalf("expected done, got %s (%v)", inv.Status(), inv.Err())
	}

	out := inv.Output()
	if out["status"] != "filled" {
		t.Errorf("expected filled, got %v", out["status"])
	}
	txHash, _ := out["tx_hash"].(string)
	if len(txHash) != 2+64 {
		t.Errorf("unexpected tx hash %q", txHash)
	}
}

func TestPaperExecuteDistinctHashes(t *testing.T) {
	broker := NewPaperBroker()
	first, err := broker.execute(swapArgs())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	second, err := broker.execute(swapArgs())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if first["tx_hash"] == second["tx_hash"] {
		t.Error("expected the nonce to vary repeated fills")
	}
}

func TestPaperQuoteRejectsBadAmount(t *testing.T) {
	broker := NewPaperBroker()
	args := swapArgs()
	args["amount"] = "not-a-number"
	if _, err := broker.quote(args); err == nil {
		t.Error("expected error for malformed amount")
	}
}

func TestPaperExecuteCancellation(t *testing.T) {
	broker := NewPaperBroker()
	var execute Tool
	for _, tool := range broker.Tools() {
		if tool.Name() == ToolSwapExecute {
			execute = tool
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	inv := execute.Start(ctx, swapArgs())
	inv.Step(ctx)
	cancel()
	inv.Step(ctx)
	if inv.Status() != StatusError {
		t.Errorf("expected error after cancellation, got %s", inv.Status())
	}
}
