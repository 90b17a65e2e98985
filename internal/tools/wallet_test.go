package tools

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/wardenlabs/tradewarden/internal/model"
	"github.com/wardenlabs/tradewarden/internal/wallet"
)

const devKeyHex = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func devWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.FromHex(devKeyHex)
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}
	return w
}

func runTool(t *testing.T, tool Tool, args map[string]any) map[string]any {
	t.Helper()
	inv := tool.Start(context.Background(), args)
	for !inv.Status().Terminal() {
		inv.Step(context.Background())
	}
	if inv.Status() != StatusDone {
		t.Fatalf("tool %s failed: %v", tool.Name(), inv.Err())
	}
	return inv.Output()
}

func lookupWalletTool(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range WalletTools(devWallet(t)) {
		if tool.Name() == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found", name)
	return nil
}

func TestWalletToolKinds(t *testing.T) {
	kinds := map[string]model.ActionKind{
		ToolDeriveAddress: model.KindReadOnly,
		ToolSignMessage:   model.KindReadOnly,
		ToolSignTx:        model.KindCapital,
	}
	for _, tool := range WalletTools(devWallet(t)) {
		if tool.Kind() != kinds[tool.Name()] {
			t.Errorf("tool %s has kind %s, expected %s", tool.Name(), tool.Kind(), kinds[tool.Name()])
		}
	}
}

func TestDeriveAddressTool(t *testing.T) {
	out := runTool(t, lookupWalletTool(t, ToolDeriveAddress), nil)
	addr, _ := out["address"].(string)
	if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
		t.Errorf("unexpected address %q", addr)
	}
}

func TestSignMessageTool(t *testing.T) {
	out := runTool(t, lookupWalletTool(t, ToolSignMessage), map[string]any{"message": "hello"})
	for _, field := range []string{"address", "message_hash", "signature"} {
		if _, ok := out[field].(string); !ok {
			t.Errorf("expected string field %q in output", field)
		}
	}
}

func TestSignTxToolHashPath(t *testing.T) {
	tool := lookupWalletTool(t, ToolSignTx)
	hash := "0x" + strings.Repeat("ab", 32)

	out := runTool(t, tool, map[string]any{"tx_hash": hash})
	if out["hash"] != hash {
		t.Errorf("expected hash echoed, got %v", out["hash"])
	}
	sig, _ := out["signature"].(string)
	if len(sig) != 2+130 {
		t.Errorf("unexpected signature length %d", len(sig))
	}
}

func TestSignTxToolBytesPath(t *testing.T) {
	tool := lookupWalletTool(t, ToolSignTx)

	viaBytes := runTool(t, tool, map[string]any{"tx_bytes": "0xdeadbeef"})
	hashed := wallet.Keccak256([]byte{0xde, 0xad, 0xbe, 0xef})
	viaHash := runTool(t, tool, map[string]any{"tx_hash": "0x" + hex.EncodeToString(hashed)})

	if viaBytes["signature"] != viaHash["signature"] {
		t.Error("expected tx_bytes path to match signing the keccak digest")
	}
}

func TestSignTxToolRejectsBadHex(t *testing.T) {
	tool := lookupWalletTool(t, ToolSignTx)
	inv := tool.Start(context.Background(), map[string]any{"tx_hash": "0xnothex"})
	for !inv.Status().Terminal() {
		inv.Step(context.Background())
	}
	if inv.Status() != StatusError {
		t.Error("expected error status for invalid hex")
	}
}

func TestSignTxSchemaRequiresExactlyOneInput(t *testing.T) {
	schema := lookupWalletTool(t, ToolSignTx).Schema()
	if err := schema.Validate(map[string]any{}); err == nil {
		t.Error("expected neither input rejected")
	}
	if err := schema.Validate(map[string]any{"tx_hash": "0xab", "tx_bytes": "0xcd"}); err == nil {
		t.Error("expected both inputs rejected")
	}
}
