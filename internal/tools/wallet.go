package tools

import (
	"context"
	"fmt"

	"github.com/wardenlabs/tradewarden/internal/model"
	"github.com/wardenlabs/tradewarden/internal/wallet"
)

// Tool names of the wallet signing ladder, from least to most capable.
const (
	ToolDeriveAddress = "wallet_derive_address"
	ToolSignMessage   = "wallet_sign_message"
	ToolSignTx        = "wallet_sign_tx"
)

// WalletTools returns the three signing-ladder tools over a wallet. Each is
// independently policy-governable; the signatures and hashes they return
// never include key material.
func WalletTools(w *wallet.Wallet) []Tool {
	return []Tool{
		&deriveAddressTool{w: w},
		&signMessageTool{w: w},
		&signTxTool{w: w},
	}
}

type deriveAddressTool struct {
	w *wallet.Wallet
}

func (t *deriveAddressTool) Name() string           { return ToolDeriveAddress }
func (t *deriveAddressTool) Kind() model.ActionKind { return model.KindReadOnly }
func (t *deriveAddressTool) Schema() Schema         { return Schema{} }

func (t *deriveAddressTool) Start(_ context.Context, _ map[string]any) Invocation {
	return Immediate(func(context.Context) (map[string]any, error) {
		return map[string]any{"address": t.w.Address()}, nil
	})
}

type signMessageTool struct {
	w *wallet.Wallet
}

func (t *signMessageTool) Name() string           { return ToolSignMessage }
func (t *signMessageTool) Kind() model.ActionKind { return model.KindReadOnly }

func (t *signMessageTool) Schema() Schema {
	return Schema{Fields: []Field{
		{Name: "message", Type: "string", Required: true},
	}}
}

func (t *signMessageTool) Start(_ context.Context, args map[string]any) Invocation {
	return Immediate(func(context.Context) (map[string]any, error) {
		message, _ := args["message"].(string)
		signed, err := t.w.SignMessage(message)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"address":      signed.Address,
			"message_hash": signed.MessageHash,
			"signature":    signed.Signature,
		}, nil
	})
}

type signTxTool struct {
	w *wallet.Wallet
}

func (t *signTxTool) Name() string { return ToolSignTx }

// Kind is capital-committing: a transaction signature authorizes value
// transfer the moment anything broadcasts it.
func (t *signTxTool) Kind() model.ActionKind { return model.KindCapital }

func (t *signTxTool) Schema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "tx_hash", Type: "string"},
			{Name: "tx_bytes", Type: "string"},
		},
		ExactlyOne: []string{"tx_hash", "tx_bytes"},
	}
}

func (t *signTxTool) Start(_ context.Context, args map[string]any) Invocation {
	return Immediate(func(context.Context) (map[string]any, error) {
		var signed wallet.SignedTx

		if hexHash, ok := args["tx_hash"].(string); ok {
			raw, err := wallet.DecodeHex(hexHash)
			if err != nil {
				return nil, fmt.Errorf("tx_hash: %w", err)
			}
			signed, err = t.w.SignTxHash(raw)
			if err != nil {
				return nil, err
			}
		} else {
			hexBytes, _ := args["tx_bytes"].(string)
			raw, err := wallet.DecodeHex(hexBytes)
			if err != nil {
				return nil, fmt.Errorf("tx_bytes: %w", err)
			}
			signed, err = t.w.SignTxBytes(raw)
			if err != nil {
				return nil, err
			}
		}

		return map[string]any{
			"address":   signed.Address,
			"hash":      signed.Hash,
			"signature": signed.Signature,
		}, nil
	})
}
