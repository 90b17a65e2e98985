// Package mcp exposes the tool invocation gateway over the Model Context
// Protocol on stdio, the transport the script host speaks.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wardenlabs/tradewarden/internal/audit"
	"github.com/wardenlabs/tradewarden/internal/cooldown"
	"github.com/wardenlabs/tradewarden/internal/gateway"
	"github.com/wardenlabs/tradewarden/internal/identity"
	"github.com/wardenlabs/tradewarden/internal/model"
	"github.com/wardenlabs/tradewarden/internal/pipeline"
	"github.com/wardenlabs/tradewarden/internal/policy"
	"github.com/wardenlabs/tradewarden/internal/slippage"
	"github.com/wardenlabs/tradewarden/internal/spend"
	"github.com/wardenlabs/tradewarden/internal/tools"
	"github.com/wardenlabs/tradewarden/internal/wallet"
)

// Config holds MCP server configuration.
type Config struct {
	PolicyPath   string
	LimitsPath   string
	AuditLogPath string
	KeyEnv       string
	Token        string
}

// Server wraps the MCP SDK server around the governed gateway.
type Server struct {
	mcpServer *mcpsdk.Server
	gw        *gateway.Gateway
	store     *policy.Store
	tracker   *spend.Tracker
	auditLog  *audit.Log
}

// New loads policy, limits, and key material and assembles the full
// pipeline. Any configuration failure refuses service.
func New(cfg Config) (*Server, error) {
	if cfg.AuditLogPath == "" {
		return nil, fmt.Errorf("%w: audit log path is required", model.ErrFatalConfiguration)
	}

	store, err := policy.NewStore(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFatalConfiguration, err)
	}

	limits, err := gateway.LoadLimits(cfg.LimitsPath)
	if err != nil {
		return nil, err
	}

	tracker, err := spend.NewTracker(limits.Spend)
	if err != nil {
		return nil, err
	}
	guard, err := slippage.New(limits.Slippage)
	if err != nil {
		return nil, err
	}
	gate, err := cooldown.New(limits.Cooldown)
	if err != nil {
		return nil, err
	}

	w, err := wallet.FromEnv(cfg.KeyEnv)
	if err != nil {
		return nil, err
	}

	broker := tools.NewPaperBroker()
	registry, err := tools.NewRegistry(append(broker.Tools(), tools.WalletTools(w)...)...)
	if err != nil {
		return nil, err
	}

	doc, _ := store.Document()
	if err := doc.ValidateTools(registry.KnownSet()); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFatalConfiguration, err)
	}

	auditLog, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		return nil, err
	}

	verifier, err := identity.NewVerifier(cfg.Token)
	if err != nil {
		auditLog.Close()
		return nil, err
	}

	chain := pipeline.New(auditLog, store.Hash,
		policy.NewInterceptor(store, registry.KnownSet()),
		tracker,
		guard,
		gate,
	)

	s := &Server{
		gw:       gateway.New(verifier, registry, chain),
		store:    store,
		tracker:  tracker,
		auditLog: auditLog,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "tradewarden",
			Version: "0.1.0",
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Store exposes the policy store so callers can attach a hot-reload
// watcher.
func (s *Server) Store() *policy.Store { return s.store }

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases the audit log and spend journal.
func (s *Server) Close() error {
	err := s.auditLog.Close()
	if cerr := s.tracker.Close(); err == nil {
		err = cerr
	}
	return err
}

// registerTools adds the gateway surface to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "warden_invoke",
		Description: "Invoke a governed tool. The call passes policy, spend, slippage, and cooldown checks; blocked calls return the blocking reason.",
	}, s.handleInvoke)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "warden_check",
		Description: "Dry-run a tool call against the governance pipeline without executing it.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "warden_list_tools",
		Description: "List the registered tool names.",
	}, s.handleListTools)
}
