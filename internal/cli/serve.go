package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wardenlabs/tradewarden/internal/identity"
	"github.com/wardenlabs/tradewarden/internal/mcp"
	"github.com/wardenlabs/tradewarden/internal/policy"
)

var serveFlags struct {
	policyPath string
	limitsPath string
	auditPath  string
	keyEnv     string
	tokenEnv   string
	watch      bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the governed tool gateway over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := os.Getenv(serveFlags.tokenEnv)
		if token == "" {
			// No token configured: mint one and hand it to the operator, who
			// passes it to the script host. Never auto-trust callers.
			minted, err := identity.NewToken()
			if err != nil {
				return err
			}
			token = minted
			fmt.Fprintf(os.Stderr, "invocation token (pass to the script host): %s\n", token)
		}

		srv, err := mcp.New(mcp.Config{
			PolicyPath:   serveFlags.policyPath,
			LimitsPath:   serveFlags.limitsPath,
			AuditLogPath: serveFlags.auditPath,
			KeyEnv:       serveFlags.keyEnv,
			Token:        token,
		})
		if err != nil {
			return err
		}
		defer srv.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveFlags.watch {
			watcher, err := policy.NewWatcher(srv.Store())
			if err != nil {
				return err
			}
			go watcher.Run(ctx)
		}

		fmt.Fprintln(os.Stderr, "tradewarden gateway serving on stdio")
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.policyPath, "policy", "policy.yaml", "policy document path")
	serveCmd.Flags().StringVar(&serveFlags.limitsPath, "limits", "limits.yaml", "limits configuration path")
	serveCmd.Flags().StringVar(&serveFlags.auditPath, "audit-log", "audit.jsonl", "append-only audit log path")
	serveCmd.Flags().StringVar(&serveFlags.keyEnv, "key-env", "TRADEWARDEN_PRIVATE_KEY", "environment variable holding the hex private key")
	serveCmd.Flags().StringVar(&serveFlags.tokenEnv, "token-env", "TRADEWARDEN_TOKEN", "environment variable holding the invocation token")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", true, "hot-reload the policy document on change")
	rootCmd.AddCommand(serveCmd)
}
