package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardenlabs/tradewarden/internal/cooldown"
	"github.com/wardenlabs/tradewarden/internal/gateway"
	"github.com/wardenlabs/tradewarden/internal/identity"
	"github.com/wardenlabs/tradewarden/internal/pipeline"
	"github.com/wardenlabs/tradewarden/internal/policy"
	"github.com/wardenlabs/tradewarden/internal/slippage"
	"github.com/wardenlabs/tradewarden/internal/spend"
	"github.com/wardenlabs/tradewarden/internal/tools"
	"github.com/wardenlabs/tradewarden/internal/wallet"
)

var checkFlags struct {
	policyPath string
	limitsPath string
	tool       string
	argsJSON   string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run a tool call against the pipeline without executing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := policy.NewStore(checkFlags.policyPath)
		if err != nil {
			return err
		}
		limits, err := gateway.LoadLimits(checkFlags.limitsPath)
		if err != nil {
			return err
		}
		tracker, err := spend.NewTracker(limits.Spend)
		if err != nil {
			return err
		}
		defer tracker.Close()
		guard, err := slippage.New(limits.Slippage)
		if err != nil {
			return err
		}
		gate, err := cooldown.New(limits.Cooldown)
		if err != nil {
			return err
		}

		// Check mode uses a throwaway key: the pipeline never signs.
		w, err := wallet.FromHex("0x0000000000000000000000000000000000000000000000000000000000000001")
		if err != nil {
			return err
		}
		broker := tools.NewPaperBroker()
		registry, err := tools.NewRegistry(append(broker.Tools(), tools.WalletTools(w)...)...)
		if err != nil {
			return err
		}

		var callArgs map[string]any
		if checkFlags.argsJSON != "" {
			if err := json.Unmarshal([]byte(checkFlags.argsJSON), &callArgs); err != nil {
				return fmt.Errorf("invalid --args JSON: %w", err)
			}
		}

		token, err := identity.NewToken()
		if err != nil {
			return err
		}
		verifier, err := identity.NewVerifier(token)
		if err != nil {
			return err
		}

		chain := pipeline.New(nil, store.Hash,
			policy.NewInterceptor(store, registry.KnownSet()),
			tracker, guard, gate,
		)
		gw := gateway.New(verifier, registry, chain)

		resp := gw.Check(gateway.Request{
			ToolName:        checkFlags.tool,
			Args:            callArgs,
			InvocationToken: token,
		})

		out, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(out))
		if resp.Status != "done" {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkFlags.policyPath, "policy", "policy.yaml", "policy document path")
	checkCmd.Flags().StringVar(&checkFlags.limitsPath, "limits", "limits.yaml", "limits configuration path")
	checkCmd.Flags().StringVar(&checkFlags.tool, "tool", "", "tool name to check")
	checkCmd.Flags().StringVar(&checkFlags.argsJSON, "args", "", "tool arguments as JSON")
	checkCmd.MarkFlagRequired("tool")
	rootCmd.AddCommand(checkCmd)
}
