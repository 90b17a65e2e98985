package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradewarden",
	Short: "Governance gateway and key custody for LLM-directed trading scripts",
	Long: "Sits between an untrusted decision script and financial capabilities. " +
		"Every tool call passes an ordered chain of policy, spend, slippage, and " +
		"cooldown checks; signing stays inside the wallet module and every " +
		"decision lands in a tamper-evident audit log.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
