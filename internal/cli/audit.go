package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardenlabs/tradewarden/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <audit-log>",
	Short: "Verify the audit log hash chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := audit.Verify(args[0])
		if !result.Valid {
			fmt.Fprintf(os.Stderr, "chain broken at line %d: %v\n", result.ErrorLine, result.Error)
			os.Exit(1)
		}
		fmt.Printf("chain intact, %d entries\n", result.Lines)
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditVerifyCmd)
	rootCmd.AddCommand(auditCmd)
}
