package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardenlabs/tradewarden/internal/gateway"
	"github.com/wardenlabs/tradewarden/internal/policy"
)

var initFlags struct {
	policyPath string
	limitsPath string
	force      bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write starter policy and limits files",
	RunE: func(cmd *cobra.Command, args []string) error {
		files := []struct {
			path    string
			content string
		}{
			{initFlags.policyPath, policy.DefaultDocumentYAML()},
			{initFlags.limitsPath, gateway.DefaultLimitsYAML()},
		}
		for _, f := range files {
			if !initFlags.force {
				if _, err := os.Stat(f.path); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", f.path)
				}
			}
			if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", f.path)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initFlags.policyPath, "policy", "policy.yaml", "policy document path")
	initCmd.Flags().StringVar(&initFlags.limitsPath, "limits", "limits.yaml", "limits configuration path")
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "overwrite existing files")
	rootCmd.AddCommand(initCmd)
}
