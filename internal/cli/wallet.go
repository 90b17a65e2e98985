package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardenlabs/tradewarden/internal/wallet"
)

var walletFlags struct {
	keyEnv string
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Wallet operations",
}

var walletAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the checksummed address derived from the configured key",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wallet.FromEnv(walletFlags.keyEnv)
		if err != nil {
			return err
		}
		fmt.Println(w.Address())
		return nil
	},
}

func init() {
	walletCmd.PersistentFlags().StringVar(&walletFlags.keyEnv, "key-env", "TRADEWARDEN_PRIVATE_KEY", "environment variable holding the hex private key")
	walletCmd.AddCommand(walletAddressCmd)
	rootCmd.AddCommand(walletCmd)
}
