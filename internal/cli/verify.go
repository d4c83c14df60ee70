package cli

import (
	"github.com/spf13/cobra"

	"github.com/upcade/vaultctl/internal/cli/render"
	"github.com/upcade/vaultctl/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the Vault implementation and proxy on the block explorer",
		Long: `Submit the UpcadeVault sources for the implementation and the proxy address
to the explorer configured for the network. Both submissions are attempted
even when the first one fails, unless --fail-fast is set.

Environment:
  VAULT_IMPLEMENTATION_ADDRESS   implementation address
  VAULT_PROXY_ADDRESS            proxy address
  ABSCAN_API_KEY                 explorer API key (ABSCAN_TESTNET_API_KEY on test)

Examples:
  vaultctl verify
  vaultctl verify --network main --fail-fast`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, runErr := app.VerifyVault.Run(cmd.Context(), usecase.VerifyVaultOptions{FailFast: failFast})
			if result != nil {
				renderer := render.NewVerifyRenderer(cmd.OutOrStdout())
				if err := renderer.Render(result); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop after the first failed verification")

	return cmd
}
