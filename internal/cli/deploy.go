package cli

import (
	"github.com/spf13/cobra"

	"github.com/upcade/vaultctl/internal/cli/render"
	"github.com/upcade/vaultctl/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		feeRecipient string
		yes          bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a new Vault implementation and proxy",
		Long: `Deploy a fresh UpcadeVault implementation, then an ERC1967 proxy pointing at
it and initialized with initialize(FEE_RECIPIENT).

Every run creates new contracts; nothing is upgraded in place.

Environment:
  PRIVATE_KEY      deployer key (WALLET_PRIVATE_KEY is accepted as a fallback)
  FEE_RECIPIENT    address passed to initialize (defaults to the zero address)

Examples:
  vaultctl deploy
  vaultctl deploy --network main --yes
  vaultctl deploy --fee-recipient 0x1234...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployVault.Run(cmd.Context(), usecase.DeployVaultParams{
				FeeRecipient: feeRecipient,
				SkipConfirm:  yes,
			})
			if err != nil {
				return err
			}

			renderer := render.NewDeployRenderer(cmd.OutOrStdout())
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&feeRecipient, "fee-recipient", "", "Fee recipient address (overrides FEE_RECIPIENT)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt on main")

	return cmd
}
