package cli

import (
	"github.com/spf13/cobra"

	"github.com/upcade/vaultctl/internal/cli/render"
	"github.com/upcade/vaultctl/internal/usecase"
)

// NewGrantRoleCmd creates the grant-role command
func NewGrantRoleCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "grant-role",
		Short: "Grant the manager role on the deployed Vault",
		Long: `Read the role id from the Vault (MANAGER_ROLE by default) and call
grantRole(role, MANAGER) on the Vault at VAULT.

Environment:
  PRIVATE_KEY   admin key (WALLET_PRIVATE_KEY is accepted as a fallback)
  VAULT         Vault proxy address
  MANAGER       account receiving the role

Examples:
  vaultctl grant-role
  vaultctl grant-role --network main
  vaultctl grant-role --role DEFAULT_ADMIN_ROLE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.GrantRole.Run(cmd.Context(), usecase.GrantRoleParams{RoleGetter: role})
			if err != nil {
				return err
			}

			renderer := render.NewGrantRenderer(cmd.OutOrStdout())
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&role, "role", usecase.DefaultRoleGetter, "Name of the bytes32 role constant getter on the Vault")

	return cmd
}
