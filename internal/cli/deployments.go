package cli

import (
	"github.com/spf13/cobra"

	"github.com/upcade/vaultctl/internal/cli/render"
	"github.com/upcade/vaultctl/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List deployments recorded by this project",
		Long: `List the implementation and proxy pairs written to .vaultctl/deployments.json
by previous deploy runs. Only the selected network is shown unless --all is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{AllNetworks: all})
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout())
			return renderer.RenderDeploymentList(result)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show deployments on every network")

	return cmd
}
