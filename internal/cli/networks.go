package cli

import (
	"github.com/spf13/cobra"

	"github.com/upcade/vaultctl/internal/cli/render"
	"github.com/upcade/vaultctl/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List the configured networks",
		Long: `List the test and main network descriptors after vaultctl.toml overrides.

With --probe each RPC endpoint is asked for its chain id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{Probe: probe})
			if err != nil {
				return err
			}

			renderer := render.NewNetworksRenderer(cmd.OutOrStdout())
			return renderer.RenderNetworksList(result)
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Query each RPC endpoint for its chain id")

	return cmd
}
