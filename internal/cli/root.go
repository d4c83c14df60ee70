package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/upcade/vaultctl/internal/adapters/progress"
	"github.com/upcade/vaultctl/internal/app"
	"github.com/upcade/vaultctl/internal/config"
	"github.com/upcade/vaultctl/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmd()
	return rootCmd
}

// newRootCmd also returns a cleanup that stops the spinner and releases the
// command context. Cobra skips post-run hooks when RunE fails, so the caller
// runs it after Execute returns.
func newRootCmd() (*cobra.Command, func()) {
	var (
		cancel  context.CancelFunc
		spinner *progress.SpinnerProgressReporter
	)
	cleanup := func() {
		if spinner != nil {
			spinner.Stop()
		}
		if cancel != nil {
			cancel()
		}
	}

	rootCmd := &cobra.Command{
		Use:   "vaultctl",
		Short: "Deploy, administer and verify the Upcade Vault on Abstract",
		Long: `vaultctl deploys the Upcade Vault behind an ERC1967 proxy on the Abstract
rollup, grants the manager role on it and verifies its sources on the
block explorer.

Secrets and addresses are read from the environment (.env and .env.local
in the project root are loaded too). Use --network to pick test or main.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipAppInit(cmd) {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				var err error
				projectRoot, err = config.FindProjectRoot()
				if err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)

			if isNonInteractive(v) {
				v.Set("non_interactive", true)
			}

			var sink usecase.ProgressSink
			if usePlainOutput(v) {
				sink = progress.NewLineSink()
			} else {
				spinner = progress.NewSpinnerProgressReporter()
				sink = spinner
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (test or main)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts and spinners")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort the command after this duration (default 10m)")
	rootCmd.PersistentFlags().String("project-root", "", "Project directory (defaults to the nearest directory with vaultctl.toml, hardhat.config.ts or .env)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Vault Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewGrantRoleCmd(), NewVerifyCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewNetworksCmd(), NewDeploymentsCmd(), NewConfigCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd, cleanup
}

// Execute runs the root command
func Execute() error {
	rootCmd, cleanup := newRootCmd()
	defer cleanup()
	return rootCmd.Execute()
}

func skipAppInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// isNonInteractive reports whether prompts must be skipped. Only an explicit
// flag or CI=true qualifies since it also confirms mainnet deployments.
func isNonInteractive(v *viper.Viper) bool {
	return v.GetBool("non_interactive") || os.Getenv("CI") == "true"
}

// usePlainOutput reports whether progress is printed as lines instead of a spinner
func usePlainOutput(v *viper.Viper) bool {
	return isNonInteractive(v) || os.Getenv("NO_COLOR") != ""
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
