package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/parcel/internal/app"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install all packages from the project's lockfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := projectPath(cmd)
			if err != nil {
				return err
			}
			workers, _ := cmd.Flags().GetInt("workers")

			return c.app.Install(cmd.Context(), path, app.InstallOptions{Workers: workers})
		},
	}

	cmd.Flags().IntP("workers", "w", 0, "Number of concurrent downloads (0 uses the default)")

	return cmd
}
