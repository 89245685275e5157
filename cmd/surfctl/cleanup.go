package main

import (
	"path/filepath"

	"github.com/deppfellow/surf-tools/internal/cleanup"
	"github.com/deppfellow/surf-tools/internal/console"
	"github.com/spf13/cobra"
)

func newCleanupCommand(root *rootOptions) *cobra.Command {
	var (
		dir string
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete Vite files and build output that break Vercel deployments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := root.load()
			if err != nil {
				return err
			}
			defer rt.close()

			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			out := console.NewPrinter(cmd.OutOrStdout())
			out.Println("🧹 SURF APP CLEANUP SCRIPT")
			out.Println("This will delete files causing Vercel deployment issues...")

			if !yes {
				ok, err := console.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "\nProceed with cleanup?")
				if err != nil {
					return err
				}
				if !ok {
					out.Println("Cleanup cancelled.")
					return nil
				}
			}

			cleaner := cleanup.New(abs, cmd.OutOrStdout(), rt.logger)
			cleaner.PrintSummary(cleaner.Run())
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory to clean")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
