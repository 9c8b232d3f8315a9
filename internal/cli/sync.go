package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotsync-labs/dotsync/internal/sync"
)

var (
	syncProject  string
	syncSkeleton string
	syncManifest string
	syncDryRun   bool
	syncNoHooks  bool
	syncJSON     bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize a project with the skeleton",
	Long: `Apply every rule of the sync manifest to the project, then run the
regeneration hooks. Locked paths are skipped. Running sync twice in a row
changes nothing the second time.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncProject, "project", "p", ".", "Project directory")
	syncCmd.Flags().StringVarP(&syncSkeleton, "skeleton", "s", "", "Skeleton directory (default: config key skeleton)")
	syncCmd.Flags().StringVarP(&syncManifest, "manifest", "m", "", "Sync manifest (default: <skeleton>/dotsync.yaml or built-in)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report what would change without writing")
	syncCmd.Flags().BoolVar(&syncNoHooks, "no-hooks", false, "Skip regeneration hooks")
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	skeleton, err := resolveSkeleton(syncSkeleton)
	if err != nil {
		return err
	}
	m, err := loadManifest(syncManifest, skeleton)
	if err != nil {
		return err
	}

	engine, err := sync.NewEngine(sync.Options{
		ProjectRoot:  syncProject,
		SkeletonRoot: skeleton,
		Manifest:     m,
		Version:      buildVersion,
		Logger:       newLogger(cmd.ErrOrStderr()),
		DryRun:       syncDryRun,
		NoHooks:      syncNoHooks,
	})
	if err != nil {
		return err
	}

	report, runErr := engine.Run(cmd.Context())
	if report != nil {
		if syncJSON {
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		} else {
			printReport(cmd.OutOrStdout(), report)
		}
	}
	return runErr
}
