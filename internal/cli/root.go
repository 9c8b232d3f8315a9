package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotsync-labs/dotsync/internal/branding"
	"github.com/dotsync-labs/dotsync/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps a project's configuration files in step with a skeleton repository.
Each managed path follows a rule from the sync manifest: replaced wholesale, regenerated
around a custom region, added once, or patched declaratively. Paths the project locks
in its package.json are never touched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render("Error: ")+err.Error())
	}
	return err
}

// isVerbose combines the flag with the config file setting.
func isVerbose() bool {
	return verbose || config.GetBool(config.KeyVerbose)
}
