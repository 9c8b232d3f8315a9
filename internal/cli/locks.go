package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotsync-labs/dotsync/internal/jsondoc"
	"github.com/dotsync-labs/dotsync/internal/lockset"
	"github.com/dotsync-labs/dotsync/internal/project"
)

var locksProject string

var locksCmd = &cobra.Command{
	Use:   "locks",
	Short: "List the paths a project has locked",
	Long: `Print the lock list from the project's package.json (key path
config.c10n.&.dotfiles.lock) as resolved absolute paths.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := project.Load(locksProject)
		if err != nil {
			return err
		}
		set, err := lockset.New(locksProject, md.Locks)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if set.Len() == 0 {
			fmt.Fprintf(out, "No locks declared at %s.\n", jsondoc.JoinPath(project.LocksPath...))
			return nil
		}
		fmt.Fprintln(out, styleHeader.Render(fmt.Sprintf("%d locked path(s) under %s", set.Len(), set.Root())))
		for _, p := range set.Paths() {
			fmt.Fprintf(out, "  %s\n", p)
		}
		return nil
	},
}

func init() {
	locksCmd.Flags().StringVarP(&locksProject, "project", "p", ".", "Project directory")
	rootCmd.AddCommand(locksCmd)
}
