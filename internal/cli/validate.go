package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotsync-labs/dotsync/internal/manifest"
	"github.com/dotsync-labs/dotsync/internal/patch"
	"github.com/dotsync-labs/dotsync/internal/schema"
)

var (
	validateManifest string
	validateSkeleton string
)

var validateCmd = &cobra.Command{
	Use:   "validate [updates.json ...]",
	Short: "Check the sync manifest and patch documents against their schemas",
	Long: `Validate the sync manifest (--manifest, the config key, <skeleton>/` + manifest.FileName + `
or the built-in default) and every patch document given as an argument.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := false

		skeleton, _ := resolveSkeleton(validateSkeleton)
		m, err := loadManifest(validateManifest, skeleton)
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", styleError.Render("✗"), err)
			failed = true
		} else {
			fmt.Fprintf(out, "%s %s (%d rules, %d hooks)\n", styleWritten.Render("✓"), m.Source, len(m.Rules), len(m.Hooks))
		}

		for _, p := range args {
			data, err := os.ReadFile(p)
			if err != nil {
				fmt.Fprintf(out, "%s %s: %v\n", styleError.Render("✗"), p, err)
				failed = true
				continue
			}
			res, err := patch.Validate(data)
			if err != nil {
				fmt.Fprintf(out, "%s %s: %v\n", styleError.Render("✗"), p, err)
				failed = true
				continue
			}
			if !reportResult(out, p, res) {
				failed = true
				continue
			}
			if _, err := patch.Parse(data); err != nil {
				fmt.Fprintf(out, "%s %s: %v\n", styleError.Render("✗"), p, err)
				failed = true
			}
		}

		if failed {
			return errors.New("validation failed")
		}
		return nil
	},
}

// reportResult prints a schema result and reports whether it was valid.
func reportResult(w io.Writer, name string, res *schema.Result) bool {
	if res.Valid {
		fmt.Fprintf(w, "%s %s\n", styleWritten.Render("✓"), name)
		return true
	}
	fmt.Fprintf(w, "%s %s\n", styleError.Render("✗"), name)
	for _, issue := range res.Issues {
		fmt.Fprintf(w, "    %s\n", issue.String())
	}
	return false
}

func init() {
	validateCmd.Flags().StringVarP(&validateManifest, "manifest", "m", "", "Sync manifest file")
	validateCmd.Flags().StringVarP(&validateSkeleton, "skeleton", "s", "", "Skeleton directory (default: config key skeleton)")
	rootCmd.AddCommand(validateCmd)
}
