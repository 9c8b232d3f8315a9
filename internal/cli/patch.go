package cli

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dotsync-labs/dotsync/internal/fsutil"
	"github.com/dotsync-labs/dotsync/internal/patch"
	"github.com/dotsync-labs/dotsync/internal/syncerr"
)

var (
	patchCanonical bool
	patchWrite     bool
)

var patchCmd = &cobra.Command{
	Use:   "patch <target.json> <updates.json>",
	Short: "Apply a patch document to one JSON file",
	Long: `Apply $defaults, $overrides and $unset from a patch document to a JSON
file, keeping its key order and indentation. With --canonical the
$unsetIfCanonical paths are removed too. The result is printed unless
--write is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath, docPath := args[0], args[1]

		target, err := os.ReadFile(targetPath)
		if err != nil {
			return syncerr.New(syncerr.KindIOFailure, targetPath, err)
		}
		raw, err := os.ReadFile(docPath)
		if err != nil {
			return syncerr.New(syncerr.KindIOFailure, docPath, err)
		}
		doc, err := patch.Parse(raw)
		if err != nil {
			return syncerr.New(syncerr.KindDocumentUnparsable, docPath, err)
		}
		out, err := patch.File(target, doc, patchCanonical)
		if err != nil {
			return syncerr.New(syncerr.KindDocumentUnparsable, targetPath, err)
		}

		if !patchWrite {
			_, err := cmd.OutOrStdout().Write(out)
			return err
		}
		if string(out) == string(target) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", targetPath)
			return nil
		}
		if err := fsutil.WriteFileAtomic(afero.NewOsFs(), targetPath, out, 0o644); err != nil {
			return syncerr.New(syncerr.KindIOFailure, targetPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Patched %s\n", targetPath)
		return nil
	},
}

func init() {
	patchCmd.Flags().BoolVar(&patchCanonical, "canonical", false, "Treat the target as the canonical skeleton project")
	patchCmd.Flags().BoolVarP(&patchWrite, "write", "w", false, "Write the result back to the target file")
	rootCmd.AddCommand(patchCmd)
}
