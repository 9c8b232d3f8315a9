package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotsync-labs/dotsync/internal/marker"
	"github.com/dotsync-labs/dotsync/internal/syncerr"
)

var (
	mergeStart string
	mergeEnd   string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <old> <new>",
	Short: "Print <new> with the custom region of <old> carried over",
	Long: `Merge two versions of a generated file. The text between the custom
markers in <old> replaces the region in <new>. When <old> does not exist or
either file lacks exactly one region, <new> is printed unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var oldText *string
		data, err := os.ReadFile(args[0])
		switch {
		case err == nil:
			s := string(data)
			oldText = &s
		case !errors.Is(err, fs.ErrNotExist):
			return syncerr.New(syncerr.KindIOFailure, args[0], err)
		}

		fresh, err := os.ReadFile(args[1])
		if err != nil {
			return syncerr.New(syncerr.KindIOFailure, args[1], err)
		}

		d := marker.Delimiters{Start: mergeStart, End: mergeEnd}
		_, err = cmd.OutOrStdout().Write([]byte(d.Merge(oldText, string(fresh))))
		return err
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeStart, "start", marker.DefaultStart, "Start delimiter of the custom region")
	mergeCmd.Flags().StringVar(&mergeEnd, "end", marker.DefaultEnd, "End delimiter of the custom region")
	rootCmd.AddCommand(mergeCmd)
}
