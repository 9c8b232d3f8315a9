package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dotsync-labs/dotsync/internal/hooks"
)

var (
	rulesSkeleton string
	rulesManifest string
	rulesJSON     bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the sync manifest's rules and hooks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		skeleton, _ := resolveSkeleton(rulesSkeleton)
		m, err := loadManifest(rulesManifest, skeleton)
		if err != nil {
			return err
		}

		if rulesJSON {
			out, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling manifest: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Manifest: %s\n\n", m.Source)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MODE\tPATH\tNOTES")
		for _, r := range m.Rules {
			var notes []string
			if len(r.Executables) > 0 {
				notes = append(notes, "executables: "+strings.Join(r.Executables, ", "))
			}
			if r.Markers != nil {
				notes = append(notes, fmt.Sprintf("markers: %s %s", r.Markers.Start, r.Markers.End))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Mode, r.Path, strings.Join(notes, "; "))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if len(m.Hooks) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "HOOK\tKIND\tTARGET")
		for _, h := range m.Hooks {
			target := h.Target
			if h.Kind == hooks.KindExec {
				target = strings.Join(h.Command, " ")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", h.Name, h.Kind, target)
		}
		return w.Flush()
	},
}

func init() {
	rulesCmd.Flags().StringVarP(&rulesSkeleton, "skeleton", "s", "", "Skeleton directory (default: config key skeleton)")
	rulesCmd.Flags().StringVarP(&rulesManifest, "manifest", "m", "", "Sync manifest file")
	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(rulesCmd)
}
