package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vanadium/internal/driver"
)

var modulesCmd = &cobra.Command{
	Use:   "modules [flags] [<file.asn|dir>...]",
	Short: "List the modules visible to a project",
	Long: `Modules ingests the given inputs together with the external workspaces
the manifest references and lists every module name in resolution order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settingsFrom(cmd)
		files, err := s.inputs(args)
		if err != nil {
			return err
		}
		ws, err := driver.LoadProject(cmd.Context(), s.manifest, files, driver.Options{
			Jobs:           s.jobs,
			MaxDiagnostics: s.maxDiagnostics,
			Extensions:     s.extensions,
			Timer:          s.timer,
		})
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MODULE\tWORKSPACE\tPATH")
		for _, m := range ws.Modules() {
			name := m.Workspace
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, name, m.Path)
		}
		return tw.Flush()
	},
}
