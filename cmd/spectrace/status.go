package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status <feature>",
		Short: "Compute the full traceability status for a feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := opts.engine()
			if err != nil {
				return err
			}

			status, err := engine.Compute(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}
			renderStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")

	return cmd
}

func newGatesCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "gates <feature>",
		Short: "Show per-checklist completion and the aggregate gate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := opts.engine()
			if err != nil {
				return err
			}

			status, err := engine.Compute(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"checklists": status.Checklists,
					"gate":       status.Gate,
				})
			}

			out := cmd.OutOrStdout()
			for _, f := range status.Checklists {
				style := levelStyle(levelForColor(f.Color))
				fmt.Fprintf(out, "  %-30s %3d%%  (%d/%d)  %s\n",
					f.Name, f.Percentage, f.Checked, f.Total, style.Render(string(f.Color)))
			}
			fmt.Fprintf(out, "%s %s %s\n",
				headerStyle.Render("Gate:"),
				string(status.Gate.Status),
				levelStyle(status.Gate.Level).Render(string(status.Gate.Level)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")

	return cmd
}
