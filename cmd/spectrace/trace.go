package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/spectrace/integrity"
)

func newTraceCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trace <feature>",
		Short: "Show the traceability graph, coverage gaps and pyramid",
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
				return writeJSON(cmd.OutOrStdout(), status.Graph)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("Edges"))
			for _, e := range status.Graph.Edges {
				fmt.Fprintf(out, "  %s -> %s  (%s)\n", e.From, e.To, e.Type)
			}

			fmt.Fprintln(out, headerStyle.Render("Pyramid"))
			fmt.Fprintf(out, "  acceptance: %d  contract: %d  validation: %d\n",
				status.Graph.Pyramid.Acceptance.Count,
				status.Graph.Pyramid.Contract.Count,
				status.Graph.Pyramid.Validation.Count)

			if len(status.Graph.Gap.UntestedRequirements) > 0 {
				fmt.Fprintf(out, "%s %v\n",
					redStyle.Render("Untested requirements:"),
					status.Graph.Gap.UntestedRequirements)
			}
			if len(status.Graph.Gap.UnimplementedTests) > 0 {
				fmt.Fprintf(out, "%s %v\n",
					yellowStyle.Render("Unimplemented tests:"),
					status.Graph.Gap.UnimplementedTests)
			}
			if len(status.Graph.Duplicates.Requirements) > 0 {
				fmt.Fprintf(out, "%s %v\n",
					yellowStyle.Render("Duplicate requirement ids:"),
					status.Graph.Duplicates.Requirements)
			}
			if len(status.Graph.Duplicates.TestSpecs) > 0 {
				fmt.Fprintf(out, "%s %v\n",
					yellowStyle.Render("Duplicate scenario ids:"),
					status.Graph.Duplicates.TestSpecs)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")

	return cmd
}

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "verify <feature>",
		Short: "Verify locked scenario assertions against the persisted hash",
		Long: `Verify recomputes the hash of the feature's locked scenario step lines
and compares it against the persisted lock record. A tampered verdict exits
nonzero so CI can block merges that edit locked assertions.`,
		Args: cobra.ExactArgs(1),
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
				if err := writeJSON(cmd.OutOrStdout(), status.Integrity); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
					headerStyle.Render("Integrity:"), renderIntegrity(status))
			}

			if status.Integrity.Status == integrity.StatusTampered {
				return fmt.Errorf("locked assertions for %s were modified", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")

	return cmd
}
