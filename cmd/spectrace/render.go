package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/c360studio/spectrace/artifact"
	"github.com/c360studio/spectrace/gate"
	"github.com/c360studio/spectrace/pipeline"
	"github.com/c360studio/spectrace/workflow"
)

// Terminal styles for status rendering.
var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	completeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	inProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	notStartedStyle = lipgloss.NewStyle().Faint(true)
	skippedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	redStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	yellowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	greenStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// writeJSON marshals v with indentation to w.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func phaseStyle(status pipeline.PhaseStatus) lipgloss.Style {
	switch status {
	case pipeline.StatusComplete:
		return completeStyle
	case pipeline.StatusInProgress:
		return inProgressStyle
	case pipeline.StatusSkipped:
		return skippedStyle
	default:
		return notStartedStyle
	}
}

// levelForColor maps a checklist color onto a gate level for styling.
func levelForColor(color artifact.ChecklistColor) gate.Level {
	switch color {
	case artifact.ColorGreen:
		return gate.LevelGreen
	case artifact.ColorYellow:
		return gate.LevelYellow
	default:
		return gate.LevelRed
	}
}

func levelStyle(level gate.Level) lipgloss.Style {
	switch level {
	case gate.LevelGreen:
		return greenStyle
	case gate.LevelYellow:
		return yellowStyle
	default:
		return redStyle
	}
}

// renderStatus writes the human-readable status summary.
func renderStatus(w io.Writer, status *workflow.Status) {
	fmt.Fprintln(w, headerStyle.Render("Feature: "+status.Feature))
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render("Pipeline"))
	for _, p := range status.Phases {
		line := fmt.Sprintf("  %-14s %s", p.ID, phaseStyle(p.Status).Render(string(p.Status)))
		if p.Progress != "" {
			line += " " + p.Progress
		}
		if p.Clarifications > 0 {
			line += fmt.Sprintf("  (%d clarifications open)", p.Clarifications)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %s %s\n",
		headerStyle.Render("Gate:"),
		string(status.Gate.Status),
		levelStyle(status.Gate.Level).Render(string(status.Gate.Level)))
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Integrity:"), renderIntegrity(status))
	fmt.Fprintf(w, "%s policy %s, %d requirements, %d scenarios, %d tasks\n",
		headerStyle.Render("Records:"),
		status.Policy, len(status.Requirements), len(status.TestSpecs), len(status.Tasks))

	if len(status.Graph.Gap.UntestedRequirements) > 0 {
		fmt.Fprintf(w, "%s %s\n",
			redStyle.Render("Untested requirements:"),
			strings.Join(status.Graph.Gap.UntestedRequirements, ", "))
	}
	if len(status.Graph.Gap.UnimplementedTests) > 0 {
		fmt.Fprintf(w, "%s %s\n",
			yellowStyle.Render("Unimplemented tests:"),
			strings.Join(status.Graph.Gap.UnimplementedTests, ", "))
	}
	for _, a := range status.Anomalies {
		fmt.Fprintf(w, "%s %s\n", yellowStyle.Render("Anomaly:"), a)
	}
}

func renderIntegrity(status *workflow.Status) string {
	switch status.Integrity.Status {
	case "valid":
		return greenStyle.Render("valid")
	case "tampered":
		return redStyle.Render("tampered")
	default:
		return skippedStyle.Render("missing")
	}
}
