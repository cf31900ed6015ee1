// Package gate reduces per-checklist completion into a single go/no-go
// decision for the checklist phase.
package gate

import (
	"github.com/c360studio/spectrace/artifact"
)

// State is the gate's open/blocked decision.
type State string

// Gate states.
const (
	StateOpen    State = "open"
	StateBlocked State = "blocked"
)

// Level is the gate's severity color.
type Level string

// Gate levels.
const (
	LevelRed    Level = "red"
	LevelYellow Level = "yellow"
	LevelGreen  Level = "green"
)

// Status is the aggregate gate decision over all checklist files for a
// feature.
type Status struct {
	Status State `json:"status"`
	Level  Level `json:"level"`
}

// Evaluate reduces checklist files to one Status. The rule is worst-case
// precedence, not an average: a single checklist at exactly 0% blocks
// regardless of the others, and the gate only opens when every file is at
// exactly 100%. No files at all is treated the same as complete neglect.
func Evaluate(files []artifact.ChecklistFile) Status {
	if len(files) == 0 {
		return Status{Status: StateBlocked, Level: LevelRed}
	}

	allComplete := true
	for _, f := range files {
		if f.Percentage == 0 {
			return Status{Status: StateBlocked, Level: LevelRed}
		}
		if f.Percentage != 100 {
			allComplete = false
		}
	}

	if allComplete {
		return Status{Status: StateOpen, Level: LevelGreen}
	}
	return Status{Status: StateBlocked, Level: LevelYellow}
}
