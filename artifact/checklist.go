package artifact

import (
	"math"
	"regexp"
)

// checkboxPattern matches one checklist item line. The capture distinguishes
// checked from unchecked.
var checkboxPattern = regexp.MustCompile(`(?m)^\s*-\s*\[([ xX])\]`)

// EvaluateChecklist counts checkbox items in one checklist document and
// derives completion percentage and color. An empty document evaluates to
// 0/0 at 0%, red.
func EvaluateChecklist(name, text string) ChecklistFile {
	total, checked := 0, 0
	for _, m := range checkboxPattern.FindAllStringSubmatch(text, -1) {
		total++
		if m[1] != " " {
			checked++
		}
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(checked) / float64(total) * 100))
	}

	return ChecklistFile{
		Name:       name,
		Total:      total,
		Checked:    checked,
		Percentage: pct,
		Color:      colorForPercentage(pct),
	}
}

// colorForPercentage maps completion percentage to a severity color.
func colorForPercentage(pct int) ChecklistColor {
	switch {
	case pct <= 33:
		return ColorRed
	case pct <= 66:
		return ColorYellow
	default:
		return ColorGreen
	}
}
