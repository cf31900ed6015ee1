package workflow

import (
	"testing"

	"github.com/c360studio/spectrace/pipeline"
)

func TestDerivePolicy(t *testing.T) {
	tests := []struct {
		name         string
		configured   string
		constitution Document
		want         pipeline.Policy
	}{
		{
			name:       "explicit config wins",
			configured: "forbidden",
			constitution: Document{
				Exists: true,
				Text:   "## Test-First (NON-NEGOTIABLE)\nTests MUST be written first.",
			},
			want: pipeline.PolicyForbidden,
		},
		{
			name:       "config value is case-insensitive",
			configured: "Mandatory",
			want:       pipeline.PolicyMandatory,
		},
		{
			name:       "invalid config falls through to constitution",
			configured: "sometimes",
			constitution: Document{
				Exists: true,
				Text:   "Test-first development is MANDATORY for all features.",
			},
			want: pipeline.PolicyMandatory,
		},
		{
			name: "non-negotiable principle",
			constitution: Document{
				Exists: true,
				Text:   "### III. Test-First (NON-NEGOTIABLE)",
			},
			want: pipeline.PolicyMandatory,
		},
		{
			name: "TDD mandated",
			constitution: Document{
				Exists: true,
				Text:   "TDD is required on this project.",
			},
			want: pipeline.PolicyMandatory,
		},
		{
			name: "prohibition",
			constitution: Document{
				Exists: true,
				Text:   "Teams MUST NOT adopt test-first workflows here.",
			},
			want: pipeline.PolicyForbidden,
		},
		{
			name: "mention without force",
			constitution: Document{
				Exists: true,
				Text:   "We generally like test-first development.",
			},
			want: pipeline.PolicyOptional,
		},
		{
			name: "no mention",
			constitution: Document{
				Exists: true,
				Text:   "# Constitution\nBe kind. Ship small.",
			},
			want: pipeline.PolicyOptional,
		},
		{
			name: "absent constitution",
			want: pipeline.PolicyOptional,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DerivePolicy(tt.configured, tt.constitution)
			if got != tt.want {
				t.Errorf("DerivePolicy() = %s, want %s", got, tt.want)
			}
		})
	}
}
