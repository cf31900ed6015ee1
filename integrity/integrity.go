// Package integrity detects unauthorized edits to locked test-scenario text.
//
// Once acceptance scenarios are locked as the basis for implementation, their
// step lines (Given/When/Then/And/But) are hashed; a later recomputation that
// disagrees with the persisted hash means the assertions were edited after
// lock. The hash is deliberately insensitive to whitespace run-length inside
// a step line and to file enumeration order (callers concatenate files in
// sorted-name order), so cosmetic churn never trips the check.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// VerdictStatus is the integrity check outcome.
type VerdictStatus string

// Verdict statuses.
const (
	// StatusValid means both hashes are present and equal.
	StatusValid VerdictStatus = "valid"

	// StatusTampered means both hashes are present and unequal.
	StatusTampered VerdictStatus = "tampered"

	// StatusMissing means either hash is absent: no assertions exist, or
	// no hash was ever persisted.
	StatusMissing VerdictStatus = "missing"
)

// Record is the verdict over locked test text.
type Record struct {
	// CurrentHash is the hash of the live normalized assertion lines, nil
	// when no step lines exist.
	CurrentHash *string `json:"current_hash"`

	// StoredHash is the previously persisted hash, nil when none exists
	// or the persisted record was unreadable.
	StoredHash *string `json:"stored_hash"`

	// Status is the comparison verdict.
	Status VerdictStatus `json:"status"`
}

// stepLinePattern matches scenario step lines at the start of a trimmed line.
var stepLinePattern = regexp.MustCompile(`^(Given|When|Then|And|But)\b`)

// whitespaceRunPattern collapses internal whitespace runs during
// normalization.
var whitespaceRunPattern = regexp.MustCompile(`\s+`)

// ComputeHash extracts every step line from the concatenated scenario text,
// normalizes it (whitespace runs collapsed to one space, ends trimmed), joins
// the lines with single newlines, and returns the lowercase hex SHA-256 of
// the UTF-8 bytes. Returns nil when no step lines match.
func ComputeHash(concatenated string) *string {
	var steps []string
	for _, line := range strings.Split(concatenated, "\n") {
		trimmed := strings.TrimSpace(line)
		if !stepLinePattern.MatchString(trimmed) {
			continue
		}
		steps = append(steps, whitespaceRunPattern.ReplaceAllString(trimmed, " "))
	}
	if len(steps) == 0 {
		return nil
	}

	sum := sha256.Sum256([]byte(strings.Join(steps, "\n")))
	h := hex.EncodeToString(sum[:])
	return &h
}

// Verify compares the live hash against the persisted one per the status
// rules: missing when either is absent, tampered when both present and
// unequal, valid otherwise.
func Verify(currentHash, storedHash *string) Record {
	rec := Record{CurrentHash: currentHash, StoredHash: storedHash}
	switch {
	case currentHash == nil || storedHash == nil:
		rec.Status = StatusMissing
	case *currentHash != *storedHash:
		rec.Status = StatusTampered
	default:
		rec.Status = StatusValid
	}
	return rec
}
