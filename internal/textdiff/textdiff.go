// Package textdiff reports how an article body changed between two
// sightings of the same URL.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"NewsLedger/internal/domain"
)

const maxSampleLines = 10

// Compare produces a unified diff of two body texts plus capped
// samples of the added and removed lines. TotalChanges counts every
// changed line even when the samples are truncated.
func Compare(previous, current string) *domain.BodyDiff {
	ud := difflib.UnifiedDiff{
		A:        splitKeep(previous),
		B:        splitKeep(current),
		FromFile: "previous",
		ToFile:   "current",
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		text = ""
	}

	var added, removed []string
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added = append(added, strings.TrimSpace(line[1:]))
		case strings.HasPrefix(line, "-"):
			removed = append(removed, strings.TrimSpace(line[1:]))
		}
	}

	diff := &domain.BodyDiff{
		HasChanges:    len(added) > 0 || len(removed) > 0,
		AddedLines:    cap10(added),
		RemovedLines:  cap10(removed),
		TotalChanges:  len(added) + len(removed),
		ChangeSummary: fmt.Sprintf("+%d -%d lines", len(added), len(removed)),
	}
	if diff.HasChanges {
		diff.UnifiedDiff = text
	}
	return diff
}

func splitKeep(s string) []string {
	if s == "" {
		return nil
	}
	return difflib.SplitLines(s)
}

func cap10(lines []string) []string {
	if len(lines) > maxSampleLines {
		return lines[:maxSampleLines]
	}
	return lines
}
