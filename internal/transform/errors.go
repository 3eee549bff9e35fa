package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrActionDisabled is returned when a disabled action is clicked.
var ErrActionDisabled = errors.New("action is disabled")

// UnknownActionError is returned when no menu entry matches the requested id.
type UnknownActionError struct {
	ID         string
	Suggestion string
}

func (e *UnknownActionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown action %q (did you mean %q?)", e.ID, e.Suggestion)
	}
	return fmt.Sprintf("unknown action %q", e.ID)
}

// closest returns the candidate nearest to id, or "" when nothing is close
// enough to be a plausible typo.
func closest(id string, candidates []string) string {
	needle := strings.ToLower(id)
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" || bestDist > len(best)/3 {
		return ""
	}
	return best
}

func suggestionSuffix(id string, candidates []string) string {
	if s := closest(id, candidates); s != "" {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}
