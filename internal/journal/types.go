package journal

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Status is the outcome of a transform run.
type Status string

const (
	// StatusApplied means the dataset was replaced.
	StatusApplied Status = "applied"
	// StatusFailed means the transform itself failed.
	StatusFailed Status = "failed"
	// StatusRejected means the transform produced a dataset the session refused.
	StatusRejected Status = "rejected"
)

// Icon returns the Unicode icon for the status
func (s Status) Icon() string {
	switch s {
	case StatusApplied:
		return "🟢"
	case StatusRejected:
		return "🟡"
	case StatusFailed:
		return "🔴"
	default:
		return "⚪"
	}
}

// IconFallback returns ASCII fallback when Unicode is not supported
func (s Status) IconFallback() string {
	switch s {
	case StatusApplied:
		return "[OK]"
	case StatusRejected:
		return "[!!]"
	case StatusFailed:
		return "[XX]"
	default:
		return "[??]"
	}
}

// Color returns the Lipgloss color for the status
func (s Status) Color() lipgloss.Color {
	switch s {
	case StatusApplied:
		return lipgloss.Color("42") // green
	case StatusRejected:
		return lipgloss.Color("226") // yellow
	case StatusFailed:
		return lipgloss.Color("196") // red
	default:
		return lipgloss.Color("250") // light gray
	}
}

func (s Status) String() string {
	return string(s)
}

// Entry records one transform run against a dataset.
type Entry struct {
	ID            string        `json:"id"`
	DatasetID     string        `json:"dataset_id"`
	DatasetPath   string        `json:"dataset_path"`
	Action        string        `json:"action"`
	Status        Status        `json:"status"`
	SamplesBefore int           `json:"samples_before"`
	SamplesAfter  int           `json:"samples_after"`
	Revision      string        `json:"revision,omitempty"`
	Duration      time.Duration `json:"duration"`
	CompletedAt   time.Time     `json:"completed_at"`
	Error         *ErrorDetail  `json:"error,omitempty"`
}

// ErrorDetail provides structured error information
type ErrorDetail struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// File is the JSON file format of the journal.
type File struct {
	Version string  `json:"version"`
	Entries []Entry `json:"entries"`
}
