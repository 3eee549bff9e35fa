package menu

import (
	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

// ViewMode determines which screen to render
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewHelp
)

// TransformDoneMsg carries the result of a dialog's transform.
type TransformDoneMsg struct {
	ActionID  string
	Dataset   *dataset.Dataset
	Err       error
	Cancelled bool
}

// RefreshMsg requests a re-evaluation of the menu buttons.
type RefreshMsg struct{}

// ErrorMsg shows a banner above the menu.
type ErrorMsg struct {
	Message string
}

// ClearErrorMsg requests error banner dismissal
type ClearErrorMsg struct{}
