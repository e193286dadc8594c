package composer

import (
	"github.com/alexisbeaulieu97/storefront/internal/workspace"
)

// ViewMode determines which screen to render.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewEdit
	ViewAdd
	ViewConfirm
	ViewHelp
)

// StateChangedMsg signals that the store accepted a command, possibly from a
// background resolution.
type StateChangedMsg struct{}

// SavedMsg reports a successful workspace write.
type SavedMsg struct {
	Document workspace.Document
}

// ErrorMsg shows a message in the error banner.
type ErrorMsg struct {
	Message string
}

// ClearErrorMsg dismisses the error banner.
type ClearErrorMsg struct{}
