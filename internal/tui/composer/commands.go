package composer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
)

// waitForChange blocks until the store signals an accepted command.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return StateChangedMsg{}
	}
}

// saveCmd writes state through saver.
func saveCmd(saver Saver, state builder.State) tea.Cmd {
	return func() tea.Msg {
		doc, err := saver.SaveState(state)
		if err != nil {
			return ErrorMsg{Message: fmt.Sprintf("Save failed: %v", err)}
		}
		return SavedMsg{Document: doc}
	}
}
