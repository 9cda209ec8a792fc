package prompt

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when the user interrupts a prompt instead of
// answering it.
var ErrAborted = errors.New("prompt aborted")

type confirmModel struct {
	question string
	answer   bool
	answered bool
	aborted  bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.answer = true
		m.answered = true
		return m, tea.Quit
	case "n", "N", "enter": // enter keeps the default, which is no
		m.answered = true
		return m, tea.Quit
	case "ctrl+c", "q", "esc":
		m.aborted = true
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	return fmt.Sprintf("%s [y/N] ", m.question)
}

// Confirm asks a yes/no question and reports the answer. grm only prompts
// before destructive operations, so the default answer is no. Interrupting
// the prompt returns ErrAborted.
func Confirm(question string) (bool, error) {
	final, err := tea.NewProgram(confirmModel{question: question}).Run()
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.answer, nil
}
