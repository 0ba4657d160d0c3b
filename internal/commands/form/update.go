package form

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ExportDoneMsg:
		if msg.Error != nil {
			// Back to editing so the user can fix the fields and retry
			m.state = stateEditing
			m.errMsg = msg.Error.Error()
			cmd := m.inputs[m.focus].Focus()
			return m, cmd
		}
		m.state = stateDone
		m.errMsg = ""
		m.result = msg.Result
		return m, nil

	case spinner.TickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Quit) {
		return m, tea.Quit
	}

	switch m.state {
	case stateRunning:
		return m, nil
	case stateDone:
		if msg.Type == tea.KeyEnter || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Next):
		cmd := m.setFocus((m.focus + 1) % fieldCount)
		return m, cmd
	case key.Matches(msg, m.keymap.Prev):
		cmd := m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
		return m, cmd
	case key.Matches(msg, m.keymap.Submit):
		return m.submit()
	case msg.Type == tea.KeyEnter:
		if m.focus == fieldCount-1 {
			return m.submit()
		}
		cmd := m.setFocus(m.focus + 1)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// setFocus moves the cursor to field i
func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	opts := m.Options()
	if err := opts.Validate(); err != nil {
		m.errMsg = ValidationMessage
		return m, nil
	}

	m.errMsg = ""
	m.state = stateRunning
	m.inputs[m.focus].Blur()
	return m, tea.Batch(m.spinner.Tick, runExport(m.ctx, m.runner, opts))
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state != stateEditing {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}
