package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// View renders the UI based on the model state.
func (m Model) View() string {
	if m.state == stateDone {
		return m.renderSuccess()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("SonarQube Issues Extractor"))
	b.WriteString("\n")

	for i, in := range m.inputs {
		label := m.styles.Label
		if i == m.focus && m.state == stateEditing {
			label = m.styles.FocusedLabel
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if m.state == stateRunning {
		fmt.Fprintf(&b, "%s Extracting issues...\n", m.spinner.View())
	} else if m.errMsg != "" {
		b.WriteString(m.renderError())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

// renderError draws the error panel, wrapped to the terminal width
func (m Model) renderError() string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	body := wordwrap.String(m.errMsg, width)
	return m.styles.ErrorPanel.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ErrorTitle.Render("Error"),
		body,
	))
}

func (m Model) renderSuccess() string {
	md := summaryMarkdown(m.result)
	footer := m.styles.Subtle.Render("Press enter to exit.")

	r, err := newRenderer(m.width)
	if err != nil {
		return md + "\n" + footer
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n" + footer
	}
	return out + footer
}
