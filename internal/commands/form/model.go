// Package form implements the interactive export form
package form

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/tildaslashalef/sonarshift/internal/export"
)

// ValidationMessage is shown when a field is left blank
const ValidationMessage = "Please fill all fields."

// Runner executes an export
type Runner interface {
	Run(ctx context.Context, opts export.Options) (*export.Result, error)
}

// Field indexes, in display order
const (
	FieldServerURL = iota
	FieldToken
	FieldProjectKey
	FieldProjectRoot
	FieldOutputRoot
	FieldReportPath
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"SonarQube Server URL",
	"API Token",
	"Project Key",
	"Project Root Path",
	"New Project Output Path",
	"CSV Report Path",
}

type state int

const (
	stateEditing state = iota
	stateRunning
	stateDone
)

// Model represents the state of the export form.
// Init, Update and View live in separate files.
type Model struct {
	runner  Runner
	ctx     context.Context
	inputs  []textinput.Model
	focus   int
	state   state
	errMsg  string // validation or export failure, shown in the error panel
	result  *export.Result
	keymap  KeyMap
	styles  Styles
	width   int
	help    help.Model
	spinner spinner.Model
}

// NewModel creates a form prefilled from defaults
func NewModel(ctx context.Context, runner Runner, defaults export.Options) Model {
	styles := DefaultStyles()

	values := [fieldCount]string{
		defaults.ServerURL,
		defaults.APIToken,
		defaults.ProjectKey,
		defaults.ProjectRoot,
		defaults.NewOutputRoot,
		defaults.ReportPath,
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = fieldLabels[i]
		in.Width = 60
		in.SetValue(values[i])
		if i == FieldToken {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		inputs[i] = in
	}
	inputs[0].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return Model{
		runner:  runner,
		ctx:     ctx,
		inputs:  inputs,
		keymap:  DefaultKeyMap(),
		styles:  styles,
		width:   80,
		help:    help.New(),
		spinner: s,
	}
}

// Init starts the cursor blinking
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Options returns the current field values
func (m Model) Options() export.Options {
	return export.Options{
		ServerURL:     m.inputs[FieldServerURL].Value(),
		APIToken:      m.inputs[FieldToken].Value(),
		ProjectKey:    m.inputs[FieldProjectKey].Value(),
		ProjectRoot:   m.inputs[FieldProjectRoot].Value(),
		NewOutputRoot: m.inputs[FieldOutputRoot].Value(),
		ReportPath:    m.inputs[FieldReportPath].Value(),
	}
}

// Result returns the finished export, nil until one succeeds
func (m Model) Result() *export.Result {
	return m.result
}

// Err returns the message shown in the error panel
func (m Model) Err() string {
	return m.errMsg
}

// Focused returns the index of the focused field
func (m Model) Focused() int {
	return m.focus
}

func newRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
}
