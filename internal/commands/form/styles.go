package form

import "github.com/charmbracelet/lipgloss"

// Theme represents the color theme for the form
type Theme struct {
	Primary lipgloss.AdaptiveColor
	Accent  lipgloss.AdaptiveColor
	Success lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor
	Text    lipgloss.AdaptiveColor
	TextDim lipgloss.AdaptiveColor
}

// DefaultTheme is the Gruvbox palette used across the terminal UI
var DefaultTheme = Theme{
	Primary: lipgloss.AdaptiveColor{Light: "#b8bb26", Dark: "#b8bb26"},
	Accent:  lipgloss.AdaptiveColor{Light: "#fe8019", Dark: "#fe8019"},
	Success: lipgloss.AdaptiveColor{Light: "#98971a", Dark: "#b8bb26"},
	Error:   lipgloss.AdaptiveColor{Light: "#cc241d", Dark: "#fb4934"},
	Border:  lipgloss.AdaptiveColor{Light: "#d5c4a1", Dark: "#504945"},
	Text:    lipgloss.AdaptiveColor{Light: "#3c3836", Dark: "#fbf1c7"},
	TextDim: lipgloss.AdaptiveColor{Light: "#7c6f64", Dark: "#a89984"},
}

// Styles contains predefined styles for the form
type Styles struct {
	Title        lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Subtle       lipgloss.Style
	Spinner      lipgloss.Style
	ErrorPanel   lipgloss.Style
	ErrorTitle   lipgloss.Style
	Success      lipgloss.Style
}

// DefaultStyles returns default styles for the form
func DefaultStyles() Styles {
	theme := DefaultTheme
	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).MarginBottom(1),
		Label:        lipgloss.NewStyle().Foreground(theme.TextDim),
		FocusedLabel: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtle:       lipgloss.NewStyle().Foreground(theme.TextDim),
		Spinner:      lipgloss.NewStyle().Foreground(theme.Accent),
		ErrorPanel:   lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(theme.Error).Padding(0, 1),
		ErrorTitle:   lipgloss.NewStyle().Bold(true).Foreground(theme.Error),
		Success:      lipgloss.NewStyle().Bold(true).Foreground(theme.Success),
	}
}
