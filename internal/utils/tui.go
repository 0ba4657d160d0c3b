package utils

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Gruvbox-inspired palette
var (
	gruvboxFgDark       = text.Colors{text.FgHiBlack}
	gruvboxFgLight      = text.Colors{text.FgWhite}
	gruvboxRed          = text.Colors{text.FgRed}
	gruvboxGreen        = text.Colors{text.FgGreen}
	gruvboxYellow       = text.Colors{text.FgYellow}
	gruvboxBlue         = text.Colors{text.FgBlue}
	gruvboxAqua         = text.Colors{text.FgCyan}
	gruvboxAquaBright   = text.Colors{text.FgHiCyan}
	gruvboxBlueBright   = text.Colors{text.FgHiBlue}
	gruvboxPurpleBright = text.Colors{text.FgHiMagenta}
	gruvboxBold         = text.Colors{text.Bold}
)

// Theme - exported theme colors for consistent UI
var Theme = struct {
	Success   text.Colors
	Info      text.Colors
	Warning   text.Colors
	Error     text.Colors
	Heading   text.Colors
	Subtle    text.Colors
	Important text.Colors
	Accent    text.Colors

	Title       text.Colors
	TableHeader text.Colors
	TableBorder text.Colors
	TableRow    text.Colors
	TableAltRow text.Colors
}{
	Success:   gruvboxGreen,
	Info:      gruvboxBlue,
	Warning:   gruvboxYellow,
	Error:     gruvboxRed,
	Heading:   append(text.Colors{}, append(gruvboxAquaBright, text.Bold)...),
	Subtle:    gruvboxFgDark,
	Important: append(text.Colors{}, append(gruvboxPurpleBright, text.Bold)...),
	Accent:    gruvboxAqua,

	Title:       append(text.Colors{}, append(gruvboxAquaBright, text.Bold)...),
	TableHeader: append(text.Colors{}, append(gruvboxBlueBright, text.Bold)...),
	TableBorder: gruvboxBlue,
	TableRow:    gruvboxFgLight,
	TableAltRow: text.Colors{text.FgWhite, text.Faint},
}

// PrintHeading prints a formatted heading
func PrintHeading(title string) {
	fmt.Println(Theme.Heading.Sprint(title))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Println(Theme.Success.Sprint("✓ ") + message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Println(Theme.Info.Sprint("ℹ ") + message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println(Theme.Warning.Sprint("⚠ ") + message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintln(os.Stderr, Theme.Error.Sprint("✗ ")+message)
}

// PrintKeyValue prints a key-value pair
func PrintKeyValue(key, value string) {
	fmt.Printf("%s: %s\n", gruvboxBold.Sprint(key), value)
}

// CreateTable creates a new table with the themed style. An empty title is omitted.
func CreateTable(title string) table.Writer {
	t := table.NewWriter()

	if title != "" {
		t.SetTitle(title)
	}

	style := table.StyleDouble
	style.Color.Header = Theme.TableHeader
	style.Color.Border = Theme.TableBorder
	style.Color.Row = Theme.TableRow
	style.Color.RowAlternate = Theme.TableAltRow
	style.Title.Colors = Theme.Title
	style.Title.Align = text.AlignCenter
	style.Options.DrawBorder = true
	style.Options.SeparateColumns = true
	style.Options.SeparateHeader = true
	style.Options.SeparateRows = false
	t.SetStyle(style)

	return t
}

// RenderTable renders headers and rows as a themed table
func RenderTable(title string, headers []string, rows [][]string) string {
	t := CreateTable(title)

	headerRow := table.Row{}
	for _, header := range headers {
		headerRow = append(headerRow, header)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tableRow := table.Row{}
		for _, cell := range row {
			tableRow = append(tableRow, cell)
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}

// PrintTable prints headers and rows as a themed table
func PrintTable(title string, headers []string, rows [][]string) {
	fmt.Println(RenderTable(title, headers, rows))
}

// CreateList creates a new list writer with the connected-rounded style
func CreateList() list.Writer {
	l := list.NewWriter()
	style := list.StyleConnectedRounded
	style.Format = text.FormatDefault
	l.SetStyle(style)
	return l
}
