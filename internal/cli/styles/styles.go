// Package styles holds the lipgloss styles for human CLI output
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colours the styles are built from
type Palette struct {
	Accent    string
	Title     string
	Subtle    string
	Normal    string
	SuccessFg string
	ErrorFg   string
	WarningFg string
}

// DefaultPalette follows the role colours used in the web UI
func DefaultPalette() Palette {
	return Palette{
		Accent:    "#667eea",
		Title:     "#FFFFFF",
		Subtle:    "#6c757d",
		Normal:    "#dee2e6",
		SuccessFg: "#198754",
		ErrorFg:   "#dc3545",
		WarningFg: "#ffc107",
	}
}

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Project:", "Assignee:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
)

func init() {
	Init(DefaultPalette())
}

// Init initializes all CLI styles with the given palette
func Init(colors Palette) {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Accent)).
		Padding(0, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Normal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Accent)).
		Bold(true).
		MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.SuccessFg))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.ErrorFg))

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.WarningFg))
}

// Field renders "Label: value" with the label and value styles
func Field(label, value string) string {
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}

// Mark renders a check or a cross
func Mark(ok bool) string {
	if ok {
		return SuccessStyle.Render("✓")
	}
	return ErrorStyle.Render("✗")
}
