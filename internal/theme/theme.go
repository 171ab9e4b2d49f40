package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/packlist/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
)

// HeaderStyle is used for session titles.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// SectionStyle is used for section headings inside a session.
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// ItemStyle is the base style for checklist rows.
var ItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// PackedStyle dims items that are already packed.
var PackedStyle = ItemStyle.
	Foreground(ColorGray).
	Strikethrough(true)

// CriticalStyle marks items that must not be forgotten.
var CriticalStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// HelpStyle is used for notes and secondary text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// OriginLabelStyle returns a color-coded style for the given item origin.
func OriginLabelStyle(origin model.Origin) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch origin {
	case model.OriginRuleInjected:
		return base.Foreground(ColorMagenta)
	case model.OriginUserAdded:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityStyle returns a color-coded style for a rule priority, 5 being the
// most urgent.
func PriorityStyle(priority int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case 5:
		return base.Foreground(ColorRed)
	case 4:
		return base.Foreground(ColorOrange)
	case 3:
		return base.Foreground(ColorYellow)
	case 2:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// ProgressColor picks the completion color: green when done, yellow past
// half, red otherwise.
func ProgressColor(p model.Progress) lipgloss.AdaptiveColor {
	switch {
	case p.Complete():
		return ColorGreen
	case p.Fraction >= 0.5:
		return ColorYellow
	default:
		return ColorRed
	}
}

// ProgressStyle colors text for a completion fraction.
func ProgressStyle(p model.Progress) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ProgressColor(p))
}

// ProgressBar renders p as a fixed-width bar followed by the packed count.
func ProgressBar(p model.Progress, width int) string {
	if width <= 0 {
		width = 20
	}
	fill := ProgressColor(p).Light
	if lipgloss.HasDarkBackground() {
		fill = ProgressColor(p).Dark
	}
	bar := progress.New(
		progress.WithWidth(width),
		progress.WithoutPercentage(),
		progress.WithSolidFill(fill),
	)
	return bar.ViewAs(p.Fraction) +
		ProgressStyle(p).Render(fmt.Sprintf(" %d/%d", p.PackedCells, p.TotalCells))
}

// ItemLine renders one checklist row.
func ItemLine(item model.Item) string {
	box := "[ ]"
	style := ItemStyle
	if item.Packed {
		box = "[x]"
		style = PackedStyle
	}

	var b strings.Builder
	b.WriteString(box)
	b.WriteString(" ")
	b.WriteString(item.Name)
	if item.Quantity > 1 {
		fmt.Fprintf(&b, " x%d", item.Quantity)
	}
	line := style.Render(b.String())
	if item.Critical {
		line += " " + CriticalStyle.Render("!")
	}
	if item.Origin != model.OriginTemplateSeeded {
		line += " " + OriginLabelStyle(item.Origin).Render(string(item.Origin))
	}
	if item.Note != "" {
		line += " " + HelpStyle.Render(item.Note)
	}
	return line
}
