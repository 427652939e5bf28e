package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/config"
	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/ticker"
)

// Styles holds the lipgloss styles for each price direction.
type Styles struct {
	Up      lipgloss.Style
	Down    lipgloss.Style
	Neutral lipgloss.Style
}

// NewStyles builds direction styles from the configured palette.
func NewStyles(appearance config.AppearanceConfig) Styles {
	return Styles{
		Up:      lipgloss.NewStyle().Foreground(lipgloss.Color(appearance.ColorUp)),
		Down:    lipgloss.NewStyle().Foreground(lipgloss.Color(appearance.ColorDown)),
		Neutral: lipgloss.NewStyle().Foreground(lipgloss.Color(appearance.ColorNeutral)),
	}
}

// For returns the style for a direction.
func (s Styles) For(d ticker.Direction) lipgloss.Style {
	switch d {
	case ticker.Up:
		return s.Up
	case ticker.Down:
		return s.Down
	default:
		return s.Neutral
	}
}

// Render paints text in the direction's color.
func (s Styles) Render(text string, d ticker.Direction) string {
	return s.For(d).Render(text)
}
