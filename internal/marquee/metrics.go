package marquee

import "github.com/mattn/go-runewidth"

// Metrics measures rendered widths in layout units. The compositor is
// metric-agnostic: terminal sinks plug in CellMetrics, tests substitute
// fixed metrics.
type Metrics interface {
	// TextWidth is the rendered advance of text.
	TextWidth(text string) float64
	// IconWidth is the fixed slot reserved in front of icon-bearing segments.
	IconWidth() float64
}

// CellMetrics measures in terminal cells, wide runes counting as two.
type CellMetrics struct{}

func (CellMetrics) TextWidth(text string) float64 {
	return float64(runewidth.StringWidth(text))
}

func (CellMetrics) IconWidth() float64 {
	return IconCells
}
