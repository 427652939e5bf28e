package marquee

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/ticker"
)

// PlaceholderText is shown while no instrument has ticked yet.
const PlaceholderText = "Connecting..."

// StyleFunc decorates one run of same-direction text for a specific sink
// (lipgloss styling, Pango markup). It must not change the cell width of
// its input.
type StyleFunc func(text string, direction ticker.Direction) string

// Line flattens the frame into one row of width cells, clipping placements
// at both viewport edges, resolving icon keys through icons and decorating
// same-direction runs with style.
func (f Frame) Line(width int, icons IconSet, style StyleFunc) string {
	if width <= 0 {
		return ""
	}
	row := newRow(width)
	if f.Empty {
		row.paint(0, PlaceholderText, ticker.Neutral)
		return row.render(style)
	}
	for _, p := range f.Placements {
		x := int(math.Round(p.X))
		if p.Segment.Icon != "" {
			glyph := runewidth.Truncate(icons.Glyph(p.Segment.Icon), IconCells, "")
			row.paint(x, glyph, p.Segment.Direction)
			x += IconCells
		}
		row.paint(x, p.Segment.Text, p.Segment.Direction)
	}
	return row.render(style)
}

// cell is one terminal cell of the composed row. A zero rune marks the
// continuation cell of a wide rune and emits nothing.
type cell struct {
	r   rune
	dir ticker.Direction
}

type row struct {
	cells []cell
}

func newRow(width int) *row {
	cells := make([]cell, width)
	for i := range cells {
		cells[i] = cell{r: ' ', dir: ticker.Neutral}
	}
	return &row{cells: cells}
}

// paint writes s starting at cell x, clipping at both edges. A wide rune
// straddling an edge blanks its visible half rather than rendering a torn
// glyph.
func (r *row) paint(x int, s string, dir ticker.Direction) {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x+w > 0 && x < len(r.cells) {
			if x >= 0 && x+w <= len(r.cells) {
				r.cells[x] = cell{r: ch, dir: dir}
				if w == 2 {
					r.cells[x+1] = cell{r: 0, dir: dir}
				}
			} else {
				for i := max(x, 0); i < min(x+w, len(r.cells)); i++ {
					r.cells[i] = cell{r: ' ', dir: dir}
				}
			}
		}
		x += w
	}
}

// render joins the cells, merging adjacent same-direction cells into one
// styled run so sinks emit one span per color stretch.
func (r *row) render(style StyleFunc) string {
	var out strings.Builder
	var run strings.Builder
	dir := r.cells[0].dir
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(style(run.String(), dir))
			run.Reset()
		}
	}
	for _, c := range r.cells {
		if c.r == 0 {
			continue
		}
		if c.dir != dir {
			flush()
			dir = c.dir
		}
		run.WriteRune(c.r)
	}
	flush()
	return out.String()
}
