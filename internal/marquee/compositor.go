// Package marquee turns a finite segment run plus an unbounded scroll offset
// into gapless draw instructions for a fixed-width viewport.
package marquee

import (
	"math"

	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/ticker"
)

// Placement is one segment positioned for drawing. X is relative to the
// viewport's left edge and can be negative while a segment scrolls out.
type Placement struct {
	Segment ticker.Segment
	Index   int // index into the composed segment slice
	X       float64
	Width   float64
}

// Frame is the layout of one render frame.
type Frame struct {
	// Placements lists the visible segments of every draw pass in draw
	// order. Segments outside the viewport are culled but still advance
	// the pen, keeping positions aligned across skips.
	Placements []Placement
	// TotalWidth is the cached loop period in layout units.
	TotalWidth float64
	// EffectiveOffset is the scroll offset reduced modulo TotalWidth.
	EffectiveOffset float64
	// PassStarts holds the start x of each draw pass: one at
	// -EffectiveOffset, plus the wrap-around copy one period later when
	// that still falls inside the viewport.
	PassStarts []float64
	// Empty marks a frame with no measurable content; sinks render the
	// connecting placeholder instead.
	Empty bool
}

// Config tunes the compositor.
type Config struct {
	// WidthEpsilon is the measured-width drift tolerated before the cached
	// loop period updates. Sub-epsilon jitter keeps the previous period so
	// the loop length does not wobble between frames.
	WidthEpsilon float64
}

// DefaultConfig suits fractional metrics where sub-unit measurement noise
// exists. Sinks on integral cell metrics pass 0.5 instead: cells cannot
// jitter by fractions, so every full-cell drift is a real content change.
func DefaultConfig() Config {
	return Config{WidthEpsilon: 1.0}
}

// Compositor tiles a segment run across a viewport so it loops without a
// visible seam. It is owned by a single render loop and is not safe for
// concurrent use.
type Compositor struct {
	metrics Metrics
	cfg     Config
	cached  float64
}

func NewCompositor(metrics Metrics, cfg Config) *Compositor {
	if cfg.WidthEpsilon <= 0 {
		cfg.WidthEpsilon = DefaultConfig().WidthEpsilon
	}
	return &Compositor{metrics: metrics, cfg: cfg}
}

// Compose lays out segments for one frame. offset is the unbounded scroll
// position and viewport the visible width, both in layout units. The first
// pass starts at -effectiveOffset; a second pass one full period later
// supplies the wrap-around copy whenever its start is still left of the
// viewport edge.
func (c *Compositor) Compose(segments []ticker.Segment, offset, viewport float64) Frame {
	if len(segments) == 0 {
		return Frame{Empty: true}
	}

	widths := make([]float64, len(segments))
	var total float64
	for i, seg := range segments {
		w := c.metrics.TextWidth(seg.Text)
		if seg.Icon != "" {
			w += c.metrics.IconWidth()
		}
		widths[i] = w
		total += w
	}
	if total <= 0 {
		return Frame{Empty: true}
	}

	if c.cached <= 0 || math.Abs(c.cached-total) > c.cfg.WidthEpsilon {
		c.cached = total
	}

	eff := math.Mod(offset, c.cached)
	frame := Frame{
		TotalWidth:      c.cached,
		EffectiveOffset: eff,
		PassStarts:      []float64{-eff},
	}
	if wrap := c.cached - eff; wrap < viewport {
		frame.PassStarts = append(frame.PassStarts, wrap)
	}

	for _, start := range frame.PassStarts {
		x := start
		for i, seg := range segments {
			w := widths[i]
			if x+w > 0 && x < viewport {
				frame.Placements = append(frame.Placements, Placement{
					Segment: seg,
					Index:   i,
					X:       x,
					Width:   w,
				})
			}
			x += w
		}
	}
	return frame
}

// Advance moves the scroll offset by one tick's delta and subtracts the loop
// period once it is exceeded, keeping the offset small over long uptimes.
func (c *Compositor) Advance(offset, delta float64) float64 {
	offset += delta
	if c.cached > 0 && offset >= c.cached {
		offset -= c.cached
	}
	return offset
}
