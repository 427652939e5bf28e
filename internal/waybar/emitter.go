// Package waybar renders the ticker as Waybar custom-module JSON lines on a
// writer, one object per animation tick.
package waybar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/config"
	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/marquee"
	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/ticker"
)

// Output is one Waybar custom-module update.
type Output struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

// escapePango covers the entities Pango markup reserves. Text lands inside
// <span> elements, so attribute-only escapes are not needed.
var escapePango = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Emitter drives the marquee at a fixed tick rate and writes each frame as a
// JSON line. The writer must carry protocol lines only; logs go elsewhere.
type Emitter struct {
	state    *ticker.State
	comp     *marquee.Compositor
	icons    marquee.IconSet
	colors   [3]string
	enc      *json.Encoder
	logger   *zap.Logger
	width    int
	interval time.Duration
	delta    float64

	offset   float64
	segments []ticker.Segment
}

// NewEmitter builds an emitter writing to w, sized and timed by cfg.
func NewEmitter(w io.Writer, state *ticker.State, cfg *config.Config, logger *zap.Logger) *Emitter {
	fps := cfg.Animation.FPS
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	e := &Emitter{
		state:    state,
		comp:     marquee.NewCompositor(marquee.CellMetrics{}, marquee.Config{WidthEpsilon: 0.5}),
		icons:    marquee.NewIconSet(cfg.Icons),
		enc:      enc,
		logger:   logger,
		width:    cfg.Output.Width,
		interval: time.Second / time.Duration(fps),
		delta:    cfg.Animation.ScrollSpeed / float64(fps),
	}
	e.colors[ticker.Neutral] = cfg.Appearance.ColorNeutral
	e.colors[ticker.Up] = cfg.Appearance.ColorUp
	e.colors[ticker.Down] = cfg.Appearance.ColorDown
	return e
}

// Run emits frames until ctx is canceled or a write fails. The first frame
// goes out immediately so the bar shows the connecting state without waiting
// a full tick.
func (e *Emitter) Run(ctx context.Context) error {
	e.logger.Info("Waybar emitter started",
		zap.Int("width", e.width),
		zap.Duration("interval", e.interval))

	tick := time.NewTicker(e.interval)
	defer tick.Stop()

	for {
		if err := e.emit(); err != nil {
			return fmt.Errorf("emit frame: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}

func (e *Emitter) emit() error {
	if segs, ok := e.state.TrySnapshot(); ok {
		e.segments = segs
	}
	frame := e.comp.Compose(e.segments, e.offset, float64(e.width))
	e.offset = e.comp.Advance(e.offset, e.delta)

	out := Output{
		Text:    frame.Line(e.width, e.icons, e.span),
		Tooltip: tooltip(e.segments),
	}
	if frame.Empty {
		out.Class = "connecting"
	}
	return e.enc.Encode(out)
}

// span wraps one direction run in Pango markup carrying its color.
func (e *Emitter) span(text string, d ticker.Direction) string {
	return `<span foreground="` + e.colors[d] + `">` + escapePango.Replace(text) + `</span>`
}

// tooltip is the unscrolled segment run. Separators are segments themselves,
// so plain concatenation reproduces the full ticker text.
func tooltip(segments []ticker.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}
