package marquee

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/ticker"
)

// charMetrics counts every rune as one layout unit, keeping test widths easy
// to reason about.
type charMetrics struct {
	icon float64
}

func (m charMetrics) TextWidth(text string) float64 { return float64(len([]rune(text))) }
func (m charMetrics) IconWidth() float64            { return m.icon }

// scaledMetrics simulates font-metric drift between frames.
type scaledMetrics struct {
	scale float64
}

func (m *scaledMetrics) TextWidth(text string) float64 {
	return m.scale * float64(len([]rune(text)))
}
func (m *scaledMetrics) IconWidth() float64 { return 0 }

func TestWraparoundSecondPassPosition(t *testing.T) {
	comp := NewCompositor(charMetrics{}, DefaultConfig())
	segs := []ticker.Segment{
		{Text: strings.Repeat("a", 120)},
		{Text: strings.Repeat("b", 100)},
		{Text: strings.Repeat("c", 80)},
	}

	frame := comp.Compose(segs, 0, 400)
	require.Equal(t, 300.0, frame.TotalWidth)

	offset := comp.Advance(290, 20)
	assert.Equal(t, 10.0, offset)

	frame = comp.Compose(segs, 310, 400)
	assert.Equal(t, 10.0, frame.EffectiveOffset)
	require.Len(t, frame.PassStarts, 2)
	assert.Equal(t, -10.0, frame.PassStarts[0])
	assert.Equal(t, 290.0, frame.PassStarts[1])
}

func TestAdvanceWithoutComposedWidthGrowsFreely(t *testing.T) {
	comp := NewCompositor(charMetrics{}, DefaultConfig())

	assert.Equal(t, 25.0, comp.Advance(20, 5))
}

func TestCullingKeepsPositionsAligned(t *testing.T) {
	comp := NewCompositor(charMetrics{}, DefaultConfig())
	segs := []ticker.Segment{
		{Text: strings.Repeat("a", 8)},
		{Text: strings.Repeat("b", 8)},
		{Text: strings.Repeat("c", 8)},
	}

	frame := comp.Compose(segs, 20, 10)

	require.Len(t, frame.PassStarts, 2)
	assert.Equal(t, -20.0, frame.PassStarts[0])
	assert.Equal(t, 4.0, frame.PassStarts[1])

	require.Len(t, frame.Placements, 2)
	assert.Equal(t, 2, frame.Placements[0].Index)
	assert.Equal(t, -4.0, frame.Placements[0].X)
	assert.Equal(t, 0, frame.Placements[1].Index)
	assert.Equal(t, 4.0, frame.Placements[1].X)
}

func TestContentNarrowerThanViewportGetsWrapCopy(t *testing.T) {
	comp := NewCompositor(charMetrics{}, DefaultConfig())
	segs := []ticker.Segment{{Text: "abcde"}}

	frame := comp.Compose(segs, 0, 20)

	require.Len(t, frame.PassStarts, 2)
	assert.Equal(t, 0.0, frame.PassStarts[0])
	assert.Equal(t, 5.0, frame.PassStarts[1])
	assert.Len(t, frame.Placements, 2)
}

func TestCachedWidthHysteresis(t *testing.T) {
	metrics := &scaledMetrics{scale: 1}
	comp := NewCompositor(metrics, DefaultConfig())
	segs := []ticker.Segment{{Text: strings.Repeat("x", 100)}}

	frame := comp.Compose(segs, 0, 50)
	assert.Equal(t, 100.0, frame.TotalWidth)

	// Sub-epsilon drift keeps the cached period.
	metrics.scale = 1.005
	frame = comp.Compose(segs, 0, 50)
	assert.Equal(t, 100.0, frame.TotalWidth)

	// A real content change updates it.
	metrics.scale = 1.05
	frame = comp.Compose(segs, 0, 50)
	assert.InDelta(t, 105.0, frame.TotalWidth, 1e-9)
}

func TestIconSlotAddsWidth(t *testing.T) {
	comp := NewCompositor(charMetrics{icon: 10}, DefaultConfig())
	segs := []ticker.Segment{{Text: "abc", Icon: "btc"}}

	frame := comp.Compose(segs, 0, 80)

	assert.Equal(t, 13.0, frame.TotalWidth)
}

func TestEmptyFrames(t *testing.T) {
	comp := NewCompositor(charMetrics{}, DefaultConfig())

	assert.True(t, comp.Compose(nil, 0, 80).Empty)
	assert.True(t, comp.Compose([]ticker.Segment{{Text: ""}}, 0, 80).Empty)
}

func TestComposeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "segments")
		segs := make([]ticker.Segment, n)
		prefix := make([]float64, n+1)
		for i := range segs {
			length := rapid.IntRange(1, 40).Draw(t, fmt.Sprintf("len%d", i))
			segs[i] = ticker.Segment{Text: strings.Repeat("x", length)}
			w := float64(length)
			if rapid.Bool().Draw(t, fmt.Sprintf("icon%d", i)) {
				segs[i].Icon = "btc"
				w += 2
			}
			prefix[i+1] = prefix[i] + w
		}
		offset := rapid.Float64Range(0, 1e6).Draw(t, "offset")
		viewport := rapid.Float64Range(1, 200).Draw(t, "viewport")

		comp := NewCompositor(charMetrics{icon: 2}, DefaultConfig())
		frame := comp.Compose(segs, offset, viewport)

		require.False(t, frame.Empty)
		assert.InDelta(t, prefix[n], frame.TotalWidth, 1e-9)

		// The effective offset always lands inside one loop period.
		assert.GreaterOrEqual(t, frame.EffectiveOffset, 0.0)
		assert.Less(t, frame.EffectiveOffset, frame.TotalWidth)

		require.NotEmpty(t, frame.PassStarts)
		assert.InDelta(t, -frame.EffectiveOffset, frame.PassStarts[0], 1e-9)
		require.LessOrEqual(t, len(frame.PassStarts), 2)
		if len(frame.PassStarts) == 2 {
			// The wrap copy sits exactly one period after the first pass.
			assert.InDelta(t, frame.TotalWidth, frame.PassStarts[1]-frame.PassStarts[0], 1e-9)
			assert.Less(t, frame.PassStarts[1], viewport)
		}

		// Every placement is visible and sits at its pass start plus the
		// width of the segments before it, culled or not.
		for _, p := range frame.Placements {
			assert.InDelta(t, prefix[p.Index+1]-prefix[p.Index], p.Width, 1e-9)
			assert.Less(t, p.X, viewport)
			assert.Greater(t, p.X+p.Width, 0.0)

			aligned := false
			for _, start := range frame.PassStarts {
				if math.Abs(start+prefix[p.Index]-p.X) < 1e-6 {
					aligned = true
				}
			}
			assert.True(t, aligned, "placement at %v not aligned to any pass", p.X)
		}
	})
}
