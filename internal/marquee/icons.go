package marquee

// IconCells is the fixed slot reserved in front of icon-bearing segments:
// one glyph cell plus one padding cell.
const IconCells = 2

// IconSet maps icon keys to glyph badges. A key with no entry renders
// text-only; the slot stays reserved so segment widths do not depend on
// which glyphs exist.
type IconSet map[string]string

// DefaultIcons covers the default instrument list.
func DefaultIcons() IconSet {
	return IconSet{
		"btc": "₿",
		"eth": "Ξ",
		"sol": "◎",
		"ada": "₳",
		"xrp": "✕",
	}
}

// NewIconSet returns the default set overlaid with user-configured overrides.
func NewIconSet(overrides map[string]string) IconSet {
	set := DefaultIcons()
	for key, glyph := range overrides {
		set[key] = glyph
	}
	return set
}

// Glyph returns the badge for key, or "" when the key has no mapping.
func (s IconSet) Glyph(key string) string {
	return s[key]
}
