// Package ticker holds the live price model and derives the ordered display
// segments the render sinks scroll. It is the single synchronization point
// between the feed goroutine and the render loop.
package ticker

import (
	"fmt"
	"sync"

	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/config"
)

// Direction classifies a price move for coloring.
type Direction int

const (
	Neutral Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "neutral"
	}
}

// Segment is one renderable unit of the scrolling display. Icon is an icon
// key for instrument entries and empty for separators.
type Segment struct {
	Text      string
	Direction Direction
	Icon      string
}

// coinData tracks the latest price and the 24h open used for the change
// percentage. A price of 0 means the instrument has not ticked yet and is
// excluded from the display.
type coinData struct {
	price   float64
	open24h float64
}

// State is the shared price store. The feed mutates it through UpdatePrice
// and SetOpenPrice; the render loop reads it through TrySnapshot. All methods
// are safe for concurrent use.
type State struct {
	mu        sync.Mutex
	coins     []config.Coin
	separator string
	prices    map[string]*coinData
	segments  []Segment
}

// NewState creates a State for the configured instruments. Display order
// follows the slice order of coins.
func NewState(coins []config.Coin, separator string) *State {
	return &State{
		coins:     coins,
		separator: separator,
		prices:    make(map[string]*coinData, len(coins)),
	}
}

// UpdatePrice records the latest price for symbol and rebuilds the segments.
// A symbol seen for the first time has its 24h open seeded to the price, so
// its change reads 0% until a real reference arrives.
func (s *State) UpdatePrice(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.prices[symbol]; ok {
		data.price = price
	} else {
		s.prices[symbol] = &coinData{price: price, open24h: price}
	}
	s.rebuildSegments()
}

// SetOpenPrice records the 24h open for symbol and rebuilds the segments.
// A symbol seen for the first time has its price seeded to 0, keeping it off
// the display until a real price arrives.
func (s *State) SetOpenPrice(symbol string, open float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.prices[symbol]; ok {
		data.open24h = open
	} else {
		s.prices[symbol] = &coinData{price: 0, open24h: open}
	}
	s.rebuildSegments()
}

// Snapshot returns a copy of the current segments, blocking for the lock.
func (s *State) Snapshot() []Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Segment(nil), s.segments...)
}

// TrySnapshot returns a copy of the current segments without blocking. When
// the feed holds the lock it reports false and the caller should reuse its
// previous snapshot, trading one stale frame for render-loop responsiveness.
func (s *State) TrySnapshot() ([]Segment, bool) {
	if !s.mu.TryLock() {
		return nil, false
	}
	defer s.mu.Unlock()
	return append([]Segment(nil), s.segments...), true
}

// rebuildSegments recomputes the whole segment sequence in configured order,
// skipping instruments that have not ticked and separating adjacent entries
// only when more than one is active. Callers must hold s.mu. The rebuild is
// O(len(coins)) and runs on every mutation; instrument counts are single
// digits, so recomputing beats patching.
func (s *State) rebuildSegments() {
	segments := make([]Segment, 0, 2*len(s.coins))
	for _, coin := range s.coins {
		data, ok := s.prices[coin.Symbol]
		if !ok || data.price <= 0 {
			continue
		}
		if len(segments) > 0 {
			segments = append(segments, Segment{Text: s.separator, Direction: Neutral})
		}
		changeText, direction := formatChange(data.price, data.open24h)
		segments = append(segments, Segment{
			Text:      formatPrice(data.price) + " " + changeText,
			Direction: direction,
			Icon:      coin.Icon,
		})
	}
	s.segments = segments
}

// formatChange renders the percentage move against the 24h open. Moves within
// ±0.01% count as neutral so noise-level ticks do not flicker the color.
// Without a positive open the change is unknowable and renders as "--".
func formatChange(price, open float64) (string, Direction) {
	if open <= 0 {
		return "--", Neutral
	}
	change := (price - open) / open * 100
	switch {
	case change > 0.01:
		return fmt.Sprintf("+%.1f%%▲", change), Up
	case change < -0.01:
		return fmt.Sprintf("%.1f%%▼", change), Down
	default:
		return fmt.Sprintf("%.1f%%", change), Neutral
	}
}

// formatPrice picks decimal places by magnitude so large prices stay compact
// and sub-cent prices stay meaningful.
func formatPrice(price float64) string {
	switch {
	case price >= 1000:
		return fmt.Sprintf("$%.0f", price)
	case price >= 1:
		return fmt.Sprintf("$%.2f", price)
	case price >= 0.01:
		return fmt.Sprintf("$%.4f", price)
	default:
		return fmt.Sprintf("$%.6f", price)
	}
}
