package engine

// Color constants, packed into the upper 3 bits of Card.
const (
	ColorRed    uint8 = 0
	ColorGreen  uint8 = 1
	ColorBlue   uint8 = 2
	ColorYellow uint8 = 3
	ColorWild   uint8 = 4
)

// ColorNone marks the absence of a color choice.
const ColorNone uint8 = 0xFF

// Symbol constants, packed into the lower 5 bits of Card.
// Symbols 0-9 are the number faces; the rest are action faces.
const (
	SymbolZero  uint8 = 0
	SymbolOne   uint8 = 1
	SymbolTwo   uint8 = 2
	SymbolThree uint8 = 3
	SymbolFour  uint8 = 4
	SymbolFive  uint8 = 5
	SymbolSix   uint8 = 6
	SymbolSeven uint8 = 7
	SymbolEight uint8 = 8
	SymbolNine  uint8 = 9

	SymbolSkip    uint8 = 10
	SymbolReverse uint8 = 11
	SymbolDrawTwo uint8 = 12

	SymbolWild             uint8 = 13
	SymbolWildDrawFour     uint8 = 14
	SymbolWildShuffleHands uint8 = 15
	SymbolWildCustomizable uint8 = 16
)

// Card is a packed uint8: upper 3 bits = color, lower 5 bits = symbol.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from color and symbol.
func NewCard(color, symbol uint8) Card {
	return Card((color << 5) | (symbol & 0x1F))
}

// Color returns the color bits (upper 3).
func (c Card) Color() uint8 { return uint8(c) >> 5 }

// Symbol returns the symbol bits (lower 5).
func (c Card) Symbol() uint8 { return uint8(c) & 0x1F }

// IsNumber reports whether the card is a number face (0-9).
func (c Card) IsNumber() bool { return c != EmptyCard && c.Symbol() <= SymbolNine }

// IsWildFamily reports whether the card carries the wild color
// (wild, wild_draw_four, wild_shuffle_hands, wild_customizable).
// Wild-family cards require a chosen color before the turn advances.
func (c Card) IsWildFamily() bool { return c != EmptyCard && c.Color() == ColorWild }

// Value returns the number face value, or -1 for action and wild cards.
func (c Card) Value() int8 {
	if c.IsNumber() {
		return int8(c.Symbol())
	}
	return -1
}

// Matches reports whether c is a legal play on top of the given discard
// top with the given active color. A play is legal iff the color matches
// the active color, the symbol matches the discard top's symbol, or the
// card is wild-family.
func (c Card) Matches(top Card, activeColor uint8) bool {
	if c == EmptyCard {
		return false
	}
	if c.IsWildFamily() {
		return true
	}
	if c.Color() == activeColor {
		return true
	}
	return top != EmptyCard && c.Symbol() == top.Symbol()
}

// BuildDeck returns a fresh unshuffled deck for the given rules. Hosts use
// it to seed a card catalog matching the engine's deck exactly.
func BuildDeck(rules HouseRules) []Card {
	var deck [MaxDeckSize]Card
	n := buildDeck(deck[:], rules)
	return append([]Card(nil), deck[:n]...)
}

// buildDeck writes the full deck into dst and returns the number of cards.
// The canonical 108: per color one 0, two each of 1-9, two each of
// skip/reverse/draw_two, plus four wild and four wild_draw_four. House
// rules append extra wild_shuffle_hands and wild_customizable cards.
func buildDeck(dst []Card, rules HouseRules) uint8 {
	idx := 0
	for color := ColorRed; color <= ColorYellow; color++ {
		dst[idx] = NewCard(color, SymbolZero)
		idx++
		for sym := SymbolOne; sym <= SymbolDrawTwo; sym++ {
			dst[idx] = NewCard(color, sym)
			dst[idx+1] = NewCard(color, sym)
			idx += 2
		}
	}
	for i := 0; i < 4; i++ {
		dst[idx] = NewCard(ColorWild, SymbolWild)
		dst[idx+1] = NewCard(ColorWild, SymbolWildDrawFour)
		idx += 2
	}
	for i := uint8(0); i < rules.NumShuffleHands && i < MaxHouseCards; i++ {
		dst[idx] = NewCard(ColorWild, SymbolWildShuffleHands)
		idx++
	}
	for i := uint8(0); i < rules.NumCustomizable && i < MaxHouseCards; i++ {
		dst[idx] = NewCard(ColorWild, SymbolWildCustomizable)
		idx++
	}
	return uint8(idx)
}
