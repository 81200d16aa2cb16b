package engine

import "testing"

// TestDeckComposition verifies the canonical 108-card deck.
func TestDeckComposition(t *testing.T) {
	var deck [MaxDeckSize]Card
	n := buildDeck(deck[:], DefaultHouseRules())
	if n != BaseDeckSize {
		t.Fatalf("deck size = %d, want %d", n, BaseDeckSize)
	}

	colorCounts := make(map[uint8]int)
	symbolCounts := make(map[uint8]int)
	for i := uint8(0); i < n; i++ {
		colorCounts[deck[i].Color()]++
		symbolCounts[deck[i].Symbol()]++
	}

	for color := ColorRed; color <= ColorYellow; color++ {
		if colorCounts[color] != 25 {
			t.Errorf("color %d count = %d, want 25", color, colorCounts[color])
		}
	}
	if colorCounts[ColorWild] != 8 {
		t.Errorf("wild count = %d, want 8", colorCounts[ColorWild])
	}
	if symbolCounts[SymbolZero] != 4 {
		t.Errorf("zero count = %d, want 4", symbolCounts[SymbolZero])
	}
	for sym := SymbolOne; sym <= SymbolDrawTwo; sym++ {
		if symbolCounts[sym] != 8 {
			t.Errorf("symbol %d count = %d, want 8", sym, symbolCounts[sym])
		}
	}
	if symbolCounts[SymbolWild] != 4 || symbolCounts[SymbolWildDrawFour] != 4 {
		t.Errorf("wild=%d wildDrawFour=%d, want 4 each", symbolCounts[SymbolWild], symbolCounts[SymbolWildDrawFour])
	}
}

// TestDeckHouseCards verifies house-rule wilds are appended.
func TestDeckHouseCards(t *testing.T) {
	rules := DefaultHouseRules()
	rules.NumShuffleHands = 1
	rules.NumCustomizable = 3

	var deck [MaxDeckSize]Card
	n := buildDeck(deck[:], rules)
	if n != BaseDeckSize+4 {
		t.Fatalf("deck size = %d, want %d", n, BaseDeckSize+4)
	}

	shuffles, customs := 0, 0
	for i := uint8(0); i < n; i++ {
		switch deck[i].Symbol() {
		case SymbolWildShuffleHands:
			shuffles++
		case SymbolWildCustomizable:
			customs++
		}
	}
	if shuffles != 1 || customs != 3 {
		t.Errorf("shuffleHands=%d customizable=%d, want 1 and 3", shuffles, customs)
	}
}

// TestCardPacking verifies color/symbol round-trip through the packed byte.
func TestCardPacking(t *testing.T) {
	c := NewCard(ColorYellow, SymbolDrawTwo)
	if c.Color() != ColorYellow || c.Symbol() != SymbolDrawTwo {
		t.Errorf("got color=%d symbol=%d", c.Color(), c.Symbol())
	}
	w := NewCard(ColorWild, SymbolWildCustomizable)
	if !w.IsWildFamily() {
		t.Error("wild_customizable should be wild-family")
	}
	if w.Value() != -1 {
		t.Errorf("wild Value() = %d, want -1", w.Value())
	}
	five := NewCard(ColorRed, SymbolFive)
	if five.Value() != 5 {
		t.Errorf("red five Value() = %d, want 5", five.Value())
	}
	if five.IsWildFamily() {
		t.Error("red five should not be wild-family")
	}
}

// TestMatches exercises the legality predicate.
func TestMatches(t *testing.T) {
	top := NewCard(ColorRed, SymbolFive)

	cases := []struct {
		name        string
		card        Card
		activeColor uint8
		want        bool
	}{
		{"same color", NewCard(ColorRed, SymbolNine), ColorRed, true},
		{"same symbol other color", NewCard(ColorBlue, SymbolFive), ColorRed, true},
		{"no match", NewCard(ColorBlue, SymbolNine), ColorRed, false},
		{"wild always matches", NewCard(ColorWild, SymbolWild), ColorRed, true},
		{"wild draw four always matches", NewCard(ColorWild, SymbolWildDrawFour), ColorRed, true},
		{"active color overrides top color", NewCard(ColorGreen, SymbolNine), ColorGreen, true},
		{"empty card never matches", EmptyCard, ColorRed, false},
	}
	for _, tc := range cases {
		if got := tc.card.Matches(top, tc.activeColor); got != tc.want {
			t.Errorf("%s: Matches = %v, want %v", tc.name, got, tc.want)
		}
	}
}
