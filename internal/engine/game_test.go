package engine

import "testing"

// fullDeckMultiset returns the card multiset of a fresh deck under rules.
func fullDeckMultiset(rules HouseRules) map[Card]int {
	var deck [MaxDeckSize]Card
	n := buildDeck(deck[:], rules)
	m := make(map[Card]int)
	for i := uint8(0); i < n; i++ {
		m[deck[i]]++
	}
	return m
}

// liveMultiset returns the card multiset across draw pile, discard pile and
// all hands.
func liveMultiset(g *GameState) map[Card]int {
	m := make(map[Card]int)
	for i := uint8(0); i < g.DrawLen; i++ {
		m[g.DrawPile[i]]++
	}
	for i := uint8(0); i < g.DiscardLen; i++ {
		m[g.DiscardPile[i]]++
	}
	for p := uint8(0); p < g.Rules.numPlayers(); p++ {
		for _, c := range g.Players[p].Hand {
			m[c]++
		}
	}
	return m
}

// assertConservation fails the test unless every card of the full deck is
// accounted for exactly once across piles and hands.
func assertConservation(t *testing.T, g *GameState) {
	t.Helper()
	want := fullDeckMultiset(g.Rules)
	got := liveMultiset(g)
	for c, n := range want {
		if got[c] != n {
			t.Fatalf("card %08b: have %d, want %d", uint8(c), got[c], n)
		}
	}
	for c, n := range got {
		if want[c] != n {
			t.Fatalf("card %08b: have %d, want %d", uint8(c), n, want[c])
		}
	}
}

// TestNewGameDeck verifies NewGame builds the full unshuffled deck.
func TestNewGameDeck(t *testing.T) {
	g := NewGame(42, DefaultHouseRules())
	if g.DrawLen != BaseDeckSize {
		t.Fatalf("DrawLen = %d, want %d", g.DrawLen, BaseDeckSize)
	}
	if g.IsStarted() {
		t.Error("game marked started before Deal")
	}
	assertConservation(t, &g)
}

// TestDealCardCounts verifies the spec numbers: dealing 7 cards to 4
// players from a fresh 108-card deck leaves 80 cards outside hands.
func TestDealCardCounts(t *testing.T) {
	rules := DefaultHouseRules()
	rules.NumPlayers = 4
	g := NewGame(42, rules)
	g.Deal()

	for p := uint8(0); p < 4; p++ {
		if len(g.Players[p].Hand) != 7 {
			t.Errorf("player %d hand = %d cards, want 7", p, len(g.Players[p].Hand))
		}
	}
	undealt := int(g.DrawLen) + int(g.DiscardLen)
	if undealt != 80 {
		t.Errorf("cards outside hands = %d, want 80", undealt)
	}
	if g.DiscardLen != 1 {
		t.Errorf("DiscardLen = %d, want 1", g.DiscardLen)
	}
	if g.DiscardTop().IsWildFamily() {
		t.Error("starting discard is wild-family; it must be buried and reflipped")
	}
	if g.ActiveColor != g.DiscardTop().Color() {
		t.Errorf("ActiveColor = %d, want discard top color %d", g.ActiveColor, g.DiscardTop().Color())
	}
	assertConservation(t, &g)
}

// TestDealDeterministic verifies the same seed produces identical games.
func TestDealDeterministic(t *testing.T) {
	rules := DefaultHouseRules()
	rules.NumPlayers = 3

	g1 := NewGame(99, rules)
	g1.Deal()
	g2 := NewGame(99, rules)
	g2.Deal()

	if g1.CurrentPlayer != g2.CurrentPlayer {
		t.Errorf("CurrentPlayer: %d vs %d", g1.CurrentPlayer, g2.CurrentPlayer)
	}
	if g1.DiscardTop() != g2.DiscardTop() {
		t.Errorf("DiscardTop: %v vs %v", g1.DiscardTop(), g2.DiscardTop())
	}
	for p := uint8(0); p < 3; p++ {
		for i := range g1.Players[p].Hand {
			if g1.Players[p].Hand[i] != g2.Players[p].Hand[i] {
				t.Errorf("player %d card %d: %v vs %v", p, i, g1.Players[p].Hand[i], g2.Players[p].Hand[i])
			}
		}
	}
}

// TestNewGameSeedZero verifies seed 0 is corrected to 1.
func TestNewGameSeedZero(t *testing.T) {
	g := NewGame(0, DefaultHouseRules())
	if g.RNG != 1 {
		t.Errorf("RNG = %d, want 1 for seed=0", g.RNG)
	}
}

// TestReshuffleKeepsDiscardTop verifies an empty draw pile is refilled from
// the discard remainder while the top card stays in place.
func TestReshuffleKeepsDiscardTop(t *testing.T) {
	g := NewGame(7, DefaultHouseRules())
	g.Deal()

	// Move the whole draw pile onto the discard.
	for g.DrawLen > 0 {
		g.DrawLen--
		g.pushDiscard(g.DrawPile[g.DrawLen])
	}
	top := g.DiscardTop()
	preDiscard := g.DiscardLen

	c, reshuffled, ok := g.drawOne()
	if !ok {
		t.Fatal("drawOne failed with a full discard pile available")
	}
	if !reshuffled {
		t.Error("drawOne did not report the reshuffle")
	}
	if c == EmptyCard {
		t.Error("drew EmptyCard")
	}
	if g.DiscardLen != 1 || g.DiscardTop() != top {
		t.Errorf("discard top after reshuffle = %v (len %d), want %v (len 1)", g.DiscardTop(), g.DiscardLen, top)
	}
	if g.DrawLen != preDiscard-2 {
		t.Errorf("DrawLen = %d, want %d", g.DrawLen, preDiscard-2)
	}
	assertConservation(t, &g)
}

// TestDrawOneExhausted verifies both piles empty yields no card.
func TestDrawOneExhausted(t *testing.T) {
	g := NewGame(7, DefaultHouseRules())
	g.Deal()
	g.DrawLen = 0
	g.DiscardLen = 1 // only the top remains; reshuffle has nothing to take

	if _, _, ok := g.drawOne(); ok {
		t.Error("drawOne succeeded with both piles exhausted")
	}
}

// TestCloneRestore verifies Clone is a deep copy usable for rollback.
func TestCloneRestore(t *testing.T) {
	g := NewGame(42, DefaultHouseRules())
	g.Deal()

	saved := g.Clone()
	origHand := append([]Card(nil), g.Players[0].Hand...)

	// Mutate live state.
	g.Players[0].Hand[0] = EmptyCard
	g.Players[0].Hand = g.Players[0].Hand[:1]
	g.TurnNumber = 999
	g.Flags |= FlagGameOver

	g.Restore(saved)

	if g.TurnNumber != 0 || g.IsGameOver() {
		t.Errorf("restore missed scalars: turn=%d over=%v", g.TurnNumber, g.IsGameOver())
	}
	if len(g.Players[0].Hand) != len(origHand) {
		t.Fatalf("restored hand len = %d, want %d", len(g.Players[0].Hand), len(origHand))
	}
	for i := range origHand {
		if g.Players[0].Hand[i] != origHand[i] {
			t.Errorf("restored hand[%d] = %v, want %v", i, g.Players[0].Hand[i], origHand[i])
		}
	}

	// Clone must not alias the live hands.
	saved2 := g.Clone()
	g.Players[0].Hand[0] = EmptyCard
	if saved2.Players[0].Hand[0] == EmptyCard {
		t.Error("Clone aliases the live hand slice")
	}
}

// TestPlayerAfterDirection verifies the advancement formula in both
// directions with forfeit skipping.
func TestPlayerAfterDirection(t *testing.T) {
	rules := DefaultHouseRules()
	rules.NumPlayers = 4
	g := NewGame(1, rules)

	if got := g.PlayerAfter(0, 1); got != 1 {
		t.Errorf("clockwise next of 0 = %d, want 1", got)
	}
	if got := g.PlayerAfter(3, 1); got != 0 {
		t.Errorf("clockwise next of 3 = %d, want 0 (wrap)", got)
	}
	if got := g.PlayerAfter(0, 2); got != 2 {
		t.Errorf("clockwise two steps from 0 = %d, want 2", got)
	}

	g.Direction = DirCounterClockwise
	if got := g.PlayerAfter(0, 1); got != 3 {
		t.Errorf("counter-clockwise next of 0 = %d, want 3", got)
	}

	g.Direction = DirClockwise
	g.Players[1].Forfeited = true
	if got := g.PlayerAfter(0, 1); got != 2 {
		t.Errorf("next of 0 skipping forfeited 1 = %d, want 2", got)
	}
}
