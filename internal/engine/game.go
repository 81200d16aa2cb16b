// Package engine implements the Uno card game rules.
//
// The package is a pure rules core with no external dependencies. It owns
// the 108-card deck, the shuffle/draw/reshuffle cycle, play validation,
// card effects, direction-aware turn advancement, the Uno call window, and
// win/abort detection. Hosts drive it through PlayCard, DrawCard, PassTurn,
// ChooseColor, CallUno and ChallengeUno and persist the results themselves.
package engine

const (
	MaxPlayers    = 10
	BaseDeckSize  = 108
	MaxHouseCards = 4
	// MaxDeckSize accounts for optional house-rule wilds on top of the 108.
	MaxDeckSize = BaseDeckSize + 2*MaxHouseCards
)

// Direction values for turn order.
const (
	DirClockwise        int8 = 1
	DirCounterClockwise int8 = -1
)

// PlayerState holds one player's hand and Uno-call bookkeeping.
type PlayerState struct {
	Hand []Card
	// HasCalledUno is set when the player declared Uno for their current
	// one-card hand; it resets whenever the hand grows past one card.
	HasCalledUno bool
	// UnoWindowOpen marks the time-bounded obligation: the player reached
	// one card without calling Uno and may be challenged until their next
	// turn starts.
	UnoWindowOpen bool
	Forfeited     bool
}

// Flags bitfield.
const (
	FlagStarted       uint16 = 1 << 0
	FlagGameOver      uint16 = 1 << 1
	FlagAborted       uint16 = 1 << 2
	FlagAwaitingColor uint16 = 1 << 3
)

// GameState holds the complete, self-contained state of an Uno game.
// All mutation goes through the action methods; callers are expected to
// serialize access per game (single writer).
type GameState struct {
	Players [MaxPlayers]PlayerState

	DrawPile    [MaxDeckSize]Card
	DrawLen     uint8
	DiscardPile [MaxDeckSize]Card
	DiscardLen  uint8

	CurrentPlayer uint8
	Direction     int8
	// ActiveColor is the color legal plays must match. It tracks the
	// discard top's color except after a wild, where it holds the chosen
	// color.
	ActiveColor uint8
	TurnNumber  uint16
	Flags       uint16
	Winner      int8 // player index, -1 while undecided

	// Pending wild sub-state: the wild-family card sits on the discard but
	// the turn does not advance until its owner chooses a color.
	PendingColorChooser int8
	PendingWildCard     Card

	// DrewThisTurn is set after the current player draws; it gates PassTurn
	// and prevents repeated draws in one turn.
	DrewThisTurn bool

	RNG   uint64
	Rules HouseRules
}

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// NewGame and Deal
// ---------------------------------------------------------------------------

// NewGame initializes a new GameState with the given seed and rules.
// The deck is built but not yet shuffled or dealt.
func NewGame(seed uint64, rules HouseRules) GameState {
	var g GameState
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.Direction = DirClockwise
	g.ActiveColor = ColorNone
	g.Winner = -1
	g.PendingColorChooser = -1
	g.PendingWildCard = EmptyCard

	g.DrawLen = buildDeck(g.DrawPile[:], rules)
	return g
}

// Deal shuffles the deck, distributes hands round-robin, and flips the top
// draw card to start the discard pile. Wild-family flips are buried and the
// pile reshuffled until a colored card turns up. A random player starts.
func (g *GameState) Deal() {
	g.shuffleDraw()

	n := g.Rules.numPlayers()
	per := g.Rules.handSize()
	for c := uint8(0); c < per; c++ {
		for p := uint8(0); p < n; p++ {
			g.DrawLen--
			g.Players[p].Hand = append(g.Players[p].Hand, g.DrawPile[g.DrawLen])
		}
	}

	// Flip the starting discard. A wild-family card cannot open play, so
	// reshuffle until the top is colored.
	for {
		top := g.DrawPile[g.DrawLen-1]
		if !top.IsWildFamily() {
			g.DrawLen--
			g.DiscardPile[0] = top
			g.DiscardLen = 1
			g.ActiveColor = top.Color()
			break
		}
		g.shuffleDraw()
	}

	g.CurrentPlayer = uint8(g.randN(uint64(n)))
	g.Flags |= FlagStarted
}

// shuffleDraw Fisher-Yates shuffles the current draw pile in place.
func (g *GameState) shuffleDraw() {
	for i := int(g.DrawLen) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		g.DrawPile[i], g.DrawPile[j] = g.DrawPile[j], g.DrawPile[i]
	}
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

func (g *GameState) IsStarted() bool       { return g.Flags&FlagStarted != 0 }
func (g *GameState) IsGameOver() bool      { return g.Flags&FlagGameOver != 0 }
func (g *GameState) IsAborted() bool       { return g.Flags&FlagAborted != 0 }
func (g *GameState) IsAwaitingColor() bool { return g.Flags&FlagAwaitingColor != 0 }

// IsTerminal returns true when the game is over.
func (g *GameState) IsTerminal() bool { return g.IsGameOver() }

// DiscardTop returns the top card of the discard pile, or EmptyCard if empty.
func (g *GameState) DiscardTop() Card {
	if g.DiscardLen == 0 {
		return EmptyCard
	}
	return g.DiscardPile[g.DiscardLen-1]
}

// NumActivePlayers returns the number of non-forfeited players.
func (g *GameState) NumActivePlayers() uint8 {
	count := uint8(0)
	for p := uint8(0); p < g.Rules.numPlayers(); p++ {
		if !g.Players[p].Forfeited {
			count++
		}
	}
	return count
}

// PlayerAfter returns the player index reached by taking steps seats from
// the given player in the current direction, skipping forfeited players:
// next = (current + direction*steps) mod playerCount.
func (g *GameState) PlayerAfter(from uint8, steps uint8) uint8 {
	n := int8(g.Rules.numPlayers())
	idx := int8(from)
	for s := uint8(0); s < steps; s++ {
		for {
			idx = (idx + g.Direction + n) % n
			if !g.Players[idx].Forfeited {
				break
			}
			// A full loop of forfeits cannot happen while the game is live:
			// the game ends before fewer than two players remain.
		}
	}
	return uint8(idx)
}

// HandOf returns the hand slice for the given player index.
func (g *GameState) HandOf(player uint8) []Card { return g.Players[player].Hand }

// ---------------------------------------------------------------------------
// Internal pile helpers
// ---------------------------------------------------------------------------

// drawOne pops the top draw card, reshuffling the discard remainder into
// the draw pile when needed. Returns EmptyCard and false when both piles
// are exhausted. reshuffled reports whether a reshuffle took place.
func (g *GameState) drawOne() (c Card, reshuffled, ok bool) {
	if g.DrawLen == 0 {
		reshuffled = g.reshuffleFromDiscard()
	}
	if g.DrawLen == 0 {
		return EmptyCard, reshuffled, false
	}
	g.DrawLen--
	return g.DrawPile[g.DrawLen], reshuffled, true
}

// reshuffleFromDiscard keeps the top discard card and shuffles the rest of
// the discard pile back into the draw pile. Returns false when the discard
// has no spare cards.
func (g *GameState) reshuffleFromDiscard() bool {
	if g.DiscardLen <= 1 {
		return false
	}
	top := g.DiscardPile[g.DiscardLen-1]
	count := g.DiscardLen - 1
	for i := uint8(0); i < count; i++ {
		g.DrawPile[i] = g.DiscardPile[i]
	}
	g.DrawLen = count
	g.DiscardPile[0] = top
	g.DiscardLen = 1
	g.shuffleDraw()
	return true
}

// removeFromHand deletes the card at idx, preserving hand order so later
// indices shift down by exactly one.
func (g *GameState) removeFromHand(player, idx uint8) {
	h := g.Players[player].Hand
	g.Players[player].Hand = append(h[:idx], h[idx+1:]...)
}

// pushDiscard places a card on top of the discard pile.
func (g *GameState) pushDiscard(c Card) {
	g.DiscardPile[g.DiscardLen] = c
	g.DiscardLen++
}

// abort marks the game aborted and over.
func (g *GameState) abort() {
	g.Flags |= FlagGameOver | FlagAborted
}

// ---------------------------------------------------------------------------
// Clone / Restore
// ---------------------------------------------------------------------------

// Clone returns a deep copy of the game state, safe to keep while the
// original mutates. Used for rollback when a durable write fails.
func (g *GameState) Clone() GameState {
	out := *g
	for p := range out.Players {
		if g.Players[p].Hand != nil {
			out.Players[p].Hand = append([]Card(nil), g.Players[p].Hand...)
		}
	}
	return out
}

// Restore replaces the game state with the given clone.
func (g *GameState) Restore(c GameState) {
	*g = c
	for p := range g.Players {
		if c.Players[p].Hand != nil {
			g.Players[p].Hand = append([]Card(nil), c.Players[p].Hand...)
		}
	}
}
