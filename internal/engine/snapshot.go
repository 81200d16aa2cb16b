package engine

import "fmt"

// PlayerSnapshot is the serializable form of one player's state.
type PlayerSnapshot struct {
	Hand          []uint8 `json:"hand"`
	HasCalledUno  bool    `json:"hasCalledUno"`
	UnoWindowOpen bool    `json:"unoWindowOpen"`
	Forfeited     bool    `json:"forfeited"`
}

// Snapshot is the serializable form of a complete GameState. A reloaded
// snapshot reconstructs an engine whose legal plays are identical to the
// source engine's.
type Snapshot struct {
	Players             []PlayerSnapshot `json:"players"`
	DrawPile            []uint8          `json:"drawPile"`
	DiscardPile         []uint8          `json:"discardPile"`
	CurrentPlayer       uint8            `json:"currentPlayer"`
	Direction           int8             `json:"direction"`
	ActiveColor         uint8            `json:"activeColor"`
	TurnNumber          uint16           `json:"turnNumber"`
	Flags               uint16           `json:"flags"`
	Winner              int8             `json:"winner"`
	PendingColorChooser int8             `json:"pendingColorChooser"`
	PendingWildCard     uint8            `json:"pendingWildCard"`
	DrewThisTurn        bool             `json:"drewThisTurn"`
	RNG                 uint64           `json:"rng,string"`
	Rules               HouseRules       `json:"rules"`
}

// Snapshot returns the serializable form of the game state.
func (g *GameState) Snapshot() Snapshot {
	n := g.Rules.numPlayers()
	s := Snapshot{
		Players:             make([]PlayerSnapshot, n),
		DrawPile:            make([]uint8, g.DrawLen),
		DiscardPile:         make([]uint8, g.DiscardLen),
		CurrentPlayer:       g.CurrentPlayer,
		Direction:           g.Direction,
		ActiveColor:         g.ActiveColor,
		TurnNumber:          g.TurnNumber,
		Flags:               g.Flags,
		Winner:              g.Winner,
		PendingColorChooser: g.PendingColorChooser,
		PendingWildCard:     uint8(g.PendingWildCard),
		DrewThisTurn:        g.DrewThisTurn,
		RNG:                 g.RNG,
		Rules:               g.Rules,
	}
	for p := uint8(0); p < n; p++ {
		ps := PlayerSnapshot{
			Hand:          make([]uint8, len(g.Players[p].Hand)),
			HasCalledUno:  g.Players[p].HasCalledUno,
			UnoWindowOpen: g.Players[p].UnoWindowOpen,
			Forfeited:     g.Players[p].Forfeited,
		}
		for i, c := range g.Players[p].Hand {
			ps.Hand[i] = uint8(c)
		}
		s.Players[p] = ps
	}
	for i := uint8(0); i < g.DrawLen; i++ {
		s.DrawPile[i] = uint8(g.DrawPile[i])
	}
	for i := uint8(0); i < g.DiscardLen; i++ {
		s.DiscardPile[i] = uint8(g.DiscardPile[i])
	}
	return s
}

// FromSnapshot reconstructs a GameState from its serialized form.
func FromSnapshot(s Snapshot) (GameState, error) {
	if len(s.Players) < 2 || len(s.Players) > MaxPlayers {
		return GameState{}, fmt.Errorf("snapshot has %d players, want 2-%d", len(s.Players), MaxPlayers)
	}
	if len(s.DrawPile) > MaxDeckSize || len(s.DiscardPile) > MaxDeckSize {
		return GameState{}, fmt.Errorf("snapshot pile sizes exceed deck capacity")
	}

	var g GameState
	g.CurrentPlayer = s.CurrentPlayer
	g.Direction = s.Direction
	g.ActiveColor = s.ActiveColor
	g.TurnNumber = s.TurnNumber
	g.Flags = s.Flags
	g.Winner = s.Winner
	g.PendingColorChooser = s.PendingColorChooser
	g.PendingWildCard = Card(s.PendingWildCard)
	g.DrewThisTurn = s.DrewThisTurn
	g.RNG = s.RNG
	if g.RNG == 0 {
		g.RNG = 1
	}
	g.Rules = s.Rules
	if g.Rules.NumPlayers == 0 {
		g.Rules.NumPlayers = uint8(len(s.Players))
	}
	if g.Direction == 0 {
		g.Direction = DirClockwise
	}

	for p, ps := range s.Players {
		hand := make([]Card, len(ps.Hand))
		for i, c := range ps.Hand {
			hand[i] = Card(c)
		}
		g.Players[p] = PlayerState{
			Hand:          hand,
			HasCalledUno:  ps.HasCalledUno,
			UnoWindowOpen: ps.UnoWindowOpen,
			Forfeited:     ps.Forfeited,
		}
	}
	g.DrawLen = uint8(len(s.DrawPile))
	for i, c := range s.DrawPile {
		g.DrawPile[i] = Card(c)
	}
	g.DiscardLen = uint8(len(s.DiscardPile))
	for i, c := range s.DiscardPile {
		g.DiscardPile[i] = Card(c)
	}
	return g, nil
}
