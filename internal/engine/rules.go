package engine

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	NumPlayers       uint8 // number of active players (2-10); 0 treated as 2
	HandSize         uint8 // cards dealt per player; 0 treated as 7
	UnoPenaltyDraw   uint8 // cards drawn on a successful Uno challenge; 0 treated as 2
	NumShuffleHands  uint8 // extra wild_shuffle_hands cards in the deck (0-4)
	NumCustomizable  uint8 // extra wild_customizable cards in the deck (0-4)
	CustomizableDraw uint8 // cards the next player draws when a customizable wild resolves
	AbortOnLeave     bool  // if true, a mid-game leave aborts the game instead of forfeiting
}

// DefaultHouseRules returns the standard tournament rules: 7-card hands,
// +2 Uno penalty, no house cards.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		NumPlayers:     2,
		HandSize:       7,
		UnoPenaltyDraw: 2,
	}
}

// numPlayers returns the effective number of players, treating 0 as 2.
func (r *HouseRules) numPlayers() uint8 {
	if r.NumPlayers == 0 {
		return 2
	}
	return r.NumPlayers
}

// handSize returns the effective dealt hand size, treating 0 as 7.
func (r *HouseRules) handSize() uint8 {
	if r.HandSize == 0 {
		return 7
	}
	return r.HandSize
}

// unoPenalty returns the effective Uno challenge penalty, treating 0 as 2.
func (r *HouseRules) unoPenalty() uint8 {
	if r.UnoPenaltyDraw == 0 {
		return 2
	}
	return r.UnoPenaltyDraw
}
