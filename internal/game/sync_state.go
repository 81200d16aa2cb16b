package game

// ObfCard is a card as shown to a specific observer. Opponents' hand cards
// are never included at all, so every ObfCard carries full details.
type ObfCard struct {
	ID    uint   `json:"id"`
	Color string `json:"color"`
	Type  string `json:"type"`
	Value *int16 `json:"value,omitempty"`
	Idx   *int   `json:"idx,omitempty"`
}

// ObfPlayerState is one player's state, obfuscated for a specific observer:
// everyone sees hand sizes and flags, only the observer sees their own cards.
type ObfPlayerState struct {
	PlayerID      uint   `json:"playerId"`
	Username      string `json:"username"`
	HandSize      int    `json:"handSize"`
	HasCalledUno  bool   `json:"hasCalledUno"`
	IsCurrentTurn bool   `json:"isCurrentTurn"`
	Connected     bool   `json:"connected"`
	Forfeited     bool   `json:"forfeited"`
	// RevealedHand is populated only for the observer's own entry.
	RevealedHand []ObfCard `json:"revealedHand,omitempty"`
}

// ObfGameState is the full game state tailored to one observer.
type ObfGameState struct {
	GameID          uint             `json:"gameId"`
	Started         bool             `json:"started"`
	GameOver        bool             `json:"gameOver"`
	Aborted         bool             `json:"aborted"`
	CurrentPlayerID uint             `json:"currentPlayerId,omitempty"`
	Direction       string           `json:"direction"`
	ActiveColor     string           `json:"activeColor,omitempty"`
	AwaitingColor   bool             `json:"awaitingColor"`
	TurnNumber      int              `json:"turnNumber"`
	DrawPileSize    int              `json:"drawPileSize"`
	DiscardSize     int              `json:"discardSize"`
	DiscardTop      *ObfCard         `json:"discardTop,omitempty"`
	WinnerID        uint             `json:"winnerId,omitempty"`
	Players         []ObfPlayerState `json:"players"`
}

// obfuscatedState builds the game state from the perspective of forPlayer
// (the uno_player row id; 0 yields a spectator view with no hands).
// Assumes the game lock is held by the caller.
func (g *UnoGame) obfuscatedState(forPlayer uint) *ObfGameState {
	eng := &g.Engine
	obf := &ObfGameState{
		GameID:        g.ID,
		Started:       eng.IsStarted(),
		GameOver:      eng.IsGameOver(),
		Aborted:       eng.IsAborted(),
		Direction:     directionString(eng.Direction),
		ActiveColor:   colorString(eng.ActiveColor),
		AwaitingColor: eng.IsAwaitingColor(),
		TurnNumber:    int(eng.TurnNumber),
		DrawPileSize:  int(eng.DrawLen),
		DiscardSize:   int(eng.DiscardLen),
	}

	if eng.IsStarted() && !eng.IsGameOver() {
		obf.CurrentPlayerID = g.playerIDAt(eng.CurrentPlayer)
	}
	if eng.Winner >= 0 {
		obf.WinnerID = g.playerIDAt(uint8(eng.Winner))
	}
	if eng.DiscardLen > 0 {
		if id := g.tracker.discardTopID(); id != 0 {
			row := g.tracker.detail(id)
			obf.DiscardTop = &ObfCard{
				ID:    row.ID,
				Color: string(row.Color),
				Type:  string(row.Type),
				Value: row.Value,
			}
		}
	}

	obf.Players = make([]ObfPlayerState, len(g.Players))
	for i, pl := range g.Players {
		ps := ObfPlayerState{
			PlayerID:      pl.ID,
			Username:      pl.Username,
			HandSize:      len(eng.Players[pl.EngineIdx].Hand),
			HasCalledUno:  eng.Players[pl.EngineIdx].HasCalledUno,
			IsCurrentTurn: eng.IsStarted() && !eng.IsGameOver() && eng.CurrentPlayer == pl.EngineIdx,
			Connected:     pl.Connected,
			Forfeited:     eng.Players[pl.EngineIdx].Forfeited,
		}
		if pl.ID == forPlayer {
			ids := g.tracker.handIDs(pl.EngineIdx)
			ps.RevealedHand = make([]ObfCard, len(ids))
			for j, id := range ids {
				row := g.tracker.detail(id)
				idx := j
				ps.RevealedHand[j] = ObfCard{
					ID:    row.ID,
					Color: string(row.Color),
					Type:  string(row.Type),
					Value: row.Value,
					Idx:   &idx,
				}
			}
		}
		obf.Players[i] = ps
	}
	return obf
}
