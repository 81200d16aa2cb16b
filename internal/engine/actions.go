package engine

import "fmt"

// PlayResult summarizes an accepted play for the host: what happened, who
// was skipped, who drew what, and where the turn landed. Hosts persist one
// turn record per result (plus one is_skipped record when SkippedPlayer is
// set) and mirror DrewCards/Reshuffled/HandsShuffled into their card
// instance tracking.
type PlayResult struct {
	Player      uint8
	Card        Card
	ChosenColor uint8 // ColorNone unless a wild-family card resolved
	TurnNumber  uint16

	// AwaitingColor is set when a wild-family card was accepted but the
	// turn is parked until ChooseColor; no turn number is assigned yet.
	AwaitingColor bool

	SkippedPlayer     int8 // -1 when nobody was skipped
	SkippedTurnNumber uint16

	DrewPlayer int8 // -1 when no forced draw happened
	DrewCards  []Card
	Reshuffled bool

	HandsShuffled   bool
	UnoWindowOpened bool

	Winner   int8 // -1 while undecided
	GameOver bool
	Aborted  bool

	NextPlayer uint8
	Direction  int8
}

// DrawResult summarizes a voluntary draw by the acting player.
type DrawResult struct {
	Card       Card
	Playable   bool
	Reshuffled bool
}

// ChallengeResult summarizes a successful Uno challenge.
type ChallengeResult struct {
	Target       uint8
	PenaltyCards []Card
	Reshuffled   bool
	Aborted      bool
}

// ForfeitResult summarizes a player leaving mid-game.
type ForfeitResult struct {
	Player       uint8
	HandReturned []Card
	Winner       int8 // -1 unless the forfeit decided the game
	GameOver     bool
	NextPlayer   uint8
}

// checkActionable validates the common preconditions for a turn action by
// the given player.
func (g *GameState) checkActionable(player uint8) error {
	if !g.IsStarted() {
		return ErrGameNotStarted
	}
	if g.IsGameOver() {
		return ErrGameFinished
	}
	if g.IsAwaitingColor() {
		return ErrAwaitingColorChoice
	}
	if player != g.CurrentPlayer {
		return ErrNotYourTurn
	}
	return nil
}

// PlayCard plays the card at handIdx from the acting player's hand.
//
// A wild-family card needs a chosen color: pass it in chosenColor to resolve
// in one step, or pass ColorNone to park the game in the awaiting-color
// sub-state (resolved later via ChooseColor). Non-wild plays must pass
// ColorNone. Playing the last card wins immediately, color choice or not.
func (g *GameState) PlayCard(player uint8, handIdx uint8, chosenColor uint8) (PlayResult, error) {
	if err := g.checkActionable(player); err != nil {
		return PlayResult{}, err
	}
	hand := g.Players[player].Hand
	if int(handIdx) >= len(hand) {
		return PlayResult{}, fmt.Errorf("%w: hand index %d out of range (hand size %d)", ErrInvalidPlay, handIdx, len(hand))
	}
	card := hand[handIdx]
	if !card.Matches(g.DiscardTop(), g.ActiveColor) {
		return PlayResult{}, fmt.Errorf("%w: card does not match color %d or top symbol", ErrInvalidPlay, g.ActiveColor)
	}

	if card.IsWildFamily() {
		if chosenColor != ColorNone && chosenColor > ColorYellow {
			return PlayResult{}, fmt.Errorf("%w: color %d", ErrInvalidColor, chosenColor)
		}
	} else if chosenColor != ColorNone {
		return PlayResult{}, fmt.Errorf("%w: color choice only applies to wild cards", ErrInvalidColor)
	}

	g.removeFromHand(player, handIdx)
	g.pushDiscard(card)

	// Wild without a color: park until ChooseColor, unless this was the
	// last card (the game ends regardless of color).
	if card.IsWildFamily() && chosenColor == ColorNone && len(g.Players[player].Hand) > 0 {
		g.Flags |= FlagAwaitingColor
		g.PendingColorChooser = int8(player)
		g.PendingWildCard = card
		res := PlayResult{
			Player:        player,
			Card:          card,
			ChosenColor:   ColorNone,
			AwaitingColor: true,
			SkippedPlayer: -1,
			DrewPlayer:    -1,
			Winner:        -1,
			NextPlayer:    player,
			Direction:     g.Direction,
		}
		if p := &g.Players[player]; len(p.Hand) == 1 && !p.HasCalledUno {
			p.UnoWindowOpen = true
			res.UnoWindowOpened = true
		}
		return res, nil
	}

	if !card.IsWildFamily() {
		g.ActiveColor = card.Color()
	} else if chosenColor != ColorNone {
		g.ActiveColor = chosenColor
	}
	res := g.finishPlay(player, card, chosenColor)
	return res, nil
}

// ChooseColor resolves a parked wild-family play with the chosen color and
// completes the turn.
func (g *GameState) ChooseColor(player uint8, color uint8) (PlayResult, error) {
	if g.IsGameOver() {
		return PlayResult{}, ErrGameFinished
	}
	if !g.IsAwaitingColor() {
		return PlayResult{}, ErrNoColorPending
	}
	if int8(player) != g.PendingColorChooser {
		return PlayResult{}, ErrNotYourTurn
	}
	if color > ColorYellow {
		return PlayResult{}, fmt.Errorf("%w: color %d", ErrInvalidColor, color)
	}

	card := g.PendingWildCard
	g.Flags &^= FlagAwaitingColor
	g.PendingColorChooser = -1
	g.PendingWildCard = EmptyCard
	g.ActiveColor = color

	res := g.finishPlay(player, card, color)
	return res, nil
}

// finishPlay assigns the turn number, runs Uno-window bookkeeping, applies
// the card's effect, checks for a win, and advances the turn.
func (g *GameState) finishPlay(player uint8, card Card, chosenColor uint8) PlayResult {
	g.TurnNumber++
	res := PlayResult{
		Player:        player,
		Card:          card,
		ChosenColor:   chosenColor,
		TurnNumber:    g.TurnNumber,
		SkippedPlayer: -1,
		DrewPlayer:    -1,
		Winner:        -1,
	}

	p := &g.Players[player]
	if len(p.Hand) == 1 && !p.HasCalledUno {
		p.UnoWindowOpen = true
		res.UnoWindowOpened = true
	}

	won := len(p.Hand) == 0

	// Effect resolution. steps is how far the turn pointer moves; 2 means
	// the next seat is skipped.
	steps := uint8(1)
	drawTarget := int8(-1)
	drawCount := uint8(0)

	switch card.Symbol() {
	case SymbolSkip:
		steps = 2
	case SymbolReverse:
		if g.NumActivePlayers() == 2 {
			// Two-player reverse behaves as a skip.
			steps = 2
		} else {
			g.Direction = -g.Direction
		}
	case SymbolDrawTwo:
		drawTarget = int8(g.PlayerAfter(player, 1))
		drawCount = 2
		steps = 2
	case SymbolWildDrawFour:
		drawTarget = int8(g.PlayerAfter(player, 1))
		drawCount = 4
		steps = 2
	case SymbolWildShuffleHands:
		g.shuffleHands()
		res.HandsShuffled = true
	case SymbolWildCustomizable:
		if g.Rules.CustomizableDraw > 0 {
			drawTarget = int8(g.PlayerAfter(player, 1))
			drawCount = g.Rules.CustomizableDraw
			steps = 2
		}
	}

	// Forced draws resolve before the win check so a draw card played as
	// the final card still punishes the next player.
	if drawCount > 0 {
		cards, reshuffled, ok := g.drawCards(uint8(drawTarget), drawCount)
		res.DrewPlayer = drawTarget
		res.DrewCards = cards
		res.Reshuffled = reshuffled
		if !ok {
			g.abort()
			res.Aborted = true
			res.GameOver = true
			res.NextPlayer = g.CurrentPlayer
			res.Direction = g.Direction
			return res
		}
	}

	if steps == 2 {
		res.SkippedPlayer = int8(g.PlayerAfter(player, 1))
		g.TurnNumber++
		res.SkippedTurnNumber = g.TurnNumber
	}

	if won {
		g.Winner = int8(player)
		g.Flags |= FlagGameOver
		p.UnoWindowOpen = false
		res.Winner = int8(player)
		res.GameOver = true
		res.NextPlayer = g.CurrentPlayer
		res.Direction = g.Direction
		return res
	}

	g.advance(steps)
	res.NextPlayer = g.CurrentPlayer
	res.Direction = g.Direction
	return res
}

// advance moves the turn pointer and opens the new current player's turn.
// Reaching your own turn closes your Uno window safely.
func (g *GameState) advance(steps uint8) {
	g.CurrentPlayer = g.PlayerAfter(g.CurrentPlayer, steps)
	g.DrewThisTurn = false
	g.Players[g.CurrentPlayer].UnoWindowOpen = false
}

// drawCards draws count cards into the target player's hand. Growing past
// one card resets the player's Uno state. ok is false when the piles ran
// dry before count cards were produced.
func (g *GameState) drawCards(target uint8, count uint8) (cards []Card, reshuffled, ok bool) {
	p := &g.Players[target]
	for i := uint8(0); i < count; i++ {
		c, r, drew := g.drawOne()
		reshuffled = reshuffled || r
		if !drew {
			return cards, reshuffled, false
		}
		p.Hand = append(p.Hand, c)
		cards = append(cards, c)
	}
	if len(p.Hand) > 1 {
		p.HasCalledUno = false
		p.UnoWindowOpen = false
	}
	return cards, reshuffled, true
}

// shuffleHands pools every active player's hand, shuffles the pool, and
// redistributes it in seat order preserving each player's hand size.
func (g *GameState) shuffleHands() {
	n := g.Rules.numPlayers()
	var pool []Card
	var sizes [MaxPlayers]int
	for p := uint8(0); p < n; p++ {
		if g.Players[p].Forfeited {
			continue
		}
		sizes[p] = len(g.Players[p].Hand)
		pool = append(pool, g.Players[p].Hand...)
	}
	for i := len(pool) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		pool[i], pool[j] = pool[j], pool[i]
	}
	off := 0
	for p := uint8(0); p < n; p++ {
		if g.Players[p].Forfeited {
			continue
		}
		g.Players[p].Hand = append(g.Players[p].Hand[:0], pool[off:off+sizes[p]]...)
		off += sizes[p]
		if len(g.Players[p].Hand) != 1 {
			g.Players[p].HasCalledUno = false
			g.Players[p].UnoWindowOpen = false
		}
	}
}

// DrawCard draws one card for the acting player. The card may be played
// this turn if playable; otherwise the player must PassTurn.
func (g *GameState) DrawCard(player uint8) (DrawResult, error) {
	if err := g.checkActionable(player); err != nil {
		return DrawResult{}, err
	}
	if g.DrewThisTurn {
		return DrawResult{}, ErrAlreadyDrew
	}
	c, reshuffled, ok := g.drawOne()
	if !ok {
		g.abort()
		return DrawResult{Reshuffled: reshuffled}, ErrEmptyDeck
	}
	p := &g.Players[player]
	p.Hand = append(p.Hand, c)
	if len(p.Hand) > 1 {
		p.HasCalledUno = false
		p.UnoWindowOpen = false
	}
	g.DrewThisTurn = true
	return DrawResult{
		Card:       c,
		Playable:   c.Matches(g.DiscardTop(), g.ActiveColor),
		Reshuffled: reshuffled,
	}, nil
}

// PassTurn ends the acting player's turn after an unplayable draw. Passing
// without drawing first is rejected. Returns the next player's index.
func (g *GameState) PassTurn(player uint8) (uint8, error) {
	if err := g.checkActionable(player); err != nil {
		return 0, err
	}
	if !g.DrewThisTurn {
		return 0, ErrMustDrawFirst
	}
	g.advance(1)
	return g.CurrentPlayer, nil
}

// CallUno declares Uno for the calling player. Legal while the player's
// one-card window is open, or pre-emptively on their own turn with two
// cards in hand.
func (g *GameState) CallUno(player uint8) error {
	if !g.IsStarted() {
		return ErrGameNotStarted
	}
	if g.IsGameOver() {
		return ErrGameFinished
	}
	p := &g.Players[player]
	switch len(p.Hand) {
	case 1:
		if p.HasCalledUno {
			return ErrNothingToCall
		}
		if !p.UnoWindowOpen {
			// Window already closed by a challenge or by turn passage.
			return ErrTooLate
		}
		p.HasCalledUno = true
		p.UnoWindowOpen = false
		return nil
	case 2:
		if player == g.CurrentPlayer && !g.IsAwaitingColor() {
			p.HasCalledUno = true
			return nil
		}
	}
	return ErrNothingToCall
}

// ChallengeUno challenges the target for failing to call Uno. A successful
// challenge draws the configured penalty into the target's hand and closes
// the window.
func (g *GameState) ChallengeUno(challenger, target uint8) (ChallengeResult, error) {
	if !g.IsStarted() {
		return ChallengeResult{}, ErrGameNotStarted
	}
	if g.IsGameOver() {
		return ChallengeResult{}, ErrGameFinished
	}
	if challenger == target {
		return ChallengeResult{}, ErrNothingToChallenge
	}
	t := &g.Players[target]
	if !t.UnoWindowOpen || t.HasCalledUno || len(t.Hand) != 1 {
		return ChallengeResult{}, ErrNothingToChallenge
	}
	t.UnoWindowOpen = false
	cards, reshuffled, ok := g.drawCards(target, g.Rules.unoPenalty())
	res := ChallengeResult{Target: target, PenaltyCards: cards, Reshuffled: reshuffled}
	if !ok {
		g.abort()
		res.Aborted = true
	}
	return res, nil
}

// Forfeit removes a player mid-game: their hand is returned to the bottom
// of the discard pile and the turn moves on if it was theirs. The last
// remaining player wins.
func (g *GameState) Forfeit(player uint8) (ForfeitResult, error) {
	if !g.IsStarted() {
		return ForfeitResult{}, ErrGameNotStarted
	}
	if g.IsGameOver() {
		return ForfeitResult{}, ErrGameFinished
	}
	p := &g.Players[player]
	if p.Forfeited {
		return ForfeitResult{}, fmt.Errorf("%w: player already forfeited", ErrInvalidPlay)
	}

	res := ForfeitResult{Player: player, Winner: -1}
	res.HandReturned = append([]Card(nil), p.Hand...)
	g.insertDiscardBottom(p.Hand)
	p.Hand = nil
	p.HasCalledUno = false
	p.UnoWindowOpen = false
	p.Forfeited = true

	// A parked color choice dies with its owner; play resumes against the
	// previous active color.
	if g.IsAwaitingColor() && g.PendingColorChooser == int8(player) {
		g.Flags &^= FlagAwaitingColor
		g.PendingColorChooser = -1
		g.PendingWildCard = EmptyCard
	}

	if g.NumActivePlayers() == 1 {
		for i := uint8(0); i < g.Rules.numPlayers(); i++ {
			if !g.Players[i].Forfeited {
				g.Winner = int8(i)
				break
			}
		}
		g.Flags |= FlagGameOver
		res.Winner = g.Winner
		res.GameOver = true
		res.NextPlayer = g.CurrentPlayer
		return res, nil
	}

	if g.CurrentPlayer == player {
		g.advance(1)
	}
	res.NextPlayer = g.CurrentPlayer
	return res, nil
}

// Abort marks the game aborted without a winner.
func (g *GameState) Abort() {
	g.abort()
}

// insertDiscardBottom slides the discard pile up and places the given cards
// underneath it, so the discard top (and legal plays) are unaffected.
func (g *GameState) insertDiscardBottom(cards []Card) {
	n := uint8(len(cards))
	if n == 0 {
		return
	}
	copy(g.DiscardPile[n:g.DiscardLen+n], g.DiscardPile[:g.DiscardLen])
	copy(g.DiscardPile[:n], cards)
	g.DiscardLen += n
}
