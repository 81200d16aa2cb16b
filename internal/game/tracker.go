package game

import (
	"fmt"

	"github.com/cooper-gadd/uno/internal/database"
	"github.com/cooper-gadd/uno/internal/engine"
	"github.com/cooper-gadd/uno/internal/models"
)

// cardTracker maps engine card values to catalog row ids so events and
// persisted hands reference physical card instances.
//
// The engine shuffles its draw pile internally, so the tracker cannot
// mirror pile order. Instead, undealt instance ids live in per-value pools:
// whenever the engine reports a drawn card, the tracker pops an id from
// that value's pool. Hands and the discard pile are mirrored slot-for-slot.
// Identical cards are interchangeable, so pooled assignment preserves the
// invariant that each instance id lives in exactly one place.
type cardTracker struct {
	pool    map[engine.Card][]uint
	hands   [engine.MaxPlayers][]uint
	discard []uint

	values  map[uint]engine.Card
	details map[uint]models.Card
}

// newCardTracker indexes the catalog. Every card the engine can produce
// must have at least as many catalog instances as the deck contains.
func newCardTracker(catalog []models.Card) (*cardTracker, error) {
	t := &cardTracker{
		pool:    make(map[engine.Card][]uint),
		values:  make(map[uint]engine.Card),
		details: make(map[uint]models.Card),
	}
	for _, row := range catalog {
		c, err := database.ModelToCard(row)
		if err != nil {
			return nil, fmt.Errorf("card catalog: %w", err)
		}
		t.pool[c] = append(t.pool[c], row.ID)
		t.values[row.ID] = c
		t.details[row.ID] = row
	}
	return t, nil
}

// take pops one instance id for the given card value.
func (t *cardTracker) take(c engine.Card) (uint, error) {
	ids := t.pool[c]
	if len(ids) == 0 {
		return 0, fmt.Errorf("no catalog instance available for card %08b", uint8(c))
	}
	id := ids[len(ids)-1]
	t.pool[c] = ids[:len(ids)-1]
	return id, nil
}

// release returns an instance id to its value pool.
func (t *cardTracker) release(id uint) {
	t.pool[t.values[id]] = append(t.pool[t.values[id]], id)
}

// afterDeal assigns instance ids to every dealt hand and the flipped
// discard top. All other ids stay pooled as the draw pile.
func (t *cardTracker) afterDeal(g *engine.GameState) error {
	for p := uint8(0); p < g.Rules.NumPlayers; p++ {
		for _, c := range g.Players[p].Hand {
			id, err := t.take(c)
			if err != nil {
				return err
			}
			t.hands[p] = append(t.hands[p], id)
		}
	}
	id, err := t.take(g.DiscardTop())
	if err != nil {
		return err
	}
	t.discard = append(t.discard, id)
	return nil
}

// applyPlay moves the instance at the played hand slot onto the discard.
// Returns the played card's instance id.
func (t *cardTracker) applyPlay(player uint8, handIdx uint8) (uint, error) {
	h := t.hands[player]
	if int(handIdx) >= len(h) {
		return 0, fmt.Errorf("tracker hand slot %d out of range", handIdx)
	}
	id := h[handIdx]
	t.hands[player] = append(h[:handIdx], h[handIdx+1:]...)
	t.discard = append(t.discard, id)
	return id, nil
}

// applyDraws mirrors cards drawn into a player's hand. reshuffled must be
// set when the engine reported a reshuffle during the same action.
func (t *cardTracker) applyDraws(player uint8, cards []engine.Card, reshuffled bool) error {
	if reshuffled {
		t.reshuffle()
	}
	for _, c := range cards {
		id, err := t.take(c)
		if err != nil {
			return err
		}
		t.hands[player] = append(t.hands[player], id)
	}
	return nil
}

// reshuffle mirrors the engine folding the discard remainder back into the
// draw pile: every discard id except the top returns to the pools.
func (t *cardTracker) reshuffle() {
	if len(t.discard) <= 1 {
		return
	}
	top := t.discard[len(t.discard)-1]
	for _, id := range t.discard[:len(t.discard)-1] {
		t.release(id)
	}
	t.discard = append(t.discard[:0], top)
}

// applyShuffleHands reconciles hand ids after the engine redistributed all
// hands: every held id is pooled by value, then reassigned to match each
// player's new hand contents.
func (t *cardTracker) applyShuffleHands(g *engine.GameState) error {
	for p := uint8(0); p < g.Rules.NumPlayers; p++ {
		for _, id := range t.hands[p] {
			t.release(id)
		}
		t.hands[p] = t.hands[p][:0]
	}
	for p := uint8(0); p < g.Rules.NumPlayers; p++ {
		for _, c := range g.Players[p].Hand {
			id, err := t.take(c)
			if err != nil {
				return err
			}
			t.hands[p] = append(t.hands[p], id)
		}
	}
	return nil
}

// takeID removes one specific instance id from its value pool.
func (t *cardTracker) takeID(id uint) bool {
	c, ok := t.values[id]
	if !ok {
		return false
	}
	ids := t.pool[c]
	for i, candidate := range ids {
		if candidate == id {
			t.pool[c] = append(ids[:i], ids[i+1:]...)
			return true
		}
	}
	return false
}

// reconcile rebuilds hand and discard mirrors for a resumed engine.
// Persisted hand ids are honored where their values still match the engine
// hand (so clients keep stable instance ids across a restart); the discard
// pile and draw pile ids are reassigned from the pools by value.
func (t *cardTracker) reconcile(g *engine.GameState, persisted map[uint8][]uint) error {
	for p := uint8(0); p < g.Rules.NumPlayers; p++ {
		// Index this player's persisted ids by card value.
		byValue := make(map[engine.Card][]uint)
		for _, id := range persisted[p] {
			byValue[t.values[id]] = append(byValue[t.values[id]], id)
		}
		for _, c := range g.Players[p].Hand {
			if ids := byValue[c]; len(ids) > 0 {
				id := ids[0]
				byValue[c] = ids[1:]
				if !t.takeID(id) {
					return fmt.Errorf("persisted card id %d not available", id)
				}
				t.hands[p] = append(t.hands[p], id)
				continue
			}
			id, err := t.take(c)
			if err != nil {
				return err
			}
			t.hands[p] = append(t.hands[p], id)
		}
	}
	for i := uint8(0); i < g.DiscardLen; i++ {
		id, err := t.take(g.DiscardPile[i])
		if err != nil {
			return err
		}
		t.discard = append(t.discard, id)
	}
	return nil
}

// applyForfeit moves the leaving player's instance ids under the discard
// pile, preserving hand order like the engine does.
func (t *cardTracker) applyForfeit(player uint8) {
	if len(t.hands[player]) == 0 {
		return
	}
	t.discard = append(append([]uint(nil), t.hands[player]...), t.discard...)
	t.hands[player] = nil
}

// handIDs returns a copy of the instance ids in the player's hand.
func (t *cardTracker) handIDs(player uint8) []uint {
	return append([]uint(nil), t.hands[player]...)
}

// discardTopID returns the instance id of the discard top, or 0 when empty.
func (t *cardTracker) discardTopID() uint {
	if len(t.discard) == 0 {
		return 0
	}
	return t.discard[len(t.discard)-1]
}

// detail returns the catalog row for an instance id.
func (t *cardTracker) detail(id uint) models.Card {
	return t.details[id]
}

// clone deep-copies the tracker for rollback alongside engine clones.
func (t *cardTracker) clone() *cardTracker {
	out := &cardTracker{
		pool:    make(map[engine.Card][]uint, len(t.pool)),
		discard: append([]uint(nil), t.discard...),
		values:  t.values,
		details: t.details,
	}
	for c, ids := range t.pool {
		out.pool[c] = append([]uint(nil), ids...)
	}
	for p := range t.hands {
		if t.hands[p] != nil {
			out.hands[p] = append([]uint(nil), t.hands[p]...)
		}
	}
	return out
}
