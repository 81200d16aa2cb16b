package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cooper-gadd/uno/internal/engine"
)

func newTestTracker(t *testing.T) *cardTracker {
	t.Helper()
	catalog, err := newMemStore().CardCatalog(context.Background())
	require.NoError(t, err)
	tr, err := newCardTracker(catalog)
	require.NoError(t, err)
	return tr
}

func startedEngine(t *testing.T, players uint8, seed uint64) *engine.GameState {
	t.Helper()
	rules := engine.DefaultHouseRules()
	rules.NumPlayers = players
	g := engine.NewGame(seed, rules)
	g.Deal()
	return &g
}

func TestTrackerPoolTakeRelease(t *testing.T) {
	tr := newTestTracker(t)
	c := engine.NewCard(engine.ColorRed, engine.SymbolFive)

	before := len(tr.pool[c])
	require.Equal(t, 2, before, "standard deck carries two of each nonzero number")

	id1, err := tr.take(c)
	require.NoError(t, err)
	id2, err := tr.take(c)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, c, tr.values[id1])

	_, err = tr.take(c)
	assert.Error(t, err, "pool exhausted")

	tr.release(id1)
	id3, err := tr.take(c)
	require.NoError(t, err)
	assert.Equal(t, id1, id3)
}

func TestTrackerAfterDealMirrorsHands(t *testing.T) {
	tr := newTestTracker(t)
	g := startedEngine(t, 3, 11)
	require.NoError(t, tr.afterDeal(g))

	seen := make(map[uint]bool)
	for p := uint8(0); p < 3; p++ {
		require.Len(t, tr.hands[p], len(g.Players[p].Hand))
		for i, id := range tr.hands[p] {
			assert.Equal(t, g.Players[p].Hand[i], tr.values[id])
			require.False(t, seen[id])
			seen[id] = true
		}
	}
	require.Len(t, tr.discard, 1)
	assert.Equal(t, g.DiscardTop(), tr.values[tr.discardTopID()])
}

func TestTrackerApplyPlayPreservesHandOrder(t *testing.T) {
	tr := newTestTracker(t)
	g := startedEngine(t, 2, 7)
	require.NoError(t, tr.afterDeal(g))

	before := tr.handIDs(0)
	played, err := tr.applyPlay(0, 2)
	require.NoError(t, err)
	assert.Equal(t, before[2], played)
	assert.Equal(t, played, tr.discardTopID())

	after := tr.handIDs(0)
	require.Len(t, after, len(before)-1)
	assert.Equal(t, before[:2], after[:2])
	assert.Equal(t, before[3:], after[2:])

	_, err = tr.applyPlay(0, 42)
	assert.Error(t, err)
}

func TestTrackerReshuffleKeepsTop(t *testing.T) {
	tr := newTestTracker(t)
	g := startedEngine(t, 2, 3)
	require.NoError(t, tr.afterDeal(g))

	_, err := tr.applyPlay(0, 0)
	require.NoError(t, err)
	second, err := tr.applyPlay(1, 0)
	require.NoError(t, err)

	poolBefore := 0
	for _, ids := range tr.pool {
		poolBefore += len(ids)
	}

	tr.reshuffle()
	require.Len(t, tr.discard, 1)
	assert.Equal(t, second, tr.discardTopID())

	poolAfter := 0
	for _, ids := range tr.pool {
		poolAfter += len(ids)
	}
	assert.Equal(t, poolBefore+2, poolAfter, "bottom discards returned to the pools")
}

func TestTrackerShuffleHandsRebuildsMirror(t *testing.T) {
	tr := newTestTracker(t)
	g := startedEngine(t, 3, 19)
	require.NoError(t, tr.afterDeal(g))

	// Simulate redistributed hands by rotating the engine's hands.
	h0 := g.Players[0].Hand
	g.Players[0].Hand = g.Players[1].Hand
	g.Players[1].Hand = g.Players[2].Hand
	g.Players[2].Hand = h0

	require.NoError(t, tr.applyShuffleHands(g))
	seen := make(map[uint]bool)
	for p := uint8(0); p < 3; p++ {
		require.Len(t, tr.hands[p], len(g.Players[p].Hand))
		for i, id := range tr.hands[p] {
			assert.Equal(t, g.Players[p].Hand[i], tr.values[id])
			require.False(t, seen[id])
			seen[id] = true
		}
	}
}

func TestTrackerForfeitBuriesHand(t *testing.T) {
	tr := newTestTracker(t)
	g := startedEngine(t, 2, 23)
	require.NoError(t, tr.afterDeal(g))

	top := tr.discardTopID()
	hand := tr.handIDs(0)
	tr.applyForfeit(0)

	assert.Empty(t, tr.hands[0])
	assert.Equal(t, top, tr.discardTopID(), "forfeited hand goes under the pile")
	assert.Equal(t, hand, tr.discard[:len(hand)])
}

func TestTrackerReconcileHonorsPersistedIDs(t *testing.T) {
	tr := newTestTracker(t)
	g := startedEngine(t, 2, 31)
	require.NoError(t, tr.afterDeal(g))

	persisted := map[uint8][]uint{
		0: tr.handIDs(0),
		1: tr.handIDs(1),
	}

	fresh := newTestTracker(t)
	require.NoError(t, fresh.reconcile(g, persisted))
	assert.Equal(t, persisted[0], fresh.handIDs(0))
	assert.Equal(t, persisted[1], fresh.handIDs(1))
	require.Len(t, fresh.discard, 1)
	assert.Equal(t, g.DiscardTop(), fresh.values[fresh.discardTopID()])
}

func TestTrackerCloneIsIndependent(t *testing.T) {
	tr := newTestTracker(t)
	g := startedEngine(t, 2, 41)
	require.NoError(t, tr.afterDeal(g))

	snapshot := tr.clone()
	_, err := tr.applyPlay(0, 0)
	require.NoError(t, err)

	assert.Len(t, snapshot.hands[0], len(tr.hands[0])+1)
	assert.Len(t, snapshot.discard, len(tr.discard)-1)
}
