package engine

import (
	"encoding/json"
	"testing"
)

// TestSnapshotRoundTrip plays into the middle of a game, serializes the
// state through JSON, and verifies the reloaded engine accepts exactly the
// same plays as the source.
func TestSnapshotRoundTrip(t *testing.T) {
	rules := DefaultHouseRules()
	rules.NumPlayers = 3
	g := NewGame(777, rules)
	g.Deal()

	// Advance a few turns so the snapshot is not trivial.
	for step := 0; step < 6 && !g.IsGameOver(); step++ {
		p := g.CurrentPlayer
		played := false
		for idx := 0; idx < len(g.Players[p].Hand); idx++ {
			card := g.Players[p].Hand[idx]
			if !card.Matches(g.DiscardTop(), g.ActiveColor) {
				continue
			}
			color := uint8(ColorNone)
			if card.IsWildFamily() {
				color = ColorBlue
			}
			if _, err := g.PlayCard(p, uint8(idx), color); err != nil {
				t.Fatalf("step %d: %v", step, err)
			}
			played = true
			break
		}
		if !played {
			if _, err := g.DrawCard(p); err != nil {
				t.Fatalf("step %d: draw: %v", step, err)
			}
			if _, err := g.PassTurn(p); err != nil {
				t.Fatalf("step %d: pass: %v", step, err)
			}
		}
	}

	raw, err := json.Marshal(g.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	if restored.CurrentPlayer != g.CurrentPlayer ||
		restored.Direction != g.Direction ||
		restored.ActiveColor != g.ActiveColor ||
		restored.TurnNumber != g.TurnNumber ||
		restored.Flags != g.Flags ||
		restored.RNG != g.RNG {
		t.Fatalf("scalar state mismatch after reload")
	}
	if restored.DiscardTop() != g.DiscardTop() {
		t.Fatalf("discard top = %v, want %v", restored.DiscardTop(), g.DiscardTop())
	}
	assertConservation(t, &restored)

	// The set of legal plays for the acting player must be identical.
	p := g.CurrentPlayer
	if len(restored.Players[p].Hand) != len(g.Players[p].Hand) {
		t.Fatalf("acting hand size = %d, want %d", len(restored.Players[p].Hand), len(g.Players[p].Hand))
	}
	for idx, card := range g.Players[p].Hand {
		want := card.Matches(g.DiscardTop(), g.ActiveColor)
		got := restored.Players[p].Hand[idx].Matches(restored.DiscardTop(), restored.ActiveColor)
		if got != want {
			t.Errorf("hand[%d] legality = %v, want %v", idx, got, want)
		}
	}

	// Both engines accept or reject the same next action identically, and a
	// shared RNG means identical draws too.
	d1, err1 := g.DrawCard(p)
	d2, err2 := restored.DrawCard(p)
	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("divergent draw errors: %v vs %v", err1, err2)
	}
	if err1 == nil && d1.Card != d2.Card {
		t.Errorf("divergent draws: %v vs %v", d1.Card, d2.Card)
	}
}

// TestSnapshotAwaitingColor round-trips the parked wild sub-state.
func TestSnapshotAwaitingColor(t *testing.T) {
	g := setupGame(2, [][]Card{
		{NewCard(ColorWild, SymbolWild), NewCard(ColorBlue, SymbolNine)},
		{NewCard(ColorGreen, SymbolZero)},
	}, NewCard(ColorRed, SymbolFive))

	if _, err := g.PlayCard(0, 0, ColorNone); err != nil {
		t.Fatalf("PlayCard: %v", err)
	}

	raw, err := json.Marshal(g.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	if !restored.IsAwaitingColor() {
		t.Fatal("awaiting-color sub-state lost across reload")
	}
	if restored.PendingColorChooser != 0 || restored.PendingWildCard != NewCard(ColorWild, SymbolWild) {
		t.Errorf("pending wild = chooser %d card %v", restored.PendingColorChooser, restored.PendingWildCard)
	}
	res, err := restored.ChooseColor(0, ColorYellow)
	if err != nil {
		t.Fatalf("ChooseColor after reload: %v", err)
	}
	if restored.ActiveColor != ColorYellow || res.TurnNumber != 1 {
		t.Errorf("resolution after reload: color=%d turn=%d", restored.ActiveColor, res.TurnNumber)
	}
}

// TestFromSnapshotRejectsGarbage covers validation of malformed snapshots.
func TestFromSnapshotRejectsGarbage(t *testing.T) {
	if _, err := FromSnapshot(Snapshot{}); err == nil {
		t.Error("empty snapshot accepted")
	}
	if _, err := FromSnapshot(Snapshot{Players: make([]PlayerSnapshot, MaxPlayers+1)}); err == nil {
		t.Error("oversized player list accepted")
	}
	bad := Snapshot{
		Players:  make([]PlayerSnapshot, 2),
		DrawPile: make([]uint8, MaxDeckSize+1),
	}
	if _, err := FromSnapshot(bad); err == nil {
		t.Error("oversized draw pile accepted")
	}
}
