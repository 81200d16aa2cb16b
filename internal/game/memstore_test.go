package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cooper-gadd/uno/internal/database"
	"github.com/cooper-gadd/uno/internal/engine"
	"github.com/cooper-gadd/uno/internal/models"
)

// memStore is an in-memory Store used by session tests.
type memStore struct {
	mu        sync.Mutex
	users     map[uint]*models.User
	sessions  map[string]*models.Session
	games     map[uint]*models.Game
	players   map[uint]*models.Player
	hands     map[uint][]uint
	turns     []models.GameTurn
	snapshots map[uint]*models.GameSnapshot
	catalog   []models.Card
	nextID    uint

	// failAppends makes the next N AppendTurn calls fail.
	failAppends int
	appendCalls int
}

var _ database.Store = (*memStore)(nil)

func newMemStore() *memStore {
	s := &memStore{
		users:     make(map[uint]*models.User),
		sessions:  make(map[string]*models.Session),
		games:     make(map[uint]*models.Game),
		players:   make(map[uint]*models.Player),
		hands:     make(map[uint][]uint),
		snapshots: make(map[uint]*models.GameSnapshot),
	}
	rules := engine.DefaultHouseRules()
	rules.NumShuffleHands = engine.MaxHouseCards
	rules.NumCustomizable = engine.MaxHouseCards
	for _, c := range engine.BuildDeck(rules) {
		color, typ, value := database.CardToModel(c)
		s.catalog = append(s.catalog, models.Card{ID: s.id(), Color: color, Type: typ, Value: value})
	}
	return s
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.id()
	s.users[u.ID] = u
	return nil
}

func (s *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

func (s *memStore) CreateSession(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.ID = s.id()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *memStore) GetSessionByToken(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, database.ErrNotFound
	}
	return sess, nil
}

func (s *memStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *memStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

func (s *memStore) CreateGame(_ context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.id()
	s.games[g.ID] = g
	return nil
}

func (s *memStore) GetGame(_ context.Context, id uint) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return g, nil
}

func (s *memStore) AddPlayer(_ context.Context, p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.players[p.ID] = p
	return nil
}

func (s *memStore) RemovePlayer(_ context.Context, playerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, playerID)
	delete(s.hands, playerID)
	return nil
}

func (s *memStore) ListPlayers(_ context.Context, gameID uint) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Player
	for _, p := range s.players {
		if p.GameID == gameID {
			out = append(out, *p)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].TurnOrder < out[i].TurnOrder {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (s *memStore) CardCatalog(_ context.Context) ([]models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Card(nil), s.catalog...), nil
}

func (s *memStore) AppendTurn(_ context.Context, rec *database.TurnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendCalls++
	if s.failAppends > 0 {
		s.failAppends--
		return errors.New("simulated write failure")
	}
	s.turns = append(s.turns, rec.Turns...)
	for playerID, cards := range rec.Hands {
		s.hands[playerID] = append([]uint(nil), cards...)
	}
	for _, pu := range rec.Players {
		if p, ok := s.players[pu.PlayerID]; ok {
			p.HasCalledUno = pu.HasCalledUno
			p.CurrentTurn = pu.CurrentTurn
		}
	}
	if g, ok := s.games[rec.GameID]; ok {
		g.Status = rec.Status
		g.Direction = rec.Direction
		if rec.EndedAt != nil {
			g.EndedAt = rec.EndedAt
		}
	}
	snap := rec.Snapshot
	snap.GameID = rec.GameID
	s.snapshots[rec.GameID] = &snap
	return nil
}

func (s *memStore) LoadSnapshot(_ context.Context, gameID uint) (*models.GameSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[gameID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return snap, nil
}

func (s *memStore) LoadHands(_ context.Context, gameID uint) (map[uint][]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint][]uint)
	for playerID, cards := range s.hands {
		if p, ok := s.players[playerID]; ok && p.GameID == gameID {
			out[playerID] = append([]uint(nil), cards...)
		}
	}
	return out, nil
}

func (s *memStore) DeleteStaleWaitingGames(_ context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, g := range s.games {
		if g.Status == models.StatusWaiting && g.StartedAt.Before(olderThan) {
			delete(s.games, id)
			n++
		}
	}
	return n, nil
}

// currentTurnCount returns how many persisted players of a game hold the
// current_turn flag.
func (s *memStore) currentTurnCount(gameID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.players {
		if p.GameID == gameID && p.CurrentTurn {
			n++
		}
	}
	return n
}
