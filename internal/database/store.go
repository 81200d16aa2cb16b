package database

import (
	"context"
	"errors"
	"time"

	"github.com/cooper-gadd/uno/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// PlayerUpdate carries one player's flag changes from an accepted action.
type PlayerUpdate struct {
	PlayerID     uint
	HasCalledUno bool
	CurrentTurn  bool
}

// TurnRecord is everything one accepted action writes durably. AppendTurn
// applies it in a single transaction so the turn log, hands, player flags,
// game row, and snapshot never diverge.
type TurnRecord struct {
	GameID uint
	// Turns holds the play row plus any is_skipped rows, ordered by turn
	// number. Empty for actions that log no turn (start, draw, pass).
	Turns []models.GameTurn
	// Hands maps player id to the full replacement list of card instance
	// ids; only players whose hands changed need an entry.
	Hands map[uint][]uint

	Players   []PlayerUpdate
	Status    models.GameStatus
	Direction models.GameDirection
	EndedAt   *time.Time

	Snapshot models.GameSnapshot
}

// Store is the persistence surface the game layer writes through. It is an
// interface so session tests can run against an in-memory fake.
type Store interface {
	// Accounts.
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)

	// Login sessions.
	CreateSession(ctx context.Context, s *models.Session) error
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// Game setup.
	CreateGame(ctx context.Context, g *models.Game) error
	GetGame(ctx context.Context, id uint) (*models.Game, error)
	AddPlayer(ctx context.Context, p *models.Player) error
	RemovePlayer(ctx context.Context, playerID uint) error
	ListPlayers(ctx context.Context, gameID uint) ([]models.Player, error)
	CardCatalog(ctx context.Context) ([]models.Card, error)

	// Turn log and resume.
	AppendTurn(ctx context.Context, rec *TurnRecord) error
	LoadSnapshot(ctx context.Context, gameID uint) (*models.GameSnapshot, error)
	// LoadHands returns the persisted hand card ids per player id for a game.
	LoadHands(ctx context.Context, gameID uint) (map[uint][]uint, error)

	// Maintenance.
	DeleteStaleWaitingGames(ctx context.Context, olderThan time.Time) (int64, error)
}
