package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cooper-gadd/uno/internal/models"
)

// GormStore implements Store over a gorm postgres connection.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps the given database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (s *GormStore) CreateSession(ctx context.Context, sess *models.Session) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

func (s *GormStore) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&sess).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &sess, nil
}

func (s *GormStore) DeleteSession(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

func (s *GormStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) CreateGame(ctx context.Context, g *models.Game) error {
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *GormStore) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	var g models.Game
	if err := s.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &g, nil
}

func (s *GormStore) AddPlayer(ctx context.Context, p *models.Player) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormStore) RemovePlayer(ctx context.Context, playerID uint) error {
	return s.db.WithContext(ctx).Delete(&models.Player{}, playerID).Error
}

func (s *GormStore) ListPlayers(ctx context.Context, gameID uint) ([]models.Player, error) {
	var players []models.Player
	err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("turn_order").
		Find(&players).Error
	return players, err
}

func (s *GormStore) CardCatalog(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	err := s.db.WithContext(ctx).Order("id").Find(&cards).Error
	return cards, err
}

// AppendTurn writes one accepted action atomically: turn rows, replaced
// hands, player flags, the game row, and the snapshot upsert all commit or
// none do.
func (s *GormStore) AppendTurn(ctx context.Context, rec *TurnRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rec.Turns) > 0 {
			if err := tx.Create(&rec.Turns).Error; err != nil {
				return fmt.Errorf("insert turns: %w", err)
			}
		}

		for playerID, cardIDs := range rec.Hands {
			if err := tx.Where("player_id = ?", playerID).Delete(&models.PlayerHand{}).Error; err != nil {
				return fmt.Errorf("clear hand %d: %w", playerID, err)
			}
			if len(cardIDs) == 0 {
				continue
			}
			rows := make([]models.PlayerHand, len(cardIDs))
			for i, cardID := range cardIDs {
				rows[i] = models.PlayerHand{PlayerID: playerID, CardID: cardID}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("write hand %d: %w", playerID, err)
			}
		}

		// Exactly one current_turn per active game: clear, then set.
		if err := tx.Model(&models.Player{}).
			Where("game_id = ?", rec.GameID).
			Update("current_turn", false).Error; err != nil {
			return fmt.Errorf("clear current turn: %w", err)
		}
		for _, pu := range rec.Players {
			err := tx.Model(&models.Player{}).
				Where("id = ?", pu.PlayerID).
				Updates(map[string]any{
					"has_called_uno": pu.HasCalledUno,
					"current_turn":   pu.CurrentTurn,
				}).Error
			if err != nil {
				return fmt.Errorf("update player %d: %w", pu.PlayerID, err)
			}
		}

		updates := map[string]any{
			"status":    rec.Status,
			"direction": rec.Direction,
		}
		if rec.EndedAt != nil {
			updates["ended_at"] = *rec.EndedAt
		}
		if err := tx.Model(&models.Game{}).Where("id = ?", rec.GameID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update game: %w", err)
		}

		snap := rec.Snapshot
		snap.GameID = rec.GameID
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"turn_number", "state", "updated_at"}),
		}).Create(&snap).Error
		if err != nil {
			return fmt.Errorf("upsert snapshot: %w", err)
		}
		return nil
	})
}

func (s *GormStore) LoadSnapshot(ctx context.Context, gameID uint) (*models.GameSnapshot, error) {
	var snap models.GameSnapshot
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).First(&snap).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &snap, nil
}

// LoadHands returns the hand card ids of every player in the game, keyed by
// player id and ordered by row insertion.
func (s *GormStore) LoadHands(ctx context.Context, gameID uint) (map[uint][]uint, error) {
	var rows []models.PlayerHand
	err := s.db.WithContext(ctx).
		Joins("JOIN uno_player ON uno_player.id = uno_player_hand.player_id").
		Where("uno_player.game_id = ?", gameID).
		Order("uno_player_hand.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	hands := make(map[uint][]uint)
	for _, row := range rows {
		hands[row.PlayerID] = append(hands[row.PlayerID], row.CardID)
	}
	return hands, nil
}

// DeleteStaleWaitingGames removes games that never started. Cascades clear
// their players.
func (s *GormStore) DeleteStaleWaitingGames(ctx context.Context, olderThan time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("status = ? AND started_at < ?", models.StatusWaiting, olderThan).
		Delete(&models.Game{})
	return res.RowsAffected, res.Error
}
