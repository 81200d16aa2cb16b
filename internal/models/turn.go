package models

import "time"

// GameTurn is the append-only play log. One row per accepted play, plus one
// is_skipped row (citing the causing card) for each player a play skipped,
// keeping turn_number dense and strictly increasing per game.
type GameTurn struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	GameID      uint       `gorm:"not null;index" json:"game_id"`
	Game        Game       `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	PlayerID    uint       `gorm:"not null" json:"player_id"`
	Player      Player     `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	CardID      uint       `gorm:"not null" json:"card_id"`
	Card        Card       `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	IsSkipped   bool       `gorm:"not null;default:false" json:"is_skipped"`
	TurnNumber  int        `gorm:"not null" json:"turn_number"`
	ChosenColor *CardColor `gorm:"size:16" json:"chosen_color,omitempty"`
	PlayedAt    time.Time  `gorm:"not null;autoCreateTime" json:"played_at"`
}

func (GameTurn) TableName() string { return "uno_game_turn" }
