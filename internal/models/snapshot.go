package models

import (
	"time"

	"gorm.io/datatypes"
)

// GameSnapshot holds the latest serialized engine state for one game, used
// to resume a live game after a process restart. One row per game, replaced
// on every accepted play.
type GameSnapshot struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	GameID     uint           `gorm:"not null;uniqueIndex" json:"game_id"`
	Game       Game           `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	TurnNumber int            `gorm:"not null" json:"turn_number"`
	State      datatypes.JSON `gorm:"not null" json:"state"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (GameSnapshot) TableName() string { return "uno_game_snapshot" }
