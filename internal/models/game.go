package models

import "time"

// GameDirection enumerates turn-order direction.
type GameDirection string

const (
	DirectionClockwise        GameDirection = "clockwise"
	DirectionCounterClockwise GameDirection = "counter_clockwise"
)

// GameStatus enumerates the game lifecycle.
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusActive   GameStatus = "active"
	StatusFinished GameStatus = "finished"
)

// Game is one Uno game row. EndedAt is set only when the status is finished.
type Game struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	StartedAt time.Time     `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
	Direction GameDirection `gorm:"size:32;not null" json:"direction"`
	Status    GameStatus    `gorm:"size:16;not null;index" json:"status"`
}

func (Game) TableName() string { return "uno_game" }
