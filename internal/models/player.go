package models

// Player is one seat in one game. At most one player per active game has
// CurrentTurn set.
type Player struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	GameID       uint `gorm:"not null;index" json:"game_id"`
	Game         Game `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	UserID       uint `gorm:"not null" json:"user_id"`
	User         User `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	TurnOrder    int  `gorm:"not null" json:"turn_order"`
	HasCalledUno bool `gorm:"not null;default:false" json:"has_called_uno"`
	CurrentTurn  bool `gorm:"not null;default:false" json:"current_turn"`
}

func (Player) TableName() string { return "uno_player" }

// PlayerHand links a card instance to the hand holding it. A card instance
// appears in at most one hand at a time.
type PlayerHand struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PlayerID uint   `gorm:"not null;index" json:"player_id"`
	Player   Player `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	CardID   uint   `gorm:"not null" json:"card_id"`
	Card     Card   `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
}

func (PlayerHand) TableName() string { return "uno_player_hand" }
