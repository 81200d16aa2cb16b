package models

// CardColor enumerates the card color column.
type CardColor string

const (
	ColorRed    CardColor = "red"
	ColorGreen  CardColor = "green"
	ColorBlue   CardColor = "blue"
	ColorYellow CardColor = "yellow"
	ColorWild   CardColor = "wild"
)

// CardType enumerates the card type column.
type CardType string

const (
	TypeNumber           CardType = "number"
	TypeDrawTwo          CardType = "draw_two"
	TypeReverse          CardType = "reverse"
	TypeSkip             CardType = "skip"
	TypeWild             CardType = "wild"
	TypeWildDrawFour     CardType = "wild_draw_four"
	TypeWildShuffleHands CardType = "wild_shuffle_hands"
	TypeWildCustomizable CardType = "wild_customizable"
)

// Card is one physical card instance in the catalog. Value is set iff the
// card is a number card.
type Card struct {
	ID    uint      `gorm:"primaryKey" json:"id"`
	Color CardColor `gorm:"size:16;not null;index" json:"color"`
	Type  CardType  `gorm:"size:32;not null" json:"type"`
	Value *int16    `json:"value,omitempty"`
}

func (Card) TableName() string { return "uno_card" }
