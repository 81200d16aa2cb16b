package database

import (
	"fmt"

	"github.com/cooper-gadd/uno/internal/engine"
	"github.com/cooper-gadd/uno/internal/models"
)

// CardToModel converts an engine card to its catalog column values.
func CardToModel(c engine.Card) (models.CardColor, models.CardType, *int16) {
	var color models.CardColor
	switch c.Color() {
	case engine.ColorRed:
		color = models.ColorRed
	case engine.ColorGreen:
		color = models.ColorGreen
	case engine.ColorBlue:
		color = models.ColorBlue
	case engine.ColorYellow:
		color = models.ColorYellow
	default:
		color = models.ColorWild
	}

	if c.IsNumber() {
		v := int16(c.Symbol())
		return color, models.TypeNumber, &v
	}
	switch c.Symbol() {
	case engine.SymbolSkip:
		return color, models.TypeSkip, nil
	case engine.SymbolReverse:
		return color, models.TypeReverse, nil
	case engine.SymbolDrawTwo:
		return color, models.TypeDrawTwo, nil
	case engine.SymbolWild:
		return color, models.TypeWild, nil
	case engine.SymbolWildDrawFour:
		return color, models.TypeWildDrawFour, nil
	case engine.SymbolWildShuffleHands:
		return color, models.TypeWildShuffleHands, nil
	default:
		return color, models.TypeWildCustomizable, nil
	}
}

// ModelToCard converts a catalog row back to its engine card value.
func ModelToCard(card models.Card) (engine.Card, error) {
	var color uint8
	switch card.Color {
	case models.ColorRed:
		color = engine.ColorRed
	case models.ColorGreen:
		color = engine.ColorGreen
	case models.ColorBlue:
		color = engine.ColorBlue
	case models.ColorYellow:
		color = engine.ColorYellow
	case models.ColorWild:
		color = engine.ColorWild
	default:
		return engine.EmptyCard, fmt.Errorf("unknown card color %q", card.Color)
	}

	var symbol uint8
	switch card.Type {
	case models.TypeNumber:
		if card.Value == nil || *card.Value < 0 || *card.Value > 9 {
			return engine.EmptyCard, fmt.Errorf("number card %d has invalid value", card.ID)
		}
		symbol = uint8(*card.Value)
	case models.TypeSkip:
		symbol = engine.SymbolSkip
	case models.TypeReverse:
		symbol = engine.SymbolReverse
	case models.TypeDrawTwo:
		symbol = engine.SymbolDrawTwo
	case models.TypeWild:
		symbol = engine.SymbolWild
	case models.TypeWildDrawFour:
		symbol = engine.SymbolWildDrawFour
	case models.TypeWildShuffleHands:
		symbol = engine.SymbolWildShuffleHands
	case models.TypeWildCustomizable:
		symbol = engine.SymbolWildCustomizable
	default:
		return engine.EmptyCard, fmt.Errorf("unknown card type %q", card.Type)
	}
	return engine.NewCard(color, symbol), nil
}

// ColorToModel converts an engine chosen-color value to the enum column
// value, or nil for no choice.
func ColorToModel(c uint8) *models.CardColor {
	var out models.CardColor
	switch c {
	case engine.ColorRed:
		out = models.ColorRed
	case engine.ColorGreen:
		out = models.ColorGreen
	case engine.ColorBlue:
		out = models.ColorBlue
	case engine.ColorYellow:
		out = models.ColorYellow
	default:
		return nil
	}
	return &out
}
