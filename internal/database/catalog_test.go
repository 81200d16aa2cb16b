package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cooper-gadd/uno/internal/engine"
	"github.com/cooper-gadd/uno/internal/models"
)

func TestCatalogRoundTrip(t *testing.T) {
	rules := engine.DefaultHouseRules()
	rules.NumShuffleHands = engine.MaxHouseCards
	rules.NumCustomizable = engine.MaxHouseCards

	for _, c := range engine.BuildDeck(rules) {
		color, typ, value := CardToModel(c)
		back, err := ModelToCard(models.Card{Color: color, Type: typ, Value: value})
		require.NoError(t, err)
		assert.Equal(t, c, back, "card %08b did not survive the catalog mapping", uint8(c))
	}
}

func TestModelToCardRejectsBadRows(t *testing.T) {
	_, err := ModelToCard(models.Card{Color: "purple", Type: models.TypeSkip})
	assert.Error(t, err)

	_, err = ModelToCard(models.Card{Color: models.ColorRed, Type: models.TypeNumber, Value: nil})
	assert.Error(t, err)

	bad := int16(12)
	_, err = ModelToCard(models.Card{Color: models.ColorRed, Type: models.TypeNumber, Value: &bad})
	assert.Error(t, err)
}

func TestColorToModel(t *testing.T) {
	require.NotNil(t, ColorToModel(engine.ColorBlue))
	assert.Equal(t, models.ColorBlue, *ColorToModel(engine.ColorBlue))
	assert.Nil(t, ColorToModel(engine.ColorNone))
	assert.Nil(t, ColorToModel(engine.ColorWild))
}
