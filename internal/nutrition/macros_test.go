package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMacros(t *testing.T) {
	values := []NutrientValue{
		{Name: "Energi (kcal)", Abbreviation: "Ener", Value: 165, Unit: "kcal"},
		{Name: "Protein", Abbreviation: "Prot", Value: 31, Unit: "g"},
		{Name: "Kolhydrater", Abbreviation: "Kolh", Value: 0, Unit: "g"},
		{Name: "Fett", Abbreviation: "Fett", Value: 3.6, Unit: "g"},
		{Name: "Fibrer", Abbreviation: "Fibe", Value: 0, Unit: "g"},
	}

	m := ExtractMacros(values)
	require.NotNil(t, m.Calories)
	assert.Equal(t, 165.0, *m.Calories)
	require.NotNil(t, m.Protein)
	assert.Equal(t, 31.0, *m.Protein)
	require.NotNil(t, m.Carbs)
	assert.Equal(t, 0.0, *m.Carbs)
	require.NotNil(t, m.Fat)
	assert.Equal(t, 3.6, *m.Fat)
	require.NotNil(t, m.Fiber)
	assert.Equal(t, 0.0, *m.Fiber)
}

func TestExtractMacrosByName(t *testing.T) {
	values := []NutrientValue{
		{Name: "Energi", Value: 200, Unit: "kcal"},
		{Name: "Energi", Value: 840, Unit: "kJ"},
		{Name: "Protein totalt", Value: 12, Unit: "g"},
		{Name: "Kolhydrater totalt", Value: 30, Unit: "g"},
	}

	m := ExtractMacros(values)
	require.NotNil(t, m.Calories)
	assert.Equal(t, 200.0, *m.Calories)
	require.NotNil(t, m.Protein)
	require.NotNil(t, m.Carbs)
	assert.Nil(t, m.Fat)
	assert.Nil(t, m.Fiber)
}

func TestExtractMacrosFirstMatchWins(t *testing.T) {
	values := []NutrientValue{
		{Name: "Protein", Abbreviation: "Prot", Value: 10, Unit: "g"},
		{Name: "Protein", Abbreviation: "Prot", Value: 99, Unit: "g"},
	}
	m := ExtractMacros(values)
	require.NotNil(t, m.Protein)
	assert.Equal(t, 10.0, *m.Protein)
}

func TestExtractMacrosEmpty(t *testing.T) {
	m := ExtractMacros(nil)
	assert.Nil(t, m.Calories)
	assert.Nil(t, m.Protein)
	assert.Nil(t, m.Carbs)
	assert.Nil(t, m.Fat)
	assert.Nil(t, m.Fiber)
}
