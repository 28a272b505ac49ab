package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeTextCounts(t *testing.T) {
	stats := analyzeText([]string{"Кіт спав. Мама читала книгу."})

	assert.Equal(t, 5, stats.words)
	assert.Equal(t, 2, stats.sentences)
	assert.Equal(t, 0, stats.longWords, "no word reaches seven letters")
}

func TestDifficultyOrdersSimpleBeforeDense(t *testing.T) {
	simple := analyzeText([]string{
		"Кіт спав. Їжак біг. Мама йшла додому. Тато читав.",
	})
	dense := analyzeText([]string{
		"Нерівномірність атмосферного тиску спричиняє переміщення повітряних мас, " +
			"унаслідок чого виникають вітри різної інтенсивності та тривалості.",
	})

	assert.Less(t, simple.difficulty(), dense.difficulty())
	assert.GreaterOrEqual(t, simple.difficulty(), 0.0)
	assert.LessOrEqual(t, dense.difficulty(), 100.0)
}

func TestDifficultyEmptyText(t *testing.T) {
	stats := analyzeText(nil)
	require.Equal(t, 0, stats.words)
	assert.Equal(t, 0.0, stats.difficulty())
}
