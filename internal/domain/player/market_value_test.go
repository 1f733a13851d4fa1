package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeMarketValueHistory(t *testing.T) {
	entries := []MarketValueEntry{
		{Day: 8, Value: 850000},
		{Day: 10, Value: 1000000},
		{Day: 9, Value: 900000},
	}

	change := AnalyzeMarketValueHistory(entries, 120000)
	require.NotNil(t, change)

	assert.Equal(t, 1000000, change.CurrentValue)
	assert.Equal(t, 900000, change.PreviousValue)
	assert.Equal(t, 100000, change.AbsoluteChange)
	assert.InDelta(t, 11.11, change.PercentageChange, 0.01)
	assert.Equal(t, 1, change.DaysSinceLastUpdate)
	assert.Equal(t, 120000, change.ProfitLoss)

	require.Len(t, change.DailyChanges, 2)
	assert.Equal(t, 100000, change.DailyChanges[0].Change)
	assert.Equal(t, 0, change.DailyChanges[0].DaysAgo)
	assert.Equal(t, 50000, change.DailyChanges[1].Change)
	assert.Equal(t, 1, change.DailyChanges[1].DaysAgo)
}

func TestAnalyzeMarketValueHistorySingleEntry(t *testing.T) {
	change := AnalyzeMarketValueHistory([]MarketValueEntry{{Day: 5, Value: 500000}}, 0)
	require.NotNil(t, change)

	assert.Equal(t, 500000, change.CurrentValue)
	assert.Equal(t, 0, change.PreviousValue)
	assert.Equal(t, 500000, change.AbsoluteChange)
	assert.Zero(t, change.PercentageChange)
	assert.Empty(t, change.DailyChanges)
}

func TestAnalyzeMarketValueHistoryEmpty(t *testing.T) {
	assert.Nil(t, AnalyzeMarketValueHistory(nil, 0))
}

func TestAnalyzeMarketValueHistoryWindowCap(t *testing.T) {
	entries := []MarketValueEntry{
		{Day: 1, Value: 100},
		{Day: 2, Value: 200},
		{Day: 3, Value: 300},
		{Day: 4, Value: 400},
		{Day: 5, Value: 500},
	}

	change := AnalyzeMarketValueHistory(entries, 0)
	require.NotNil(t, change)
	assert.Len(t, change.DailyChanges, 3)
	assert.Equal(t, 500, change.DailyChanges[0].Value)
}
