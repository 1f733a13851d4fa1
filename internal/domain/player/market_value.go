package player

import (
	"sort"
	"time"
)

// MarketValueEntry is one (day-index, market value) sample from the
// market value history endpoint. Day indexes count days since the Unix
// epoch.
type MarketValueEntry struct {
	Day   int `json:"dt"`
	Value int `json:"mv"`
}

// DailyMarketValueChange is the delta between two consecutive samples.
type DailyMarketValueChange struct {
	Date             string  `json:"date"`
	Value            int     `json:"value"`
	Change           int     `json:"change"`
	PercentageChange float64 `json:"percentageChange"`
	DaysAgo          int     `json:"daysAgo"`
}

// MarketValueChange summarises recent market value movement for one
// player, including a rolling window of the last three daily deltas.
type MarketValueChange struct {
	DaysSinceLastUpdate int                      `json:"daysSinceLastUpdate"`
	AbsoluteChange      int                      `json:"absoluteChange"`
	PercentageChange    float64                  `json:"percentageChange"`
	PreviousValue       int                      `json:"previousValue"`
	CurrentValue        int                      `json:"currentValue"`
	ProfitLoss          int                      `json:"prlo"`
	DailyChanges        []DailyMarketValueChange `json:"dailyChanges"`
}

// maxDailyChangeWindow bounds the rolling daily-change series.
const maxDailyChangeWindow = 3

// AnalyzeMarketValueHistory sorts entries by day descending, diffs the
// two most recent samples and produces up to three daily-change rows.
// Returns nil when there are no entries at all.
func AnalyzeMarketValueHistory(entries []MarketValueEntry, profitLoss int) *MarketValueChange {
	if len(entries) == 0 {
		return nil
	}

	sorted := append([]MarketValueEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Day > sorted[j].Day })

	current := sorted[0]
	previous := MarketValueEntry{}
	if len(sorted) > 1 {
		previous = sorted[1]
	}

	absolute := current.Value - previous.Value
	percentage := 0.0
	if previous.Value != 0 {
		percentage = float64(absolute) / float64(previous.Value) * 100.0
	}

	window := len(sorted) - 1
	if window > maxDailyChangeWindow {
		window = maxDailyChangeWindow
	}

	daily := make([]DailyMarketValueChange, 0, window)
	for i := 0; i < window; i++ {
		day := sorted[i]
		prior := sorted[i+1]

		change := day.Value - prior.Value
		changePct := 0.0
		if prior.Value != 0 {
			changePct = float64(change) / float64(prior.Value) * 100.0
		}

		daily = append(daily, DailyMarketValueChange{
			Date:             dayIndexToDate(day.Day),
			Value:            day.Value,
			Change:           change,
			PercentageChange: changePct,
			DaysAgo:          i,
		})
	}

	return &MarketValueChange{
		DaysSinceLastUpdate: current.Day - previous.Day,
		AbsoluteChange:      absolute,
		PercentageChange:    percentage,
		PreviousValue:       previous.Value,
		CurrentValue:        current.Value,
		ProfitLoss:          profitLoss,
		DailyChanges:        daily,
	}
}

func dayIndexToDate(day int) string {
	return time.Unix(int64(day)*24*60*60, 0).UTC().Format("2006-01-02")
}
