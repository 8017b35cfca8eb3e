package sprint

import (
	"fmt"
	"math"
	"sort"

	"github.com/pocdart/sprinttools/internal/board"
)

// Controls are the operator-supplied scheduling parameters.
type Controls struct {
	LastSprintDays   int
	NextSprintDays   int
	MissedLastSprint int
	MissedNextSprint int
	Members          int
}

// DefaultControls mirrors the team's usual three-week cadence.
var DefaultControls = Controls{
	LastSprintDays: 15,
	NextSprintDays: 15,
	Members:        8,
}

// medianWindow bounds how far back the historical series are consulted;
// older sprints stop predicting the next one.
const medianWindow = 6

// Recommend computes the point target for the next sprint: completed points
// this sprint, less the median unplanned intake and median retro leftover of
// recent sprints, scaled by the sprint-length ratio and docked for the
// staffing delta. The result is advisory and may be negative.
//
// creditRetro selects the credited-spend set: planned+unplanned spend always
// count, retro spend only when true. Script revisions of the original ritual
// disagreed on this, so it stays an explicit parameter.
func Recommend(totals board.Totals, hist board.History, controls Controls, creditRetro bool) (int, error) {
	if controls.LastSprintDays == 0 {
		return 0, fmt.Errorf("last sprint days must be non-zero")
	}
	if controls.NextSprintDays == 0 {
		return 0, fmt.Errorf("next sprint days must be non-zero")
	}
	if controls.Members == 0 {
		return 0, fmt.Errorf("members must be non-zero")
	}

	avgUnplanned, err := Median(lastN(hist.UnplannedPastSprints, medianWindow))
	if err != nil {
		return 0, fmt.Errorf("unplanned history: %w", err)
	}
	avgRetroLeftover, err := Median(lastN(hist.RetroPastSprints, medianWindow))
	if err != nil {
		return 0, fmt.Errorf("retro history: %w", err)
	}

	spentSum := totals.Planned.Spent + totals.Unplanned.Spent
	if creditRetro {
		spentSum += totals.Retro.Spent
	}

	lengthAdjustment := float64(controls.LastSprintDays) / float64(controls.NextSprintDays)
	ptoAdjustment := float64(controls.MissedNextSprint-controls.MissedLastSprint) / float64(controls.Members)

	recommendation := math.Ceil(
		(float64(spentSum)-avgUnplanned-avgRetroLeftover)/lengthAdjustment - ptoAdjustment,
	)
	return int(recommendation), nil
}

// Median of an integer series; even-length series average the middle pair.
func Median(series []int) (float64, error) {
	if len(series) == 0 {
		return 0, fmt.Errorf("median of empty series")
	}
	sorted := make([]int, len(series))
	copy(sorted, series)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid]), nil
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2, nil
}

func lastN(series []int, n int) []int {
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}
