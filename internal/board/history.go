package board

import (
	"fmt"
	"regexp"
	"strconv"
)

// HistoryMarkers is the versioned contract for the sprint-history card's
// description layout. Each pattern's first capture group is the mined value.
type HistoryMarkers struct {
	Unplanned string
	Retro     string
}

// History holds the per-sprint series mined from the history card,
// chronological order as written, oldest first.
type History struct {
	UnplannedPastSprints []int
	RetroPastSprints     []int
}

// ParseHistory mines the two series out of a free-text description. A
// description with no matches yields empty series, not an error; a marker
// that fails to compile is a configuration error.
func ParseHistory(desc string, markers HistoryMarkers) (History, error) {
	unplanned, err := mineSeries(desc, markers.Unplanned)
	if err != nil {
		return History{}, fmt.Errorf("unplanned marker: %w", err)
	}
	retro, err := mineSeries(desc, markers.Retro)
	if err != nil {
		return History{}, fmt.Errorf("retro marker: %w", err)
	}
	return History{UnplannedPastSprints: unplanned, RetroPastSprints: retro}, nil
}

func mineSeries(desc, pattern string) ([]int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("pattern %q has no capture group", pattern)
	}

	var series []int
	for _, m := range re.FindAllStringSubmatch(desc, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		series = append(series, n)
	}
	return series, nil
}
