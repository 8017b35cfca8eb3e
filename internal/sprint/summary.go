package sprint

import (
	"time"

	"github.com/pocdart/sprinttools/internal/board"
)

// Summary is the flat per-sprint record persisted for trend analysis: sprint
// controls plus the three-category totals, keyed by the board's external ID.
type Summary struct {
	BoardID      string
	StartDate    string
	LengthDays   int
	Members      int
	VacationDays int

	PlannedTotal     int
	PlannedCompleted int
	PlannedRemaining int

	UnplannedTotal     int
	UnplannedCompleted int
	UnplannedRemaining int

	RetroTotal     int
	RetroCompleted int
	RetroRemaining int
}

// NewSummary flattens this sprint's controls and totals, dated today.
func NewSummary(boardID string, controls Controls, totals board.Totals) Summary {
	return Summary{
		BoardID:      boardID,
		StartDate:    time.Now().Format("2006-01-02"),
		LengthDays:   controls.LastSprintDays,
		Members:      controls.Members,
		VacationDays: controls.MissedLastSprint,

		PlannedTotal:     totals.Planned.Total,
		PlannedCompleted: totals.Planned.Spent,
		PlannedRemaining: totals.Planned.Remaining,

		UnplannedTotal:     totals.Unplanned.Total,
		UnplannedCompleted: totals.Unplanned.Spent,
		UnplannedRemaining: totals.Unplanned.Remaining,

		RetroTotal:     totals.Retro.Total,
		RetroCompleted: totals.Retro.Spent,
		RetroRemaining: totals.Retro.Remaining,
	}
}
