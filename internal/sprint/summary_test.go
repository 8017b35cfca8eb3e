package sprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pocdart/sprinttools/internal/board"
)

func TestNewSummaryFlattens(t *testing.T) {
	controls := Controls{
		LastSprintDays:   15,
		NextSprintDays:   15,
		MissedLastSprint: 3,
		Members:          8,
	}
	totals := board.Totals{
		Planned:   board.Stats{Total: 20, Spent: 16, Remaining: 4},
		Unplanned: board.Stats{Total: 8, Spent: 6, Remaining: 2},
		Retro:     board.Stats{Total: 4, Spent: 4, Remaining: 0},
	}

	sum := NewSummary("J117", controls, totals)

	assert.Equal(t, "J117", sum.BoardID)
	assert.Equal(t, time.Now().Format("2006-01-02"), sum.StartDate)
	assert.Equal(t, 15, sum.LengthDays)
	assert.Equal(t, 8, sum.Members)
	assert.Equal(t, 3, sum.VacationDays)

	assert.Equal(t, 20, sum.PlannedTotal)
	assert.Equal(t, 16, sum.PlannedCompleted)
	assert.Equal(t, 4, sum.PlannedRemaining)
	assert.Equal(t, 8, sum.UnplannedTotal)
	assert.Equal(t, 6, sum.UnplannedCompleted)
	assert.Equal(t, 2, sum.UnplannedRemaining)
	assert.Equal(t, 4, sum.RetroTotal)
	assert.Equal(t, 4, sum.RetroCompleted)
	assert.Equal(t, 0, sum.RetroRemaining)
}
