package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pocdart/sprinttools/internal/board"
	"github.com/pocdart/sprinttools/internal/sprint"
)

func scripted(lines ...string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(strings.NewReader(strings.Join(lines, "\n")), out), out
}

func TestSprintControlsDefaults(t *testing.T) {
	p, _ := scripted("", "", "", "", "")
	controls := p.SprintControls()
	assert.Equal(t, sprint.Controls{LastSprintDays: 15, NextSprintDays: 15, Members: 8}, controls)
}

func TestSprintControlsCustomValues(t *testing.T) {
	p, _ := scripted("10", "12", "2", "4", "6")
	controls := p.SprintControls()
	assert.Equal(t, sprint.Controls{
		LastSprintDays:   10,
		NextSprintDays:   12,
		MissedLastSprint: 2,
		MissedNextSprint: 4,
		Members:          6,
	}, controls)
}

func TestIntRetriesOnInvalidInput(t *testing.T) {
	p, out := scripted("not a number", "7")
	assert.Equal(t, 7, p.Int("things", 3))
	assert.Contains(t, out.String(), "Invalid input; enter a number")
}

func TestYesNo(t *testing.T) {
	p, _ := scripted("y")
	assert.True(t, p.YesNo("Continue?"))

	p, _ = scripted("N")
	assert.False(t, p.YesNo("Continue?"))

	p, out := scripted("maybe", "Y")
	assert.True(t, p.YesNo("Continue?"))
	assert.Contains(t, out.String(), "please enter 'Y' or 'N'")
}

func TestManualCorrectionsDeclined(t *testing.T) {
	totals := board.Totals{Planned: board.Stats{Total: 20}}
	p, _ := scripted("N")
	assert.Equal(t, totals, p.ManualCorrections(totals))
}

func TestManualCorrectionsEditOneValue(t *testing.T) {
	totals := board.Totals{
		Planned:   board.Stats{Total: 20, Spent: 16, Remaining: 4},
		Unplanned: board.Stats{Total: 8, Spent: 6, Remaining: 2},
		Retro:     board.Stats{Total: 4, Spent: 4, Remaining: 0},
	}
	// Accept edits, change planned.total to 30, leave the other eight
	// values untouched.
	p, _ := scripted("Y", "Y", "30", "N", "N", "N", "N", "N", "N", "N", "N")

	got := p.ManualCorrections(totals)
	assert.Equal(t, 30, got.Planned.Total)
	assert.Equal(t, 16, got.Planned.Spent)
	assert.Equal(t, totals.Unplanned, got.Unplanned)
	assert.Equal(t, totals.Retro, got.Retro)
}

func TestManualCorrectionsInvalidValueKeepsOriginal(t *testing.T) {
	totals := board.Totals{Planned: board.Stats{Total: 20}}
	p, out := scripted("Y", "Y", "twenty", "N", "N", "N", "N", "N", "N", "N", "N")

	got := p.ManualCorrections(totals)
	assert.Equal(t, 20, got.Planned.Total)
	assert.Contains(t, out.String(), "keeping the original value")
}

func TestShowCalculations(t *testing.T) {
	totals := board.Totals{
		Planned:   board.Stats{Total: 20, Spent: 16, Remaining: 4},
		Unplanned: board.Stats{Total: 8, Spent: 6, Remaining: 2},
		Retro:     board.Stats{Total: 4, Spent: 4, Remaining: 0},
	}
	p, out := scripted()
	rec := 17
	p.ShowCalculations(totals, &rec)

	assert.Contains(t, out.String(), "SP Planned  : 20(T), 16(A),  4(LO)")
	assert.Contains(t, out.String(), "SP Unplanned:  8(T),  6(A),  2(LO)")
	assert.Contains(t, out.String(), "SP Retro    :  4(T),  4(A),  0(LO)")
	assert.Contains(t, out.String(), "SP: Target for next sprint: 17")
}

func TestShowCalculationsParsesBackAsHistory(t *testing.T) {
	// The printed layout is the history card's default marker contract;
	// pasting the tool's own output must round-trip through the miner.
	totals := board.Totals{
		Unplanned: board.Stats{Total: 8, Spent: 6, Remaining: 2},
		Retro:     board.Stats{Total: 4, Spent: 4, Remaining: 3},
	}
	p, out := scripted()
	p.ShowCalculations(totals, nil)

	h, err := board.ParseHistory(out.String(), board.HistoryMarkers{
		Unplanned: `SP Unplanned:\s*(\d+)\(T\)`,
		Retro:     `SP Retro\s*:\s*\d+\(T\),\s*\d+\(A\),\s*(\d+)\(LO\)`,
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{8}, h.UnplannedPastSprints)
	assert.Equal(t, []int{3}, h.RetroPastSprints)
}
