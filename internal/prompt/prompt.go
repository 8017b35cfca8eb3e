package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pocdart/sprinttools/internal/board"
	"github.com/pocdart/sprinttools/internal/sprint"
)

// Prompter gathers operator input from an injected reader so every prompt
// loop is scriptable in tests. The recommendation engine itself never
// prompts; it receives a fully-populated Controls record.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// readLine reports ok=false once the input is exhausted so prompt loops
// terminate instead of spinning on EOF.
func (p *Prompter) readLine() (string, bool) {
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

// Int prompts for an integer, re-asking on invalid input. An empty line or
// exhausted input takes the default.
func (p *Prompter) Int(label string, def int) int {
	fmt.Fprintf(p.out, "Enter number of %s (default: %d): ", label, def)
	for {
		line, ok := p.readLine()
		if line == "" || !ok {
			return def
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n
		}
		fmt.Fprint(p.out, "Invalid input; enter a number: ")
	}
}

// YesNo asks until it gets Y or N; exhausted input answers no.
func (p *Prompter) YesNo(question string) bool {
	for {
		fmt.Fprintf(p.out, "%s\nEnter Y or N: ", question)
		line, ok := p.readLine()
		if !ok {
			return false
		}
		switch strings.ToUpper(line) {
		case "Y":
			return true
		case "N":
			return false
		}
		fmt.Fprintln(p.out, "Invalid input; please enter 'Y' or 'N'.")
	}
}

// SprintControls collects the five scheduling parameters.
func (p *Prompter) SprintControls() sprint.Controls {
	d := sprint.DefaultControls
	return sprint.Controls{
		LastSprintDays:   p.Int("last Sprint days", d.LastSprintDays),
		NextSprintDays:   p.Int("next Sprint days", d.NextSprintDays),
		MissedLastSprint: p.Int("total days missed last Sprint", d.MissedLastSprint),
		MissedNextSprint: p.Int("total days planned missed next Sprint", d.MissedNextSprint),
		Members:          p.Int("members working this coming Sprint", d.Members),
	}
}

// ManualCorrections walks every category value and lets the operator replace
// it, returning the corrected totals.
func (p *Prompter) ManualCorrections(totals board.Totals) board.Totals {
	if !p.YesNo("Do you want to make edits to the calculated story points?") {
		return totals
	}

	categories := []struct {
		name  string
		stats *board.Stats
	}{
		{"planned", &totals.Planned},
		{"unplanned", &totals.Unplanned},
		{"retro", &totals.Retro},
	}

	for _, cat := range categories {
		fmt.Fprintf(p.out, "Modifying entries for '%s':\n", cat.name)
		fields := []struct {
			name  string
			value *int
		}{
			{"total", &cat.stats.Total},
			{"spent", &cat.stats.Spent},
			{"remaining", &cat.stats.Remaining},
		}
		for _, f := range fields {
			fmt.Fprintf(p.out, "Current value of '%s': %d\n", f.name, *f.value)
			if !p.YesNo("Do you want to change this value?") {
				fmt.Fprintln(p.out)
				continue
			}
			fmt.Fprintf(p.out, "Enter the new value for '%s': ", f.name)
			line, _ := p.readLine()
			n, err := strconv.Atoi(line)
			if err != nil {
				fmt.Fprintln(p.out, "Invalid input, keeping the original value.")
			} else {
				*f.value = n
			}
			fmt.Fprintln(p.out)
		}
	}
	return totals
}

// ShowCalculations prints the totals in the (T)/(A)/(LO) layout the history
// card records, plus the recommendation when one has been computed.
func (p *Prompter) ShowCalculations(totals board.Totals, recommendation *int) {
	fmt.Fprintf(p.out, "SP Planned  : %2d(T), %2d(A), %2d(LO)\n",
		totals.Planned.Total, totals.Planned.Spent, totals.Planned.Remaining)
	fmt.Fprintf(p.out, "SP Unplanned: %2d(T), %2d(A), %2d(LO)\n",
		totals.Unplanned.Total, totals.Unplanned.Spent, totals.Unplanned.Remaining)
	fmt.Fprintf(p.out, "SP Retro    : %2d(T), %2d(A), %2d(LO)\n",
		totals.Retro.Total, totals.Retro.Spent, totals.Retro.Remaining)
	if recommendation != nil {
		fmt.Fprintln(p.out, "======================")
		fmt.Fprintf(p.out, "SP: Target for next sprint: %d\n", *recommendation)
	}
}
