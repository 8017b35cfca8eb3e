package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pocdart/sprinttools/internal/board"
	"github.com/pocdart/sprinttools/internal/trello"
)

// InternalWorkLabel marks cards that improve the system rather than ship
// features. The report measures its share against User Story / Change work;
// unplanned cards are left out of both sides.
const InternalWorkLabel = "Internal Work"

// Color thresholds encourage a majority of feature work: under 40% internal
// is healthy, over 50% is a flag.
var (
	styleGood = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleBad  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// InternalWorkPercentage returns the rounded share of internal-work points
// among all planned work. A board with no planned points reports zero.
func InternalWorkPercentage(cards []*board.Card) float64 {
	var internal, feature int
	for _, c := range cards {
		if c.HasLabel(InternalWorkLabel) {
			internal += c.TotalPoints()
		} else if !c.HasLabel(board.LabelUnplanned) {
			feature += c.TotalPoints()
		}
	}
	if internal+feature == 0 {
		return 0
	}
	return math.Round(float64(internal) / float64(internal+feature) * 100)
}

// OwnerRow is one leaderboard entry.
type OwnerRow struct {
	Name   string
	Points int
}

// PointsByOwner totals each card's points against its first listed owner and
// returns rows in descending point order, plus the alphabetical list of
// members with nothing assigned.
func PointsByOwner(cards []*board.Card, ownerNames map[string]string) (rows []OwnerRow, zeroPoints []string) {
	totals := map[string]int{}
	for _, c := range cards {
		ids := c.MemberIDs()
		if len(ids) == 0 {
			continue
		}
		name, ok := ownerNames[ids[0]]
		if !ok {
			name = ids[0]
		}
		totals[name] += c.TotalPoints()
	}

	for name, pts := range totals {
		rows = append(rows, OwnerRow{Name: name, Points: pts})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Name < rows[j].Name
	})

	for _, name := range ownerNames {
		if totals[name] == 0 {
			zeroPoints = append(zeroPoints, name)
		}
	}
	sort.Strings(zeroPoints)
	return rows, zeroPoints
}

// Reporter renders the board stats report: work-type ratio and the per-owner
// leaderboard.
type Reporter struct {
	client *trello.Client
	out    io.Writer
}

func New(client *trello.Client, out io.Writer) *Reporter {
	return &Reporter{client: client, out: out}
}

func (r *Reporter) Run(b *board.Board) error {
	pct := InternalWorkPercentage(b.Cards())
	style := styleGood
	switch {
	case pct > 50:
		style = styleBad
	case pct > 40:
		style = styleWarn
	}
	fmt.Fprintf(r.out, "Internal work percentage: %s\n", style.Render(fmt.Sprintf("%.0f%%", pct)))

	ownerNames, err := r.ownerLookup()
	if err != nil {
		return fmt.Errorf("resolve board members: %w", err)
	}

	rows, zeroPoints := PointsByOwner(b.Cards(), ownerNames)
	fmt.Fprintln(r.out, "Story points by owner:")
	for _, row := range rows {
		fmt.Fprintf(r.out, "%-20s%d\n", row.Name, row.Points)
	}
	fmt.Fprintf(r.out, "Members with zero story points assigned: %s\n", strings.Join(zeroPoints, ", "))
	return nil
}

func (r *Reporter) ownerLookup() (map[string]string, error) {
	ids, err := r.client.GetBoardMemberIDs()
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]string, len(ids))
	for _, id := range ids {
		m, err := r.client.GetMemberDetails(id)
		if err != nil {
			return nil, err
		}
		lookup[id] = m.FullName
	}
	return lookup, nil
}
