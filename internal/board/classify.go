package board

import "strings"

// Label names and list-name markers the engine keys on.
const (
	LabelUnplanned = "UNPLANNED"
	LabelRetro     = "RETRO"

	doneListMarker       = "Done"
	monitoringListMarker = "Monitoring"
)

// Stats is one category's running point totals.
type Stats struct {
	Total     int `json:"total"`
	Spent     int `json:"spent"`
	Remaining int `json:"remaining"`
}

// Totals is the three-bucket output of the classification walk.
type Totals struct {
	Planned   Stats `json:"planned"`
	Unplanned Stats `json:"unplanned"`
	Retro     Stats `json:"retro"`
}

// GrandTotal sums the Total figure across the three buckets.
func (t Totals) GrandTotal() int {
	return t.Planned.Total + t.Unplanned.Total + t.Retro.Total
}

type category int

const (
	catPlanned category = iota
	catUnplanned
	catRetro
)

// categoryOf buckets one card. A RETRO label only wins while the card is
// untouched: once it has absorbed spend, or reached a Done list, the card
// folds into planned bookkeeping so the overspend rule accounts for it
// uniformly.
func categoryOf(c *Card) category {
	switch {
	case c.HasLabel(LabelUnplanned):
		return catUnplanned
	case c.HasLabel(LabelRetro) && !inDoneList(c) && c.SpentPoints() == 0:
		return catRetro
	default:
		return catPlanned
	}
}

func inDoneList(c *Card) bool {
	return strings.Contains(c.ListName(), doneListMarker)
}

// Classify walks the card collection once and accumulates the three-category
// totals. The walk is order-independent: every card's contribution is
// determined by the card alone. The collection is assumed to already exclude
// the template, history, and Monitoring-list cards.
//
// Spend on a planned or unplanned card is capped at its estimate; anything
// above the estimate flows into the retro bucket's total and spent. A true
// retro card has no estimate in the same sense, so its spend is credited
// unclamped. Remaining points only count while the card is not Done.
func Classify(cards []*Card) Totals {
	var t Totals

	for _, c := range cards {
		cat := categoryOf(c)
		bucket := t.bucket(cat)

		bucket.Total += c.TotalPoints()

		if cat == catRetro {
			t.Retro.Spent += c.SpentPoints()
		} else {
			spent := c.SpentPoints()
			total := c.TotalPoints()
			if spent > total {
				bucket.Spent += total
				t.Retro.Spent += spent - total
				t.Retro.Total += spent - total
			} else {
				bucket.Spent += spent
			}
		}

		if !inDoneList(c) {
			bucket.Remaining += c.RemainingPoints()
		}
	}

	return t
}

func (t *Totals) bucket(cat category) *Stats {
	switch cat {
	case catUnplanned:
		return &t.Unplanned
	case catRetro:
		return &t.Retro
	default:
		return &t.Planned
	}
}
