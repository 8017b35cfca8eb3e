package board

// Points is a card's story-point triple. When derived from raw telemetry,
// Remaining is clamped to max(Total-Spent, 0); after construction all three
// values are independently settable and no relationship is enforced. The
// classification engine owns the overspend semantics, not the card.
type Points struct {
	Total     int
	Spent     int
	Remaining int
}

// NewPoints derives a triple from raw total/spent telemetry.
func NewPoints(total, spent int) Points {
	remaining := total - spent
	if remaining < 0 {
		remaining = 0
	}
	return Points{Total: total, Spent: spent, Remaining: remaining}
}

// Card is one unit of work on the board: identity, labels, the list it sits
// in, and its point triple. Identity is immutable; point values are mutable
// for manual-correction flows.
type Card struct {
	id        string
	shortLink string
	name      string
	labels    []string
	listName  string
	memberIDs []string
	points    Points
}

func NewCard(id, shortLink, name string, labels []string, listName string, memberIDs []string, points Points) *Card {
	return &Card{
		id:        id,
		shortLink: shortLink,
		name:      name,
		labels:    labels,
		listName:  listName,
		memberIDs: memberIDs,
		points:    points,
	}
}

func (c *Card) ID() string        { return c.id }
func (c *Card) ShortLink() string { return c.shortLink }
func (c *Card) Name() string      { return c.name }
func (c *Card) ListName() string  { return c.listName }
func (c *Card) Points() Points    { return c.points }

// Labels returns a copy; the card's label set is fixed at construction.
func (c *Card) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// MemberIDs returns a copy, same contract as Labels.
func (c *Card) MemberIDs() []string {
	out := make([]string, len(c.memberIDs))
	copy(out, c.memberIDs)
	return out
}

func (c *Card) TotalPoints() int     { return c.points.Total }
func (c *Card) SpentPoints() int     { return c.points.Spent }
func (c *Card) RemainingPoints() int { return c.points.Remaining }

func (c *Card) SetPoints(p Points)       { c.points = p }
func (c *Card) SetTotalPoints(v int)     { c.points.Total = v }
func (c *Card) SetSpentPoints(v int)     { c.points.Spent = v }
func (c *Card) SetRemainingPoints(v int) { c.points.Remaining = v }

// HasLabel reports whether the card carries the named label.
func (c *Card) HasLabel(name string) bool {
	for _, l := range c.labels {
		if l == name {
			return true
		}
	}
	return false
}
