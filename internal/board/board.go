package board

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pocdart/sprinttools/internal/trello"
)

// PointSource resolves one raw card's story-point triple. The two backing
// implementations are the per-card plugin fetch and the bulk custom-fields
// map; extraction works with whichever the caller wires in. A nil source
// means points are not wanted and every card gets a zero triple.
type PointSource interface {
	CardPoints(c trello.Card) (Points, error)
}

// ClientPointSource fetches each card's points with one API call per card.
type ClientPointSource struct {
	Client *trello.Client
}

func (s ClientPointSource) CardPoints(c trello.Card) (Points, error) {
	total, spent, err := s.Client.GetCardStoryPoints(c.ID)
	if err != nil {
		return Points{}, err
	}
	return NewPoints(total, spent), nil
}

// CustomFieldSource resolves points from a bulk custom-fields fetch, mapping
// the two designated field IDs to the triple.
type CustomFieldSource struct {
	points map[string]Points
}

func NewCustomFieldSource(data []trello.CustomFieldCard, fieldTotalID, fieldSpentID string) *CustomFieldSource {
	points := make(map[string]Points, len(data))
	for _, card := range data {
		var total, spent int
		var seen bool
		for _, item := range card.CustomFieldItems {
			n, err := strconv.Atoi(item.Value.Number)
			if err != nil {
				continue
			}
			switch item.IDCustomField {
			case fieldTotalID:
				total = n
				seen = true
			case fieldSpentID:
				spent = n
				seen = true
			}
		}
		if seen {
			points[card.ID] = NewPoints(total, spent)
		}
	}
	return &CustomFieldSource{points: points}
}

func (s *CustomFieldSource) CardPoints(c trello.Card) (Points, error) {
	p, ok := s.points[c.ID]
	if !ok {
		return Points{}, fmt.Errorf("card %s: no custom-field points", c.ID)
	}
	return p, nil
}

// Options designates the special cards and the history-card marker contract.
type Options struct {
	TemplateCardID string
	HistoryCardID  string
	Markers        HistoryMarkers
}

// Board owns one snapshot's card collection and the lifecycle around it:
// raw records in, extracted cards, historical series off the history card,
// and the classified totals. One Board per invocation; extraction is a
// one-way, one-time operation.
type Board struct {
	raw   []trello.Card
	lists map[string]string
	opts  Options

	cards   []*Card
	history History
	totals  Totals
}

func New(raw []trello.Card, lists []trello.List, opts Options) *Board {
	lookup := make(map[string]string, len(lists))
	for _, l := range lists {
		lookup[l.ID] = l.Name
	}
	return &Board{raw: raw, lists: lookup, opts: opts}
}

// ExtractCards builds the card collection from the raw snapshot. The
// unplanned-template card is skipped outright; the sprint-history card is
// mined for the historical series and then skipped; cards sitting in a
// Monitoring list are dropped entirely. A card whose points cannot be
// resolved degrades to a zero triple with a warning rather than failing the
// run. Extraction runs once; calling it again on a populated board is a no-op.
func (b *Board) ExtractCards(src PointSource) error {
	if b.cards != nil {
		return nil
	}
	for _, rc := range b.raw {
		if rc.Closed || rc.ID == b.opts.TemplateCardID {
			continue
		}
		if rc.ID == b.opts.HistoryCardID {
			h, err := ParseHistory(rc.Desc, b.opts.Markers)
			if err != nil {
				return fmt.Errorf("parse history card %s: %w", rc.ID, err)
			}
			b.history = h
			continue
		}

		listName := b.lists[rc.IDList]
		if strings.Contains(listName, monitoringListMarker) {
			continue
		}

		var points Points
		if src != nil {
			p, err := src.CardPoints(rc)
			if err != nil {
				slog.Warn("story points unavailable, using zeros", "card", rc.Name, "err", err)
			} else {
				points = p
			}
		}

		labels := make([]string, len(rc.Labels))
		for i, l := range rc.Labels {
			labels[i] = l.Name
		}

		b.cards = append(b.cards, NewCard(rc.ID, rc.ShortLink, rc.Name, labels, listName, rc.IDMembers, points))
	}
	return nil
}

// CalculateStoryPoints runs the classification engine over the extracted
// cards. Calling it before ExtractCards is a caller error and yields zero
// totals.
func (b *Board) CalculateStoryPoints() Totals {
	b.totals = Classify(b.cards)
	return b.totals
}

func (b *Board) Cards() []*Card     { return b.cards }
func (b *Board) Totals() Totals     { return b.totals }
func (b *Board) Raw() []trello.Card { return b.raw }
func (b *Board) History() History   { return b.history }

func (b *Board) UnplannedPastSprints() []int { return b.history.UnplannedPastSprints }
func (b *Board) RetroPastSprints() []int     { return b.history.RetroPastSprints }
