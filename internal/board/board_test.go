package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocdart/sprinttools/internal/trello"
)

func testLists() []trello.List {
	return []trello.List{
		{ID: "l1", Name: "Backlog"},
		{ID: "l2", Name: "Doing"},
		{ID: "l3", Name: "Sprint Done"},
		{ID: "l4", Name: "Monitoring - keep an eye on"},
	}
}

func testOptions() Options {
	return Options{
		TemplateCardID: "tmpl",
		HistoryCardID:  "hist",
		Markers:        defaultMarkers(),
	}
}

type mapSource map[string]Points

func (m mapSource) CardPoints(c trello.Card) (Points, error) {
	p, ok := m[c.ID]
	if !ok {
		return Points{}, errors.New("no points")
	}
	return p, nil
}

func TestExtractCardsSpecialCardExclusion(t *testing.T) {
	raw := []trello.Card{
		{ID: "tmpl", Name: "UNPLANNED template", IDList: "l1", Labels: []trello.Label{{Name: LabelUnplanned}}},
		{ID: "hist", Name: "Sprint history", IDList: "l3", Desc: "SP Unplanned: 8(T)"},
		{ID: "c1", Name: "Real work", IDList: "l2"},
	}
	b := New(raw, testLists(), testOptions())
	require.NoError(t, b.ExtractCards(nil))

	require.Len(t, b.Cards(), 1)
	assert.Equal(t, "c1", b.Cards()[0].ID())
	// The history card was mined, not dropped silently.
	assert.Equal(t, []int{8}, b.UnplannedPastSprints())
}

func TestExtractCardsMonitoringExclusion(t *testing.T) {
	raw := []trello.Card{
		{ID: "c1", IDList: "l4"},
		{ID: "c2", IDList: "l2"},
	}
	b := New(raw, testLists(), testOptions())
	require.NoError(t, b.ExtractCards(nil))

	require.Len(t, b.Cards(), 1)
	assert.Equal(t, "c2", b.Cards()[0].ID())
}

func TestExtractCardsSkipsClosed(t *testing.T) {
	raw := []trello.Card{
		{ID: "c1", IDList: "l2", Closed: true},
		{ID: "c2", IDList: "l2"},
	}
	b := New(raw, testLists(), testOptions())
	require.NoError(t, b.ExtractCards(nil))

	require.Len(t, b.Cards(), 1)
	assert.Equal(t, "c2", b.Cards()[0].ID())
}

func TestExtractCardsResolvesListNamesAndLabels(t *testing.T) {
	raw := []trello.Card{
		{ID: "c1", Name: "A card", ShortLink: "sl1", IDList: "l3",
			Labels: []trello.Label{{Name: "Change"}, {Name: LabelRetro}}},
	}
	b := New(raw, testLists(), testOptions())
	require.NoError(t, b.ExtractCards(nil))

	c := b.Cards()[0]
	assert.Equal(t, "Sprint Done", c.ListName())
	assert.Equal(t, "sl1", c.ShortLink())
	assert.Equal(t, []string{"Change", LabelRetro}, c.Labels())
}

func TestExtractCardsPointResolution(t *testing.T) {
	raw := []trello.Card{
		{ID: "c1", IDList: "l2"},
		{ID: "c2", IDList: "l2"},
	}
	src := mapSource{"c1": NewPoints(5, 3)}

	b := New(raw, testLists(), testOptions())
	require.NoError(t, b.ExtractCards(src))

	// Resolved triple for c1; unresolvable c2 degrades to zeros.
	assert.Equal(t, Points{Total: 5, Spent: 3, Remaining: 2}, b.Cards()[0].Points())
	assert.Equal(t, Points{}, b.Cards()[1].Points())
}

func TestExtractCardsSecondCallNoOp(t *testing.T) {
	raw := []trello.Card{
		{ID: "c1", IDList: "l2"},
		{ID: "c2", IDList: "l2"},
	}
	b := New(raw, testLists(), testOptions())
	require.NoError(t, b.ExtractCards(nil))
	require.NoError(t, b.ExtractCards(nil))

	assert.Len(t, b.Cards(), 2)
}

func TestExtractCardsNilSourceZeroTriples(t *testing.T) {
	raw := []trello.Card{{ID: "c1", IDList: "l2"}}
	b := New(raw, testLists(), testOptions())
	require.NoError(t, b.ExtractCards(nil))

	assert.Equal(t, Points{}, b.Cards()[0].Points())
}

func TestExtractCardsBadMarkerFails(t *testing.T) {
	raw := []trello.Card{{ID: "hist", IDList: "l1", Desc: "whatever"}}
	opts := testOptions()
	opts.Markers.Unplanned = `((`

	b := New(raw, testLists(), opts)
	assert.Error(t, b.ExtractCards(nil))
}

func TestCalculateStoryPoints(t *testing.T) {
	raw := []trello.Card{
		{ID: "c1", IDList: "l2"},
		{ID: "c2", IDList: "l3", Labels: []trello.Label{{Name: LabelUnplanned}}},
		{ID: "c3", IDList: "l1", Labels: []trello.Label{{Name: LabelRetro}}},
	}
	src := mapSource{
		"c1": {Total: 5, Spent: 5, Remaining: 0},
		"c2": {Total: 3, Spent: 4, Remaining: 0},
		"c3": {Total: 0, Spent: 0, Remaining: 2},
	}

	b := New(raw, testLists(), testOptions())
	require.NoError(t, b.ExtractCards(src))
	totals := b.CalculateStoryPoints()

	assert.Equal(t, Stats{Total: 5, Spent: 5, Remaining: 0}, totals.Planned)
	assert.Equal(t, Stats{Total: 3, Spent: 3, Remaining: 0}, totals.Unplanned)
	assert.Equal(t, Stats{Total: 1, Spent: 1, Remaining: 2}, totals.Retro)
	assert.Equal(t, totals, b.Totals())
}

func TestNewCustomFieldSource(t *testing.T) {
	data := []trello.CustomFieldCard{
		{ID: "c1", CustomFieldItems: []trello.CustomFieldItem{
			{IDCustomField: "ftotal", Value: trello.CustomFieldValue{Number: "5"}},
			{IDCustomField: "fspent", Value: trello.CustomFieldValue{Number: "3"}},
		}},
		{ID: "c2", CustomFieldItems: []trello.CustomFieldItem{
			{IDCustomField: "ftotal", Value: trello.CustomFieldValue{Number: "2"}},
			{IDCustomField: "other", Value: trello.CustomFieldValue{Number: "9"}},
		}},
		{ID: "c3", CustomFieldItems: []trello.CustomFieldItem{
			{IDCustomField: "ftotal", Value: trello.CustomFieldValue{Number: "not a number"}},
		}},
		{ID: "c4"},
	}
	src := NewCustomFieldSource(data, "ftotal", "fspent")

	p, err := src.CardPoints(trello.Card{ID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, Points{Total: 5, Spent: 3, Remaining: 2}, p)

	// Spent field absent defaults to zero, remaining clamps from total.
	p, err = src.CardPoints(trello.Card{ID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, Points{Total: 2, Spent: 0, Remaining: 2}, p)

	// Unparseable and absent payloads are reported, not zero-filled here;
	// the board layer owns the degrade decision.
	_, err = src.CardPoints(trello.Card{ID: "c3"})
	assert.Error(t, err)
	_, err = src.CardPoints(trello.Card{ID: "c4"})
	assert.Error(t, err)
}
