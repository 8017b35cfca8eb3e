package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardAccessors(t *testing.T) {
	c := NewCard("Noble141", "abc123", "Fix the thing", []string{"Change"}, "Doing",
		[]string{"m1", "m2"}, Points{Total: 4, Spent: 2, Remaining: 2})

	assert.Equal(t, "Noble141", c.ID())
	assert.Equal(t, "abc123", c.ShortLink())
	assert.Equal(t, "Fix the thing", c.Name())
	assert.Equal(t, []string{"Change"}, c.Labels())
	assert.Equal(t, "Doing", c.ListName())
	assert.Equal(t, []string{"m1", "m2"}, c.MemberIDs())

	assert.Equal(t, Points{Total: 4, Spent: 2, Remaining: 2}, c.Points())
	assert.Equal(t, 4, c.TotalPoints())
	assert.Equal(t, 2, c.SpentPoints())
	assert.Equal(t, 2, c.RemainingPoints())

	assert.True(t, c.HasLabel("Change"))
	assert.False(t, c.HasLabel("UNPLANNED"))
}

func TestCardSliceAccessorsDoNotAlias(t *testing.T) {
	c := NewCard("Noble141", "", "", []string{"Change"}, "", []string{"m1"}, Points{})

	c.Labels()[0] = "UNPLANNED"
	c.MemberIDs()[0] = "m2"

	assert.Equal(t, []string{"Change"}, c.Labels())
	assert.False(t, c.HasLabel("UNPLANNED"))
	assert.Equal(t, []string{"m1"}, c.MemberIDs())
}

func TestCardSetters(t *testing.T) {
	c := NewCard("Noble141", "", "", nil, "", nil, Points{Total: 4, Spent: 2, Remaining: 2})

	c.SetPoints(Points{Total: 7, Spent: 4, Remaining: 3})
	assert.Equal(t, Points{Total: 7, Spent: 4, Remaining: 3}, c.Points())

	// Individual setters enforce no relationship between the three values.
	c.SetTotalPoints(10)
	c.SetSpentPoints(5)
	c.SetRemainingPoints(9)
	assert.Equal(t, 10, c.TotalPoints())
	assert.Equal(t, 5, c.SpentPoints())
	assert.Equal(t, 9, c.RemainingPoints())
}

func TestNewPointsClampsRemaining(t *testing.T) {
	assert.Equal(t, Points{Total: 5, Spent: 2, Remaining: 3}, NewPoints(5, 2))
	assert.Equal(t, Points{Total: 3, Spent: 7, Remaining: 0}, NewPoints(3, 7))
	assert.Equal(t, Points{}, NewPoints(0, 0))
}
