package sprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRescale(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{0, 0},
		{1, 2},
		{2, 3},  // doubled to 4, tie between 3 and 5 goes low
		{3, 5},  // doubled to 6, nearer 5 than 8
		{5, 8},  // doubled to 10, nearer 8 than 13
		{8, 13}, // doubled to 16, nearer 13 than 21
		{13, 21},
		{21, 34},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Rescale(c.points), "Rescale(%d)", c.points)
	}
}
