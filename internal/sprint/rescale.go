package sprint

// fibScale is the estimation scale the board uses. 89 comfortably exceeds
// any single card the team has ever pointed.
var fibScale = []int{0, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89}

// Rescale doubles a point value and snaps it to the nearest value on the
// Fibonacci scale, ties toward the smaller value. Used by the one-time
// migration that converted the board from a half-point scale.
func Rescale(points int) int {
	doubled := points * 2
	best := fibScale[0]
	for _, f := range fibScale[1:] {
		if abs(f-doubled) < abs(best-doubled) {
			best = f
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
