package stepseq

import "math"

// Distribute spreads numEvents onsets as evenly as possible across
// numTicks positions using a Bresenham-style even distribution, returning a
// slice of length numTicks where 1 marks an onset and 0 marks a rest.
//
// numEvents is clamped to [0, numTicks]: zero events yields an all-zero
// result, and numEvents >= numTicks yields an all-ones result.
func Distribute(numTicks, numEvents int) []int {
	result := make([]int, numTicks)
	if numTicks <= 0 {
		return result
	}
	if numEvents <= 0 {
		return result
	}
	if numEvents > numTicks {
		numEvents = numTicks
	}

	slope := float64(numEvents) / float64(numTicks)
	previous := -1 // sentinel distinct from any floor(i*slope), so index 0 always emits
	for i := 0; i < numTicks; i++ {
		current := int(math.Floor(float64(i) * slope))
		if current != previous {
			result[i] = 1
		}
		previous = current
	}
	return result
}
