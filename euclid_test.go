package stepseq

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// S3 — Euclidean reference outputs.
func TestDistributeReferenceOutputs(t *testing.T) {
	assert.Equal(t, []int{1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0}, Distribute(16, 5))
	assert.Equal(t, []int{1, 0, 0, 1, 0, 0, 1, 0, 1, 0, 0, 1, 0, 0, 1, 0}, Distribute(16, 6))
}

func TestDistributeEdgeCases(t *testing.T) {
	assert.Equal(t, make([]int, 16), Distribute(16, 0))

	ones := make([]int, 16)
	for i := range ones {
		ones[i] = 1
	}
	assert.Equal(t, ones, Distribute(16, 16))
	assert.Equal(t, ones, Distribute(16, 20))
}

func TestDistributeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("distribution sums to k and starts with 1", prop.ForAll(
		func(n, k int) bool {
			if k > n {
				k = n
			}
			dist := Distribute(n, k)
			sum := 0
			for _, v := range dist {
				sum += v
			}
			return sum == k && dist[0] == 1
		},
		gen.IntRange(1, 64),
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}
