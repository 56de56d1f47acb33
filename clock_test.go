package stepseq

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

func TestClockAdvancesByExactlyOnePeriod(t *testing.T) {
	mock := clock.NewMock()
	c := NewClockWithSource(10*time.Millisecond, mock)
	c.Start()

	start := mock.Now()
	for i := 1; i <= 5; i++ {
		done := make(chan struct{})
		go func() {
			c.BlockUntilNextTick()
			close(done)
		}()
		mock.Add(10 * time.Millisecond)
		<-done

		assert.Equal(t, start.Add(time.Duration(i+1)*10*time.Millisecond), c.Deadline())
	}
}

// S6 — Clock non-drift: a deliberately late caller does not catch up by
// firing more than once.
func TestClockNoDriftOnLateCaller(t *testing.T) {
	mock := clock.NewMock()
	c := NewClockWithSource(10*time.Millisecond, mock)
	c.Start()
	t0 := mock.Now()

	mock.Add(25 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		c.BlockUntilNextTick()
		close(done)
	}()
	<-done

	assert.Equal(t, t0.Add(20*time.Millisecond), c.Deadline())
}
