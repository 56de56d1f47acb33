package stepseq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayHeadAdvance(t *testing.T) {
	p := NewPlayHead()
	assert.False(t, p.IsLooping())

	p.Advance()
	p.Advance()
	assert.Equal(t, Tick(2), p.Position)
}

func TestPlayHeadLooping(t *testing.T) {
	p := NewPlayHead()
	p.SetLooping(0, 4)
	assert.True(t, p.IsLooping())

	for i := 0; i < 4; i++ {
		p.Advance()
	}
	assert.Equal(t, Tick(0), p.Position)
}

func TestPlayHeadRewind(t *testing.T) {
	p := NewPlayHead()
	p.SetLooping(0, 16)
	p.Position = 9
	p.Rewind()
	assert.Equal(t, Tick(0), p.Position)
}

func TestPlayHeadStopLooping(t *testing.T) {
	p := NewPlayHead()
	p.SetLooping(0, 4)
	p.StopLooping()
	assert.False(t, p.IsLooping())

	p.Position = 3
	p.Advance()
	assert.Equal(t, Tick(4), p.Position)
}
