package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxToOneIdempotent(t *testing.T) {
	for _, c := range []ColorRGB{{2, 1, 0.5}, {0.3, 7, 7}, {1.0001, 0, 0}, {0.2, 0.4, 0.6}} {
		once := c
		once.MaxToOne()
		twice := once
		twice.MaxToOne()
		assert.True(t, once.Equal(twice), "c=%v", c)
		assert.LessOrEqual(t, max(once.R, once.G, once.B), float32(1))
	}
}

func TestMaxToOneInRangeIsNoop(t *testing.T) {
	for _, c := range []ColorRGB{White, Black, Gray, {0.9, 1, 0}} {
		got := c
		got.MaxToOne()
		assert.Equal(t, c, got)
	}
}

func TestMaxToOneKeepsRatio(t *testing.T) {
	c := ColorRGB{4, 2, 1}
	c.MaxToOne()
	assert.True(t, c.Equal(ColorRGB{1, 0.5, 0.25}))
}

func TestLerp(t *testing.T) {
	assert.True(t, Lerp(Black, White, 0.5).Equal(Gray))
	assert.True(t, Lerp(Red, Blue, 0).Equal(Red))
	assert.True(t, Lerp(Red, Blue, 1).Equal(Blue))
}

func TestBlendArithmetic(t *testing.T) {
	assert.True(t, Red.Add(Green).Equal(Yellow))
	assert.True(t, White.Mul(Cyan).Equal(Cyan))
	assert.True(t, Gray.Scale(2).Equal(White))
	assert.Equal(t, Color{1, 0, 0, 0.5}, Red.RGBA(0.5))
}
