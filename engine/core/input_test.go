package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputKeys(t *testing.T) {
	in := NewInput()
	in.Handle(EventKey{Key: KeyW, Down: true})
	assert.True(t, in.IsKeyDown(KeyW))
	in.Handle(EventKey{Key: KeyW, Down: false})
	assert.False(t, in.IsKeyDown(KeyW))
	assert.False(t, in.IsKeyDown(KeyF2))
}

func TestInputMouseDeltaIsRelative(t *testing.T) {
	in := NewInput()
	in.Handle(EventMouseMove{X: 100, Y: 100})
	dx, dy := in.MouseDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	in.Handle(EventMouseMove{X: 110, Y: 95})
	in.Handle(EventMouseMove{X: 115, Y: 90})
	dx, dy = in.MouseDelta()
	assert.Equal(t, float32(15), dx)
	assert.Equal(t, float32(-10), dy)

	in.EndFrame()
	dx, dy = in.MouseDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestInputButtonMask(t *testing.T) {
	in := NewInput()
	in.Handle(EventMouseButton{Button: MouseLeft, Down: true})
	in.Handle(EventMouseButton{Button: MouseRight, Down: true})
	assert.Equal(t, MouseLeft|MouseRight, in.Buttons())
	in.Handle(EventMouseButton{Button: MouseLeft, Down: false})
	assert.Equal(t, MouseRight, in.Buttons())
}
