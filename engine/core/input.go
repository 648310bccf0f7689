package core

// Input is a polled snapshot of keyboard and mouse state. Mouse motion is
// accumulated as a relative delta until EndFrame.
type Input struct {
	keys           map[Key]bool
	buttons        MouseButton
	mouseX, mouseY float64
	dx, dy         float64
	hasCursor      bool
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
	case EventMouseMove:
		if in.hasCursor {
			in.dx += e.X - in.mouseX
			in.dy += e.Y - in.mouseY
		}
		in.mouseX, in.mouseY = e.X, e.Y
		in.hasCursor = true
	case EventMouseButton:
		if e.Down {
			in.buttons |= e.Button
		} else {
			in.buttons &^= e.Button
		}
	}
}

func (in *Input) IsKeyDown(k Key) bool      { return in.keys[k] }
func (in *Input) Mouse() (float64, float64) { return in.mouseX, in.mouseY }

// MouseDelta returns the cursor motion since the last EndFrame.
func (in *Input) MouseDelta() (float32, float32) { return float32(in.dx), float32(in.dy) }

// Buttons returns the mask of held mouse buttons.
func (in *Input) Buttons() MouseButton { return in.buttons }

// EndFrame drops the accumulated mouse delta.
func (in *Input) EndFrame() { in.dx, in.dy = 0, 0 }
