package core

import "time"

// App defines the demo hooks driven by Run.
type App interface {
	OnStart(e *Engine) error        // called once after window/renderer init
	OnUpdate(e *Engine, dt float32) // dt is the elapsed time of the previous frame, in seconds
	OnRender(e *Engine) error       // clear, draw and present one frame
	OnEvent(e *Engine, ev Event)    // input/window events, after Input has seen them
	OnShutdown(e *Engine)           // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Renderer Renderer
	Input    *Input
	Clock    *FrameClock
	start    time.Time
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
	Close()
}

// Renderer is the part of the device/surface manager the loop needs.
type Renderer interface {
	Initialized() bool
	Shutdown()
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

// EventMouseMove carries the absolute cursor position; Input derives deltas.
type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventMouseButton struct {
	Button MouseButton
	Down   bool
}

func (EventMouseButton) isEvent() {}

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyW
	KeyA
	KeyS
	KeyD
	KeyC
	KeyP
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyLeftShift
	KeyF2
	KeyF3
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

// MouseButton is a bit in the Input button mask.
type MouseButton int

const (
	MouseLeft   MouseButton = 1 << 0
	MouseRight  MouseButton = 1 << 1
	MouseMiddle MouseButton = 1 << 2
)
