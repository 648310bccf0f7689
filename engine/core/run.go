package core

import (
	"runtime"
	"time"

	"github.com/hubastard/lumen/engine/profiler"
)

// Run wires the platform window + renderer and executes the main loop:
// poll input, update, render/present, until the window asks to close.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newRenderer func(Window, Config) (Renderer, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()

	win, err := newWindow(cfg)
	if err != nil {
		return err
	}
	defer win.Close()

	rend, err := newRenderer(win, cfg)
	if err != nil {
		return err
	}
	// renderer releases its device objects before the window drops the context
	defer rend.Shutdown()

	eng := &Engine{
		Window:   win,
		Renderer: rend,
		Input:    NewInput(),
		Clock:    NewFrameClock(),
		start:    time.Now(),
	}
	win.SetEventCallback(func(ev Event) {
		eng.Input.Handle(ev)
		if _, ok := ev.(EventCloseRequested); ok {
			win.RequestClose()
		}
		app.OnEvent(eng, ev)
	})

	if err := app.OnStart(eng); err != nil {
		return err
	}

	for !win.ShouldClose() {
		endFrame := profiler.Start("frame")

		win.PollEvents()
		dt := eng.Clock.Tick()

		app.OnUpdate(eng, dt)
		if err := app.OnRender(eng); err != nil {
			endFrame()
			app.OnShutdown(eng)
			return err
		}
		eng.Input.EndFrame()

		endFrame()
	}

	app.OnShutdown(eng)
	Logger().Info("engine exit", "uptime", eng.Uptime().Round(time.Millisecond))
	return nil
}
