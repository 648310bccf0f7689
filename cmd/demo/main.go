package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/errs"
	glbackend "github.com/hubastard/lumen/engine/gfx/gl"
	"github.com/hubastard/lumen/engine/platform"
	"github.com/hubastard/lumen/engine/profiler"
	"github.com/hubastard/lumen/engine/renderer"
	"github.com/hubastard/lumen/engine/scene"
	"github.com/muesli/termenv"
)

func main() {
	configPath := flag.String("config", "lumen.toml", "TOML config file; missing means defaults")
	sceneName := flag.String("scene", "", "scene to show (triangle, quad, vehicle); overrides the config")
	flag.Parse()

	out := termenv.NewOutput(os.Stderr)
	if err := run(*configPath, *sceneName, out); err != nil {
		report(out, err)
		os.Exit(1)
	}
}

func run(configPath, sceneName string, out *termenv.Output) error {
	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if sceneName != "" {
		cfg.Scene = sceneName
	}
	core.SetLogger(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: core.ParseLevel(cfg.LogLevel),
	})))

	kind, err := scene.ParseKind(cfg.Scene)
	if err != nil {
		return err
	}
	app := &demo{cfg: cfg, kind: kind, out: out}

	newWindow := func(cfg core.Config) (core.Window, error) {
		return platform.NewGLFWWindow(cfg, nil)
	}
	newRenderer := func(win core.Window, _ core.Config) (core.Renderer, error) {
		r, err := renderer.New(win, glbackend.NewDevice)
		if err != nil {
			// keep the window open and blank
			report(out, err)
		}
		app.renderer = r
		return r, nil
	}
	return core.Run(app, cfg, newWindow, newRenderer)
}

// report prints err in red, prefixed with its category.
func report(out *termenv.Output, err error) {
	msg := fmt.Sprintf("[%s] %v", errs.CategoryOf(err), err)
	fmt.Fprintln(out, out.String(msg).Foreground(termenv.ANSIRed).Bold())
}

type demo struct {
	cfg      core.Config
	kind     scene.Kind
	out      *termenv.Output
	renderer *renderer.Renderer
	scene    *scene.Scene
	fps      float32
}

func (d *demo) OnStart(e *core.Engine) error {
	profiler.Init(1 << 16)
	if !d.renderer.Initialized() {
		core.Logger().Warn("renderer unavailable, nothing will be drawn")
		return nil
	}
	d.scene = scene.New(d.kind, scene.Options{
		AssetsDir:  d.cfg.AssetsDir,
		FovDegrees: d.cfg.FovDegrees,
		Overlay:    d.cfg.Overlay,
	})
	if err := d.scene.Initialize(d.renderer.Device(), d.renderer.AspectRatio()); err != nil {
		d.scene = nil
		return err
	}
	core.Logger().Info("controls",
		"move", "WASD/arrows, space/C, shift to boost",
		"look", "right mouse",
		"filter", "F2",
		"transparency", "F3",
		"profile", "ctrl+P",
	)
	return nil
}

func (d *demo) OnUpdate(e *core.Engine, dt float32) {
	if d.scene != nil {
		d.scene.Update(e.Input, dt)
	}
	if fps := e.Clock.FPS(); fps != d.fps {
		d.fps = fps
		e.Window.SetTitle(fmt.Sprintf("%s - %s - %.0f fps", d.cfg.Title, d.kind, fps))
	}
}

func (d *demo) OnRender(e *core.Engine) error {
	if d.scene == nil {
		return nil
	}
	return d.renderer.Render(d.scene)
}

func (d *demo) OnEvent(e *core.Engine, ev core.Event) {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down {
		return
	}
	switch {
	case k.Key == core.KeyEscape:
		e.Window.RequestClose()
	case k.Key == core.KeyP && k.Mods&core.ModCtrl != 0:
		d.dumpProfile()
	}
}

func (d *demo) dumpProfile() {
	if !profiler.Enabled {
		core.Logger().Info("profiler disabled; build with -tags profile")
		return
	}
	path, err := profiler.Dump()
	if err != nil {
		report(d.out, err)
		return
	}
	core.Logger().Info("profile written", "path", path)
}

func (d *demo) OnShutdown(e *core.Engine) {
	if d.scene != nil {
		d.scene.Release()
		d.scene = nil
	}
}
