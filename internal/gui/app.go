package gui

import (
	"fmt"
	"os"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/softbody/internal/automation"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/experiment"
	"github.com/san-kum/softbody/internal/metrics"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColPinned  = rl.NewColor(230, 90, 90, 255)
)

const (
	grabRadius   = 20.0
	maxTelemetry = 200
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

var paramKeys = []string{"damping", "gravity", "iterations", "restitution"}

type App struct {
	Solver    *dynamo.Solver
	Registry  *experiment.Registry
	Config    *config.Config
	BodyName  string
	Running   bool
	InMenu    bool
	InConfig  bool
	Entries   []string
	Selected  int
	Params    map[string]float64
	ParamKeys []string
	ParamSel  int
	Telemetry []float64
	Font      rl.Font

	Grabbed  dynamo.Handle
	Grabbing bool
	Message  string

	width, height int32
}

func initWindow(w, h int32) {
	rl.InitWindow(w, h, "softbody")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to the raylib default font.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func newApp(registry *experiment.Registry) *App {
	a := &App{
		Registry:  registry,
		Params:    make(map[string]float64),
		ParamKeys: paramKeys,
		Telemetry: make([]float64, 0, maxTelemetry),
		Grabbed:   -1,
	}
	for _, shape := range config.ListShapes() {
		for _, name := range config.ListPresets(shape) {
			a.Entries = append(a.Entries, shape+"/"+name)
		}
	}
	sort.Strings(a.Entries)
	return a
}

// Run opens a window sized to the solver's world and animates it until closed.
func Run(s *dynamo.Solver, name string) {
	a := newApp(nil)
	a.Solver = s
	a.BodyName = name
	a.Running = true

	params := s.Params()
	a.width, a.height = int32(params.Width), int32(params.Height)
	initWindow(a.width, a.height)
	a.Font = loadFont()
	a.RunLoop()
}

// RunInteractive starts at the preset menu and builds bodies through registry.
func RunInteractive(registry *experiment.Registry) {
	a := newApp(registry)
	a.InMenu = true

	world := config.DefaultConfig().World
	a.width, a.height = int32(world.Width), int32(world.Height)
	initWindow(a.width, a.height)
	a.Font = loadFont()
	a.RunLoop()
}

func (a *App) RunLoop() {
	defer rl.CloseWindow()
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

// loadEntry resolves a "shape/preset" menu entry and seeds the config screen.
func (a *App) loadEntry(entry string) {
	step := automation.ScenarioStep{Preset: entry}
	cfg, err := step.Resolve()
	if err != nil {
		a.Message = err.Error()
		return
	}
	a.Config = cfg
	a.BodyName = entry
	a.Params = map[string]float64{
		"gravity":     cfg.World.Gravity,
		"damping":     cfg.World.Damping,
		"restitution": cfg.World.Restitution,
		"iterations":  float64(cfg.World.Iterations),
	}
	a.ParamSel = 0
	a.Message = ""
	a.InConfig = true
}

// build applies the edited parameters and constructs a fresh solver.
func (a *App) build() error {
	cfg := a.Config.Clone()
	if err := automation.ApplyParams(cfg, a.Params); err != nil {
		return err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(a.Registry, nil); err != nil {
		return err
	}
	a.Solver = exp.Solver()
	a.Telemetry = a.Telemetry[:0]
	a.Grabbing = false
	return nil
}

// Update handles one frame of input. It reports true when the app should quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}

	if a.InMenu {
		a.updateMenu()
		return false
	}
	if a.InConfig {
		a.updateConfig()
		return false
	}

	if rl.IsKeyPressed(rl.KeyEscape) && a.Registry != nil {
		a.InMenu = true
		a.Running = false
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) || rl.IsMouseButtonPressed(rl.MouseRightButton) {
		a.reset()
	}

	a.updateGrab()

	step := a.Running || rl.IsKeyPressed(rl.KeyS)
	if step {
		a.Solver.Step()
		a.record()
	}
	return false
}

func (a *App) updateMenu() {
	if len(a.Entries) == 0 {
		return
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}

	// Wrap selection
	if a.Selected >= len(a.Entries) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.Entries) - 1
	}

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		a.loadEntry(a.Entries[a.Selected])
		if a.InConfig {
			a.InMenu = false
		}
	}
}

func (a *App) updateConfig() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.InConfig = false
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		if err := a.build(); err != nil {
			a.Message = err.Error()
			return
		}
		a.Message = ""
		a.InConfig = false
		a.Running = true
		return
	}

	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel--
		if a.ParamSel < 0 {
			a.ParamSel = len(a.ParamKeys) - 1
		}
	}

	key := a.ParamKeys[a.ParamSel]
	step := paramStep(key)
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step *= 10
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.Params[key] += step
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.Params[key] -= step
	}
}

func paramStep(key string) float64 {
	switch key {
	case "gravity":
		return 0.1
	case "iterations":
		return 1
	}
	return 0.01
}

// updateGrab holds the nearest particle under the cursor at the mouse while
// the left button is held. Velocity comes from the drag itself. P toggles the
// pin of the particle under the cursor.
func (a *App) updateGrab() {
	mouse := rl.GetMousePosition()
	mx, my := float64(mouse.X), float64(mouse.Y)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.Grabbed, a.Grabbing = a.Solver.Nearest(mx, my, grabRadius)
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		a.Grabbing = false
	}
	if a.Grabbing {
		_ = a.Solver.MoveTo(a.Grabbed, mx, my)
	}

	if rl.IsKeyPressed(rl.KeyP) {
		if h, ok := a.Solver.Nearest(mx, my, grabRadius); ok {
			if a.Solver.Particle(h).Pinned {
				_ = a.Solver.Unpin(h)
			} else {
				_ = a.Solver.Pin(h)
			}
		}
	}
}

func (a *App) reset() {
	a.Solver.ResetToRest()
	a.Grabbing = false
	a.Telemetry = a.Telemetry[:0]
}

func (a *App) record() {
	if len(a.Telemetry) >= maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	a.Telemetry = append(a.Telemetry, metrics.TotalEnergy(a.Solver))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else if a.InConfig {
		a.drawConfig()
	} else {
		a.drawSim()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("softbody", 20, 16, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.BodyName), 150, 20, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, int(a.width)-100, 20, 16, col)

	stats := fmt.Sprintf("frame %d  particles %d  sticks %d  strain %.4f",
		a.Solver.Frame(), a.Solver.Len(), a.Solver.NumConstraints(), metrics.MeanStrain(a.Solver))
	a.drawText(stats, 20, 46, 14, ColText)

	a.DrawTelemetry()

	a.drawText("[SPACE] PAUSE  [S] STEP  [R/RMB] RESET  [LMB] DRAG  [P] PIN  [Q] QUIT", 20, int(a.height)-24, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), int(a.width)-80, int(a.height)-24, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawMenu() {
	a.drawText("softbody", 50, 50, 40, ColSelect)
	a.drawText("Select Body", 50, 100, 16, ColTextDim)

	limit := 14
	startIdx := 0
	if a.Selected >= limit {
		startIdx = a.Selected - limit + 1
	}

	y := 150
	for i := startIdx; i < len(a.Entries) && i < startIdx+limit; i++ {
		name := a.Entries[i]
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}

	if a.Message != "" {
		a.drawText(a.Message, 50, int(a.height)-60, 14, ColPinned)
	}
	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 50, int(a.height)-30, 14, ColTextDim)
}

func (a *App) drawConfig() {
	a.drawText("softbody", 50, 50, 40, ColTextDim)
	a.drawText("configure", 240, 65, 20, ColSelect)
	a.drawText(fmt.Sprintf("Body: %s", a.BodyName), 50, 110, 16, ColAccent)

	y := 170
	for i, key := range a.ParamKeys {
		val := a.Params[key]
		if i == a.ParamSel {
			a.drawText(fmt.Sprintf("> %-15s %.3f", key, val), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %-15s %.3f", key, val), 50, y, 20, ColText)
		}
		y += 28
	}

	if a.Message != "" {
		a.drawText(a.Message, 50, y+20, 14, ColPinned)
	}
	a.drawText("ARROWS: ADJUST  SHIFT: x10  ENTER: RUN  ESC: BACK", 50, int(a.height)-30, 14, ColTextDim)
}
