// relief - Terminal Isometric Surface Viewer
// Render a CSV grid of metric values as a shaded pseudo-3D surface.
//
// Controls:
//
//	D           - Toggle dark/light display mode
//	P           - Cycle color palette
//	R           - Re-fit the display range to the data
//	S           - Save a PNG snapshot
//	Q/Esc       - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/relief/pkg/colormap"
	"github.com/taigrr/relief/pkg/iso"
	"github.com/taigrr/relief/pkg/surface"
)

var (
	label     = flag.String("label", "", "Metric label shown in the legend and passed to the color mapper")
	minFlag   = flag.Float64("min", math.NaN(), "Display range minimum (default: data minimum)")
	maxFlag   = flag.Float64("max", math.NaN(), "Display range maximum (default: data maximum)")
	palette   = flag.String("palette", "thermal", "Color palette (thermal, viridis, grayscale)")
	darkMode  = flag.Bool("dark", true, "Start in dark display mode")
	targetFPS = flag.Int("fps", 30, "Target FPS")
	pngOut    = flag.String("png", "", "Render a PNG to this path and exit")
	glbOut    = flag.String("glb", "", "Export the surface mesh as glTF binary to this path and exit")
	outWidth  = flag.Int("width", 1024, "Canvas width for -png output")
	outHeight = flag.Int("height", 768, "Canvas height for -png output")
	verbose   = flag.Bool("v", false, "Enable debug logging to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "relief - Terminal Isometric Surface Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: relief [options] <grid.csv>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  D     - Toggle dark/light mode\n")
		fmt.Fprintf(os.Stderr, "  P     - Cycle color palette\n")
		fmt.Fprintf(os.Stderr, "  R     - Re-fit display range\n")
		fmt.Fprintf(os.Stderr, "  S     - Save PNG snapshot\n")
		fmt.Fprintf(os.Stderr, "  Esc   - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if *verbose {
		iso.SetLogger(newDebugLogger())
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rangeAxis animates one end of the display range toward its target
// with a critically damped spring, so range changes glide instead of
// snapping.
type rangeAxis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

func newRangeAxis(fps int, start float64) rangeAxis {
	return rangeAxis{
		Position: start,
		Target:   start,
		// Frequency 6.0 settles in well under a second, damping 1.0
		// avoids overshooting past the data range.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (a *rangeAxis) Update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

// resolveRange picks the display bounds: explicit flags win, otherwise
// the grid's finite extent, otherwise a unit range.
func resolveRange(g *surface.Grid) (minV, maxV float64) {
	minV, maxV, ok := g.MinMax()
	if !ok {
		minV, maxV = 0, 1
	}
	if !math.IsNaN(*minFlag) {
		minV = *minFlag
	}
	if !math.IsNaN(*maxFlag) {
		maxV = *maxFlag
	}
	return minV, maxV
}

func run(gridPath string) error {
	grid, err := surface.LoadCSV(gridPath)
	if err != nil {
		return err
	}

	mapper, ok := colormap.Named(*palette)
	if !ok {
		return fmt.Errorf("unknown palette %q (have %v)", *palette, colormap.Names())
	}

	minV, maxV := resolveRange(grid)

	if *glbOut != "" {
		if err := surface.ExportGLB(*glbOut, grid, minV, maxV, *label, mapper); err != nil {
			return err
		}
		fmt.Printf("Exported %s (%dx%d grid)\n", *glbOut, grid.Rows(), grid.Cols())
		return nil
	}

	if *pngOut != "" {
		return renderPNG(grid, mapper, minV, maxV)
	}

	return runInteractive(grid, mapper, minV, maxV)
}

// renderPNG renders one headless frame at the configured canvas size.
func renderPNG(grid *surface.Grid, mapper colormap.Func, minV, maxV float64) error {
	fb := iso.NewFramebuffer(*outWidth, *outHeight)
	bg := iso.BackgroundLight
	if *darkMode {
		bg = iso.BackgroundDark
	}
	fb.Clear(bg)

	renderer := iso.NewRenderer(mapper)
	frame := iso.Frame{
		Grid:     grid,
		MinValue: minV,
		MaxValue: maxV,
		Label:    *label,
		Width:    float64(*outWidth),
		Height:   float64(*outHeight),
		DarkMode: *darkMode,
	}
	iso.Rasterize(fb, renderer.Render(frame))

	if err := iso.SnapshotPNG(*pngOut, fb, frame); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d)\n", *pngOut, *outWidth, *outHeight)
	return nil
}

// action is one viewer state transition decoded from a key press.
type action int

const (
	actNone action = iota
	actQuit
	actToggleDark
	actCyclePalette
	actRefitRange
	actSnapshot
)

func keyAction(ev uv.KeyPressEvent) action {
	switch {
	case ev.MatchString("escape"), ev.MatchString("q"), ev.MatchString("ctrl+c"):
		return actQuit
	case ev.MatchString("d"):
		return actToggleDark
	case ev.MatchString("p"):
		return actCyclePalette
	case ev.MatchString("r"):
		return actRefitRange
	case ev.MatchString("s"):
		return actSnapshot
	}
	return actNone
}

// session is the interactive viewer state. Every field is owned by the
// frame loop goroutine: events are decoded into actions and applied
// between frames, never concurrently with drawing.
type session struct {
	grid     *surface.Grid
	renderer *iso.Renderer
	fb       *iso.Framebuffer

	dark         bool
	paletteNames []string
	paletteIdx   int

	rangeMin rangeAxis
	rangeMax rangeAxis

	quit     bool
	snapshot bool
}

func newSession(grid *surface.Grid, mapper colormap.Func, minV, maxV float64, fps int) *session {
	s := &session{
		grid:         grid,
		renderer:     iso.NewRenderer(mapper),
		dark:         *darkMode,
		paletteNames: colormap.Names(),
	}
	for i, name := range s.paletteNames {
		if name == *palette {
			s.paletteIdx = i
		}
	}
	// Start collapsed at the midpoint so the surface rises into view.
	mid := (minV + maxV) / 2
	s.rangeMin = newRangeAxis(fps, mid)
	s.rangeMax = newRangeAxis(fps, mid)
	s.rangeMin.Target = minV
	s.rangeMax.Target = maxV
	return s
}

func (s *session) apply(a action) {
	switch a {
	case actQuit:
		s.quit = true
	case actToggleDark:
		s.dark = !s.dark
	case actCyclePalette:
		s.paletteIdx = (s.paletteIdx + 1) % len(s.paletteNames)
		mapper, _ := colormap.Named(s.paletteNames[s.paletteIdx])
		s.renderer = iso.NewRenderer(mapper)
	case actRefitRange:
		lo, hi := resolveRange(s.grid)
		s.rangeMin.Target = lo
		s.rangeMax.Target = hi
	case actSnapshot:
		s.snapshot = true
	}
}

func (s *session) frame() iso.Frame {
	return iso.Frame{
		Grid:     s.grid,
		MinValue: s.rangeMin.Position,
		MaxValue: s.rangeMax.Position,
		Label:    *label,
		Width:    float64(s.fb.Width),
		Height:   float64(s.fb.Height),
		DarkMode: s.dark,
	}
}

func runInteractive(grid *surface.Grid, mapper colormap.Func, minV, maxV float64) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	s := newSession(grid, mapper, minV, maxV, *targetFPS)
	// Half-block cells give double vertical resolution.
	s.fb = iso.NewFramebuffer(width, height*2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	events := term.Events()
	targetDuration := time.Second / time.Duration(*targetFPS)

	var snapshotMsg string
	var snapshotAt time.Time

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		// Drain pending events before drawing. All state changes land
		// on this goroutine, between frames.
	drain:
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					cleanup()
					return nil
				}
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					term.Resize(width, height)
					s.fb = iso.NewFramebuffer(width, height*2)
				case uv.KeyPressEvent:
					s.apply(keyAction(ev))
				}
			default:
				break drain
			}
		}
		if s.quit {
			cleanup()
			return nil
		}

		frameStart := time.Now()

		s.rangeMin.Update()
		s.rangeMax.Update()

		bg := iso.BackgroundLight
		if s.dark {
			bg = iso.BackgroundDark
		}
		s.fb.Clear(bg)

		frame := s.frame()
		iso.Rasterize(s.fb, s.renderer.Render(frame))

		if s.snapshot {
			s.snapshot = false
			name := fmt.Sprintf("relief-%s.png", time.Now().Format("20060102-150405"))
			if err := iso.SnapshotPNG(name, s.fb, frame); err == nil {
				snapshotMsg = "saved " + name
				snapshotAt = time.Now()
			}
		}

		s.fb.Draw(term, uv.Rect(0, 0, width, height))
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		drawStatus(width, height, frame, s.paletteNames[s.paletteIdx], snapshotMsg, snapshotAt)

		elapsed := time.Since(frameStart)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

func newDebugLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// drawStatus prints a one-line HUD on the bottom terminal row.
func drawStatus(width, height int, f iso.Frame, palette, snapshotMsg string, snapshotAt time.Time) {
	const (
		reset   = "\x1b[0m"
		dim     = "\x1b[2m"
		bgBlack = "\x1b[40m"
		fgWhite = "\x1b[97m"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	mode := "light"
	if f.DarkMode {
		mode = "dark"
	}
	status := fmt.Sprintf("%s%s%s %s [%.3g .. %.3g] %s/%s  D:mode P:palette R:refit S:snapshot %s",
		bgBlack, dim, fgWhite, f.Label, f.MinValue, f.MaxValue, palette, mode, reset)
	fmt.Print(moveTo(height, 1) + "\x1b[2K" + status)

	if snapshotMsg != "" && time.Since(snapshotAt) < 3*time.Second {
		col := max(width-len(snapshotMsg)-2, 1)
		fmt.Print(moveTo(height, col) + bgBlack + fgWhite + " " + snapshotMsg + " " + reset)
	}
}
