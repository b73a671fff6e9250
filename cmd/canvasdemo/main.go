// Command canvasdemo renders a small interactive scene with the canvas
// software renderer and writes the final frame as a PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/frame"
	"github.com/gogpu/canvas/surface"
)

func main() {
	var (
		width   = flag.Int("width", 640, "surface width in device pixels")
		height  = flag.Int("height", 400, "surface height in device pixels")
		scale   = flag.Float64("scale", 1, "scale factor")
		config  = flag.String("config", "", "TOML rasterizer config file")
		output  = flag.String("output", "canvas.png", "output file")
		verbose = flag.Bool("v", false, "log frame statistics")
	)
	flag.Parse()

	if *verbose {
		canvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := canvas.DefaultConfig()
	if *config != "" {
		f, err := os.Open(*config)
		if err != nil {
			log.Fatalf("Failed to open config: %v", err)
		}
		cfg, err = canvas.LoadConfig(f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	sched := frame.NewScheduler()
	d := &demo{}
	s, err := surface.New(sched, *width, *height, *scale,
		surface.WithRasterizerOptions(cfg.Options()...),
		surface.WithPaint(d.paint),
	)
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}
	defer func() { _ = s.Close() }()

	s.Interactions().OnClick("toggle", func() {
		d.toggled = !d.toggled
		s.Invalidate(toggleRect)
	})
	s.Interactions().OnHover("star", func() {
		d.hot = true
		s.RequestRedraw()
	}, func() {
		d.hot = false
		s.RequestRedraw()
	})

	// First frame, then simulated pointer input and the frames it causes.
	sched.ProcessFrames()
	c := toggleRect.Center()
	s.HandleHover(480 * *scale, 200 * *scale)
	sched.ProcessFrames()
	if id, ok := s.HandleClick(c.X * *scale, c.Y * *scale); ok {
		log.Printf("Clicked %q", id)
	}
	sched.ProcessFrames()

	if err := save(*output, s); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	st := s.Stats()
	log.Printf("Demo saved to %s (%dx%d, %d frames, last repainted %d of %d tiles)\n",
		*output, *width, *height, st.Frames, st.LastDirtyTiles, st.Tiles)
}

var toggleRect = canvas.R(40, 300, 160, 48)

type demo struct {
	toggled bool
	hot     bool
}

func (d *demo) paint(dc *canvas.Context) error {
	w, h := dc.Width(), dc.Height()
	dc.Clear(canvas.Hex("#1e2433"))
	dc.FillLinearGradient(canvas.R(0, 0, w, h/2), canvas.Pt(0, 0), canvas.Pt(0, h/2), []canvas.ColorStop{
		canvas.Stop(0, canvas.Hex("#3b4a6b")),
		canvas.Stop(1, canvas.Hex("#1e2433")),
	})

	drawShapes(dc)
	drawStar(dc, d.hot)

	fill := canvas.Hex("#4c566a")
	label := "off"
	if d.toggled {
		fill = canvas.Hex("#88c0d0")
		label = "on"
	}
	dc.DrawRectInteractive("toggle", toggleRect, canvas.Fill(fill))
	dc.DrawRect(toggleRect, canvas.Stroke(canvas.White, 2))
	m, err := dc.MeasureText(label)
	if err != nil {
		return fmt.Errorf("measure: %w", err)
	}
	c := toggleRect.Center()
	dc.DrawText(label, c.X-float64(m.Width)/2, c.Y+float64(m.Ascent)/2, canvas.White)
	return nil
}

func drawShapes(dc *canvas.Context) {
	for i, col := range []canvas.Color{
		canvas.RGBA(255, 80, 80, 200),
		canvas.RGBA(80, 255, 80, 200),
		canvas.RGBA(80, 80, 255, 200),
	} {
		dc.DrawCircle(canvas.Pt(120+float64(i)*45, 140+float64(i%2)*40), 60, canvas.Fill(col))
	}

	dc.Save()
	dc.SetBlendMode(canvas.BlendScreen)
	dc.Translate(300, 150)
	for i := range 6 {
		dc.Save()
		dc.Rotate(float64(i) * math.Pi / 12)
		dc.SetAlpha(0.35)
		dc.DrawRect(canvas.R(-30, -30, 60, 60), canvas.Fill(canvas.Hex("#ebcb8b")))
		dc.Restore()
	}
	dc.Restore()
}

func drawStar(dc *canvas.Context, hot bool) {
	const points = 5
	cx, cy := 480.0, 200.0
	p := canvas.NewPath()
	for i := range 2 * points {
		r := 70.0
		if i%2 == 1 {
			r = 28
		}
		a := float64(i)*math.Pi/points - math.Pi/2
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()

	col := canvas.Hex("#d08770")
	if hot {
		col = canvas.Hex("#ffd166")
	}
	dc.FillRadialGradient(canvas.R(cx-80, cy-80, 160, 160), canvas.Pt(cx, cy), 80, []canvas.ColorStop{
		canvas.Stop(0, col.WithAlpha(90)),
		canvas.Stop(1, canvas.Transparent),
	})
	dc.DrawPathInteractive("star", p, canvas.Fill(col))
	dc.DrawPath(p, canvas.Stroke(canvas.White, 1.5))
}

func save(path string, s *surface.Surface) error {
	img := s.Snapshot()
	if img == nil {
		return fmt.Errorf("no frame rendered")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
