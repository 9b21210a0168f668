// Command p5demo renders a few frames headlessly and saves the last one.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math"
	"os"

	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/p5"
	"github.com/gogpu/p5/backend/halgpu"
	"github.com/gogpu/p5/render"
)

const pulse = `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let k = 0.5 + 0.5 * sin(u.time);
    return vec4<f32>(in.color.rgb * k, in.color.a);
}
`

func main() {
	var (
		width   = flag.Int("width", 512, "image width")
		height  = flag.Int("height", 512, "image height")
		frames  = flag.Int("frames", 30, "frames to render")
		output  = flag.String("output", "p5demo.png", "output file")
		verbose = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	if *verbose {
		l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		p5.SetLogger(l)
		halgpu.SetLogger(l)
	}

	dev, err := halgpu.Open()
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Destroy()

	screen, err := p5.NewScreen(dev, p5.WithSize(*width, *height), p5.WithPreserveAspectRatio(true))
	if err != nil {
		log.Fatalf("Failed to open screen: %v", err)
	}
	defer screen.Close()

	if err := run(screen, *frames); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	if err := screen.Save(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d, %d frames)\n", *output, *width, *height, screen.FrameCount())
}

func run(screen *p5.Screen, frames int) error {
	// A row of dots colored per instance.
	if err := screen.Fill(p5.RGB(0.9, 0.3, 0.3), p5.RGB(0.3, 0.9, 0.3), p5.RGB(0.3, 0.3, 0.9)); err != nil {
		return err
	}
	screen.StrokeOff()
	dots, err := screen.Ellipse(
		[]float64{-0.5, 0, 0.5}, []float64{0.4, 0.4, 0.4}, nil,
		[]float64{0.3, 0.3, 0.3}, []float64{0.3, 0.3, 0.3},
	)
	if err != nil {
		return err
	}
	defer dots.Destroy()

	if err := screen.Fill(p5.RGB(1, 0.8, 0.2)); err != nil {
		return err
	}
	screen.StrokeOn()
	if err := screen.RectMode(p5.AnchorCenter); err != nil {
		return err
	}
	box, err := screen.Rect([]float64{0}, []float64{-0.3}, nil, []float64{0.5}, []float64{0.5})
	if err != nil {
		return err
	}
	defer box.Destroy()

	info, err := screen.LoadFragShaderSource("pulse", pulse, render.NewUniforms(render.Float("time", 0)))
	if err != nil {
		return err
	}

	for i := 0; i < frames; i++ {
		t := float32(i) / float32(max(frames, 1))
		if err := screen.Background(p5.Gray(0.15)); err != nil {
			return err
		}
		if err := info.Update(render.Float("time", t*2*math.Pi)); err != nil {
			return err
		}
		if err := screen.DrawMould(p5.NewMould(dots, info)); err != nil {
			return err
		}

		// Transforms apply to vertices in call order: spin the box about
		// its own center.
		screen.PushMatrix()
		screen.Translate(0, 0.3, 0)
		screen.RotateZ(t * 2 * math.Pi)
		screen.Translate(0, -0.3, 0)
		err := screen.Draw(box)
		screen.PopMatrix()
		if err != nil {
			return err
		}

		if err := screen.Reveal(); err != nil {
			return err
		}
	}
	return nil
}
