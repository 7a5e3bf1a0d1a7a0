package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/go-drift/fibre/pkg/animation"
	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/engine"
	fibreerrors "github.com/go-drift/fibre/pkg/errors"
	"github.com/go-drift/fibre/pkg/event"
	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/raster"
	"github.com/go-drift/fibre/pkg/widgets"
)

var framesCmd *Command

func init() {
	framesCmd = &Command{
		Name:  "frames",
		Short: "Render the demo to PNG files",
		Long: `Render the demo tree headless with the software rasterizer.

The pointer is moved along a circle around the window centre, one step
per frame, and every presented frame is written to the output directory
as frame-NNNNN.png.`,
		Usage: "fibre frames [--out DIR] [-n FRAMES] [flags]",
		Run:   runFrames,
	}
	RegisterCommand(framesCmd)
}

func runFrames(args []string) error {
	var host hostFlags
	var outDir string
	var frames int

	fs := pflag.NewFlagSet("frames", pflag.ContinueOnError)
	host.add(fs)
	fs.StringVarP(&outDir, "out", "o", "frames", "directory for PNG frames")
	fs.IntVarP(&frames, "frames", "n", 24, "number of frames to render")
	if ok, err := parseFlags(framesCmd, fs, args); !ok || err != nil {
		return err
	}
	if frames < 1 {
		return fmt.Errorf("--frames must be at least 1")
	}

	cfg, err := host.load(fs)
	if err != nil {
		return err
	}
	out, closeLog, err := host.logOutput(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	log := cfg.Logger(out)

	surface, err := raster.New(cfg.Window.Width, cfg.Window.Height, raster.PNGSink(outDir))
	if err != nil {
		return err
	}
	f := core.New(surface, cfg.Window.Width, cfg.Window.Height, cfg.Options(log)...)
	r := engine.NewRunner(f, append(cfg.RunnerOptions(log), engine.WithMaxFrames(frames))...)
	d := mountDemo(f, cfg.Window.Title, r.RequestRedraw, widgets.SystemClock)

	if cfg.Debug.Addr != "" {
		port, err := r.StartDebugServer(cfg.Debug.Addr)
		if err != nil {
			return err
		}
		log.Info("debug server listening", "port", port)
		defer r.StopDebugServer()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go drivePointer(ctx, r, d, f.Size(), frames)

	start := time.Now()
	if err := r.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("Rendered %d frames to %s in %s\n", surface.Frames(), outDir, time.Since(start).Round(time.Millisecond))
	return nil
}

// drivePointer moves the pointer one step along an eased circle each time
// the runner presents a frame, until ctx is done. The cursor label shifts
// color as it goes.
func drivePointer(ctx context.Context, r *engine.Runner, d *demo, size graphics.Size, steps int) {
	defer fibreerrors.Recover("cmd.drivePointer")
	centre := graphics.Offset{X: size.Width / 2, Y: size.Height / 2}
	radius := math.Min(size.Width, size.Height) / 4
	angle := animation.TweenFloat64(0, 2*math.Pi)
	angle.Curve = animation.EaseInOut
	color := animation.TweenColor(graphics.ColorWhite, swatchColor[0])

	for i := 0; i < steps; i++ {
		seen := r.Frames()
		p := float64(i) / float64(steps)
		a := angle.At(p)
		c := color.At(p)
		r.Dispatch(func(*core.Fibre) { d.cursor.Style.Color = c })
		r.Send(event.PointerMoved{
			X: centre.X + radius*math.Cos(a),
			Y: centre.Y + radius*math.Sin(a),
		})
		if !waitForFrame(ctx, r, seen) {
			return
		}
	}
}

func waitForFrame(ctx context.Context, r *engine.Runner, seen uint64) bool {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for r.Frames() <= seen {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}
