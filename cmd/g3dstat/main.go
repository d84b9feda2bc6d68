// Command g3dstat renders a fixed scene through the g3d driver and prints
// how many native state calls were issued and skipped per category.
package main

import (
	"flag"
	"fmt"
	stdimage "image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/g3d/material"
	"github.com/gogpu/g3d/recording"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/bmp"
	"gopkg.in/natefinch/lumberjack.v2"

	_ "github.com/gogpu/g3d/backend/opengl"
	_ "github.com/gogpu/g3d/backend/wgpu"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		backendArg = flag.String("backend", "", "backend name, overrides the config")
		imagePath  = flag.String("image", "", "PNG or BMP texture, a checkerboard when empty")
		frames     = flag.Int("frames", 60, "frames to render")
		logFile    = flag.String("logfile", "", "rotating JSON log file, stderr when empty")
		debug      = flag.Bool("debug", false, "log at debug level")
		tracePath  = flag.String("trace", "", "msgpack call trace, recording backend only")
		output     = flag.String("output", "", "PNG screenshot of the last frame")
	)
	flag.Parse()

	g3d.SetLogger(newLogger(*logFile, *debug))

	cfg := g3d.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = g3d.LoadConfig(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	if *backendArg != "" {
		cfg.Backend = *backendArg
	}

	d, err := g3d.Open(cfg, g3d.WithBackbuffer(256, 256))
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	rec, _ := d.Device().(*recording.Device)
	if *tracePath != "" {
		if rec == nil {
			log.Fatalf("trace: backend %v does not record calls", d.Backend())
		}
		rec.SetTracing(true)
	}

	base, err := loadImage(*imagePath)
	if err != nil {
		log.Fatalf("image: %v", err)
	}
	s, err := newScene(d, base)
	if err != nil {
		log.Fatalf("scene: %v", err)
	}
	for i := 0; i < *frames; i++ {
		if err := s.frame(i); err != nil {
			log.Fatalf("frame %d: %v", i, err)
		}
	}

	printStats(os.Stdout, d.Stats(), *frames)

	if *output != "" {
		if err := saveScreenshot(d, *output); err != nil {
			log.Fatalf("screenshot: %v", err)
		}
		log.Printf("screenshot saved to %s", *output)
	}
	if *tracePath != "" {
		if err := writeTrace(rec, *tracePath); err != nil {
			log.Fatalf("trace: %v", err)
		}
		log.Printf("trace saved to %s (%d calls)", *tracePath, len(rec.Trace()))
	}
}

func newLogger(path string, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}, opts))
}

func loadImage(path string) (*image.Buf, error) {
	if path == "" {
		return checkerboard(64, 8)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var img stdimage.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		img, err = bmp.Decode(f)
	default:
		img, err = png.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return image.FromImage(img)
}

// checkerboard returns an A8R8G8B8 image of size x size pixels with square
// cells of cell pixels.
func checkerboard(size, cell int) (*image.Buf, error) {
	b, err := image.NewBuf(size, size, image.FormatA8R8G8B8)
	if err != nil {
		return nil, err
	}
	data := b.Data()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := byte(0x30)
			if (x/cell+y/cell)%2 == 0 {
				v = 0xD0
			}
			i := (y*size + x) * 4
			data[i], data[i+1], data[i+2], data[i+3] = v, v, v, 0xFF
		}
	}
	return b, nil
}

type scene struct {
	d      *g3d.Driver
	base   *render.Texture
	detail *render.Texture
	rtt    *render.Texture
	rt     *render.RenderTarget
	mats   []material.Material
}

func newScene(d *g3d.Driver, img *image.Buf) (*scene, error) {
	base, err := d.AddTexture("base", img)
	if err != nil {
		return nil, err
	}
	small, err := checkerboard(16, 2)
	if err != nil {
		return nil, err
	}
	detail, err := d.AddTexture("detail", small)
	if err != nil {
		return nil, err
	}
	rtt, err := d.AddRenderTargetTexture(image.Size{Width: 128, Height: 128}, "offscreen", image.FormatA8R8G8B8)
	if err != nil {
		return nil, err
	}
	rt, err := d.AddRenderTarget()
	if err != nil {
		return nil, err
	}
	rt.SetTexture(rtt, nil)

	s := &scene{d: d, base: base, detail: detail, rtt: rtt, rt: rt}

	solid := material.Default()
	solid.Layers[0].Texture = base

	detailed := solid
	detailed.Type = material.DetailMap
	detailed.Layers[1].Texture = detail
	detailed.Layers[1].Trilinear = true

	glass := solid
	glass.Type = material.TransparentAlphaChannel
	glass.Layers[0].Texture = rtt
	glass.Layers[0].WrapU = gputypes.AddressModeClampToEdge
	glass.Layers[0].WrapV = gputypes.AddressModeClampToEdge

	s.mats = []material.Material{solid, detailed, glass}
	return s, nil
}

// frame renders one pass into the offscreen target, then draws every
// material to the backbuffer. Every tenth frame the base texture is
// rewritten through a lock.
func (s *scene) frame(n int) error {
	d := s.d
	if err := d.SetRenderTarget(s.rt, gpucore.ClearColor, gputypes.Color{B: 0.4, A: 1}); err != nil {
		return err
	}
	d.SetMaterial(s.mats[0])
	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 6)

	if err := d.SetRenderTarget(nil, gpucore.ClearColor|gpucore.ClearDepth, gputypes.Color{A: 1}); err != nil {
		return err
	}
	for _, m := range s.mats {
		d.SetMaterial(m)
		d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 6)
	}

	if n%10 == 9 {
		buf := s.base.Lock(render.LockWriteOnly, 0, 0)
		if buf == nil {
			return nil
		}
		data := buf.Data()
		for i := 0; i+3 < len(data); i += 4 {
			data[i] ^= 0xFF
		}
		s.base.Unlock()
	}
	return nil
}

func printStats(w io.Writer, st render.Stats, frames int) {
	fmt.Fprintf(w, "%-16s %10s %10s\n", "category", "issued", "skipped")
	for c := render.Category(0); c < render.CategoryCount; c++ {
		fmt.Fprintf(w, "%-16s %10d %10d\n", c, st.Issued[c], st.Skipped[c])
	}
	issued, skipped := st.TotalIssued(), st.TotalSkipped()
	fmt.Fprintf(w, "%-16s %10d %10d\n", "total", issued, skipped)
	if frames > 0 {
		fmt.Fprintf(w, "per frame: %.1f issued, %.1f skipped\n",
			float64(issued)/float64(frames), float64(skipped)/float64(frames))
	}
}

func saveScreenshot(d *g3d.Driver, path string) error {
	buf, err := d.Screenshot()
	if err != nil {
		return err
	}
	img, err := image.ToImage(buf)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTrace(rec *recording.Device, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rec.WriteTrace(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
