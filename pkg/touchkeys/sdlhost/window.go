package sdlhost

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pawndev/touchkeys/pkg/touchkeys/raster"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
)

type window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	width    int32
	height   int32
	uploaded int64
}

// windowSize applies WINDOW_WIDTH and WINDOW_HEIGHT over the surface size.
func windowSize(width, height int32, getenv func(string) string, logger *slog.Logger) (int32, int32) {
	if v := getenv("WINDOW_WIDTH"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			width = int32(n)
		} else {
			logger.Warn("Invalid WINDOW_WIDTH; using default", "value", v, "error", err)
		}
	}
	if v := getenv("WINDOW_HEIGHT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			height = int32(n)
		} else {
			logger.Warn("Invalid WINDOW_HEIGHT; using default", "value", v, "error", err)
		}
	}
	return width, height
}

func openWindow(title string, surface *raster.Surface, getenv func(string) string, logger *slog.Logger) (*window, error) {
	b := surface.Bounds()
	width, height := windowSize(int32(b.Dx()), int32(b.Dy()), getenv, logger)

	logger.Debug("Initializing SDL Window", "width", width, "height", height)

	w, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, width, height, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(w, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC|sdl.RENDERER_TARGETTEXTURE)
	if err != nil {
		w.Destroy()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	// Touch and mouse coordinates arrive in surface pixels whatever the
	// window size.
	renderer.SetLogicalSize(int32(b.Dx()), int32(b.Dy()))

	img.Init(img.INIT_PNG)

	return &window{
		window:   w,
		renderer: renderer,
		width:    int32(b.Dx()),
		height:   int32(b.Dy()),
		uploaded: -1,
	}, nil
}

// present uploads the surface when it changed since the last frame.
func (w *window) present(surface *raster.Surface) error {
	version := surface.Version()
	if version == w.uploaded {
		return nil
	}

	var buf bytes.Buffer
	if err := surface.WritePNG(&buf); err != nil {
		return err
	}
	rw, err := sdl.RWFromMem(buf.Bytes())
	if err != nil {
		return err
	}
	texture, err := img.LoadTextureRW(w.renderer, rw, true)
	if err != nil {
		return err
	}
	defer texture.Destroy()

	w.renderer.Clear()
	w.renderer.Copy(texture, nil, &sdl.Rect{X: 0, Y: 0, W: w.width, H: w.height})
	w.renderer.Present()
	w.uploaded = version
	return nil
}

func (w *window) close() {
	w.renderer.Destroy()
	w.window.Destroy()
	img.Quit()
}
