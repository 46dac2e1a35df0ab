package raster

import (
	"embed"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/pawndev/touchkeys/pkg/touchkeys"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed icons/*.svg
var iconFS embed.FS

// Structural keys whose glyphs the Go fonts do not carry are drawn from SVG.
var iconFiles = map[touchkeys.KeyID]string{
	touchkeys.KeyIDBackspace: "icons/backspace.svg",
	touchkeys.KeyIDShift:     "icons/shift.svg",
	touchkeys.KeyIDLeft:      "icons/left.svg",
	touchkeys.KeyIDRight:     "icons/right.svg",
	touchkeys.KeyIDAccept:    "icons/ok.svg",
	touchkeys.KeyIDCancel:    "icons/cancel.svg",
}

func hasIcon(id touchkeys.KeyID) bool {
	_, ok := iconFiles[id]
	return ok
}

func renderIcon(id touchkeys.KeyID, size int, iconColor color.Color) (image.Image, error) {
	name, ok := iconFiles[id]
	if !ok {
		return nil, fmt.Errorf("no icon for key %q", id)
	}
	data, err := iconFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return renderSVGIcon(string(data), size, iconColor)
}

func renderSVGIcon(svgContent string, size int, iconColor color.Color) (image.Image, error) {
	r, g, b, _ := iconColor.RGBA()
	hexColor := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	svgContent = strings.ReplaceAll(svgContent, "currentColor", hexColor)

	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}
