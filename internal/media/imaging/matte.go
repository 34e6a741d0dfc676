package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// GenerateMatte places the image on a colored canvas of w by h,
// aspect-fit with a uniform padding given as a fraction of the canvas.
// hexColor accepts RGB hex with or without a leading '#'.
func GenerateMatte(src image.Image, w, h int, padPct float64, hexColor string) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("matte dimensions must be positive, got %dx%d", w, h)
	}
	if padPct < 0 || padPct >= 0.5 {
		return nil, fmt.Errorf("padding must be in [0, 0.5), got %.3f", padPct)
	}

	matte, err := ParseHexColor(hexColor)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("empty image")
	}

	innerW := int(float64(w) * (1 - 2*padPct))
	innerH := int(float64(h) * (1 - 2*padPct))
	if innerW < 1 || innerH < 1 {
		return nil, fmt.Errorf("padding leaves no room for the image")
	}

	ratio := float64(innerW) / float64(srcW)
	if r := float64(innerH) / float64(srcH); r < ratio {
		ratio = r
	}
	fitW := int(float64(srcW) * ratio)
	fitH := int(float64(srcH) * ratio)
	if fitW < 1 {
		fitW = 1
	}
	if fitH < 1 {
		fitH = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(matte), image.Point{}, draw.Src)

	offsetX := (w - fitW) / 2
	offsetY := (h - fitH) / 2
	dst := image.Rect(offsetX, offsetY, offsetX+fitW, offsetY+fitH)
	xdraw.CatmullRom.Scale(out, dst, src, bounds, xdraw.Over, nil)

	return out, nil
}

// ParseHexColor parses an RGB hex string like "1a2b3c" or "#1A2B3C"
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	value, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 255,
	}, nil
}
