package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// CropImage cuts cropRect out of the source, optionally scales it, and
// centers the result on a black canvas of outW by outH. A crop larger
// than the canvas is downscaled to fit while keeping its aspect ratio.
func CropImage(src image.Image, cropRect image.Rectangle, scale float64, outW, outH int) (image.Image, error) {
	bounds := src.Bounds()
	if outW <= 0 || outH <= 0 {
		return nil, fmt.Errorf("output dimensions must be positive, got %dx%d", outW, outH)
	}
	if cropRect.Empty() {
		return nil, fmt.Errorf("crop area is empty")
	}

	// crop is expressed relative to the image origin
	crop := cropRect.Add(bounds.Min)
	if !crop.In(bounds) {
		return nil, fmt.Errorf("crop area %v exceeds image bounds %dx%d", cropRect, bounds.Dx(), bounds.Dy())
	}

	cropW, cropH := crop.Dx(), crop.Dy()
	targetW, targetH := cropW, cropH
	if scale > 0 && scale != 1.0 {
		targetW = int(float64(cropW) * scale)
		targetH = int(float64(cropH) * scale)
		if targetW < 1 || targetH < 1 {
			return nil, fmt.Errorf("scale %.3f collapses the crop to nothing", scale)
		}
	}

	// fit within the canvas, never upscale past the requested size
	if targetW > outW || targetH > outH {
		ratio := float64(outW) / float64(targetW)
		if r := float64(outH) / float64(targetH); r < ratio {
			ratio = r
		}
		targetW = int(float64(targetW) * ratio)
		targetH = int(float64(targetH) * ratio)
		if targetW < 1 {
			targetW = 1
		}
		if targetH < 1 {
			targetH = 1
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	offsetX := (outW - targetW) / 2
	offsetY := (outH - targetH) / 2
	dst := image.Rect(offsetX, offsetY, offsetX+targetW, offsetY+targetH)

	if targetW == cropW && targetH == cropH {
		draw.Draw(out, dst, src, crop.Min, draw.Src)
	} else {
		xdraw.CatmullRom.Scale(out, dst, src, crop, xdraw.Src, nil)
	}
	return out, nil
}
