// Package imaging implements the studio image operations: vertical
// canvas extension for car shots on white backgrounds, validated crops
// and colored mattes.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

const (
	autoThreshMin = 180
	autoThreshMax = 250
)

// ExtendCanvas grows or shrinks an image to desiredHeight while keeping
// the photographed subject centered. The background is assumed to be
// near-white studio sweep. whiteThresh selects the background cutoff in
// [0,255]; pass a non-positive value to derive it from the image.
// padPct adds breathing room around the subject as a fraction of the
// subject height.
func ExtendCanvas(src image.Image, desiredHeight int, padPct float64, whiteThresh int) (image.Image, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if desiredHeight <= 0 {
		return nil, fmt.Errorf("desired height must be positive, got %d", desiredHeight)
	}
	if padPct < 0 {
		padPct = 0
	}

	gray := toGray(src)

	if whiteThresh <= 0 {
		whiteThresh = autoThreshold(gray)
	}
	if whiteThresh > 255 {
		whiteThresh = 255
	}

	top, bottom, found := subjectRowBounds(gray, whiteThresh)
	if !found {
		// no foreground at all, treat the whole frame as subject
		top, bottom = 0, height-1
	}

	subjectHeight := bottom - top + 1
	pad := int(padPct * float64(subjectHeight))
	paddedTop := top - pad
	if paddedTop < 0 {
		paddedTop = 0
	}
	paddedBottom := bottom + pad
	if paddedBottom > height-1 {
		paddedBottom = height - 1
	}

	if height >= desiredHeight {
		return centerCropRows(src, paddedTop, paddedBottom, desiredHeight), nil
	}
	return stackWithBackgroundStrips(src, gray, paddedTop, paddedBottom, desiredHeight)
}

// autoThreshold samples the central columns of the top and bottom
// stripes, which are background in a studio sweep, and returns their
// grayscale mean minus a small margin clamped to a sane range.
func autoThreshold(gray *image.Gray) int {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	stripe := height / 10
	if stripe < 1 {
		stripe = 1
	}
	colStart := width / 3
	colEnd := width - width/3
	if colEnd <= colStart {
		colStart, colEnd = 0, width
	}

	var sum, count int64
	sample := func(y int) {
		for x := colStart; x < colEnd; x++ {
			sum += int64(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			count++
		}
	}
	for y := 0; y < stripe; y++ {
		sample(y)
		sample(height - 1 - y)
	}
	if count == 0 {
		return autoThreshMax
	}

	thresh := int(sum/count) - 5
	if thresh < autoThreshMin {
		thresh = autoThreshMin
	}
	if thresh > autoThreshMax {
		thresh = autoThreshMax
	}
	return thresh
}

// subjectRowBounds finds the first and last rows whose central stripe
// contains pixels darker than the background threshold
func subjectRowBounds(gray *image.Gray, whiteThresh int) (top, bottom int, found bool) {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	colStart := width / 6
	colEnd := width - width/6
	if colEnd <= colStart {
		colStart, colEnd = 0, width
	}

	rowHasSubject := func(y int) bool {
		for x := colStart; x < colEnd; x++ {
			if int(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y) < whiteThresh {
				return true
			}
		}
		return false
	}

	top = -1
	for y := 0; y < height; y++ {
		if rowHasSubject(y) {
			top = y
			break
		}
	}
	if top == -1 {
		return 0, 0, false
	}
	for y := height - 1; y >= top; y-- {
		if rowHasSubject(y) {
			bottom = y
			break
		}
	}
	return top, bottom, true
}

// centerCropRows crops the image to desiredHeight rows centered on the
// subject band
func centerCropRows(src image.Image, top, bottom, desiredHeight int) image.Image {
	bounds := src.Bounds()
	height := bounds.Dy()

	center := (top + bottom) / 2
	cropTop := center - desiredHeight/2
	if cropTop < 0 {
		cropTop = 0
	}
	if cropTop+desiredHeight > height {
		cropTop = height - desiredHeight
	}

	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), desiredHeight))
	draw.Draw(out, out.Bounds(), src, image.Pt(bounds.Min.X, bounds.Min.Y+cropTop), draw.Src)
	return out
}

// stackWithBackgroundStrips extends the image vertically by resizing
// the background regions above and below the subject into filler
// strips. Empty regions fall back to a white fill.
func stackWithBackgroundStrips(src image.Image, gray *image.Gray, top, bottom, desiredHeight int) (image.Image, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	extra := desiredHeight - height
	topExtra := extra / 2
	bottomExtra := extra - topExtra

	out := image.NewRGBA(image.Rect(0, 0, width, desiredHeight))

	// top strip from the background above the subject
	if topExtra > 0 {
		strip := image.Rect(0, 0, width, topExtra)
		if top > 0 {
			region := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+width, bounds.Min.Y+top)
			xdraw.CatmullRom.Scale(out, strip, src, region, xdraw.Src, nil)
		} else {
			draw.Draw(out, strip, image.NewUniform(color.White), image.Point{}, draw.Src)
		}
	}

	// original image in the middle
	draw.Draw(out, image.Rect(0, topExtra, width, topExtra+height), src, bounds.Min, draw.Src)

	// bottom strip from the background below the subject
	if bottomExtra > 0 {
		strip := image.Rect(0, topExtra+height, width, desiredHeight)
		if bottom < height-1 {
			region := image.Rect(bounds.Min.X, bounds.Min.Y+bottom+1, bounds.Min.X+width, bounds.Min.Y+height)
			xdraw.CatmullRom.Scale(out, strip, src, region, xdraw.Src, nil)
		} else {
			draw.Draw(out, strip, image.NewUniform(color.White), image.Point{}, draw.Src)
		}
	}

	return out, nil
}

func toGray(src image.Image) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, src, bounds.Min, draw.Src)
	return gray
}
