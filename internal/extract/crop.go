package extract

import (
	"image"

	"github.com/disintegration/imaging"
)

// Crop describes the requested output region of every frame.
type Crop struct {
	CenterX   int
	CenterY   int
	Width     int
	Height    int
	FullFrame bool
}

// Rect returns the crop rectangle in frame coordinates. The top-left corner
// is clamped to be non-negative; the bottom-right corner is not clamped, so
// the rectangle may extend past the frame. A non-positive width or height
// gives an empty rectangle; a negative size is never read as an offset from
// the far edge.
func (c Crop) Rect() image.Rectangle {
	x := max(c.CenterX-floorDiv(c.Width, 2), 0)
	y := max(c.CenterY-floorDiv(c.Height, 2), 0)
	if c.Width <= 0 || c.Height <= 0 {
		return image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x, y)}
	}
	return image.Rectangle{
		Min: image.Pt(x, y),
		Max: image.Pt(x+c.Width, y+c.Height),
	}
}

// Apply returns the region of frame selected by c. Full-frame crops return
// frame itself. Otherwise the rectangle is intersected with the frame, so
// regions running off the right or bottom edge come back smaller than
// requested.
func (c Crop) Apply(frame image.Image) image.Image {
	if c.FullFrame {
		return frame
	}
	origin := frame.Bounds().Min
	return imaging.Crop(frame, c.Rect().Add(origin))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
