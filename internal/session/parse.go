package session

import (
	"strconv"
	"strings"

	"github.com/JPM1118/framegrab/internal/extract"
	"github.com/JPM1118/framegrab/internal/video"
)

// FixPath normalizes a user-typed path: backslashes become forward slashes
// and surrounding double quotes (as pasted from Windows Explorer) are
// stripped.
func FixPath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	return strings.Trim(path, `"`)
}

// Optional is an integer that may be absent.
type Optional struct {
	Value int
	Set   bool
}

// Some returns a present Optional.
func Some(v int) Optional {
	return Optional{Value: v, Set: true}
}

// Or returns the value if present, otherwise fallback.
func (o Optional) Or(fallback int) int {
	if o.Set {
		return o.Value
	}
	return fallback
}

// ParseOptional parses an optional integer field. Empty input is absent;
// anything else must be an integer.
func ParseOptional(s string) (Optional, error) {
	if s == "" {
		return Optional{}, nil
	}
	v, err := ParseInt(s)
	if err != nil {
		return Optional{}, err
	}
	return Some(v), nil
}

// ParseInt parses a required integer field, tolerating surrounding spaces.
func ParseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// CropInput holds the four optional crop fields as entered.
type CropInput struct {
	CenterX Optional
	CenterY Optional
	Width   Optional
	Height  Optional
}

// Empty reports whether no crop field was given.
func (c CropInput) Empty() bool {
	return !c.CenterX.Set && !c.CenterY.Set && !c.Width.Set && !c.Height.Set
}

// Resolve turns the entered fields into a crop for a video described by
// info. With no fields the whole frame is used; otherwise each missing
// field falls back to the frame center or the full frame dimension.
func (c CropInput) Resolve(info video.Info) extract.Crop {
	center := info.Center()
	if c.Empty() {
		return extract.Crop{
			CenterX:   center.X,
			CenterY:   center.Y,
			Width:     info.Width,
			Height:    info.Height,
			FullFrame: true,
		}
	}
	return extract.Crop{
		CenterX: c.CenterX.Or(center.X),
		CenterY: c.CenterY.Or(center.Y),
		Width:   c.Width.Or(info.Width),
		Height:  c.Height.Or(info.Height),
	}
}
