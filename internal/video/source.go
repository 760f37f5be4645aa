package video

import (
	"context"
	"errors"
	"image"
)

// ErrEndOfStream is returned by Source.Next when no further frame can be
// decoded.
var ErrEndOfStream = errors.New("end of stream")

// Info describes a video as reported by its container/decoder metadata.
// FrameCount may be an estimate for containers that do not store it.
type Info struct {
	Width      int
	Height     int
	FrameCount int
	FPS        float64
}

// Center returns the center point of the frame using integer division.
func (i Info) Center() image.Point {
	return image.Pt(i.Width/2, i.Height/2)
}

// Source is an opened video that yields decoded frames sequentially.
// Backends implement this interface. Tests can provide mock implementations.
type Source interface {
	Info() Info
	// Seek positions the source so the next call to Next returns frame n.
	Seek(n int) error
	Next() (image.Image, error)
	Close() error
}

// Opener opens a video file as a Source.
type Opener interface {
	Open(ctx context.Context, path string) (Source, error)
}

// Checker is implemented by openers that depend on external tools.
type Checker interface {
	Check() error
}

// Probe opens path, reads its metadata and releases it.
func Probe(ctx context.Context, opener Opener, path string) (Info, error) {
	src, err := opener.Open(ctx, path)
	if err != nil {
		return Info{}, err
	}
	defer src.Close()
	return src.Info(), nil
}
