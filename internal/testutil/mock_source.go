package testutil

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/JPM1118/framegrab/internal/video"
)

// MockSource implements video.Source for testing. Frames holds every
// decodable frame of the video; Info.FrameCount may claim more, which
// simulates a decode failure past len(Frames).
type MockSource struct {
	mu        sync.Mutex
	VideoInfo video.Info
	Frames    []image.Image
	SeekErr   error
	pos       int
	seeks     []int
	nexts     int
	closed    int
}

func (m *MockSource) Info() video.Info {
	return m.VideoInfo
}

func (m *MockSource) Seek(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeks = append(m.seeks, n)
	if m.SeekErr != nil {
		return m.SeekErr
	}
	m.pos = n
	return nil
}

func (m *MockSource) Next() (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nexts++
	if m.pos < 0 || m.pos >= len(m.Frames) {
		return nil, video.ErrEndOfStream
	}
	img := m.Frames[m.pos]
	m.pos++
	return img, nil
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// Seeks returns the frame indexes passed to Seek.
func (m *MockSource) Seeks() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.seeks...)
}

// NextCalls returns how many times Next was called.
func (m *MockSource) NextCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nexts
}

// Closed returns how many times Close was called.
func (m *MockSource) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockOpener implements video.Opener, always handing out Source.
type MockOpener struct {
	mu      sync.Mutex
	Source  *MockSource
	OpenErr error
	opens   []string
}

func (o *MockOpener) Open(_ context.Context, path string) (video.Source, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opens = append(o.opens, path)
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}
	return o.Source, nil
}

// Opens returns the paths passed to Open.
func (o *MockOpener) Opens() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opens...)
}

// NewVideo builds a MockSource that reports count frames of w x h, of which
// only the first decodable can be read. A negative decodable means all.
func NewVideo(w, h, count, decodable int) *MockSource {
	if decodable < 0 || decodable > count {
		decodable = count
	}
	frames := make([]image.Image, decodable)
	for i := range frames {
		frames[i] = PatternFrame(w, h, i)
	}
	return &MockSource{
		VideoInfo: video.Info{Width: w, Height: h, FrameCount: count, FPS: 25},
		Frames:    frames,
	}
}

// PatternFrame returns an opaque frame whose pixel at (x, y) encodes its
// coordinates in R/G and the frame number in B, so crops can be checked by
// content.
func PatternFrame(w, h, n int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(n), A: 255})
		}
	}
	return img
}

// PixelAt returns the RGBA value of img at (x, y) relative to its bounds.
func PixelAt(img image.Image, x, y int) color.RGBA {
	b := img.Bounds()
	r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8)}
}

// Describe formats a frame's bounds for test messages.
func Describe(img image.Image) string {
	if img == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T%v", img, img.Bounds())
}
