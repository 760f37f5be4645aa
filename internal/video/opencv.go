//go:build with_cv
// +build with_cv

package video

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

func init() {
	Register(BackendOpenCV, func(Options) Opener {
		return OpenCV{}
	})
}

// OpenCV opens videos with gocv's VideoCapture.
type OpenCV struct{}

var _ Opener = OpenCV{}

func (OpenCV) Open(_ context.Context, path string) (Source, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("open %s: capture not opened", path)
	}

	info := Info{
		Width:      int(vc.Get(gocv.VideoCaptureFrameWidth)),
		Height:     int(vc.Get(gocv.VideoCaptureFrameHeight)),
		FrameCount: int(vc.Get(gocv.VideoCaptureFrameCount)),
		FPS:        vc.Get(gocv.VideoCaptureFPS),
	}

	return &cvSource{
		vc:   vc,
		mat:  gocv.NewMat(),
		info: info,
	}, nil
}

type cvSource struct {
	vc   *gocv.VideoCapture
	mat  gocv.Mat
	info Info
}

func (s *cvSource) Info() Info {
	return s.info
}

func (s *cvSource) Seek(n int) error {
	s.vc.Set(gocv.VideoCapturePosFrames, float64(n))
	return nil
}

func (s *cvSource) Next() (image.Image, error) {
	if ok := s.vc.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, ErrEndOfStream
	}
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	return img, nil
}

func (s *cvSource) Close() error {
	s.mat.Close()
	return s.vc.Close()
}
