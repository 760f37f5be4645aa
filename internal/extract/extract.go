package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/JPM1118/framegrab/internal/video"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Request is one extraction run: frames Start..End inclusive of Source,
// cropped by Crop, written into OutputDir.
type Request struct {
	Source    string
	OutputDir string
	Start     int
	End       int
	Crop      Crop
}

// Status is how a run ended.
type Status string

const (
	StatusCompleted   Status = "completed"
	StatusOpenFailed  Status = "open_failed"
	StatusRejected    Status = "rejected"
	StatusReadFailed  Status = "read_failed"
	StatusWriteFailed Status = "write_failed"
)

// Result summarizes a run.
type Result struct {
	Status  Status
	Written int
	Bytes   int64
	Files   []string
}

// ErrEmptyRegion is reported when the crop selects no pixels.
var ErrEmptyRegion = errors.New("crop region is empty")

// FrameName returns the output file name for a 1-based series index.
func FrameName(index int) string {
	return fmt.Sprintf("Frame %d.png", index)
}

// ValidRange reports whether start..end is extractable from a video of
// total frames.
func ValidRange(start, end, total int) bool {
	return start >= 0 && end < total && start <= end
}

// Extractor runs extraction requests against videos opened by an Opener.
type Extractor struct {
	opener      video.Opener
	log         *zap.Logger
	compression png.CompressionLevel
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		e.log = l
	}
}

// WithCompression sets the PNG compression level of written frames.
func WithCompression(level png.CompressionLevel) Option {
	return func(e *Extractor) {
		e.compression = level
	}
}

// New creates an Extractor.
func New(opener video.Opener, opts ...Option) *Extractor {
	e := &Extractor{
		opener:      opener,
		log:         zap.NewNop(),
		compression: png.DefaultCompression,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes req, calling report for every progress event. Failures are
// reported and reflected in the returned Result, never returned as errors:
// a failing frame ends the run and keeps what was already written.
func (e *Extractor) Run(ctx context.Context, req Request, report func(Event)) Result {
	if report == nil {
		report = func(Event) {}
	}
	log := e.log.With(zap.String("source", req.Source), zap.Int("start", req.Start), zap.Int("end", req.End))

	src, err := e.opener.Open(ctx, req.Source)
	if err != nil {
		log.Warn("open video", zap.Error(err))
		report(Event{Kind: KindOpenFailed, Req: req, Err: err})
		return Result{Status: StatusOpenFailed}
	}
	defer src.Close()

	info := src.Info()
	report(Event{Kind: KindOpened, Req: req, Info: info})

	if !ValidRange(req.Start, req.End, info.FrameCount) {
		log.Info("rejected frame range", zap.Int("total", info.FrameCount))
		report(Event{Kind: KindInvalidRange, Req: req, Info: info})
		return Result{Status: StatusRejected}
	}

	res := e.loop(src, req, info, report, log)

	report(Event{Kind: KindCompleted, Req: req, Info: info})
	log.Info("extraction finished",
		zap.String("status", string(res.Status)),
		zap.Int("written", res.Written),
		zap.Int64("bytes", res.Bytes),
	)
	return res
}

func (e *Extractor) loop(src video.Source, req Request, info video.Info, report func(Event), log *zap.Logger) Result {
	res := Result{Status: StatusCompleted}

	if err := src.Seek(req.Start); err != nil {
		log.Warn("seek", zap.Error(err))
		report(Event{Kind: KindSeekFailed, Req: req, Info: info, Frame: req.Start, Err: err})
		res.Status = StatusReadFailed
		return res
	}

	index := 1
	for frameNumber := req.Start; frameNumber <= req.End; frameNumber++ {
		frame, err := src.Next()
		if err != nil {
			log.Warn("read frame", zap.Int("frame", frameNumber), zap.Error(err))
			report(Event{Kind: KindReadFailed, Req: req, Info: info, Frame: frameNumber, Err: err})
			res.Status = StatusReadFailed
			return res
		}

		path := filepath.Join(req.OutputDir, FrameName(index))
		n, err := e.write(req.Crop.Apply(frame), path)
		if err != nil {
			log.Warn("write frame", zap.Int("frame", frameNumber), zap.String("path", path), zap.Error(err))
			report(Event{Kind: KindWriteFailed, Req: req, Info: info, Frame: frameNumber, Index: index, Path: path, Err: err})
			res.Status = StatusWriteFailed
			return res
		}

		log.Debug("saved frame", zap.Int("frame", frameNumber), zap.Int("index", index), zap.String("path", path))
		res.Written++
		res.Bytes += n
		res.Files = append(res.Files, path)
		report(Event{Kind: KindSaved, Req: req, Info: info, Frame: frameNumber, Index: index, Path: path})
		index++
	}
	return res
}

// write encodes img as PNG at path and returns the file size.
func (e *Extractor) write(img image.Image, path string) (int64, error) {
	if img.Bounds().Empty() {
		return 0, ErrEmptyRegion
	}
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(e.compression)); err != nil {
		return 0, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}

// Summary describes the result in one line.
func (r Result) Summary() string {
	noun := "frames"
	if r.Written == 1 {
		noun = "frame"
	}
	return fmt.Sprintf("%d %s written (%s), status: %s", r.Written, noun, humanize.Bytes(uint64(r.Bytes)), r.Status)
}
