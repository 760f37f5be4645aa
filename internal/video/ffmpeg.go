package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

func init() {
	Register(BackendFFmpeg, func(opts Options) Opener {
		return &FFmpeg{ProbeTimeout: opts.ProbeTimeout}
	})
}

// DefaultProbeTimeout bounds a single ffprobe invocation.
const DefaultProbeTimeout = 10 * time.Second

// FFmpeg opens videos with ffprobe for metadata and decodes them by piping
// raw RGBA frames out of an ffmpeg child process.
type FFmpeg struct {
	ProbeTimeout time.Duration
}

var (
	_ Opener  = (*FFmpeg)(nil)
	_ Checker = (*FFmpeg)(nil)
)

// Check verifies that ffmpeg and ffprobe are installed and accessible.
func (f *FFmpeg) Check() error {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found in PATH. Install it from https://ffmpeg.org", bin)
		}
	}
	return nil
}

// Open probes path and returns a Source positioned at frame 0. The decoder
// process is started lazily on the first call to Next.
func (f *FFmpeg) Open(ctx context.Context, path string) (Source, error) {
	timeout := f.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	out, err := runProbe(ctx, path, timeout)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	info, err := parseProbe(out)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	return &ffmpegSource{
		ctx:  ctx,
		path: path,
		info: info,
	}, nil
}

type ffmpegSource struct {
	ctx   context.Context
	path  string
	info  Info
	start int

	cmd    *exec.Cmd
	stdout io.ReadCloser
	buf    []byte
}

func (s *ffmpegSource) Info() Info {
	return s.info
}

// Seek restarts decoding at frame n.
func (s *ffmpegSource) Seek(n int) error {
	if n < 0 {
		return fmt.Errorf("seek to negative frame %d", n)
	}
	s.stop()
	s.start = n
	return nil
}

func (s *ffmpegSource) Next() (image.Image, error) {
	if s.cmd == nil {
		if err := s.launch(); err != nil {
			return nil, err
		}
	}

	if _, err := io.ReadFull(s.stdout, s.buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, s.info.Width, s.info.Height))
	copy(img.Pix, s.buf)
	return img, nil
}

// runProbe runs ffprobe on path under ctx, bounded by timeout.
func runProbe(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffprobe", probeArgs(path)...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

func probeArgs(path string) []string {
	args := ffmpeg.ConvertKwargsToCmdLineArgs(ffmpeg.KwArgs{
		"show_format":    "",
		"show_streams":   "",
		"select_streams": "v:0",
		"of":             "json",
		"loglevel":       "error",
	})
	return append(args, path)
}

// decodeArgs builds the ffmpeg command line that writes RGBA frames from
// frame start onward to stdout. Frames keep their stored orientation so they
// match the probed size.
//
// With a known frame rate the input is seeked to half a frame before start,
// and accurate seeking drops everything earlier. Otherwise frames before
// start are decoded and dropped by the select filter.
func decodeArgs(path string, start int, fps float64) []string {
	in := ffmpeg.KwArgs{"noautorotate": ""}
	out := ffmpeg.KwArgs{
		"map":      "0:v:0",
		"vsync":    "passthrough",
		"f":        "rawvideo",
		"pix_fmt":  "rgba",
		"loglevel": "error",
	}
	switch {
	case start > 0 && fps > 0:
		in["ss"] = strconv.FormatFloat((float64(start)-0.5)/fps, 'f', 6, 64)
	case start > 0:
		out["vf"] = fmt.Sprintf("select=gte(n\\,%d)", start)
	}
	return ffmpeg.Input(path, in).Output("pipe:", out).GetArgs()
}

func (s *ffmpegSource) launch() error {
	cmd := exec.CommandContext(s.ctx, "ffmpeg", decodeArgs(s.path, s.start, s.info.FPS)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}
	s.cmd = cmd
	s.stdout = stdout
	s.buf = make([]byte, s.info.Width*s.info.Height*4)
	return nil
}

func (s *ffmpegSource) stop() {
	if s.cmd == nil {
		return
	}
	s.stdout.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	// Exit status is a kill signal or a pipe error at this point.
	_ = s.cmd.Wait()
	s.cmd = nil
	s.stdout = nil
}

func (s *ffmpegSource) Close() error {
	s.stop()
	return nil
}
