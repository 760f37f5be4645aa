package video

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// probeOutput matches the subset of `ffprobe -of json -show_streams
// -show_format` output used here.
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	NbFrames     string `json:"nb_frames"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
}

// parseProbe extracts Info from ffprobe JSON. When the container does not
// record a frame count it is estimated from duration and frame rate.
func parseProbe(data []byte) (Info, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	var stream *probeStream
	for i := range out.Streams {
		if out.Streams[i].CodecType == "video" {
			stream = &out.Streams[i]
			break
		}
	}
	if stream == nil {
		return Info{}, fmt.Errorf("no video stream")
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return Info{}, fmt.Errorf("invalid video dimensions %dx%d", stream.Width, stream.Height)
	}

	fps := parseRate(stream.AvgFrameRate)
	if fps == 0 {
		fps = parseRate(stream.RFrameRate)
	}

	info := Info{
		Width:  stream.Width,
		Height: stream.Height,
		FPS:    fps,
	}

	if n, err := strconv.Atoi(stream.NbFrames); err == nil && n > 0 {
		info.FrameCount = n
		return info, nil
	}

	duration := parseFloat(stream.Duration)
	if duration == 0 {
		duration = parseFloat(out.Format.Duration)
	}
	if duration > 0 && fps > 0 {
		info.FrameCount = int(math.Round(duration * fps))
	}
	return info, nil
}

// parseRate parses ffprobe rationals like "30000/1001". Returns 0 when the
// rate is missing or undefined ("0/0").
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return parseFloat(s)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
