package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/JPM1118/framegrab/internal/extract"
	"github.com/JPM1118/framegrab/internal/video"
)

// State is a step of the interactive cycle.
type State int

const (
	StateVideoPath State = iota
	StateOutputDir
	StateStartFrame
	StateEndFrame
	StateCenterX
	StateCenterY
	StateCropWidth
	StateCropHeight
	StateExtract
	StateAskRepeat
	StateDone
)

var stateNames = [...]string{
	StateVideoPath:  "video-path",
	StateOutputDir:  "output-dir",
	StateStartFrame: "start-frame",
	StateEndFrame:   "end-frame",
	StateCenterX:    "center-x",
	StateCenterY:    "center-y",
	StateCropWidth:  "crop-width",
	StateCropHeight: "crop-height",
	StateExtract:    "extract",
	StateAskRepeat:  "ask-repeat",
	StateDone:       "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Params are the values collected so far.
type Params struct {
	VideoPath string
	OutputDir string
	Info      video.Info
	Start     int
	End       int
	Crop      CropInput
}

// Request builds the extraction request for the collected params.
func (p Params) Request() extract.Request {
	return extract.Request{
		Source:    p.VideoPath,
		OutputDir: p.OutputDir,
		Start:     p.Start,
		End:       p.End,
		Crop:      p.Crop.Resolve(p.Info),
	}
}

// Outcome is the result of submitting one line of input.
type Outcome struct {
	// Messages are shown to the user before the next prompt.
	Messages []string
	// Request is set when the session entered StateExtract; the driver runs
	// it and then calls Finish.
	Request *extract.Request
}

const (
	msgInvalidFrames = "Please enter valid frame numbers."
	msgInvalidCrop   = "Please enter valid numbers for the center point, width, and height."
	msgFullFrame     = "No cropping will be applied. Using full frame."
	msgInvalidChoice = "Invalid input. Please enter 'Y' to adjust or 'N' to exit."
	msgExit          = "Exiting the program."
)

// Session is the interactive parameter-collection state machine:
//
//	VideoPath -> OutputDir -> StartFrame -> EndFrame -> CenterX -> CenterY
//	-> CropWidth -> CropHeight -> Extract -> AskRepeat -> {StartFrame | Done}
//
// It is a value type; Submit and Finish return the next Session.
type Session struct {
	opener video.Opener
	state  State
	params Params
}

// New creates a session that probes videos with opener.
func New(opener video.Opener) Session {
	return Session{opener: opener, state: StateVideoPath}
}

// State returns the current state.
func (s Session) State() State {
	return s.state
}

// Params returns the values collected so far.
func (s Session) Params() Params {
	return s.params
}

// Done reports whether the user chose to exit.
func (s Session) Done() bool {
	return s.state == StateDone
}

// AwaitingInput reports whether the session expects a line of input.
func (s Session) AwaitingInput() bool {
	return s.state != StateExtract && s.state != StateDone
}

// Prompt returns the text asking for the current field.
func (s Session) Prompt() string {
	center := s.params.Info.Center()
	switch s.state {
	case StateVideoPath:
		return "Enter the path to the MP4 video file: "
	case StateOutputDir:
		return "Enter the output folder path (it will be created if it doesn't exist): "
	case StateStartFrame:
		return "Enter the starting frame number (0-based): "
	case StateEndFrame:
		return "Enter the ending frame number: "
	case StateCenterX:
		return fmt.Sprintf("Enter the X coordinate for the center point (default: %d, press Enter to use full frame): ", center.X)
	case StateCenterY:
		return fmt.Sprintf("Enter the Y coordinate for the center point (default: %d, press Enter to use full frame): ", center.Y)
	case StateCropWidth:
		return "Enter the width of the cropped image (press Enter to use full frame): "
	case StateCropHeight:
		return "Enter the height of the cropped image (press Enter to use full frame): "
	case StateAskRepeat:
		return "Do you want to adjust parameters and reprocess (Y/N)? "
	default:
		return ""
	}
}

// Submit feeds one line of user input to the current state.
func (s Session) Submit(ctx context.Context, line string) (Session, Outcome) {
	switch s.state {
	case StateVideoPath:
		s.params.VideoPath = FixPath(line)
		s.state = StateOutputDir
		return s, Outcome{}

	case StateOutputDir:
		s.params.OutputDir = FixPath(line)
		return s.openPaths(ctx)

	case StateStartFrame:
		v, err := ParseInt(line)
		if err != nil {
			return s, Outcome{Messages: []string{msgInvalidFrames}}
		}
		s.params.Start = v
		s.state = StateEndFrame
		return s, Outcome{}

	case StateEndFrame:
		v, err := ParseInt(line)
		if err != nil {
			return s, Outcome{Messages: []string{msgInvalidFrames}}
		}
		s.params.End = v
		s.params.Crop = CropInput{}
		s.state = StateCenterX
		return s, Outcome{}

	case StateCenterX, StateCenterY, StateCropWidth, StateCropHeight:
		v, err := ParseOptional(line)
		if err != nil {
			return s, Outcome{Messages: []string{msgInvalidCrop}}
		}
		return s.setCropField(v)

	case StateAskRepeat:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			s.state = StateStartFrame
			return s, Outcome{}
		case "n":
			s.state = StateDone
			return s, Outcome{Messages: []string{msgExit}}
		default:
			return s, Outcome{Messages: []string{msgInvalidChoice}}
		}
	}

	// StateExtract and StateDone take no input.
	return s, Outcome{}
}

// Finish records that the pending extraction has run.
func (s Session) Finish() Session {
	if s.state == StateExtract {
		s.state = StateAskRepeat
	}
	return s
}

func (s Session) setCropField(v Optional) (Session, Outcome) {
	switch s.state {
	case StateCenterX:
		s.params.Crop.CenterX = v
		s.state = StateCenterY
	case StateCenterY:
		s.params.Crop.CenterY = v
		s.state = StateCropWidth
	case StateCropWidth:
		s.params.Crop.Width = v
		s.state = StateCropHeight
	case StateCropHeight:
		s.params.Crop.Height = v
		s.state = StateExtract
		req := s.params.Request()
		out := Outcome{Request: &req}
		if s.params.Crop.Empty() {
			out.Messages = []string{msgFullFrame}
		}
		return s, out
	}
	return s, Outcome{}
}

// openPaths validates the video path, creates the output directory and
// probes the video. Any failure sends the user back to the video path.
func (s Session) openPaths(ctx context.Context) (Session, Outcome) {
	var msgs []string
	retry := func(msg string) (Session, Outcome) {
		s.state = StateVideoPath
		return s, Outcome{Messages: append(msgs, msg)}
	}

	path := s.params.VideoPath
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		return retry(fmt.Sprintf("Error: The file %s does not exist. Please try again.", path))
	}

	dir := s.params.OutputDir
	st, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return retry(fmt.Sprintf("Error creating output folder: %v. Please try again.", err))
		}
		msgs = append(msgs, fmt.Sprintf("Created output folder: %s", dir))
	case err != nil:
		return retry(fmt.Sprintf("Error creating output folder: %v. Please try again.", err))
	case !st.IsDir():
		return retry(fmt.Sprintf("Error creating output folder: %s is not a directory. Please try again.", dir))
	}

	info, err := video.Probe(ctx, s.opener, path)
	if err != nil {
		return retry(fmt.Sprintf("Error: Could not open video file %s", path))
	}
	s.params.Info = info

	c := info.Center()
	msgs = append(msgs,
		fmt.Sprintf("Original frame size: %dx%d", info.Width, info.Height),
		fmt.Sprintf("Center of the original frame: (%d, %d)", c.X, c.Y),
	)
	s.state = StateStartFrame
	return s, Outcome{Messages: msgs}
}
