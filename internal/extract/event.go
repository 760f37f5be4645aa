package extract

import (
	"fmt"

	"github.com/JPM1118/framegrab/internal/video"
)

// Kind identifies a progress event.
type Kind int

const (
	KindOpenFailed Kind = iota
	KindOpened
	KindInvalidRange
	KindSeekFailed
	KindSaved
	KindReadFailed
	KindWriteFailed
	KindCompleted
)

// Event is a progress report emitted while a request runs.
type Event struct {
	Kind  Kind
	Req   Request
	Info  video.Info
	Frame int    // source frame number
	Index int    // series index of the output file
	Path  string // output file
	Err   error
}

// Lines renders the event as the console lines shown to the user.
func (e Event) Lines() []string {
	switch e.Kind {
	case KindOpenFailed:
		return []string{fmt.Sprintf("Error: Could not open video file %s", e.Req.Source)}
	case KindOpened:
		c := e.Info.Center()
		return []string{
			fmt.Sprintf("Original frame size: %dx%d", e.Info.Width, e.Info.Height),
			fmt.Sprintf("Center of the original frame: (%d, %d)", c.X, c.Y),
			fmt.Sprintf("Total frames in the video: %d", e.Info.FrameCount),
		}
	case KindInvalidRange:
		return []string{fmt.Sprintf("Invalid frame range: %d to %d. Total frames: %d", e.Req.Start, e.Req.End, e.Info.FrameCount)}
	case KindSeekFailed:
		return []string{fmt.Sprintf("Error: Failed to seek to frame %d: %v", e.Frame, e.Err)}
	case KindSaved:
		return []string{fmt.Sprintf("Saved frame %d to %s", e.Frame, e.Path)}
	case KindReadFailed:
		return []string{fmt.Sprintf("Error: Failed to read frame %d.", e.Frame)}
	case KindWriteFailed:
		return []string{fmt.Sprintf("Error saving frame %d: %v", e.Frame, e.Err)}
	case KindCompleted:
		return []string{"Frame extraction completed."}
	default:
		return nil
	}
}

// String joins Lines with newlines.
func (e Event) String() string {
	var s string
	for i, l := range e.Lines() {
		if i > 0 {
			s += "\n"
		}
		s += l
	}
	return s
}
