package notify

import (
	"fmt"
	"io"
	"time"
)

// Bell rings the terminal bell when a run ends with one of the trigger
// statuses, at most once per debounce interval.
type Bell struct {
	out       io.Writer
	debounce  time.Duration
	lastRing  time.Time
	triggerOn map[string]bool
}

// NewBell creates a Bell writing to out.
func NewBell(out io.Writer, debounce time.Duration, statuses []string) *Bell {
	triggerOn := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		triggerOn[s] = true
	}
	return &Bell{
		out:       out,
		debounce:  debounce,
		triggerOn: triggerOn,
	}
}

// Ring attempts to ring the bell for the given status.
// Returns true if the bell actually rang.
func (b *Bell) Ring(status string, now time.Time) bool {
	if b == nil {
		return false
	}
	if !b.triggerOn[status] {
		return false
	}
	if !b.lastRing.IsZero() && now.Sub(b.lastRing) < b.debounce {
		return false
	}

	fmt.Fprint(b.out, "\a")
	b.lastRing = now
	return true
}
