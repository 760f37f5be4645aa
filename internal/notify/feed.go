package notify

import (
	"fmt"
	"time"
)

// Entry is one line of run output.
type Entry struct {
	Text      string
	Error     bool
	Timestamp time.Time
}

// Feed is a bounded FIFO of output lines. The oldest entries are dropped
// once maxStore is reached.
type Feed struct {
	items    []Entry
	maxStore int
}

// NewFeed creates a feed holding at most maxStore entries.
func NewFeed(maxStore int) *Feed {
	return &Feed{
		items:    make([]Entry, 0, maxStore),
		maxStore: maxStore,
	}
}

// Push appends an entry, trimming the oldest if at capacity.
func (f *Feed) Push(e Entry) {
	f.items = append(f.items, e)
	if len(f.items) > f.maxStore {
		f.items = f.items[len(f.items)-f.maxStore:]
	}
}

// Visible returns the most recent n entries.
func (f *Feed) Visible(n int) []Entry {
	if n <= 0 {
		return nil
	}
	if len(f.items) <= n {
		return f.items
	}
	return f.items[len(f.items)-n:]
}

// Len returns the number of buffered entries.
func (f *Feed) Len() int {
	return len(f.items)
}

// Render formats the last height entries, one per line, each cut to width.
func (f *Feed) Render(width, height int, now time.Time) []string {
	visible := f.Visible(height)
	lines := make([]string, 0, len(visible))
	for _, e := range visible {
		lines = append(lines, truncate(formatEntry(e, now), width))
	}
	return lines
}

func formatEntry(e Entry, now time.Time) string {
	age := now.Sub(e.Timestamp).Truncate(time.Second)
	var ageStr string
	switch {
	case age < time.Minute:
		ageStr = fmt.Sprintf("%ds", int(age.Seconds()))
	case age < time.Hour:
		ageStr = fmt.Sprintf("%dm", int(age.Minutes()))
	default:
		ageStr = fmt.Sprintf("%dh", int(age.Hours()))
	}
	mark := "●"
	if e.Error {
		mark = "✗"
	}
	return fmt.Sprintf("%s %s (%s ago)", mark, e.Text, ageStr)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
