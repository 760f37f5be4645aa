package tui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JPM1118/framegrab/internal/extract"
	"github.com/JPM1118/framegrab/internal/notify"
	"github.com/JPM1118/framegrab/internal/session"
	"github.com/JPM1118/framegrab/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
)

// testModel creates a Model over a mock video with a 100x40 window.
func testModel(t *testing.T, src *testutil.MockSource, bell *notify.Bell) (Model, string, string) {
	t.Helper()
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(videoPath, []byte("not really a video"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "frames")

	opener := &testutil.MockOpener{Source: src}
	m := New(context.Background(), session.New(opener), extract.New(opener), bell)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), videoPath, outDir
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and every command it leads to, feeding messages back into
// the model until nothing is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			return m
		default:
			updated, next := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, next)
		}
	}
	return m
}

// submit types line and presses Enter.
func submit(t *testing.T, m Model, line string) Model {
	t.Helper()
	if line != "" {
		updated, _ := m.Update(keyMsg(line))
		m = updated.(Model)
	}
	updated, cmd := m.Update(keyMsg("enter"))
	return drain(t, updated.(Model), cmd)
}

func submitAll(t *testing.T, m Model, lines ...string) Model {
	t.Helper()
	for _, l := range lines {
		m = submit(t, m, l)
	}
	return m
}

func feedText(m Model) string {
	var parts []string
	for _, e := range m.feed.Visible(m.feed.Len()) {
		parts = append(parts, e.Text)
	}
	return strings.Join(parts, "\n")
}

func TestModel_FullRun(t *testing.T) {
	var bellOut bytes.Buffer
	bell := notify.NewBell(&bellOut, time.Minute, []string{string(extract.StatusCompleted)})
	m, videoPath, outDir := testModel(t, testutil.NewVideo(16, 12, 30, -1), bell)

	m = submitAll(t, m, videoPath, outDir)
	if m.session.State() != session.StateStartFrame {
		t.Fatalf("state = %s, want start-frame", m.session.State())
	}
	view := m.View()
	if !strings.Contains(view, "16x12") || !strings.Contains(view, "30 frames") {
		t.Errorf("header should show video info, got:\n%s", view)
	}

	m = submitAll(t, m, "2", "4", "", "", "", "")

	if m.session.State() != session.StateAskRepeat {
		t.Fatalf("state = %s, want ask-repeat", m.session.State())
	}
	if m.last == nil || m.last.Status != extract.StatusCompleted || m.last.Written != 3 {
		t.Fatalf("last result = %+v, want 3 frames completed", m.last)
	}
	if m.progress.done != 3 || m.progress.total != 3 {
		t.Errorf("progress = %+v, want 3/3", m.progress)
	}
	if m.busy || m.running {
		t.Error("model should be idle after the run")
	}

	text := feedText(m)
	for _, fragment := range []string{
		"Created output folder",
		"No cropping will be applied. Using full frame.",
		"Saved frame 2 to " + filepath.Join(outDir, "Frame 1.png"),
		"Saved frame 4 to " + filepath.Join(outDir, "Frame 3.png"),
		"Frame extraction completed.",
		"3 frames written",
	} {
		if !strings.Contains(text, fragment) {
			t.Errorf("feed missing %q\n%s", fragment, text)
		}
	}

	view = m.View()
	if !strings.Contains(view, "COMPLETED") {
		t.Errorf("view should show the run status, got:\n%s", view)
	}
	if !strings.Contains(view, "reprocess (Y/N)") {
		t.Errorf("view should prompt for repeat, got:\n%s", view)
	}
	if bellOut.String() != "\a" {
		t.Errorf("bell output = %q, want one BEL", bellOut.String())
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("output dir has %d files, want 3", len(entries))
	}
}

func TestModel_RepeatThenExit(t *testing.T) {
	m, videoPath, outDir := testModel(t, testutil.NewVideo(8, 8, 10, -1), nil)
	m = submitAll(t, m, videoPath, outDir, "0", "0", "", "", "", "")

	m = submit(t, m, "y")
	if m.session.State() != session.StateStartFrame {
		t.Fatalf("after Y: state = %s, want start-frame", m.session.State())
	}

	m = submitAll(t, m, "1", "1", "", "", "", "", "n")
	if !m.session.Done() {
		t.Errorf("after N: state = %s, want done", m.session.State())
	}
	if !m.quitting {
		t.Error("model should quit after the user exits")
	}
	if !strings.Contains(feedText(m), "Exiting the program.") {
		t.Error("feed should contain the exit message")
	}
	if m.View() != "" {
		t.Errorf("final view should be blank, got %q", m.View())
	}
	if got := m.Farewell(); len(got) != 1 || got[0] != "Exiting the program." {
		t.Errorf("Farewell() = %q, want the exit message", got)
	}
}

func TestModel_FarewellEmptyOnCtrlC(t *testing.T) {
	m, _, _ := testModel(t, testutil.NewVideo(8, 8, 1, -1), nil)
	updated, _ := m.Update(keyMsg("ctrl+c"))
	if got := updated.(Model).Farewell(); len(got) != 0 {
		t.Errorf("Farewell() after ctrl+c = %q, want none", got)
	}
}

func TestModel_ReadFailure(t *testing.T) {
	m, videoPath, outDir := testModel(t, testutil.NewVideo(8, 8, 20, 5), nil)
	m = submitAll(t, m, videoPath, outDir, "3", "8", "", "", "", "")

	if m.last == nil || m.last.Status != extract.StatusReadFailed {
		t.Fatalf("last result = %+v, want read_failed", m.last)
	}
	if m.last.Written != 2 {
		t.Errorf("written = %d, want 2", m.last.Written)
	}
	if !strings.Contains(feedText(m), "Error: Failed to read frame 5.") {
		t.Errorf("feed missing read failure:\n%s", feedText(m))
	}
	if !strings.Contains(m.View(), "READ FAILED") {
		t.Error("view should show the failed status")
	}
	if m.session.State() != session.StateAskRepeat {
		t.Errorf("state = %s, want ask-repeat", m.session.State())
	}
}

func TestModel_InvalidInputKeepsPrompt(t *testing.T) {
	m, videoPath, outDir := testModel(t, testutil.NewVideo(8, 8, 10, -1), nil)
	m = submitAll(t, m, videoPath, outDir, "abc")

	if m.session.State() != session.StateStartFrame {
		t.Errorf("state = %s, want start-frame", m.session.State())
	}
	entries := m.feed.Visible(1)
	if len(entries) != 1 || entries[0].Text != "Please enter valid frame numbers." || !entries[0].Error {
		t.Errorf("last feed entry = %+v, want the invalid frames error", entries)
	}
}

func TestModel_MissingVideo(t *testing.T) {
	m, _, outDir := testModel(t, testutil.NewVideo(8, 8, 10, -1), nil)
	m = submitAll(t, m, "/no/such/clip.mp4", outDir)

	if m.session.State() != session.StateVideoPath {
		t.Errorf("state = %s, want video-path", m.session.State())
	}
	if !strings.Contains(feedText(m), "does not exist") {
		t.Errorf("feed should explain the missing file:\n%s", feedText(m))
	}
}

func TestModel_Editing(t *testing.T) {
	m, _, _ := testModel(t, testutil.NewVideo(8, 8, 1, -1), nil)

	for _, k := range []string{"ab", "c", "backspace", " ", "d"} {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	if got := string(m.input); got != "ab d" {
		t.Errorf("input = %q, want %q", got, "ab d")
	}
	if !strings.Contains(m.View(), "ab d█") {
		t.Error("view should show the input with a cursor")
	}

	updated, _ := m.Update(keyMsg("ctrl+u"))
	m = updated.(Model)
	if len(m.input) != 0 {
		t.Errorf("ctrl+u should clear input, got %q", string(m.input))
	}

	updated, _ = m.Update(keyMsg("backspace"))
	m = updated.(Model)
	if len(m.input) != 0 {
		t.Error("backspace on empty input should be a no-op")
	}
}

func TestModel_IgnoresKeysWhileBusy(t *testing.T) {
	m, _, _ := testModel(t, testutil.NewVideo(8, 8, 1, -1), nil)
	m.busy = true

	updated, cmd := m.Update(keyMsg("x"))
	m = updated.(Model)
	if len(m.input) != 0 || cmd != nil {
		t.Error("typing while busy should be ignored")
	}
	updated, cmd = m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("enter while busy should not submit")
	}
	if !strings.Contains(updated.(Model).View(), "Working...") {
		t.Error("busy view should say it is working")
	}
}

func TestModel_CtrlCCancelsAndQuits(t *testing.T) {
	m, _, _ := testModel(t, testutil.NewVideo(8, 8, 1, -1), nil)

	updated, cmd := m.Update(keyMsg("ctrl+c"))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if m.ctx.Err() == nil {
		t.Error("ctrl+c should cancel the run context")
	}
}

func TestModel_CtrlDOnEmptyInputQuits(t *testing.T) {
	m, _, _ := testModel(t, testutil.NewVideo(8, 8, 1, -1), nil)

	updated, _ := m.Update(keyMsg("a"))
	m = updated.(Model)
	if _, cmd := m.Update(keyMsg("ctrl+d")); cmd != nil {
		t.Error("ctrl+d with pending input should not quit")
	}

	updated, _ = m.Update(keyMsg("ctrl+u"))
	m = updated.(Model)
	_, cmd := m.Update(keyMsg("ctrl+d"))
	if cmd == nil {
		t.Fatal("ctrl+d on empty input should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+d should return tea.Quit")
	}
}

func TestView_TerminalTooSmall(t *testing.T) {
	m, _, _ := testModel(t, testutil.NewVideo(8, 8, 1, -1), nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	view := updated.(Model).View()
	if !strings.Contains(view, "Terminal too small") {
		t.Errorf("expected too-small message, got: %q", view)
	}
}

func TestView_FirstPrompt(t *testing.T) {
	m, _, _ := testModel(t, testutil.NewVideo(8, 8, 1, -1), nil)
	view := m.View()
	for _, want := range []string{"framegrab", "No video selected", "Enter the path to the MP4 video file", "Ctrl+C:quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total int
		want        string
	}{
		{0, 4, " 0/4"},
		{2, 4, " 2/4"},
		{9, 4, " 4/4"},
	}
	for _, tt := range tests {
		got := progressBar(tt.done, tt.total, 40)
		if !strings.HasSuffix(got, tt.want) {
			t.Errorf("progressBar(%d, %d) = %q, want suffix %q", tt.done, tt.total, got, tt.want)
		}
		if n := len([]rune(got)); n != 40 {
			t.Errorf("progressBar(%d, %d) width = %d, want 40", tt.done, tt.total, n)
		}
	}
	if progressBar(0, 0, 40) != "" {
		t.Error("no total should render nothing")
	}

	half := progressBar(2, 4, 40)
	if strings.Count(half, "█") != strings.Count(half, "░") {
		t.Errorf("half progress should be half filled: %q", half)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is t…"},
		{"ab", 1, "a"},
		{"ab", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
