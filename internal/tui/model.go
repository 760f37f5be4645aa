package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JPM1118/framegrab/internal/extract"
	"github.com/JPM1118/framegrab/internal/notify"
	"github.com/JPM1118/framegrab/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth    = 60
	minHeight   = 12
	headerLines = 3 // header + subheader + separator
	footerLines = 3 // progress + prompt + status bar
	feedSize    = 500
	eventBuffer = 64
)

// Messages

type submittedMsg struct {
	session session.Session
	outcome session.Outcome
}

type eventMsg struct {
	event extract.Event
}

type runDoneMsg struct {
	result extract.Result
}

type progress struct {
	done  int
	total int
}

// Model is the interactive Bubble Tea front-end for a session.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session session.Session
	runner  session.Runner
	bell    *notify.Bell
	feed    *notify.Feed
	now     func() time.Time

	input    []rune
	width    int
	height   int
	busy     bool // a submission or run is in flight
	running  bool
	progress progress
	events   chan tea.Msg
	last     *extract.Result
	quitting bool
	farewell []string
}

// New creates a model driving s. Runs go through runner; bell may be nil.
func New(ctx context.Context, s session.Session, runner session.Runner, bell *notify.Bell) Model {
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		session: s,
		runner:  runner,
		bell:    bell,
		feed:    notify.NewFeed(feedSize),
		now:     time.Now,
	}
}

// Farewell returns the messages of the submission that ended the session.
// The final view is blank, so the caller prints them once the program exits.
func (m Model) Farewell() []string {
	return m.farewell
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case submittedMsg:
		m.busy = false
		m.session = msg.session
		for _, text := range msg.outcome.Messages {
			m.push(text, isErrorText(text))
		}
		if msg.outcome.Request != nil {
			return m.startRun(*msg.outcome.Request)
		}
		if m.session.Done() {
			m.quitting = true
			m.farewell = msg.outcome.Messages
			return m, tea.Quit
		}
		return m, nil

	case eventMsg:
		for _, line := range msg.event.Lines() {
			m.push(line, isErrorEvent(msg.event.Kind))
		}
		if msg.event.Kind == extract.KindSaved {
			m.progress.done++
		}
		return m, waitForEvent(m.events)

	case runDoneMsg:
		res := msg.result
		m.busy = false
		m.running = false
		m.events = nil
		m.last = &res
		m.push(res.Summary(), res.Status != extract.StatusCompleted)
		m.bell.Ring(string(res.Status), m.now())
		m.session = m.session.Finish()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.cancel()
		m.quitting = true
		return m, tea.Quit

	case tea.KeyCtrlD:
		if len(m.input) == 0 && !m.busy {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.busy || !m.session.AwaitingInput() {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.submit()

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}

	case tea.KeyCtrlU:
		m.input = nil

	case tea.KeyRunes, tea.KeySpace:
		m.input = append(append([]rune(nil), m.input...), msg.Runes...)
	}
	return m, nil
}

// submit hands the current line to the session off the UI goroutine, since
// the output-dir step probes the video.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := string(m.input)
	m.input = nil
	m.push(m.session.Prompt()+line, false)
	m.busy = true

	s, ctx := m.session, m.ctx
	return m, func() tea.Msg {
		next, outcome := s.Submit(ctx, line)
		return submittedMsg{session: next, outcome: outcome}
	}
}

func (m Model) startRun(req extract.Request) (tea.Model, tea.Cmd) {
	ch := make(chan tea.Msg, eventBuffer)
	m.events = ch
	m.busy = true
	m.running = true
	m.progress = progress{total: req.End - req.Start + 1}

	runner, ctx := m.runner, m.ctx
	run := func() tea.Msg {
		res := runner.Run(ctx, req, func(ev extract.Event) {
			ch <- eventMsg{event: ev}
		})
		ch <- runDoneMsg{result: res}
		close(ch)
		return nil
	}
	return m, tea.Batch(run, waitForEvent(ch))
}

func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m Model) push(text string, isErr bool) {
	m.feed.Push(notify.Entry{Text: text, Error: isErr, Timestamp: m.now()})
}

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width < minWidth || m.height < minHeight {
		return fmt.Sprintf("\n  Terminal too small (need %dx%d, got %dx%d)\n", minWidth, minHeight, m.width, m.height)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSubheader())
	b.WriteString("\n")
	b.WriteString(subheaderStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	b.WriteString(m.renderFeed(m.height - headerLines - footerLines))

	b.WriteString(m.renderProgress())
	b.WriteString("\n")
	b.WriteString(m.renderPrompt())
	b.WriteString("\n")
	b.WriteString(statusBarStyle.Render("  Enter:submit  Ctrl+U:clear  Ctrl+C:quit"))

	return b.String()
}

func (m Model) renderHeader() string {
	title := headerStyle.Render("framegrab")

	right := ""
	if info := m.session.Params().Info; info.Width > 0 {
		c := info.Center()
		right = subheaderStyle.Render(fmt.Sprintf("%dx%d  center (%d, %d)  %d frames  %.2f fps",
			info.Width, info.Height, c.X, c.Y, info.FrameCount, info.FPS))
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + right
}

func (m Model) renderSubheader() string {
	p := m.session.Params()
	text := "No video selected"
	if p.VideoPath != "" && p.Info.Width > 0 {
		text = fmt.Sprintf("%s → %s", p.VideoPath, p.OutputDir)
	}
	return subheaderStyle.Render(truncate(text, m.width))
}

func (m Model) renderFeed(height int) string {
	if height < 1 {
		return ""
	}
	entries := m.feed.Visible(height)
	lines := m.feed.Render(m.width-2, height, m.now())

	var b strings.Builder
	for i, line := range lines {
		style := feedStyle
		if entries[i].Error {
			style = errorLineStyle
		}
		b.WriteString("  " + style.Render(line))
		b.WriteString("\n")
	}
	for i := len(lines); i < height; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderProgress() string {
	switch {
	case m.running:
		return progressStyle.Render(progressBar(m.progress.done, m.progress.total, m.width))
	case m.last != nil:
		label := statusStyle(m.last.Status).Render(statusLabel(m.last.Status))
		return "  " + label + "  " + subheaderStyle.Render(m.last.Summary())
	default:
		return ""
	}
}

func (m Model) renderPrompt() string {
	if m.busy && !m.running {
		return subheaderStyle.Render("  Working...")
	}
	if !m.session.AwaitingInput() {
		return ""
	}
	input := string(m.input) + "█"
	prompt := truncate(m.session.Prompt(), m.width-len([]rune(input))-2)
	return "  " + promptStyle.Render(prompt) + input
}

// Helpers

func progressBar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	done = min(max(done, 0), total)
	label := fmt.Sprintf(" %d/%d", done, total)
	barWidth := max(width-len(label)-4, 10)
	filled := barWidth * done / total
	return "  [" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]" + label
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:max(maxLen, 0)])
	}
	return string(runes[:maxLen-1]) + "…"
}

func isErrorText(s string) bool {
	return strings.HasPrefix(s, "Error") || strings.HasPrefix(s, "Please") || strings.HasPrefix(s, "Invalid")
}

func isErrorEvent(k extract.Kind) bool {
	switch k {
	case extract.KindOpenFailed, extract.KindInvalidRange, extract.KindSeekFailed,
		extract.KindReadFailed, extract.KindWriteFailed:
		return true
	}
	return false
}
