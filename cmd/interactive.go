package cmd

import (
	"fmt"
	"os"

	"github.com/JPM1118/framegrab/internal/extract"
	"github.com/JPM1118/framegrab/internal/logging"
	"github.com/JPM1118/framegrab/internal/notify"
	"github.com/JPM1118/framegrab/internal/session"
	"github.com/JPM1118/framegrab/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// finishStatuses are the run outcomes that ring the bell.
var finishStatuses = []string{
	string(extract.StatusCompleted),
	string(extract.StatusRejected),
	string(extract.StatusOpenFailed),
	string(extract.StatusReadFailed),
	string(extract.StatusWriteFailed),
}

func runInteractive(cmd *cobra.Command) error {
	// The interactive session owns the terminal, so logs only go to a file.
	log, cleanup, err := logging.New(app.cfg.Log, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	runner := extract.New(app.opener,
		extract.WithLogger(log),
		extract.WithCompression(app.cfg.Compression()),
	)
	s := session.New(app.opener)
	ctx := cmd.Context()

	if plain || !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return session.Console(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout(), runner)
	}

	var bell *notify.Bell
	if app.cfg.Notifications.TerminalBell {
		bell = notify.NewBell(os.Stderr, app.cfg.Notifications.BellDebounce.Duration, finishStatuses)
	}

	model := tui.New(ctx, s, runner, bell)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("interactive session: %w", err)
	}
	if m, ok := final.(tui.Model); ok {
		for _, line := range m.Farewell() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
