package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JPM1118/framegrab/internal/extract"
)

// Runner executes extraction requests.
type Runner interface {
	Run(ctx context.Context, req extract.Request, report func(extract.Event)) extract.Result
}

// Console drives s over plain line-oriented I/O until the user exits or in
// is exhausted.
func Console(ctx context.Context, s Session, in io.Reader, out io.Writer, runner Runner) error {
	scanner := bufio.NewScanner(in)
	for !s.Done() {
		if _, err := fmt.Fprint(out, s.Prompt()); err != nil {
			return err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(out)
			return nil
		}

		var outcome Outcome
		s, outcome = s.Submit(ctx, strings.TrimRight(scanner.Text(), "\r"))
		for _, msg := range outcome.Messages {
			fmt.Fprintln(out, msg)
		}

		if outcome.Request != nil {
			res := runner.Run(ctx, *outcome.Request, func(ev extract.Event) {
				fmt.Fprintln(out, ev.String())
			})
			fmt.Fprintln(out, res.Summary())
			s = s.Finish()
		}
	}
	return nil
}
