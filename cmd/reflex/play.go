package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hperssn/reflex/internal/domain"
	"github.com/hperssn/reflex/internal/runner"
)

const barWidth = 30

func newPlayCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Run the tester in the terminal (Enter reacts, r resets, q quits)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := a.openController(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return play(cmd.Context(), ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// play feeds terminal lines to ctrl and renders every phase change until
// input ends, the user quits or ctx is done.
func play(ctx context.Context, ctrl *runner.Controller, in io.Reader, out io.Writer) error {
	events, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprint(out, render(ctrl.Snapshot()))

	for {
		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "q", "quit":
				return nil
			case "r", "retry":
				ctrl.Retry()
			default:
				ctrl.Shortcut()
			}

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			fmt.Fprint(out, render(ev.Snapshot))
		}
	}
}

func render(s runner.Snapshot) string {
	var b strings.Builder

	switch s.Phase {
	case domain.PhaseReady:
		b.WriteString("\n⚡ Reflex. Press Enter to start.\n")
		if s.BestMs != nil {
			fmt.Fprintf(&b, "Your best: %dms\n", *s.BestMs)
		}
	case domain.PhaseWaiting:
		b.WriteString("\nWait for it...\n")
	case domain.PhaseStimulus:
		b.WriteString("\n>>> GO! Press Enter! <<<\n")
	case domain.PhaseTooEarly:
		b.WriteString("\nToo early! Press Enter to try again.\n")
	case domain.PhaseResult:
		if s.Outcome == nil {
			break
		}
		o := s.Outcome
		fmt.Fprintf(&b, "\n%dms  %s\n", o.ReactionMs, o.Band.Rating)
		if o.NewBest {
			b.WriteString("🎉 New best!\n")
		}
		fmt.Fprintf(&b, "%s\n", o.Band.Description)
		fmt.Fprintf(&b, "slow %s fast\n", bar(o.BarPosition))
		fmt.Fprintf(&b, "Attempt #%d  avg %dms  best %dms\n", o.Count, o.AverageMs, o.BestMs)
		b.WriteString("Enter: go again  r: back  q: quit\n")
	}

	return b.String()
}

func bar(position float64) string {
	marker := int(position / 100 * (barWidth - 1))
	if marker < 0 {
		marker = 0
	}
	if marker > barWidth-1 {
		marker = barWidth - 1
	}

	return "[" + strings.Repeat("-", marker) + "|" + strings.Repeat("-", barWidth-1-marker) + "]"
}
