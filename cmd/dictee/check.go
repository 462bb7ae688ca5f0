package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/verte-zerg/dictee/internal/feedback"
	"github.com/verte-zerg/dictee/internal/tui"
)

var errIncorrect = errors.New("answer is incorrect")

var checkLang string

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check TARGET ANSWER",
		Short: "Compare an answer with the expected spelling",
		Long:  "Prints the per-character feedback for ANSWER against TARGET and exits with status 1 when they differ.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := language.Parse(checkLang)
			if err != nil {
				return fmt.Errorf("invalid --lang value: %w", err)
			}
			styled, width := outputMode(os.Stdout)
			err = runCheck(cmd.OutOrStdout(), feedback.New(tag), args[0], args[1], styled, width)
			if errors.Is(err, errIncorrect) {
				// The exit status carries the verdict; the feedback is already printed.
				cmd.SilenceErrors = true
			}
			return err
		},
	}
	cmd.Flags().StringVar(&checkLang, "lang", defaultLang, "language used for case folding")
	return cmd
}

func runCheck(w io.Writer, analyzer *feedback.Analyzer, target, answer string, styled bool, width int) error {
	letters := analyzer.Align(answer, target)
	correct := analyzer.IsCorrect(answer, target)
	counts := feedback.Count(letters)

	verdict := "correct"
	if !correct {
		verdict = "incorrect"
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n%s\n", verdict, target, tui.RenderLetters(letters, width, styled)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !correct {
		if _, err := fmt.Fprintf(w, "wrong %d  missing %d  extra %d\n", counts.Wrong, counts.Missing, counts.Extra); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return errIncorrect
	}
	return nil
}

// outputMode reports whether f gets colours and how wide it is.
func outputMode(f *os.File) (bool, int) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	width := 0
	if w, _, err := term.GetSize(fd); err == nil {
		width = w
	}
	return os.Getenv("NO_COLOR") == "", width
}
