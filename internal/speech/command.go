package speech

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// ErrUnavailable is returned when no text-to-speech command can be found.
var ErrUnavailable = errors.New("speech is unavailable")

const baseWordsPerMinute = 175

// Config selects the text-to-speech command.
type Config struct {
	Command string
	Voice   string
	Lang    string
}

// DefaultCommands are tried in order when Config.Command is empty.
var DefaultCommands = []string{"espeak-ng", "espeak", "spd-say", "say"}

// NewCommandPlayer returns a Player backed by a text-to-speech command.
func NewCommandPlayer(cfg Config, logger *zap.Logger) (*Player, error) {
	path, err := resolveCommand(cfg.Command)
	if err != nil {
		return nil, err
	}
	cfg.Command = path
	return New(CommandRunner(cfg), logger), nil
}

func resolveCommand(name string) (string, error) {
	candidates := DefaultCommands
	if name != "" {
		candidates = []string{name}
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
	}
	if name != "" {
		return "", fmt.Errorf("%w: %q not found", ErrUnavailable, name)
	}
	return "", ErrUnavailable
}

// CommandRunner runs cfg.Command once per utterance.
func CommandRunner(cfg Config) Runner {
	return func(ctx context.Context, text string, rate, pitch float64) error {
		args := Args(cfg, text, rate, pitch)
		cmd := exec.CommandContext(ctx, cfg.Command, args...)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("failed to run %s: %w", filepath.Base(cfg.Command), err)
		}
		return nil
	}
}

// Args builds the command line for the known text-to-speech tools.
// rate and pitch are relative to 1.0. The text follows "--" for the tools
// that end option parsing there.
func Args(cfg Config, text string, rate, pitch float64) []string {
	var args []string
	switch filepath.Base(cfg.Command) {
	case "say":
		if cfg.Voice != "" {
			args = append(args, "-v", cfg.Voice)
		}
		args = append(args, "-r", strconv.Itoa(wordsPerMinute(rate)))
		return append(args, text)
	case "spd-say":
		args = append(args, "-w")
		if cfg.Lang != "" {
			args = append(args, "-l", cfg.Lang)
		}
		if cfg.Voice != "" {
			args = append(args, "-t", cfg.Voice)
		}
		args = append(args,
			"-r", strconv.Itoa(relative(rate)),
			"-p", strconv.Itoa(relative(pitch)))
	default:
		voice := cfg.Voice
		if voice == "" {
			voice = cfg.Lang
		}
		if voice != "" {
			args = append(args, "-v", voice)
		}
		args = append(args,
			"-s", strconv.Itoa(wordsPerMinute(rate)),
			"-p", strconv.Itoa(clamp(int(math.Round(pitch*50)), 0, 99)))
	}
	return append(args, "--", text)
}

func wordsPerMinute(rate float64) int {
	return max(1, int(math.Round(rate*baseWordsPerMinute)))
}

// relative maps 1.0 to 0 on a -100..100 scale.
func relative(v float64) int {
	return clamp(int(math.Round((v-1)*100)), -100, 100)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
