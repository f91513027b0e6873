// Package typer injects transcript text into the focused window.
package typer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/atotto/clipboard"
)

const commandTimeout = 5 * time.Second

// Command runs a user-configured injection tool (wtype, ydotool, xdotool)
// and writes the transcript to its stdin. Failures fall back to the
// clipboard when enabled, so the text is never lost silently.
type Command struct {
	argv              []string
	logger            *slog.Logger
	clipboardFallback bool
}

// NewCommand builds a typer for the configured argv.
func NewCommand(logger *slog.Logger, argv []string, clipboardFallback bool) *Command {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(12)}))
	}
	return &Command{argv: argv, logger: logger, clipboardFallback: clipboardFallback}
}

// Type injects text into the focused window via the configured tool.
func (c *Command) Type(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	runCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := runCommandWithInput(runCtx, c.argv, text); err != nil {
		if c.clipboardFallback {
			if clipErr := clipboard.WriteAll(text); clipErr == nil {
				c.logger.Warn("typing tool failed; transcript copied to clipboard", "error", err.Error())
				return nil
			}
		}
		return err
	}
	return nil
}

// runCommandWithInput executes argv and writes input to its stdin.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return fmt.Errorf("typer argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin for %s: %w", argv[0], err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start command %s: %w", argv[0], err)
	}

	if input != "" {
		if _, err := stdin.Write([]byte(input)); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return fmt.Errorf("write stdin for %s: %w", argv[0], err)
		}
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return nil
}
