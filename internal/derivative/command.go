package derivative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Option configures the command generator.
type Option func(*Command)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *Command) {
		if binary = strings.TrimSpace(binary); binary != "" {
			c.binary = binary
		}
	}
}

// WithLogger sets the logger receiving the command output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Command) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Command runs an external preparation tool (epg-prep by default) with the
// upload directory as its only argument. Output is logged, never parsed.
type Command struct {
	binary string
	logger *slog.Logger
}

// NewCommand constructs a Command generator using defaults.
func NewCommand(opts ...Option) *Command {
	c := &Command{
		binary: "epg-prep",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Binary returns the configured executable.
func (c *Command) Binary() string {
	return c.binary
}

func (c *Command) Generate(ctx context.Context, dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("derivative: directory required")
	}

	var output bytes.Buffer
	cmd := commandContext(ctx, c.binary, dir) //nolint:gosec
	cmd.Stdout = &output
	cmd.Stderr = &output

	c.logger.Info("creating thumbnail images", "command", c.binary, "dir", dir)
	err := cmd.Run()
	if out := strings.TrimSpace(output.String()); out != "" {
		c.logger.Debug("derivative command output", "command", c.binary, "output", out)
	}
	if err != nil {
		return fmt.Errorf("derivative: run %s: %w", c.binary, err)
	}

	c.logger.Info("created thumbnail and preview image sizes", "dir", dir)
	return nil
}

var _ Generator = (*Command)(nil)
