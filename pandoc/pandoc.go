// Package pandoc invokes external pandoc converter.
package pandoc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"md2docx/config"
)

var (
	ErrNotFound         = errors.New("pandoc executable not found")
	ErrConversionFailed = errors.New("pandoc conversion failed")
)

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Converter converts Markdown sources to docx using reference template.
type Converter struct {
	Path      string
	From      string
	ExtraArgs []string
	Runner    CommandRunner
}

// NewConverter creates Converter from configuration. When runner is nil real
// processes are started.
func NewConverter(cfg *config.PandocConfig, runner CommandRunner) *Converter {
	if runner == nil {
		runner = &ExecRunner{}
	}
	return &Converter{
		Path:      cfg.Path,
		From:      cfg.From,
		ExtraArgs: cfg.ExtraArgs,
		Runner:    runner,
	}
}

// Args returns converter arguments for the given files.
func (c *Converter) Args(src, ref, dst string) []string {
	args := []string{"--from=" + c.From, src, "--reference-doc=" + ref}
	args = append(args, c.ExtraArgs...)
	return append(args, "-o", dst)
}

// CommandLine returns printable command line for the given files.
func (c *Converter) CommandLine(src, ref, dst string) string {
	parts := append([]string{c.Path}, c.Args(src, ref, dst)...)
	for i, p := range parts {
		if strings.ContainsAny(p, " \t\"'") {
			parts[i] = fmt.Sprintf("%q", p)
		}
	}
	return strings.Join(parts, " ")
}

// Convert runs converter synchronously. Any failure of the converter is
// reported as ErrConversionFailed, there are no retries.
func (c *Converter) Convert(ctx context.Context, src, ref, dst string, log *zap.Logger) error {
	log.Info("Running converter", zap.String("cmd", c.CommandLine(src, ref, dst)))

	_, stderr, err := c.Runner.Run(ctx, c.Path, c.Args(src, ref, dst)...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w (%s): %w", ErrNotFound, c.Path, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%w: %s: %w", ErrConversionFailed, msg, err)
		}
		return fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	// pandoc reports non fatal problems to stderr
	sc := bufio.NewScanner(strings.NewReader(stderr))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			log.Warn("Converter", zap.String("message", line))
		}
	}
	return nil
}

// Version returns first line of converter version output.
func (c *Converter) Version(ctx context.Context) (string, error) {
	stdout, _, err := c.Runner.Run(ctx, c.Path, "--version")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w (%s): %w", ErrNotFound, c.Path, err)
		}
		return "", fmt.Errorf("unable to get pandoc version: %w", err)
	}
	line, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSpace(line), nil
}
