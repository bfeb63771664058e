// Package git drives the external git binary. Every method is a blocking
// subprocess call; a non-zero exit is returned as an apperr external-tool
// error carrying git's stderr.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/andywolf/skillsctl/internal/security"
)

// Client runs git commands.
type Client struct {
	logger   *log.Logger
	scrubber *security.Scrubber

	// execCommand builds the subprocess; tests replace it.
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewClient returns a Client that logs each invocation to logger.
// A nil logger discards output.
func NewClient(logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		logger:      logger,
		scrubber:    security.NewScrubber(),
		execCommand: exec.CommandContext,
	}
}

// runOpts controls a single invocation.
type runOpts struct {
	dir               string
	allowFileProtocol bool
	stdin             string
}

// result is the captured output of a finished command.
type result struct {
	command  string
	stdout   string
	stderr   string
	exitCode int
}

// exec runs git and returns its output. Only a missing binary or a failure to
// start is returned as an error; the exit code is left to the caller.
func (c *Client) exec(ctx context.Context, opts runOpts, args ...string) (*result, error) {
	var full []string
	if opts.allowFileProtocol {
		full = append(full, "-c", "protocol.file.allow=always")
	}
	full = append(full, args...)

	command := c.scrubber.ScrubCommand("git", full)
	c.logger.Printf("%s (in %s)", command, opts.dir)

	cmd := c.execCommand(ctx, "git", full...)
	cmd.Dir = opts.dir
	if opts.stdin != "" {
		cmd.Stdin = strings.NewReader(opts.stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &result{command: command, stdout: stdout.String(), stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.exitCode = exitErr.ExitCode()
			return res, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &apperr.Error{Kind: apperr.KindExternalTool, Msg: "command not found: git", Err: err}
		}
		return nil, apperr.ExternalTool(command, c.scrubber.Scrub(res.stderr), err)
	}
	return res, nil
}

// run is exec with a non-zero exit treated as failure. It returns trimmed stdout.
func (c *Client) run(ctx context.Context, opts runOpts, args ...string) (string, error) {
	res, err := c.exec(ctx, opts, args...)
	if err != nil {
		return "", err
	}
	if res.exitCode != 0 {
		return "", c.failure(res)
	}
	return strings.TrimSpace(res.stdout), nil
}

func (c *Client) failure(res *result) error {
	return apperr.ExternalTool(res.command, c.scrubber.Scrub(res.stderr), fmt.Errorf("exit status %d", res.exitCode))
}

// Version returns the output of `git --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.run(ctx, runOpts{}, "--version")
}

// TopLevel returns the root of the work tree containing dir.
func (c *Client) TopLevel(ctx context.Context, dir string) (string, error) {
	return c.run(ctx, runOpts{dir: dir}, "rev-parse", "--show-toplevel")
}

// Add stages paths relative to root.
func (c *Client) Add(ctx context.Context, root string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	_, err := c.run(ctx, runOpts{dir: root}, args...)
	return err
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
