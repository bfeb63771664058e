package git

import (
	"context"
	"strings"

	"github.com/andywolf/skillsctl/internal/apperr"
)

// SparseInit enables cone-mode sparse checkout in dir.
func (c *Client) SparseInit(ctx context.Context, dir string) error {
	res, err := c.exec(ctx, runOpts{dir: dir}, "sparse-checkout", "init", "--cone")
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		return (&apperr.Error{
			Kind: apperr.KindExternalTool,
			Msg:  "git sparse-checkout is not available; upgrade git to a version that supports `git sparse-checkout`",
		}).WithDetail(strings.TrimSpace(c.scrubber.Scrub(res.stderr)))
	}
	return nil
}

// SparseSet replaces the sparse selection in dir with paths, passed on stdin.
func (c *Client) SparseSet(ctx context.Context, dir string, paths []string) error {
	res, err := c.exec(ctx, runOpts{dir: dir, stdin: strings.Join(paths, "\n") + "\n"},
		"sparse-checkout", "set", "--stdin")
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		return (&apperr.Error{
			Kind: apperr.KindExternalTool,
			Msg:  "failed to set sparse-checkout",
		}).WithDetail(strings.TrimSpace(c.scrubber.Scrub(res.stderr)))
	}
	return nil
}

// SparseList returns the active sparse selection in dir.
func (c *Client) SparseList(ctx context.Context, dir string) ([]string, error) {
	out, err := c.run(ctx, runOpts{dir: dir}, "sparse-checkout", "list")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}
