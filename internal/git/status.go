package git

import (
	"context"
	"strings"
)

// ChangedFiles returns the paths reported by `git status --porcelain` in dir,
// including untracked files.
func (c *Client) ChangedFiles(ctx context.Context, dir string) ([]string, error) {
	// leading status columns are significant, so stdout is parsed untrimmed
	res, err := c.exec(ctx, runOpts{dir: dir}, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	if res.exitCode != 0 {
		return nil, c.failure(res)
	}
	return parsePorcelain(res.stdout), nil
}

// IsDirty reports whether dir has uncommitted modifications.
func (c *Client) IsDirty(ctx context.Context, dir string) (bool, error) {
	files, err := c.ChangedFiles(ctx, dir)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// parsePorcelain extracts file names from porcelain v1 output.
func parsePorcelain(output string) []string {
	var files []string
	for _, line := range strings.Split(output, "\n") {
		if len(line) < 3 {
			continue
		}
		// "XY filename" or "XY original -> renamed"
		file := strings.TrimSpace(line[3:])
		if idx := strings.Index(file, " -> "); idx != -1 {
			file = file[idx+4:]
		}
		if file != "" {
			files = append(files, file)
		}
	}
	return files
}
