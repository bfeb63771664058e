package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Registration is a nested repository entry from .gitmodules.
type Registration struct {
	Name   string
	Path   string
	URL    string
	Branch string
}

// SubmoduleName returns the name of the .gitmodules entry whose path equals
// relPath. The bool is false when .gitmodules is absent or has no such entry.
func (c *Client) SubmoduleName(ctx context.Context, root, relPath string) (string, bool, error) {
	if _, err := os.Stat(filepath.Join(root, ".gitmodules")); err != nil {
		return "", false, nil
	}
	res, err := c.exec(ctx, runOpts{dir: root},
		"config", "-f", ".gitmodules", "--get-regexp", `^submodule\..*\.path$`)
	if err != nil {
		return "", false, err
	}
	if res.exitCode != 0 {
		return "", false, nil
	}
	name, ok := parseSubmoduleName(res.stdout, relPath)
	return name, ok, nil
}

// parseSubmoduleName scans `submodule.<name>.path <value>` lines.
func parseSubmoduleName(output, relPath string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
		if len(fields) != 2 {
			continue
		}
		key, value := fields[0], strings.TrimSpace(fields[1])
		if value != relPath {
			continue
		}
		if !strings.HasPrefix(key, "submodule.") || !strings.HasSuffix(key, ".path") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(key, "submodule."), ".path")
		if name == "" {
			continue
		}
		return name, true
	}
	return "", false
}

// Registration reads the URL and branch recorded for relPath in .gitmodules.
func (c *Client) Registration(ctx context.Context, root, relPath string) (Registration, bool, error) {
	name, ok, err := c.SubmoduleName(ctx, root, relPath)
	if err != nil || !ok {
		return Registration{}, false, err
	}

	url, err := c.run(ctx, runOpts{dir: root}, "config", "-f", ".gitmodules", "--get", "submodule."+name+".url")
	if err != nil {
		return Registration{}, false, err
	}

	// branch is optional; --get exits 1 when it is unset
	res, err := c.exec(ctx, runOpts{dir: root}, "config", "-f", ".gitmodules", "--get", "submodule."+name+".branch")
	if err != nil {
		return Registration{}, false, err
	}
	branch := ""
	if res.exitCode == 0 {
		branch = strings.TrimSpace(res.stdout)
	}

	return Registration{Name: name, Path: relPath, URL: url, Branch: branch}, true, nil
}

// AddSubmodule registers url at relPath tracking branch.
func (c *Client) AddSubmodule(ctx context.Context, root, url, branch, relPath string, allowFileProtocol bool) error {
	_, err := c.run(ctx, runOpts{dir: root, allowFileProtocol: allowFileProtocol},
		"submodule", "add", "-b", branch, "--", url, relPath)
	return err
}

// UpdateSubmodule checks out relPath at depth 1, initializing it if needed.
func (c *Client) UpdateSubmodule(ctx context.Context, root, relPath string, allowFileProtocol bool) error {
	_, err := c.run(ctx, runOpts{dir: root, allowFileProtocol: allowFileProtocol},
		"submodule", "update", "--init", "--depth", "1", "--", relPath)
	return err
}

// IsRepo reports whether dir is the top level of a git work tree. A plain
// directory nested inside another repository is not a repo of its own.
func (c *Client) IsRepo(ctx context.Context, dir string) bool {
	res, err := c.exec(ctx, runOpts{dir: dir}, "rev-parse", "--show-toplevel")
	if err != nil || res.exitCode != 0 {
		return false
	}
	return samePath(strings.TrimSpace(res.stdout), dir)
}

func samePath(a, b string) bool {
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		ra = a
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		rb = b
	}
	ra, _ = filepath.Abs(ra)
	rb, _ = filepath.Abs(rb)
	return filepath.Clean(ra) == filepath.Clean(rb)
}
