package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// Ensure LocalChannel implements the interface.
var _ driven.TransferChannel = (*LocalChannel)(nil)

// LocalChannel transfers files between directories on the local disk.
type LocalChannel struct {
	baseDir string
}

// NewLocalChannel creates a channel rooted at baseDir.
func NewLocalChannel(baseDir string) *LocalChannel {
	return &LocalChannel{baseDir: baseDir}
}

// resolve maps a channel path below the base directory. Absolute paths
// already inside the base directory are kept; any other leading slash is
// treated as the channel root.
func (c *LocalChannel) resolve(p string) string {
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(c.baseDir, p); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Clean(p)
		}
	}
	return filepath.Join(c.baseDir, strings.TrimLeft(filepath.ToSlash(p), "/"))
}

// Fetch copies every regular file in sourceDir into localDir.
func (c *LocalChannel) Fetch(ctx context.Context, sourceDir, localDir string) ([]string, error) {
	src := c.resolve(sourceDir)
	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrTransfer, src, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if !e.Type().IsRegular() {
			continue
		}
		dst := filepath.Join(localDir, e.Name())
		if err := copyFile(filepath.Join(src, e.Name()), dst); err != nil {
			return out, fmt.Errorf("%w: fetch %s: %v", domain.ErrTransfer, e.Name(), err)
		}
		out = append(out, dst)
	}
	return out, nil
}

// Deliver copies localPath to destDir/name.
func (c *LocalChannel) Deliver(_ context.Context, localPath, destDir, name string) (string, error) {
	dst := filepath.Join(c.resolve(destDir), name)
	if err := copyFile(localPath, dst); err != nil {
		return "", fmt.Errorf("%w: deliver %s: %v", domain.ErrTransfer, name, err)
	}
	return dst, nil
}

// Move copies localCopy into destDir, removes the source and falls back to a rename.
func (c *LocalChannel) Move(_ context.Context, sourceDir, name, localCopy, destDir string) error {
	src := filepath.Join(c.resolve(sourceDir), name)
	dst := filepath.Join(c.resolve(destDir), name)
	if localCopy == "" {
		localCopy = src
	}
	return move(
		func() error { return copyFile(localCopy, dst) },
		func() error { return os.Remove(src) },
		func() error {
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			return os.Rename(src, dst)
		},
	)
}

// Close is a no-op.
func (c *LocalChannel) Close() error {
	return nil
}

func copyFile(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return copyToFile(dst, f)
}
