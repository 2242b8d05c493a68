package fixedwidth

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EndOfTransmission stops reading when a line consists of it.
const EndOfTransmission = "#EOT"

// Group is a run of consecutive lines sharing one key value.
type Group struct {
	Key   string
	Lines []string
}

// Splitter groups a fixed-width file by a key field.
type Splitter struct {
	key Field
}

// NewSplitter returns a splitter keyed on the 1-based inclusive columns start..end.
func NewSplitter(start, end int) *Splitter {
	return &Splitter{key: Field{Start: start, End: end}}
}

// Groups reads path and returns its key groups in file order.
// A first line starting with "#" is skipped, blank lines are dropped
// without closing the current group, and reading stops at the first
// end-of-transmission line. Only a failure to read the file is an error.
func (s *Splitter) Groups(path string) ([]Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open split source: %w", err)
	}
	defer f.Close()

	var groups []Group
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if first {
			first = false
			if strings.HasPrefix(trimmed, "#") {
				continue
			}
		}
		if trimmed == EndOfTransmission {
			break
		}
		if trimmed == "" {
			continue
		}

		key := s.key.Slice(line)
		if n := len(groups); n == 0 || groups[n-1].Key != key {
			groups = append(groups, Group{Key: key})
		}
		g := &groups[len(groups)-1]
		g.Lines = append(g.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read split source: %w", err)
	}
	return groups, nil
}

// Split writes each key group of path to its own file in outDir and
// returns the written paths in group order. Files are named after the
// key; a key seen again later in the file gets the first numeric
// suffix no other unit in this split already uses.
func (s *Splitter) Split(path, outDir string) ([]string, error) {
	groups, err := s.Groups(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create split dir: %w", err)
	}

	used := make(map[string]bool, len(groups))
	paths := make([]string, 0, len(groups))
	for _, g := range groups {
		name := uniqueName(fileKey(g.Key), used)
		out := filepath.Join(outDir, name+".txt")
		body := strings.Join(g.Lines, "\n") + "\n"
		if err := os.WriteFile(out, []byte(body), 0o644); err != nil {
			return paths, fmt.Errorf("write split unit %s: %w", g.Key, err)
		}
		paths = append(paths, out)
	}
	return paths, nil
}

// uniqueName returns base, or base_N with the smallest N >= 2, whichever
// is not yet in used, and marks it used.
func uniqueName(base string, used map[string]bool) string {
	name := base
	for n := 2; used[name]; n++ {
		name = base + "_" + strconv.Itoa(n)
	}
	used[name] = true
	return name
}

// fileKey makes a key safe to use as a file name.
func fileKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "unkeyed"
	}
	return name
}
