package base

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// WriteCSV writes an RFC 4180 file with CRLF line endings and an optional
// header row, quoting only where needed. Rows counts data rows only.
func WriteCSV(path string, header []string, rows [][]string) (domain.Artifact, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Artifact{}, err
	}
	f, err := os.Create(path)
	if err != nil {
		return domain.Artifact{}, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return domain.Artifact{}, fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return domain.Artifact{}, fmt.Errorf("write rows: %w", err)
	}
	return domain.Artifact{Path: path, Rows: len(rows)}, f.Close()
}

// WriteLines writes pre-formatted records, each terminated by a newline.
// header, when non-empty, is written first and not counted as a row.
func WriteLines(path, header string, lines []string) (domain.Artifact, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Artifact{}, err
	}
	var b strings.Builder
	if header != "" {
		b.WriteString(header + "\n")
	}
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Path: path, Rows: len(lines)}, nil
}

// Join joins values with commas and no quoting.
func Join(values ...string) string {
	return strings.Join(values, ",")
}

// Quote wraps s in double quotes, doubling any quotes inside it.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// QuoteAll quotes every value and joins them with commas.
func QuoteAll(values ...string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Quote(v)
	}
	return strings.Join(quoted, ",")
}
