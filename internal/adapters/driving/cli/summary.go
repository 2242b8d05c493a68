package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = cellStyle.Foreground(lipgloss.Color("2"))
	failStyle   = cellStyle.Foreground(lipgloss.Color("1"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// renderSummary formats a run summary for the terminal.
func renderSummary(s domain.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s run %s (%s)\n",
		titleStyle.Render(s.Flow.Key()), s.Flow.Direction, s.RunID, s.Duration().Round(time.Millisecond))

	if s.Flow.Direction == domain.DirectionOutbound {
		t := newTable("File", "Status")
		for _, f := range s.Delivered {
			t.Row(filepath.Base(f), okStyle.Render("delivered"))
		}
		for _, sk := range s.Skipped {
			t.Row(filepath.Base(sk.Path), "skipped: "+string(sk.Reason))
		}
		b.WriteString(t.String())
		fmt.Fprintf(&b, "\n%d delivered, %d skipped, %d kept locally", len(s.Delivered), len(s.Skipped), s.Fallbacks)
		return b.String()
	}

	t := newTable("File", "Units", "Failed", "Result")
	for _, f := range s.Files {
		result := okStyle.Render("archived")
		if !f.Success() {
			result = failStyle.Render("dead-lettered")
		}
		if f.Disposition == "" {
			result += " (not moved)"
		}
		t.Row(filepath.Base(f.File), fmt.Sprint(len(f.Units)), fmt.Sprint(len(f.Failed())), result)
	}
	for _, e := range s.Excluded {
		t.Row(filepath.Base(e), "-", "-", "excluded")
	}
	b.WriteString(t.String())
	fmt.Fprintf(&b, "\n%d succeeded, %d failed, %d excluded", s.Succeeded(), s.FailedFiles(), len(s.Excluded))
	return b.String()
}

// renderFlows formats the configured flows as a table.
func renderFlows(flows []domain.FlowDefinition) string {
	t := newTable("Partner", "Direction", "Flow", "Converter", "Transfer", "Split")
	for _, f := range flows {
		split := "-"
		if f.Split.Enabled {
			split = fmt.Sprintf("%d-%d", f.Split.FieldStart, f.Split.FieldEnd)
		}
		t.Row(f.Partner, string(f.Direction), f.Name, f.Converter, string(f.Mode()), split)
	}
	return t.String()
}
