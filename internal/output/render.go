package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/AnshRaj112/serenify-companion/internal/services"
)

// Table is a minimal column-aligned table.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &Table{headers: headers, widths: widths}
}

func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	for i := range t.headers {
		if i < len(values) {
			row[i] = values[i]
		}
		if len(row[i]) > t.widths[i] {
			t.widths[i] = len(row[i])
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Render() string {
	var sb strings.Builder
	for i, h := range t.headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(StyleHeader.Render(pad(h, t.widths[i])))
	}
	sb.WriteString("\n")
	for i, w := range t.widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(StyleMuted.Render(strings.Repeat("─", w)))
	}
	sb.WriteString("\n")
	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(pad(cell, t.widths[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// FormatMinutes drops a trailing ".0" so whole minutes print as integers.
func FormatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func metric(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s%s\n", StyleLabel.Render(label), StyleValue.Render(value))
}

// RenderDashboard writes a user's summary followed by a per-type breakdown.
func RenderDashboard(w io.Writer, userID string, s services.DashboardSummary) {
	fmt.Fprintln(w, StyleHeader.Render("Dashboard for "+userID))
	fmt.Fprintln(w)

	metric(w, "Total minutes", FormatMinutes(s.TotalMinutes))
	metric(w, "Sessions", strconv.Itoa(s.TotalSessions))

	streak := fmt.Sprintf("%d day", s.Streak)
	if s.Streak != 1 {
		streak += "s"
	}
	if s.Streak > 1 {
		streak = StyleSuccess.Render(streak)
	}
	metric(w, "Streak", streak)

	last := s.LastActivity
	if s.LastActivityName != "" {
		last += " (" + s.LastActivityName + ")"
	}
	metric(w, "Last activity", last)

	if len(s.ByType) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleMuted.Render("No activity recorded yet."))
		return
	}

	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)

	table := NewTable("Type", "Minutes", "Sessions", "Share")
	for _, t := range types {
		b := s.ByType[t]
		table.AddRow(t, FormatMinutes(b.Minutes), strconv.Itoa(b.Sessions), strconv.FormatFloat(b.Progress, 'f', 1, 64)+"%")
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, table.Render())
}

// RenderReward writes the xp, badge and distance to the next badge.
func RenderReward(w io.Writer, r services.Reward) {
	metric(w, "XP", strconv.Itoa(r.XP))
	metric(w, "Badge", r.Badge)
	if r.NextBadge != "" {
		metric(w, "Next badge", fmt.Sprintf("%s in %d xp", r.NextBadge, r.XPToNextBadge))
	} else {
		metric(w, "Next badge", StyleWarning.Render("top tier reached"))
	}
}
