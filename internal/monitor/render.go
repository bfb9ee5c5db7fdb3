package monitor

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/morezero/skill-dispatcher/pkg/db"
	"github.com/morezero/skill-dispatcher/pkg/events"
)

type styles struct {
	dim    lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	kind   lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
}

// newStyles binds styles to w so colors are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		dim:    r.NewStyle().Faint(true),
		ok:     r.NewStyle().Foreground(lipgloss.Color("#00AA00")).Bold(true),
		err:    r.NewStyle().Foreground(lipgloss.Color("#CC0000")).Bold(true),
		kind:   r.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		header: r.NewStyle().Bold(true).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
	}
}

func (s styles) outcome(outcome string) string {
	if outcome == events.OutcomeError {
		return s.err.Render(outcome)
	}
	return s.ok.Render(outcome)
}

// formatEvent renders one event as a single line.
func (s styles) formatEvent(ev *events.DispatchedEvent) string {
	var b strings.Builder
	b.WriteString(s.dim.Render(ev.Timestamp))
	b.WriteString(" ")
	b.WriteString(s.kind.Render(ev.Kind))
	if ev.Intent != "" {
		b.WriteString("/" + ev.Intent)
	}
	b.WriteString(" route=" + ev.Route)
	b.WriteString(" " + s.outcome(ev.Outcome))
	b.WriteString(fmt.Sprintf(" %dms", ev.DurationMs))
	if ev.RequestID != "" {
		b.WriteString(s.dim.Render(" req=" + ev.RequestID))
	}
	if ev.Error != "" {
		b.WriteString(" " + s.err.Render(ev.Error))
	}
	return b.String()
}

func (s styles) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.dim).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func deref(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

// PrintRecent writes dispatch-log rows as a table, newest first as given.
func PrintRecent(w io.Writer, records []db.DispatchRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No dispatches recorded.")
		return err
	}

	s := newStyles(w)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.DispatchedAt.UTC().Format(time.RFC3339),
			r.Kind,
			deref(r.Intent),
			r.Route,
			s.outcome(r.Outcome),
			strconv.FormatInt(r.DurationMs, 10),
			deref(r.RequestID),
			deref(r.Error),
		})
	}
	_, err := fmt.Fprintln(w, s.table(
		[]string{"DISPATCHED AT", "KIND", "INTENT", "ROUTE", "OUTCOME", "MS", "REQUEST", "ERROR"},
		rows,
	))
	return err
}

// PrintRouteCounts writes per kind/route totals as a table.
func PrintRouteCounts(w io.Writer, counts []db.RouteCount) error {
	if len(counts) == 0 {
		return nil
	}

	s := newStyles(w)
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Kind, c.Route, strconv.Itoa(c.Count), strconv.Itoa(c.Errors)})
	}
	_, err := fmt.Fprintln(w, s.table([]string{"KIND", "ROUTE", "COUNT", "ERRORS"}, rows))
	return err
}
