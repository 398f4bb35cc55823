// ABOUTME: Audit screen listing recent mutations newest first
// ABOUTME: Shows outcome, target, age and a latency sparkline

package audit

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/markalston/employee-console/internal/mutation"
	"github.com/markalston/employee-console/internal/tui/icons"
	"github.com/markalston/employee-console/internal/tui/styles"
	"github.com/markalston/employee-console/internal/tui/widgets"
)

// View renders a mutation trail
type View struct {
	entries []mutation.Entry
	width   int
	height  int
	now     func() time.Time
}

// New creates the audit view
func New(width, height int, now func() time.Time) *View {
	if now == nil {
		now = time.Now
	}
	return &View{width: width, height: height, now: now}
}

// SetSize updates the view dimensions
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetEntries replaces the rendered entries (oldest first, as the trail keeps them)
func (v *View) SetEntries(entries []mutation.Entry) {
	v.entries = entries
}

func (v *View) String() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.History.String() + " Activity"))
	sb.WriteString("\n")

	if len(v.entries) == 0 {
		sb.WriteString(styles.Subtitle.Render("No changes recorded in this session"))
		return sb.String()
	}

	failed := 0
	durations := make([]time.Duration, 0, len(v.entries))
	for _, e := range v.entries {
		durations = append(durations, e.Duration)
		if !e.OK() {
			failed++
		}
	}
	summary := fmt.Sprintf("%d changes, %d failed  latency ", len(v.entries), failed)
	sb.WriteString(styles.Subtitle.Render(summary + widgets.Sparkline(widgets.DurationSeries(durations), 24, styles.Primary)))
	sb.WriteString("\n")

	rows := slices.Clone(v.entries)
	slices.Reverse(rows)
	limit := max(1, v.height-4)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	for _, e := range rows {
		sb.WriteString(v.line(e))
		sb.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(max(v.width, 40)).Render(sb.String())
}

func (v *View) line(e mutation.Entry) string {
	level, outcome := widgets.StatusOK, "ok"
	if !e.OK() {
		level, outcome = widgets.StatusCritical, e.Err.Error()
	}

	target := e.Resource
	if e.TargetID != "" {
		target += "/" + e.TargetID
	}
	age := humanize.RelTime(e.At, v.now(), "ago", "from now")

	return fmt.Sprintf("%s %-12s %-20s %s  %s",
		widgets.StatusIcon(level),
		e.Label,
		target,
		lipgloss.NewStyle().Foreground(styles.Muted).Render(fmt.Sprintf("%-14s %6s", age, e.Duration.Round(time.Millisecond))),
		outcome,
	)
}
