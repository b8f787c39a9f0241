package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/dashboard"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/loader"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/state"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/view"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/pkg/datadisplay"
)

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

const sparkWidth = 40

type palette struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	dim    lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	accent lipgloss.Style
}

func newPalette(r *lipgloss.Renderer, t view.Theme) palette {
	if t == view.LightMode {
		return palette{
			title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#1E66F5")).Padding(0, 1),
			header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E66F5")),
			cell:   r.NewStyle().Foreground(lipgloss.Color("#4C4F69")),
			dim:    r.NewStyle().Foreground(lipgloss.Color("#8C8FA1")),
			ok:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#40A02B")),
			warn:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#DF8E1D")),
			bad:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#D20F39")),
			accent: r.NewStyle().Foreground(lipgloss.Color("#8839EF")),
		}
	}
	return palette{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#CDD6F4")).Background(lipgloss.Color("#7C3AED")).Padding(0, 1),
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA")),
		cell:   r.NewStyle().Foreground(lipgloss.Color("#CDD6F4")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		ok:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		warn:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAB387")),
		bad:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		accent: r.NewStyle().Foreground(lipgloss.Color("#CBA6F7")),
	}
}

// termDisplay draws frames as styled text. Colors are dropped when out is not a terminal.
type termDisplay struct {
	mu       sync.Mutex
	out      io.Writer
	palettes map[view.Theme]palette
	clear    bool
}

func newTermDisplay(out io.Writer, clear bool) *termDisplay {
	r := lipgloss.NewRenderer(out)
	return &termDisplay{
		out: out,
		palettes: map[view.Theme]palette{
			view.DarkMode:  newPalette(r, view.DarkMode),
			view.LightMode: newPalette(r, view.LightMode),
		},
		clear: clear,
	}
}

func (d *termDisplay) Name() string { return "terminal" }

func (d *termDisplay) Show(f datadisplay.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.clear {
		if _, err := io.WriteString(d.out, "\x1b[H\x1b[2J"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(d.out, d.render(f)+"\n")
	return err
}

func (d *termDisplay) render(f datadisplay.Frame) string {
	theme := view.DarkMode
	if f.Data != nil {
		theme = f.Data.Theme
	}
	p := d.palettes[theme]

	var blocks []string
	blocks = append(blocks, p.title.Render("Data Display")+" "+p.dim.Render(f.At.Format("15:04:05")))

	if f.Layout.Has(state.PanelLogin) && !f.Account.LoggedIn {
		line := p.warn.Render("logged out")
		if f.Account.FailedAttempts > 0 {
			line += p.dim.Render(fmt.Sprintf("  (%d failed attempts)", f.Account.FailedAttempts))
		}
		blocks = append(blocks, line)
	}
	if f.Layout.Has(state.PanelAccount) {
		blocks = append(blocks, p.dim.Render("user ")+p.accent.Render(f.Account.Username))
	}
	if f.Layout.Has(state.PanelSessions) {
		blocks = append(blocks, renderSessions(p, f.Sessions, f.Selected, f.SessionsError))
	}
	if f.Layout.Has(state.PanelDevice) {
		blocks = append(blocks, renderDevice(p, f.Device))
	}
	if f.Layout.Has(state.PanelData) && f.Data != nil {
		blocks = append(blocks, renderData(p, f.Data))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderSessions(p palette, list []domain.Session, selected, errText string) string {
	var b strings.Builder
	b.WriteString(p.header.Render("Sessions"))
	if errText != "" {
		b.WriteString("  " + p.bad.Render(errText))
	}
	if len(list) == 0 {
		b.WriteString("\n  " + p.dim.Render("none"))
		return b.String()
	}
	for _, s := range list {
		id := fmt.Sprintf("%d", s.ID)
		if id == selected {
			b.WriteString("\n" + p.accent.Render("> session "+id))
			continue
		}
		b.WriteString("\n  " + p.cell.Render("session "+id))
	}
	return b.String()
}

func stateStyle(p palette, s loader.ConnState) lipgloss.Style {
	switch s {
	case loader.Online:
		return p.ok
	case loader.Offline, loader.Degraded:
		return p.bad
	}
	return p.warn
}

func renderDevice(p palette, dev dashboard.Device) string {
	line := p.header.Render("Device") + "  " + stateStyle(p, dev.State).Render(dev.State.String())
	if dev.Cursor.SessionID != "" {
		line += p.dim.Render(fmt.Sprintf("  session %s  %d points  last %s",
			dev.Cursor.SessionID, dev.Cursor.RawCount, dev.Cursor.LastSeen))
	}
	if dev.Failures > 0 {
		line += "\n  " + p.bad.Render(fmt.Sprintf("%d failed fetches: %s", dev.Failures, dev.LastError))
	}
	return line
}

func renderData(p palette, s *datadisplay.DataSnapshot) string {
	order := "newest first"
	if s.Ascending {
		order = "oldest first"
	}
	pages := s.PageCount
	if pages < 1 {
		pages = 1
	}
	blocks := []string{
		p.header.Render(s.Selection.String()) +
			p.dim.Render(fmt.Sprintf("  %s  page %d/%d  %d rows  %s", s.Display, s.Page+1, pages, s.Total, order)),
	}
	if s.Panes.Table {
		blocks = append(blocks, renderTable(p, s.Columns, s.Rows))
		if len(s.Averages) > 0 {
			blocks = append(blocks, renderAverages(p, s.Averages))
		}
	}
	if s.Panes.Graph {
		blocks = append(blocks, renderSeries(p, s.Series))
	}
	if s.Panes.Map {
		blocks = append(blocks, renderPosition(p, s.Rows))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderTable(p palette, cols []domain.Column, rows []domain.Row) string {
	if len(rows) == 0 {
		return p.dim.Render("waiting for data")
	}
	widths := make([]int, len(cols))
	cells := make([][]string, len(rows))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			v := row.Format(c)
			cells[r][i] = v
			if w := lipgloss.Width(v); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(p.header.Width(widths[i]).Render(string(c)))
	}
	for _, line := range cells {
		b.WriteString("\n")
		for i, v := range line {
			if i > 0 {
				b.WriteString("  ")
			}
			st := p.cell.Width(widths[i])
			if cols[i].Numeric() {
				st = st.Align(lipgloss.Right)
			}
			b.WriteString(st.Render(v))
		}
	}
	return b.String()
}

func renderAverages(p palette, avgs []view.Average) string {
	parts := make([]string, 0, len(avgs))
	for _, a := range avgs {
		parts = append(parts, fmt.Sprintf("%s %.6f", a.Column, a.Mean))
	}
	return p.dim.Render("avg  ") + p.cell.Render(strings.Join(parts, "  "))
}

func renderSeries(p palette, series []view.Series) string {
	if len(series) == 0 {
		return p.dim.Render("no graph for this selection")
	}
	var b strings.Builder
	for i, s := range series {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.header.Width(8).Render(string(s.Column)))
		b.WriteString(" ")
		b.WriteString(p.accent.Render(sparkline(s.Points, sparkWidth)))
	}
	return b.String()
}

// sparkline draws the last width points scaled between their min and max.
func sparkline(points []view.Point, width int) string {
	if len(points) == 0 {
		return ""
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, pt := range points {
		lo = math.Min(lo, pt.Y)
		hi = math.Max(hi, pt.Y)
	}
	out := make([]rune, len(points))
	for i, pt := range points {
		idx := 0
		if hi > lo {
			idx = int(math.Round((pt.Y - lo) / (hi - lo) * float64(len(sparkTicks)-1)))
		}
		out[i] = sparkTicks[idx]
	}
	return string(out)
}

// renderPosition shows the newest fix on the page.
func renderPosition(p palette, rows []domain.Row) string {
	if len(rows) == 0 {
		return p.dim.Render("no position yet")
	}
	latest := rows[0]
	for _, r := range rows[1:] {
		if domain.CompareTimestamps(r.Timestamp, latest.Timestamp) > 0 {
			latest = r
		}
	}
	return p.header.Render("Position") + "  " + p.cell.Render(fmt.Sprintf("lat %s  lon %s  alt %.2f m",
		latest.Format(domain.ColLatitude), latest.Format(domain.ColLongitude), latest.Altitude))
}
