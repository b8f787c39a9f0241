package window

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/format"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/loader"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/pager"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/view"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

var ErrNoSession = errors.New("no session selected")

// DataWindow is the live table of one session: loader, formatter and pager behind
// the dropdown state of the view selector.
type DataWindow struct {
	loader    *loader.Loader
	formatter *format.Formatter
	pager     *pager.Pager
	journal   ports.Journal
	obs       ports.Observability

	epoch     uint64
	selection view.Selection
	display   view.DisplayType
	theme     view.Theme
}

// New wires a data window. journal may be nil.
func New(gw ports.Gateway, q ports.ResultQueue, pol ports.Policy, obs ports.Observability, journal ports.Journal) *DataWindow {
	pol = pol.WithDefaults()
	return &DataWindow{
		loader:    loader.New(gw, q, pol, obs),
		formatter: format.NewFormatter(obs),
		pager:     pager.New(pol.PageSize),
		journal:   journal,
		obs:       obs,
		selection: view.AccelData,
		display:   view.Table,
		theme:     view.DarkMode,
	}
}

// Tick is one UI frame: poll, fold in whatever fetches completed, format the new tail
// and clamp the page index.
func (w *DataWindow) Tick(ctx context.Context, sessionID string, now time.Time) loader.Decision {
	d := w.loader.Poll(ctx, sessionID, now)

	accepted := w.loader.Drain(now)
	if len(accepted) > 0 && w.journal != nil {
		if _, err := w.journal.Append(sessionID, accepted); err != nil {
			w.obs.LogError("journal_append_failed", err, ports.Field{Key: "session", Value: sessionID})
		}
		w.obs.SetGauge("datadisplay_journal_size_bytes", float64(w.journal.Stats().SizeBytes))
	}

	w.refresh()
	return d
}

// Reset discards the raw and display buffers and returns to the first page.
func (w *DataWindow) Reset() {
	w.loader.Reset()
	w.pager.First()
	w.refresh()
}

// Wait blocks until in-flight fetches have queued their results.
func (w *DataWindow) Wait() { w.loader.Wait() }

func (w *DataWindow) refresh() {
	if epoch := w.loader.Epoch(); epoch != w.epoch {
		w.formatter.Reset()
		w.epoch = epoch
	}
	if w.loader.Dirty() {
		w.formatter.Format(w.loader.Cursor().SessionID, w.loader.Raw())
		w.loader.MarkClean()
	}
	w.pager.Clamp(w.formatter.Len())
	w.obs.SetGauge("datadisplay_display_rows", float64(w.formatter.Len()))
}

func (w *DataWindow) ToggleSort() {
	w.formatter.Toggle()
}

func (w *DataWindow) SetAscending(ascending bool) {
	w.formatter.SetAscending(ascending)
}

func (w *DataWindow) NextPage() { w.pager.Next() }
func (w *DataWindow) PrevPage() { w.pager.Prev() }
func (w *DataWindow) FirstPage() { w.pager.First() }
func (w *DataWindow) LastPage() { w.pager.Last() }
func (w *DataWindow) GoToPage(i int) { w.pager.Go(i) }

func (w *DataWindow) SetSelection(s view.Selection) { w.selection = s }
func (w *DataWindow) SetDisplay(d view.DisplayType) { w.display = d }
func (w *DataWindow) SetTheme(t view.Theme) { w.theme = t }

// State is the connection state of the backend as seen by the loader.
func (w *DataWindow) State() loader.ConnState { return w.loader.State() }

// Snapshot is an immutable copy of what the data window shows this frame.
type Snapshot struct {
	SessionID string
	Selection view.Selection
	Display   view.DisplayType
	Theme     view.Theme
	Panes     view.Panes
	Columns   []domain.Column

	Rows      []domain.Row
	Page      int
	PageCount int
	PageSize  int
	Total     int
	Ascending bool

	Averages []view.Average
	Series   []view.Series

	Cursor    domain.Cursor
	State     loader.ConnState
	Failures  int
	LastError string
}

func (w *DataWindow) Snapshot() Snapshot {
	rows := w.formatter.Rows()
	page := pager.Current(w.pager, rows)

	s := Snapshot{
		SessionID: w.loader.Cursor().SessionID,
		Selection: w.selection,
		Display:   w.display,
		Theme:     w.theme,
		Panes:     w.display.Panes(),
		Columns:   view.Columns(w.selection),
		Rows:      append([]domain.Row(nil), page...),
		Page:      w.pager.Index(),
		PageCount: w.pager.PageCount(),
		PageSize:  w.pager.Size(),
		Total:     len(rows),
		Ascending: w.formatter.Ascending(),
		Cursor:    w.loader.Cursor(),
		State:     w.loader.State(),
		Failures:  w.loader.Failures(),
	}
	if err := w.loader.LastError(); err != nil {
		s.LastError = err.Error()
	}
	if s.Panes.Table {
		s.Averages = view.Averages(rows, view.Charted(w.selection))
	}
	if s.Panes.Graph {
		s.Series = view.BuildSeries(w.formatter.AscendingRows(), view.Charted(w.selection))
	}
	return s
}

// Export writes the whole display buffer to sink in ascending order.
func (w *DataWindow) Export(sink ports.RowSink) (int, error) {
	sessionID := w.loader.Cursor().SessionID
	if sessionID == "" {
		return 0, ErrNoSession
	}
	rows := w.formatter.AscendingRows()
	if err := sink.WriteBatch(sessionID, rows); err != nil {
		return 0, fmt.Errorf("export to %s: %w", sink.Name(), err)
	}
	w.obs.IncCounter("datadisplay_rows_exported_total", float64(len(rows)))
	return len(rows), nil
}
