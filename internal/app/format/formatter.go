package format

import (
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

// Formatter turns the loader's raw buffer into display rows incrementally.
// Only the tail that arrived since the previous call is decoded.
type Formatter struct {
	rows      []domain.Row
	formatted int
	ascending bool
	obs       ports.Observability
}

func NewFormatter(obs ports.Observability) *Formatter {
	return &Formatter{ascending: true, obs: obs}
}

// Format appends rows for raw[formatted:] and returns how many rows were added.
func (f *Formatter) Format(sessionID string, raw []domain.RawDatapoint) int {
	if f.formatted > len(raw) {
		// buffer shrank under us (session reset); start over
		f.formatted = 0
		f.rows = f.rows[:0]
	}

	tail := raw[f.formatted:]
	if len(tail) == 0 {
		return 0
	}

	reversed := false
	if !f.ascending {
		reverse(f.rows)
		reversed = true
	}

	added := 0
	for offset, p := range tail {
		row, err := Decode(p)
		if err != nil {
			if f.obs != nil {
				f.obs.RecordDecodeFailure(sessionID, p, err)
			}
			continue
		}
		row.SequenceIndex = f.formatted + offset
		f.rows = append(f.rows, row)
		added++
	}

	if reversed {
		reverse(f.rows)
	}

	f.formatted = len(raw)
	if f.obs != nil && added > 0 {
		f.obs.IncCounter("datadisplay_rows_formatted_total", float64(added))
	}
	return added
}

// SetAscending changes sort direction, reversing the buffer in place when it flips.
func (f *Formatter) SetAscending(ascending bool) {
	if f.ascending == ascending {
		return
	}
	f.ascending = ascending
	reverse(f.rows)
}

func (f *Formatter) Toggle() {
	f.SetAscending(!f.ascending)
}

func (f *Formatter) Ascending() bool { return f.ascending }

// Formatted is the number of raw datapoints consumed so far, decode failures included.
func (f *Formatter) Formatted() int { return f.formatted }

func (f *Formatter) Len() int { return len(f.rows) }

// Rows exposes the display buffer. Callers must not modify it.
func (f *Formatter) Rows() []domain.Row { return f.rows }

// AscendingRows returns a copy of the buffer in ascending sequence order.
func (f *Formatter) AscendingRows() []domain.Row {
	out := make([]domain.Row, len(f.rows))
	copy(out, f.rows)
	if !f.ascending {
		reverse(out)
	}
	return out
}

func (f *Formatter) Reset() {
	f.rows = f.rows[:0]
	f.formatted = 0
}

func reverse(rows []domain.Row) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
