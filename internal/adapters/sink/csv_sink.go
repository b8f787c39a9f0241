package sink

import (
	"encoding/csv"
	"io"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

// CSVSink writes rows with a header line. The header is written once per sink.
type CSVSink struct {
	w           *csv.Writer
	wroteHeader bool
}

func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

func (c *CSVSink) Name() string { return "csv" }

func (c *CSVSink) WriteBatch(_ string, rows []domain.Row) error {
	if !c.wroteHeader {
		if err := c.w.Write(domain.CSVHeader()); err != nil {
			return err
		}
		c.wroteHeader = true
	}
	for _, r := range rows {
		if err := c.w.Write(r.CSVRecord()); err != nil {
			return err
		}
	}
	c.w.Flush()
	return c.w.Error()
}

var _ ports.RowSink = (*CSVSink)(nil)
