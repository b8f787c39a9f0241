package sink

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
	"github.com/lib/pq"
)

const (
	rowArgs = 16
	// Postgres accepts at most 65535 bind parameters per statement.
	maxRowsPerInsert = 65535 / rowArgs
)

// CreateTableSQL returns the DDL for an export table.
func CreateTableSQL(table string) string {
	return "CREATE TABLE IF NOT EXISTS " + pq.QuoteIdentifier(table) + ` (
	session_id text NOT NULL,
	sequence_index integer NOT NULL,
	ts text NOT NULL,
	latitude double precision, longitude double precision, altitude double precision,
	accel_x double precision, accel_y double precision, accel_z double precision,
	gyro_x double precision, gyro_y double precision, gyro_z double precision,
	dac_1 double precision, dac_2 double precision, dac_3 double precision, dac_4 double precision,
	PRIMARY KEY (session_id, sequence_index)
)`
}

type PostgresSink struct {
	db        *sql.DB
	tableName string
}

func NewPostgresSink(db *sql.DB, table string) *PostgresSink {
	return &PostgresSink{db: db, tableName: table}
}

func (p *PostgresSink) Name() string { return "postgres" }

// EnsureTable creates the export table when it does not exist.
func (p *PostgresSink) EnsureTable() error {
	_, err := p.db.Exec(CreateTableSQL(p.tableName))
	return err
}

// WriteBatch inserts rows in chunks that stay under the Postgres bind parameter limit.
// All chunks share one transaction, so a failed export leaves nothing behind.
func (p *PostgresSink) WriteBatch(sessionID string, rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	for start := 0; start < len(rows); start += maxRowsPerInsert {
		end := start + maxRowsPerInsert
		if end > len(rows) {
			end = len(rows)
		}
		query, args := p.insert(sessionID, rows[start:end])
		if _, err := tx.Exec(query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
	}
	return tx.Commit()
}

func (p *PostgresSink) insert(sessionID string, rows []domain.Row) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(pq.QuoteIdentifier(p.tableName))
	b.WriteString(" (session_id, sequence_index, ts, latitude, longitude, altitude, accel_x, accel_y, accel_z, gyro_x, gyro_y, gyro_z, dac_1, dac_2, dac_3, dac_4) VALUES ")

	args := make([]any, 0, len(rows)*rowArgs)
	for i, r := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(")
		for k := 1; k <= rowArgs; k++ {
			if k > 1 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "$%d", len(args)+k)
		}
		b.WriteString(")")

		args = append(args,
			sessionID, r.SequenceIndex, r.Timestamp,
			r.Latitude, r.Longitude, r.Altitude,
			r.AccelX, r.AccelY, r.AccelZ,
			r.GyroX, r.GyroY, r.GyroZ,
			r.DAC1, r.DAC2, r.DAC3, r.DAC4,
		)
	}

	// re-exporting a session is idempotent through the primary key
	b.WriteString(" ON CONFLICT (session_id, sequence_index) DO NOTHING")
	return b.String(), args
}

var _ ports.RowSink = (*PostgresSink)(nil)
