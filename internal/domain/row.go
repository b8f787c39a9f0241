package domain

import "strconv"

// Row is a decoded sensor sample ready for display.
// SequenceIndex is assigned by position and is only stable within one session buffer.
type Row struct {
	SequenceIndex int     `json:"id"`
	Timestamp     string  `json:"timestamp"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Altitude      float64 `json:"altitude"`
	AccelX        float64 `json:"accel_x"`
	AccelY        float64 `json:"accel_y"`
	AccelZ        float64 `json:"accel_z"`
	GyroX         float64 `json:"gyro_x"`
	GyroY         float64 `json:"gyro_y"`
	GyroZ         float64 `json:"gyro_z"`
	DAC1          float64 `json:"dac_1"`
	DAC2          float64 `json:"dac_2"`
	DAC3          float64 `json:"dac_3"`
	DAC4          float64 `json:"dac_4"`
}

// Column names a field of Row.
type Column string

const (
	ColID        Column = "id"
	ColTimestamp Column = "timestamp"
	ColLatitude  Column = "latitude"
	ColLongitude Column = "longitude"
	ColAltitude  Column = "altitude"
	ColAccelX    Column = "accel_x"
	ColAccelY    Column = "accel_y"
	ColAccelZ    Column = "accel_z"
	ColGyroX     Column = "gyro_x"
	ColGyroY     Column = "gyro_y"
	ColGyroZ     Column = "gyro_z"
	ColDAC1      Column = "dac_1"
	ColDAC2      Column = "dac_2"
	ColDAC3      Column = "dac_3"
	ColDAC4      Column = "dac_4"
)

// RowColumns is the full table header in display order.
var RowColumns = []Column{
	ColID, ColTimestamp,
	ColLatitude, ColLongitude, ColAltitude,
	ColAccelX, ColAccelY, ColAccelZ,
	ColGyroX, ColGyroY, ColGyroZ,
	ColDAC1, ColDAC2, ColDAC3, ColDAC4,
}

// Numeric reports whether the column holds a measurement.
func (c Column) Numeric() bool {
	return c != ColID && c != ColTimestamp
}

// Value returns a numeric column. The id column yields the sequence index; timestamp yields 0.
func (r Row) Value(c Column) float64 {
	switch c {
	case ColID:
		return float64(r.SequenceIndex)
	case ColLatitude:
		return r.Latitude
	case ColLongitude:
		return r.Longitude
	case ColAltitude:
		return r.Altitude
	case ColAccelX:
		return r.AccelX
	case ColAccelY:
		return r.AccelY
	case ColAccelZ:
		return r.AccelZ
	case ColGyroX:
		return r.GyroX
	case ColGyroY:
		return r.GyroY
	case ColGyroZ:
		return r.GyroZ
	case ColDAC1:
		return r.DAC1
	case ColDAC2:
		return r.DAC2
	case ColDAC3:
		return r.DAC3
	case ColDAC4:
		return r.DAC4
	}
	return 0
}

// Format renders a column as table text. Measurements are shown with six decimals.
func (r Row) Format(c Column) string {
	switch c {
	case ColID:
		return strconv.Itoa(r.SequenceIndex)
	case ColTimestamp:
		return r.Timestamp
	case ColLatitude, ColLongitude:
		return strconv.FormatFloat(r.Value(c), 'f', -1, 64)
	}
	return strconv.FormatFloat(r.Value(c), 'f', 6, 64)
}

// CSVHeader returns the export header.
func CSVHeader() []string {
	out := make([]string, len(RowColumns))
	for i, c := range RowColumns {
		out[i] = string(c)
	}
	return out
}

// CSVRecord renders the row in CSVHeader order with full float precision.
func (r Row) CSVRecord() []string {
	out := make([]string, len(RowColumns))
	for i, c := range RowColumns {
		switch c {
		case ColID:
			out[i] = strconv.Itoa(r.SequenceIndex)
		case ColTimestamp:
			out[i] = r.Timestamp
		default:
			out[i] = strconv.FormatFloat(r.Value(c), 'f', -1, 64)
		}
	}
	return out
}
