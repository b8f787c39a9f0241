package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
)

const blobFields = 13

var ErrEmptyPayload = errors.New("empty data_blob")

// blob is the structured payload shape. Pointers detect missing fields.
type blob struct {
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Alt    *float64 `json:"alt"`
	AccelX *float64 `json:"accel_x"`
	AccelY *float64 `json:"accel_y"`
	AccelZ *float64 `json:"accel_z"`
	GyroX  *float64 `json:"gyro_x"`
	GyroY  *float64 `json:"gyro_y"`
	GyroZ  *float64 `json:"gyro_z"`
	DAC1   *float64 `json:"dac_1"`
	DAC2   *float64 `json:"dac_2"`
	DAC3   *float64 `json:"dac_3"`
	DAC4   *float64 `json:"dac_4"`
}

func (b blob) values() ([blobFields]float64, error) {
	var out [blobFields]float64
	fields := [blobFields]*float64{
		b.Lat, b.Lon, b.Alt,
		b.AccelX, b.AccelY, b.AccelZ,
		b.GyroX, b.GyroY, b.GyroZ,
		b.DAC1, b.DAC2, b.DAC3, b.DAC4,
	}
	for i, f := range fields {
		if f == nil {
			return out, fmt.Errorf("missing field %s", domain.RowColumns[i+2])
		}
		out[i] = *f
	}
	return out, nil
}

// Decode turns a raw datapoint into a row. The payload may be a comma separated string,
// a structured object, a JSON string wrapping either, or a 13 element array.
// The sequence index is left for the caller to assign.
func Decode(p domain.RawDatapoint) (domain.Row, error) {
	vals, err := decodePayload(p.Payload, true)
	if err != nil {
		return domain.Row{}, fmt.Errorf("datapoint %d: %w", p.ID, err)
	}
	return domain.Row{
		Timestamp: p.Timestamp,
		Latitude:  vals[0],
		Longitude: vals[1],
		Altitude:  vals[2],
		AccelX:    vals[3],
		AccelY:    vals[4],
		AccelZ:    vals[5],
		GyroX:     vals[6],
		GyroY:     vals[7],
		GyroZ:     vals[8],
		DAC1:      vals[9],
		DAC2:      vals[10],
		DAC3:      vals[11],
		DAC4:      vals[12],
	}, nil
}

func decodePayload(raw json.RawMessage, unwrap bool) ([blobFields]float64, error) {
	var zero [blobFields]float64
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return zero, ErrEmptyPayload
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return zero, fmt.Errorf("decode string blob: %w", err)
		}
		trimmed := strings.TrimSpace(s)
		if unwrap && (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) {
			return decodePayload(json.RawMessage(trimmed), false)
		}
		return parseCSV(s)
	case '{':
		var b blob
		if err := json.Unmarshal(raw, &b); err != nil {
			return zero, fmt.Errorf("decode object blob: %w", err)
		}
		return b.values()
	case '[':
		var arr []float64
		if err := json.Unmarshal(raw, &arr); err != nil {
			return zero, fmt.Errorf("decode array blob: %w", err)
		}
		if len(arr) != blobFields {
			return zero, fmt.Errorf("expected %d values, got %d", blobFields, len(arr))
		}
		copy(zero[:], arr)
		return zero, nil
	}
	return zero, fmt.Errorf("unsupported data_blob %.32q", string(raw))
}

func parseCSV(s string) ([blobFields]float64, error) {
	var out [blobFields]float64
	cols := strings.Split(s, ",")
	if len(cols) != blobFields {
		return out, fmt.Errorf("expected %d values, got %d", blobFields, len(cols))
	}
	for i, col := range cols {
		v, err := strconv.ParseFloat(strings.TrimSpace(col), 64)
		if err != nil {
			return out, fmt.Errorf("field %s: %w", domain.RowColumns[i+2], err)
		}
		out[i] = v
	}
	return out, nil
}
