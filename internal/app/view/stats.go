package view

import "github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"

// Average is the mean of one column over the display buffer.
type Average struct {
	Column domain.Column
	Mean   float64
}

// Averages computes column means of the numeric columns. An empty buffer yields no averages.
func Averages(rows []domain.Row, cols []domain.Column) []Average {
	if len(rows) == 0 {
		return nil
	}
	var out []Average
	for _, c := range cols {
		if !c.Numeric() {
			continue
		}
		var sum float64
		for _, r := range rows {
			sum += r.Value(c)
		}
		out = append(out, Average{Column: c, Mean: sum / float64(len(rows))})
	}
	return out
}

type Point struct {
	X float64
	Y float64
}

// Series is one plotted line.
type Series struct {
	Column domain.Column
	Points []Point
}

// BuildSeries plots each column against the row position, starting at 1.
func BuildSeries(rows []domain.Row, cols []domain.Column) []Series {
	out := make([]Series, 0, len(cols))
	for _, c := range cols {
		s := Series{Column: c, Points: make([]Point, len(rows))}
		for i, r := range rows {
			s.Points[i] = Point{X: float64(i + 1), Y: r.Value(c)}
		}
		out = append(out, s)
	}
	return out
}
