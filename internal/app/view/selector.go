package view

import (
	"fmt"
	"strings"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
)

// Selection is the sensor dropdown.
type Selection int

const (
	SensorData Selection = iota
	LocData
	AccelData
)

func (s Selection) String() string {
	switch s {
	case SensorData:
		return "All Data"
	case LocData:
		return "Location Data"
	case AccelData:
		return "Acceleration Data"
	}
	return fmt.Sprintf("selection(%d)", int(s))
}

// DisplayType is the display dropdown.
type DisplayType int

const (
	All DisplayType = iota
	Table
	Graph
	Map
)

func (d DisplayType) String() string {
	switch d {
	case All:
		return "All"
	case Table:
		return "Table"
	case Graph:
		return "Graph"
	case Map:
		return "Map"
	}
	return fmt.Sprintf("display(%d)", int(d))
}

type Theme int

const (
	DarkMode Theme = iota
	LightMode
)

func (t Theme) String() string {
	if t == LightMode {
		return "Light Mode"
	}
	return "Dark Mode"
}

// ParseSelection accepts the names used on the command line.
func ParseSelection(s string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "sensor", "sensors":
		return SensorData, nil
	case "loc", "location":
		return LocData, nil
	case "accel", "acceleration":
		return AccelData, nil
	}
	return 0, fmt.Errorf("unknown selection %q", s)
}

func ParseDisplayType(s string) (DisplayType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return All, nil
	case "table":
		return Table, nil
	case "graph":
		return Graph, nil
	case "map":
		return Map, nil
	}
	return 0, fmt.Errorf("unknown display type %q", s)
}

// Panes says which of the table, graph and map are drawn.
type Panes struct {
	Table bool
	Graph bool
	Map   bool
}

func (d DisplayType) Panes() Panes {
	switch d {
	case Table:
		return Panes{Table: true}
	case Graph:
		return Panes{Graph: true}
	case Map:
		return Panes{Map: true}
	}
	return Panes{Table: true, Graph: true, Map: true}
}

// Columns returns the table columns for a selection.
func Columns(s Selection) []domain.Column {
	switch s {
	case LocData:
		return domain.RowColumns[:5]
	case AccelData:
		return []domain.Column{domain.ColID, domain.ColTimestamp, domain.ColAccelX, domain.ColAccelY, domain.ColAccelZ}
	}
	return domain.RowColumns
}

// Charted returns the columns plotted for a selection. Only acceleration has a graph.
func Charted(s Selection) []domain.Column {
	if s == AccelData {
		return []domain.Column{domain.ColAccelX, domain.ColAccelY, domain.ColAccelZ}
	}
	return nil
}
