package datadisplay

import (
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/dashboard"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/loader"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/view"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/window"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

// Gateway is the backend API: datapoint fetches, session list, account calls.
type Gateway = ports.Gateway

// StatusError is returned by gateways when the backend answers with a non-success status.
type StatusError = ports.StatusError

// ResultQueue carries fetch results from fetch goroutines to the frame loop.
type ResultQueue = ports.ResultQueue

// FetchResult is one completed fetch.
type FetchResult = ports.FetchResult

// Journal records every received datapoint per session.
type Journal = ports.Journal

// JournalEntryID identifies a journal record within a session.
type JournalEntryID = ports.JournalEntryID

// JournalStats exposes journal metadata for observability.
type JournalStats = ports.JournalStats

// RowSink receives formatted rows on export.
type RowSink = ports.RowSink

// Observability emits logs and metrics about fetches, formatting and exports.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

type (
	RawDatapoint = domain.RawDatapoint
	Row          = domain.Row
	Session      = domain.Session
	Cursor       = domain.Cursor
	Column       = domain.Column
)

// Frame is everything the dashboard draws in one update.
type Frame = dashboard.Frame

// DataSnapshot is the data window part of a Frame.
type DataSnapshot = window.Snapshot

type (
	ConnState   = loader.ConnState
	Selection   = view.Selection
	DisplayType = view.DisplayType
	Theme       = view.Theme
)

const (
	SensorData = view.SensorData
	LocData    = view.LocData
	AccelData  = view.AccelData

	DisplayAll   = view.All
	DisplayTable = view.Table
	DisplayGraph = view.Graph
	DisplayMap   = view.Map

	DarkMode  = view.DarkMode
	LightMode = view.LightMode
)
