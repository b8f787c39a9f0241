package datadisplay

import (
	"context"
	"io"
	"net/http"
	"time"

	base "github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/pkg/datadisplay"
)

// Re-exported errors for convenience.
var (
	ErrChannelDisplayClosed = base.ErrChannelDisplayClosed
	ErrEmptySession         = base.ErrEmptySession
	ErrReadOnly             = base.ErrReadOnly
	ErrInvalidSession       = base.ErrInvalidSession
)

const LatestSession = base.LatestSession

// View choices for OutSelection, OutDisplayType and OutTheme.
const (
	SensorData = base.SensorData
	LocData    = base.LocData
	AccelData  = base.AccelData

	DisplayAll   = base.DisplayAll
	DisplayTable = base.DisplayTable
	DisplayGraph = base.DisplayGraph
	DisplayMap   = base.DisplayMap

	DarkMode  = base.DarkMode
	LightMode = base.LightMode
)

// Type aliases so consumers can import the module root directly.
type (
	Config        = base.Config
	Policy        = base.Policy
	APIConfig     = base.APIConfig
	MetricsConfig = base.MetricsConfig
	JournalConfig = base.JournalConfig
	ExportConfig  = base.ExportConfig
	Flow          = base.Flow
	FlowOption    = base.FlowOption
	InOption      = base.InOption
	OutOption     = base.OutOption
	Runtime       = base.Runtime
	RuntimeOption = base.RuntimeOption
	Gateway       = base.Gateway
	StatusError   = base.StatusError
	ResultQueue   = base.ResultQueue
	Journal       = base.Journal
	RowSink       = base.RowSink
	Observability = base.Observability
	Field         = base.Field
	RawDatapoint  = base.RawDatapoint
	Row           = base.Row
	Session       = base.Session
	Frame         = base.Frame
	Selection     = base.Selection
	DisplayType   = base.DisplayType
	Theme         = base.Theme
	DataSnapshot  = base.DataSnapshot
	FrameDisplay  = base.FrameDisplay
	FrameHandler  = base.FrameHandler
	MockBackend   = base.MockBackend
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func InGateway(gw Gateway) InOption {
	return base.InGateway(gw)
}

func InReplay(j Journal) InOption {
	return base.InReplay(j)
}

func InQueue(q ResultQueue) InOption {
	return base.InQueue(q)
}

func InJournal(j Journal) InOption {
	return base.InJournal(j)
}

func InSession(id string) InOption {
	return base.InSession(id)
}

func InObservability(obs Observability) InOption {
	return base.InObservability(obs)
}

func OutDisplay(d FrameDisplay) OutOption {
	return base.OutDisplay(d)
}

func OutCallback(name string, fn FrameHandler) OutOption {
	return base.OutCallback(name, fn)
}

func OutSelection(s Selection) OutOption {
	return base.OutSelection(s)
}

func OutDisplayType(d DisplayType) OutOption {
	return base.OutDisplayType(d)
}

func OutView(selection, display string) OutOption {
	return base.OutView(selection, display)
}

func OutTheme(t Theme) OutOption {
	return base.OutTheme(t)
}

func OutNewestFirst() OutOption {
	return base.OutNewestFirst()
}

func OutObservability(obs Observability) OutOption {
	return base.OutObservability(obs)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithGateway(gw Gateway) RuntimeOption {
	return base.WithGateway(gw)
}

func WithResultQueue(q ResultQueue) RuntimeOption {
	return base.WithResultQueue(q)
}

func WithJournal(j Journal) RuntimeOption {
	return base.WithJournal(j)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithDisplay(d FrameDisplay) RuntimeOption {
	return base.WithDisplay(d)
}

func WithSession(id string) RuntimeOption {
	return base.WithSession(id)
}

func WithSelection(s Selection) RuntimeOption {
	return base.WithSelection(s)
}

func WithDisplayType(d DisplayType) RuntimeOption {
	return base.WithDisplayType(d)
}

func WithTheme(t Theme) RuntimeOption {
	return base.WithTheme(t)
}

func WithAscending(ascending bool) RuntimeOption {
	return base.WithAscending(ascending)
}

func WithoutMetricsServer() RuntimeOption {
	return base.WithoutMetricsServer()
}

// Display adapters.
func NewCallbackDisplay(name string, fn FrameHandler) FrameDisplay {
	return base.NewCallbackDisplay(name, fn)
}

func NewChannelDisplay(name string, buffer int) (FrameDisplay, <-chan Frame, func()) {
	return base.NewChannelDisplay(name, buffer)
}

// Export and replay.
func ExportSession(ctx context.Context, gw Gateway, sessionID string, s RowSink, obs Observability) (int, error) {
	return base.ExportSession(ctx, gw, sessionID, s, obs)
}

func NewCSVSink(w io.Writer) RowSink {
	return base.NewCSVSink(w)
}

func OpenPostgresSink(cfg ExportConfig) (RowSink, func() error, error) {
	return base.OpenPostgresSink(cfg)
}

func NewReplayGateway(j Journal) Gateway {
	return base.NewReplayGateway(j)
}

// Development backend.
func NewMockBackend() *MockBackend {
	return base.NewMockBackend()
}

func MockHandler(b *MockBackend) http.Handler {
	return base.MockHandler(b)
}

// RunMockGenerator records random samples into a mock session until ctx is done.
func RunMockGenerator(ctx context.Context, b *MockBackend, sessionID int64, interval time.Duration) error {
	return base.NewMockGenerator(b, interval, time.Now().UnixNano()).Run(ctx, sessionID, 0)
}
