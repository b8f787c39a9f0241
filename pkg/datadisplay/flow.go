package datadisplay

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/view"
)

// Flow builds a Runtime in three steps: Conf loads settings, In chooses where
// datapoints come from and which session is shown, Out chooses how frames look
// and where they go. Option errors are collected and reported by Out.
type Flow struct {
	cfg  *Config
	opts []RuntimeOption
	errs []error
}

// FlowOption adjusts the Flow right after the configuration is loaded.
type FlowOption func(*Flow)

// InOption configures the data side: gateway, result queue, journal and session.
type InOption func(*Flow)

// OutOption configures the presentation side: displays, columns, panes, theme and order.
type OutOption func(*Flow)

// Conf reads the YAML configuration at path and starts a Flow.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig starts a Flow from an in-memory Config.
func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	f := &Flow{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

func (f *Flow) Config() *Config {
	if f == nil {
		return nil
	}
	return f.cfg
}

// Options adds RuntimeOption values that have no In or Out shorthand.
func (f *Flow) Options(opts ...RuntimeOption) *Flow {
	if f == nil {
		return nil
	}
	f.add(opts...)
	return f
}

func (f *Flow) In(opts ...InOption) *Flow {
	if f == nil {
		return nil
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Out applies the presentation options and builds the Runtime. It fails when any
// option was rejected.
func (f *Flow) Out(opts ...OutOption) (*Runtime, error) {
	if f == nil {
		return nil, fmt.Errorf("flow is nil")
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if err := errors.Join(f.errs...); err != nil {
		return nil, err
	}
	return NewRuntime(f.cfg, f.opts...)
}

// Run builds the Runtime with Out and draws frames until ctx is done.
func (f *Flow) Run(ctx context.Context, opts ...OutOption) error {
	rt, err := f.Out(opts...)
	if err != nil {
		return err
	}
	return rt.Run(ctx)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return func(f *Flow) {
		if f != nil {
			f.add(opts...)
		}
	}
}

// InGateway reads sessions and datapoints from gw instead of the HTTP backend.
func InGateway(gw Gateway) InOption {
	return func(f *Flow) {
		if f != nil && gw != nil {
			f.add(WithGateway(gw))
		}
	}
}

// InReplay serves sessions from a recorded journal. The backend is never contacted.
func InReplay(j Journal) InOption {
	return func(f *Flow) {
		if f == nil {
			return
		}
		if j == nil {
			f.fail(fmt.Errorf("replay: journal is required"))
			return
		}
		f.add(WithGateway(NewReplayGateway(j)), WithoutMetricsServer())
	}
}

func InQueue(q ResultQueue) InOption {
	return func(f *Flow) {
		if f != nil && q != nil {
			f.add(WithResultQueue(q))
		}
	}
}

// InJournal records every received datapoint into j.
func InJournal(j Journal) InOption {
	return func(f *Flow) {
		if f != nil && j != nil {
			f.add(WithJournal(j))
		}
	}
}

// InSession shows session id once logged in. id is a numeric session id or
// LatestSession; anything else is rejected by Out.
func InSession(id string) InOption {
	return func(f *Flow) {
		if f == nil || id == "" {
			return
		}
		if id != LatestSession {
			if _, err := strconv.ParseInt(id, 10, 64); err != nil {
				f.fail(fmt.Errorf("session %q: %w", id, ErrInvalidSession))
				return
			}
		}
		f.add(WithSession(id))
	}
}

func InObservability(obs Observability) InOption {
	return func(f *Flow) {
		if f != nil && obs != nil {
			f.add(WithObservability(obs))
		}
	}
}

// OutDisplay hands every frame to d.
func OutDisplay(d FrameDisplay) OutOption {
	return func(f *Flow) {
		if f != nil && d != nil {
			f.add(WithDisplay(d))
		}
	}
}

// OutCallback hands every frame to fn.
func OutCallback(name string, fn FrameHandler) OutOption {
	return func(f *Flow) {
		if f != nil {
			f.add(WithDisplay(NewCallbackDisplay(name, fn)))
		}
	}
}

// OutSelection picks the column group: SensorData, LocData or AccelData.
func OutSelection(s Selection) OutOption {
	return func(f *Flow) {
		if f != nil {
			f.add(WithSelection(s))
		}
	}
}

// OutDisplayType picks the panes: DisplayAll, DisplayTable, DisplayGraph or DisplayMap.
func OutDisplayType(d DisplayType) OutOption {
	return func(f *Flow) {
		if f != nil {
			f.add(WithDisplayType(d))
		}
	}
}

// OutView is OutSelection plus OutDisplayType from their command line names,
// for example "accel" and "graph". Empty names keep the defaults.
func OutView(selection, display string) OutOption {
	return func(f *Flow) {
		if f == nil {
			return
		}
		if selection != "" {
			s, err := view.ParseSelection(selection)
			if err != nil {
				f.fail(err)
			} else {
				f.add(WithSelection(s))
			}
		}
		if display != "" {
			d, err := view.ParseDisplayType(display)
			if err != nil {
				f.fail(err)
			} else {
				f.add(WithDisplayType(d))
			}
		}
	}
}

func OutTheme(t Theme) OutOption {
	return func(f *Flow) {
		if f != nil {
			f.add(WithTheme(t))
		}
	}
}

// OutNewestFirst lists the newest rows at the top of the first page.
func OutNewestFirst() OutOption {
	return func(f *Flow) {
		if f != nil {
			f.add(WithAscending(false))
		}
	}
}

func OutObservability(obs Observability) OutOption {
	return func(f *Flow) {
		if f != nil && obs != nil {
			f.add(WithObservability(obs))
		}
	}
}

func (f *Flow) add(opts ...RuntimeOption) {
	for _, opt := range opts {
		if opt != nil {
			f.opts = append(f.opts, opt)
		}
	}
}

func (f *Flow) fail(err error) { f.errs = append(f.errs, err) }
