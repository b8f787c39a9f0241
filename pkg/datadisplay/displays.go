package datadisplay

import (
	"errors"
	"fmt"
	"sync"
)

// ErrChannelDisplayClosed is returned when a channel display is written to after being closed.
var ErrChannelDisplayClosed = errors.New("datadisplay: channel display closed")

// FrameDisplay receives every frame the runtime draws.
type FrameDisplay interface {
	Show(f Frame) error
	Name() string
}

// FrameHandler is a display written as a plain function.
type FrameHandler func(Frame) error

// NewCallbackDisplay adapts a FrameHandler into a FrameDisplay.
func NewCallbackDisplay(name string, fn FrameHandler) FrameDisplay {
	if name == "" {
		name = "callback"
	}
	return &callbackDisplay{name: name, fn: fn}
}

// NewChannelDisplay exposes frames via a channel; it returns the display, the read-only
// channel, and a close function that the caller should invoke during shutdown.
// When the reader falls behind, the oldest buffered frame is replaced by the newest.
func NewChannelDisplay(name string, buffer int) (FrameDisplay, <-chan Frame, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Frame, buffer)
	d := &channelDisplay{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return d, ch, func() { d.close() }
}

type callbackDisplay struct {
	name string
	fn   FrameHandler
}

func (d *callbackDisplay) Show(f Frame) error {
	if d.fn == nil {
		return fmt.Errorf("callback display %q: nil handler", d.name)
	}
	return d.fn(f)
}

func (d *callbackDisplay) Name() string { return d.name }

type channelDisplay struct {
	name   string
	ch     chan Frame
	closed chan struct{}
	mu     sync.Mutex
	once   sync.Once
}

func (d *channelDisplay) Show(f Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	select {
	case <-d.closed:
		return ErrChannelDisplayClosed
	default:
	}

	for {
		select {
		case d.ch <- f:
			return nil
		default:
		}
		select {
		case <-d.ch:
		default:
		}
	}
}

func (d *channelDisplay) Name() string { return d.name }

func (d *channelDisplay) close() {
	d.once.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		close(d.closed)
		close(d.ch)
	})
}
