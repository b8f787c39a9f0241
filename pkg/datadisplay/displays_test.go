package datadisplay

import (
	"errors"
	"testing"
	"time"
)

func TestNewCallbackDisplay(t *testing.T) {
	var received []Frame
	d := NewCallbackDisplay("cb", func(f Frame) error {
		received = append(received, f)
		return nil
	})

	at := time.Unix(1, 0)
	if err := d.Show(Frame{At: at}); err != nil {
		t.Fatalf("Show returned error: %v", err)
	}
	if len(received) != 1 || !received[0].At.Equal(at) {
		t.Fatalf("unexpected frames %+v", received)
	}
	if d.Name() != "cb" {
		t.Fatalf("expected name cb, got %s", d.Name())
	}
}

func TestNewCallbackDisplayNilHandler(t *testing.T) {
	d := NewCallbackDisplay("", nil)
	if err := d.Show(Frame{}); err == nil {
		t.Fatalf("expected error when callback is nil")
	}
	if d.Name() != "callback" {
		t.Fatalf("expected default name, got %s", d.Name())
	}
}

func TestNewChannelDisplayKeepsNewest(t *testing.T) {
	d, ch, closeFn := NewChannelDisplay("chan", 1)

	first, second := time.Unix(1, 0), time.Unix(2, 0)
	if err := d.Show(Frame{At: first}); err != nil {
		t.Fatalf("Show returned error: %v", err)
	}
	if err := d.Show(Frame{At: second}); err != nil {
		t.Fatalf("Show must not block on a slow reader: %v", err)
	}

	select {
	case f := <-ch:
		if !f.At.Equal(second) {
			t.Fatalf("expected newest frame, got %v", f.At)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}

	closeFn()
	if err := d.Show(Frame{}); !errors.Is(err, ErrChannelDisplayClosed) {
		t.Fatalf("expected ErrChannelDisplayClosed, got %v", err)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
}
