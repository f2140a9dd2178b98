package provider

import (
	"errors"
	"testing"
	"time"

	"github.com/ayusman/hellowave/internal/frame"
)

func TestMockProvider_Script(t *testing.T) {
	f := frame.New(make([]byte, 12), 2, 2, frame.PixelFormatRGB24, 0)
	boom := errors.New("usb unplugged")

	m := NewMockProvider(
		Step{Frame: f, Signal: frame.GestureSignal{Fired: true}},
		Step{Err: boom},
	)

	if err := m.AcquireFrame(true); err != nil {
		t.Fatalf("AcquireFrame() error = %v", err)
	}
	got, err := m.QuerySample()
	if err != nil || got != f {
		t.Fatalf("QuerySample() = %v, %v; want scripted frame", got, err)
	}
	if !m.QueryGestureState().Fired {
		t.Error("QueryGestureState() should report the scripted signal")
	}
	m.ReleaseFrame()
	m.ReleaseFrame()

	if err := m.AcquireFrame(true); !errors.Is(err, ErrAcquire) || !errors.Is(err, boom) {
		t.Errorf("AcquireFrame() error = %v, want %v wrapping %v", err, ErrAcquire, boom)
	}
	if err := m.AcquireFrame(true); !errors.Is(err, ErrAcquire) {
		t.Errorf("AcquireFrame() past script error = %v, want %v", err, ErrAcquire)
	}

	if m.Acquired() != 1 || m.Released() != 1 {
		t.Errorf("acquired/released = %d/%d, want 1/1", m.Acquired(), m.Released())
	}
}

func TestMockProvider_HoldBlocksUntilDispose(t *testing.T) {
	m := NewMockProvider().Hold()

	done := make(chan error, 1)
	go func() { done <- m.AcquireFrame(true) }()

	select {
	case err := <-done:
		t.Fatalf("AcquireFrame() returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	m.Dispose()
	m.Dispose()

	select {
	case err := <-done:
		if !errors.Is(err, ErrDisposed) {
			t.Errorf("AcquireFrame() error = %v, want %v", err, ErrDisposed)
		}
	case <-time.After(time.Second):
		t.Fatal("AcquireFrame() did not unblock after Dispose()")
	}

	if m.Disposes() != 2 {
		t.Errorf("Disposes() = %d, want 2", m.Disposes())
	}
}
