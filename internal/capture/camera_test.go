package capture

import (
	"errors"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

// fakeSource is a videoSource whose reads block until release is closed.
type fakeSource struct {
	reading chan struct{}
	release chan struct{}

	mu         sync.Mutex
	closeCalls int
	closedMid  bool
	inRead     bool
	configured [3]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		reading: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (s *fakeSource) Read(m *gocv.Mat) bool {
	s.mu.Lock()
	s.inRead = true
	s.mu.Unlock()

	s.reading <- struct{}{}
	<-s.release

	s.mu.Lock()
	s.inRead = false
	s.mu.Unlock()

	blank := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC3)
	defer blank.Close()
	blank.CopyTo(m)
	return true
}

func (s *fakeSource) Configure(width, height, fps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configured = [3]int{width, height, fps}
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	if s.inRead {
		s.closedMid = true
	}
	return nil
}

func (s *fakeSource) closes() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls, s.closedMid
}

func openFake(src *fakeSource) func(int) (videoSource, error) {
	return func(int) (videoSource, error) { return src, nil }
}

func TestNewCamera_Defaults(t *testing.T) {
	for _, id := range []int{0, 1, 2} {
		cam := NewCamera(id)
		if cam == nil {
			t.Fatalf("NewCamera(%d) returned nil", id)
		}

		if got := cam.FPS(); got != DefaultFPS {
			t.Errorf("device %d: FPS() = %d, want %d", id, got, DefaultFPS)
		}
		if w, h := cam.Resolution(); w != DefaultWidth || h != DefaultHeight {
			t.Errorf("device %d: Resolution() = %dx%d, want %dx%d", id, w, h, DefaultWidth, DefaultHeight)
		}
		if cam.IsOpen() {
			t.Errorf("device %d: camera should not be open initially", id)
		}
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{name: "set to 15", fps: 15, wantFPS: 15},
		{name: "set to 60", fps: 60, wantFPS: 60},
		{name: "zero keeps previous", fps: 0, wantFPS: 60},
		{name: "negative keeps previous", fps: -5, wantFPS: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_SetResolution(t *testing.T) {
	cam := NewCamera(0)

	cam.SetResolution(1280, 720)
	if w, h := cam.Resolution(); w != 1280 || h != 720 {
		t.Errorf("Resolution() = %dx%d, want 1280x720", w, h)
	}

	cam.SetResolution(0, 480)
	if w, h := cam.Resolution(); w != 1280 || h != 720 {
		t.Errorf("Resolution() after invalid set = %dx%d, want 1280x720", w, h)
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want %v", err, ErrCameraNotOpen)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera = %v, want nil", err)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0)

	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		} else if mat.Cols() != DefaultWidth || mat.Rows() != DefaultHeight {
			t.Logf("Frame dimensions: %dx%d (camera may not support %dx%d)", mat.Cols(), mat.Rows(), DefaultWidth, DefaultHeight)
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestCamera_OpenAppliesSettings(t *testing.T) {
	src := newFakeSource()
	cam := newCamera(0, openFake(src))
	cam.SetResolution(320, 240)
	cam.SetFPS(15)

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	src.mu.Lock()
	got := src.configured
	src.mu.Unlock()
	if got != [3]int{320, 240, 15} {
		t.Errorf("configured = %v, want [320 240 15]", got)
	}
}

func TestCamera_CloseWhileIdleReleasesDevice(t *testing.T) {
	src := newFakeSource()
	cam := newCamera(0, openFake(src))
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := cam.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if n, _ := src.closes(); n != 1 {
		t.Errorf("device Close() calls = %d, want 1", n)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should be false after Close()")
	}
}

func TestCamera_CloseDuringBlockedRead(t *testing.T) {
	src := newFakeSource()
	cam := newCamera(0, openFake(src))
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		mat, err := cam.ReadFrame()
		if mat != nil {
			mat.Close()
		}
		errCh <- err
	}()

	<-src.reading

	if err := cam.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should be false once Close() returns")
	}
	if n, _ := src.closes(); n != 0 {
		t.Fatalf("device closed %d times while a read was in flight", n)
	}

	close(src.release)

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrCameraNotOpen) {
			t.Errorf("ReadFrame() error = %v, want %v", err, ErrCameraNotOpen)
		}
	case <-time.After(time.Second):
		t.Fatal("ReadFrame() did not return after the read finished")
	}

	n, mid := src.closes()
	if n != 1 || mid {
		t.Errorf("device Close() calls = %d (during read: %v), want 1 after the read", n, mid)
	}

	// A second Close has nothing left to release.
	if err := cam.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if n, _ := src.closes(); n != 1 {
		t.Errorf("device Close() calls after second Close = %d, want 1", n)
	}
}
