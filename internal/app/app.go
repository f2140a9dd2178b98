// Package app wires the provider, the capture loop and the presenter into the
// Hello Wave application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/hellowave/internal/capture"
	"github.com/ayusman/hellowave/internal/frame"
	"github.com/ayusman/hellowave/internal/gesture"
	"github.com/ayusman/hellowave/internal/presenter"
	"github.com/ayusman/hellowave/internal/provider"
	"github.com/google/uuid"
)

// Key codes handled by the window.
const (
	KeyMirror = 'm'
	KeyQuit   = 'q'
	KeyEscape = 27
)

// PollInterval is how often window events are pumped when no frame arrives.
const PollInterval = 10 * time.Millisecond

// Config holds configuration options for the application.
type Config struct {
	CameraID     int
	Width        int
	Height       int
	FPS          int
	Gesture      string
	Mirror       bool
	MotionThresh float64
	// StopTimeout bounds each wait for the capture loop during shutdown.
	StopTimeout time.Duration
}

// DefaultConfig returns the default stream settings: the first
// camera at 640x480, 30 FPS, watching for a wave, unmirrored.
func DefaultConfig() Config {
	return Config{
		CameraID:     0,
		Width:        capture.DefaultWidth,
		Height:       capture.DefaultHeight,
		FPS:          capture.DefaultFPS,
		Gesture:      gesture.Wave,
		Mirror:       false,
		MotionThresh: capture.DefaultMotionThreshold,
		StopTimeout:  2 * time.Second,
	}
}

// Window is the host window the UI goroutine drives.
type Window interface {
	presenter.Surface
	// Poll pumps window events for up to d and returns the key pressed, or -1.
	Poll(d time.Duration) int
	// Closed reports whether the user closed the window.
	Closed() bool
	Close() error
}

// App runs the capture loop on a worker goroutine and the presenter on the
// goroutine that calls Run. Other goroutines talk to the presenter only
// through ToggleMirror and Quit.
type App struct {
	config    Config
	provider  provider.Provider
	window    Window
	presenter *presenter.Presenter
	sessionID string

	toggles  chan struct{}
	quit     chan struct{}
	quitOnce sync.Once

	mu              sync.Mutex
	pendingToggles  int
	onMirrorChanged func(mirrored bool)
	onGesture       func(name string)

	cancel    context.CancelFunc
	done      chan struct{}
	loopErr   error
	closeOnce sync.Once
}

// New creates an App. The provider is not touched until Setup.
func New(config Config, p provider.Provider, w Window) *App {
	if config.StopTimeout <= 0 {
		config.StopTimeout = DefaultConfig().StopTimeout
	}
	return &App{
		config:    config,
		provider:  p,
		window:    w,
		presenter: presenter.New(w, config.Mirror),
		sessionID: uuid.NewString(),
		toggles:   make(chan struct{}, 1),
		quit:      make(chan struct{}),
	}
}

// SessionID identifies this run in log output.
func (a *App) SessionID() string {
	return a.sessionID
}

// Setup enables the color stream and hand tracking, configures the gesture
// and initializes the provider. On failure the provider is disposed.
func (a *App) Setup() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"enable color stream", func() error {
			return a.provider.EnableColorStream(a.config.Width, a.config.Height, a.config.FPS)
		}},
		{"enable hand tracking", a.provider.EnableHandTracking},
		{"configure gesture", func() error { return a.provider.ConfigureGesture(a.config.Gesture) }},
		{"initialize", a.provider.Initialize},
	}

	for _, s := range steps {
		if err := s.fn(); err != nil {
			if derr := a.provider.Dispose(); derr != nil {
				log.Printf("[%s] dispose after failed setup: %v", a.sessionID, derr)
			}
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	log.Printf("[%s] provider ready: %dx%d@%d, gesture %q", a.sessionID, a.config.Width, a.config.Height, a.config.FPS, a.config.Gesture)
	return nil
}

// OnMirrorChanged registers fn to be called on the UI goroutine after the
// mirror flag changes.
func (a *App) OnMirrorChanged(fn func(mirrored bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onMirrorChanged = fn
}

// OnGesture registers fn to be called on the UI goroutine for every fired
// gesture.
func (a *App) OnGesture(fn func(name string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onGesture = fn
}

// ToggleMirror asks the UI goroutine to flip the mirror flag. It is the
// button-click callback and is safe to call from any goroutine.
func (a *App) ToggleMirror() {
	a.mu.Lock()
	a.pendingToggles++
	a.mu.Unlock()

	select {
	case a.toggles <- struct{}{}:
	default:
		// The UI goroutine has a wakeup pending and will see the count.
	}
}

// Quit asks Run to shut down. It is safe to call from any goroutine.
func (a *App) Quit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// Run shows the idle prompt, starts the capture loop and processes frames,
// mirror toggles and window events until the window is closed, Quit is
// called or ctx is cancelled. It must be called on the UI goroutine.
func (a *App) Run(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	frames := make(chan Message)
	a.cancel = cancel
	a.done = make(chan struct{})

	a.presenter.OnLoaded()

	go func() {
		defer close(a.done)
		a.loopErr = runCapture(loopCtx, a.provider, frames)
	}()
	log.Printf("[%s] capture session started", a.sessionID)

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-frames:
			if !ok {
				frames = nil
				<-a.done
				a.logSessionEnd()
				continue
			}
			a.presenter.OnFrame(msg.Frame, msg.Signal)
			if msg.Signal.Fired {
				a.gestureFired(msg.Signal)
			}
		case <-a.toggles:
			a.applyToggles()
		case <-ticker.C:
		case <-a.quit:
			return a.Close()
		case <-ctx.Done():
			return a.Close()
		}

		if a.pump() {
			return a.Close()
		}
	}
}

// pump handles pending window events and reports whether the window should close.
func (a *App) pump() bool {
	switch a.window.Poll(time.Millisecond) {
	case KeyMirror:
		a.toggleMirror()
	case KeyQuit, KeyEscape:
		return true
	}
	return a.window.Closed()
}

// applyToggles applies every toggle requested since the last wakeup.
func (a *App) applyToggles() {
	a.mu.Lock()
	n := a.pendingToggles
	a.pendingToggles = 0
	a.mu.Unlock()

	for i := 0; i < n; i++ {
		a.toggleMirror()
	}
}

func (a *App) toggleMirror() {
	a.presenter.OnToggleMirror()
	mirrored := a.presenter.State().Mirrored

	a.mu.Lock()
	fn := a.onMirrorChanged
	a.mu.Unlock()

	if fn != nil {
		fn(mirrored)
	}
}

func (a *App) gestureFired(sig frame.GestureSignal) {
	log.Printf("[%s] %s detected (%s hand, confidence %.2f)", a.sessionID, sig.Name, sig.Handedness, sig.Confidence)

	a.mu.Lock()
	fn := a.onGesture
	a.mu.Unlock()

	if fn != nil {
		fn(sig.Name)
	}
}

func (a *App) logSessionEnd() {
	if a.loopErr == nil || errors.Is(a.loopErr, context.Canceled) {
		log.Printf("[%s] capture session stopped", a.sessionID)
		return
	}
	log.Printf("[%s] capture session ended: %v", a.sessionID, a.loopErr)
}

// Close is the closing callback: it stops the capture loop, disposes the
// provider and closes the window. Cleanup is best effort; errors are logged.
// Call it from the UI goroutine or after Run has returned; other goroutines
// use Quit.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}

		if a.done != nil && !a.wait() {
			// The worker is stuck in AcquireFrame. Dispose marks the
			// camera closed; the device itself is released once the
			// pending read returns.
			log.Printf("[%s] capture loop still blocked after %v, disposing provider", a.sessionID, a.config.StopTimeout)
		}

		if err := a.provider.Dispose(); err != nil {
			log.Printf("[%s] dispose provider: %v", a.sessionID, err)
		}

		if a.done != nil && !a.wait() {
			log.Printf("[%s] capture loop did not exit after dispose", a.sessionID)
		}

		if err := a.window.Close(); err != nil {
			log.Printf("[%s] close window: %v", a.sessionID, err)
		}
	})
	return nil
}

// wait waits up to StopTimeout for the capture loop to exit.
func (a *App) wait() bool {
	timer := time.NewTimer(a.config.StopTimeout)
	defer timer.Stop()

	select {
	case <-a.done:
		return true
	case <-timer.C:
		return false
	}
}
