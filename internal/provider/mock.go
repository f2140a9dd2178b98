package provider

import (
	"fmt"
	"sync"

	"github.com/ayusman/hellowave/internal/frame"
)

// Step is one scripted AcquireFrame result for MockProvider.
type Step struct {
	Frame  *frame.Frame
	Signal frame.GestureSignal
	Err    error
}

// MockProvider replays scripted steps. When the script runs out,
// AcquireFrame fails, or blocks until Dispose if Hold was set.
type MockProvider struct {
	mu       sync.Mutex
	steps    []Step
	next     int
	current  *Step
	hold     bool
	disposed chan struct{}

	calls    []string
	acquired int
	released int
	disposes int
	setupErr error
}

// NewMockProvider creates a MockProvider over steps.
func NewMockProvider(steps ...Step) *MockProvider {
	return &MockProvider{
		steps:    steps,
		disposed: make(chan struct{}),
	}
}

// Hold makes AcquireFrame block after the last step until Dispose is called.
func (m *MockProvider) Hold() *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hold = true
	return m
}

// FailSetup makes every setup call return err.
func (m *MockProvider) FailSetup(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setupErr = err
	return m
}

func (m *MockProvider) record(call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.setupErr
}

func (m *MockProvider) EnableColorStream(width, height, fps int) error {
	return m.record(fmt.Sprintf("EnableColorStream(%d,%d,%d)", width, height, fps))
}

func (m *MockProvider) EnableHandTracking() error {
	return m.record("EnableHandTracking")
}

func (m *MockProvider) ConfigureGesture(name string) error {
	return m.record(fmt.Sprintf("ConfigureGesture(%s)", name))
}

func (m *MockProvider) Initialize() error {
	return m.record("Initialize")
}

func (m *MockProvider) AcquireFrame(blocking bool) error {
	m.mu.Lock()
	if m.next >= len(m.steps) {
		hold := m.hold
		m.mu.Unlock()
		if hold {
			<-m.disposed
			return fmt.Errorf("%w: %w", ErrAcquire, ErrDisposed)
		}
		return fmt.Errorf("%w: end of script", ErrAcquire)
	}
	defer m.mu.Unlock()

	step := m.steps[m.next]
	m.next++
	if step.Err != nil {
		return fmt.Errorf("%w: %w", ErrAcquire, step.Err)
	}
	m.current = &step
	m.acquired++
	return nil
}

func (m *MockProvider) QuerySample() (*frame.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNoFrame
	}
	return m.current.Frame, nil
}

func (m *MockProvider) QueryGestureState() frame.GestureSignal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return frame.GestureSignal{}
	}
	return m.current.Signal
}

func (m *MockProvider) ReleaseFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current = nil
		m.released++
	}
}

func (m *MockProvider) Dispose() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposes++
	if m.disposes == 1 {
		close(m.disposed)
	}
	return nil
}

// Calls returns the setup calls in order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Acquired returns how many frames were successfully acquired.
func (m *MockProvider) Acquired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired
}

// Released returns how many held frames were released.
func (m *MockProvider) Released() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Disposes returns how many times Dispose was called.
func (m *MockProvider) Disposes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposes
}
