// Package provider defines the camera and gesture source the capture loop
// drives, and its implementations.
package provider

import (
	"errors"

	"github.com/ayusman/hellowave/internal/frame"
)

var (
	// ErrNotInitialized is returned when frames are requested before Initialize.
	ErrNotInitialized = errors.New("provider not initialized")
	// ErrAlreadyInitialized is returned when setup is changed after Initialize.
	ErrAlreadyInitialized = errors.New("provider already initialized")
	// ErrNoColorStream is returned by Initialize when no color stream was enabled.
	ErrNoColorStream = errors.New("color stream not enabled")
	// ErrHandTrackingDisabled is returned when a gesture is configured without hand tracking.
	ErrHandTrackingDisabled = errors.New("hand tracking not enabled")
	// ErrUnknownGesture is returned for gestures the provider cannot recognize.
	ErrUnknownGesture = errors.New("unknown gesture")
	// ErrNoFrame is returned by QuerySample when no frame is held.
	ErrNoFrame = errors.New("no frame acquired")
	// ErrAcquire wraps every failure to acquire a frame.
	ErrAcquire = errors.New("frame acquisition failed")
	// ErrDisposed is returned by calls made after Dispose.
	ErrDisposed = errors.New("provider disposed")
)

// Provider yields color frames and gesture signals on demand.
//
// Setup calls (EnableColorStream, EnableHandTracking, ConfigureGesture) come
// before Initialize. Each loop iteration then calls AcquireFrame, reads
// through QuerySample and QueryGestureState, and ends with ReleaseFrame.
// Dispose may be called from another goroutine and must unblock or outlast
// a pending AcquireFrame.
type Provider interface {
	EnableColorStream(width, height, fps int) error
	EnableHandTracking() error
	ConfigureGesture(name string) error
	Initialize() error

	// AcquireFrame waits for the next frame. Errors wrap ErrAcquire.
	AcquireFrame(blocking bool) error
	// QuerySample returns a copy of the held color frame.
	QuerySample() (*frame.Frame, error)
	// QueryGestureState returns the gesture result for the held frame.
	QueryGestureState() frame.GestureSignal
	// ReleaseFrame drops the held frame. It is a no-op when nothing is held.
	ReleaseFrame()

	Dispose() error
}
