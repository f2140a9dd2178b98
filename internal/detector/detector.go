package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand tracking implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand tracking.
type Config struct {
	// MaxHands is the maximum number of hands to track.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// IdleTimeout shuts the tracking process down after this long without frames.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config tuned for a single waving hand.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}

// New returns a MediaPipe detector when its service script is installed and
// a MockDetector that never reports hands otherwise. The bool reports which
// one was chosen.
func New(config Config) (Detector, bool) {
	if mp, err := NewMediaPipeDetector(config); err == nil {
		return mp, true
	}
	return NewMockDetector(), false
}
