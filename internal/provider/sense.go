package provider

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/hellowave/internal/capture"
	"github.com/ayusman/hellowave/internal/detector"
	"github.com/ayusman/hellowave/internal/frame"
	"github.com/ayusman/hellowave/internal/gesture"
	"gocv.io/x/gocv"
)

// SenseProvider implements Provider on a local camera. Hand tracking runs on
// frames that pass the motion gate; the wave recognizer turns the tracked
// palm into gesture signals.
type SenseProvider struct {
	camera     capture.Camera
	gate       *capture.MotionGate
	detector   detector.Detector
	recognizer *gesture.WaveRecognizer
	now        func() time.Time

	mu           sync.Mutex
	colorEnabled bool
	handEnabled  bool
	gestureName  string
	initialized  bool
	disposed     bool
	current      *gocv.Mat
	capturedAt   int64
	signal       frame.GestureSignal

	disposeOnce sync.Once
	disposeErr  error
}

// NewSenseProvider creates a provider over camera and det. gate may be nil
// to run hand tracking on every frame.
func NewSenseProvider(camera capture.Camera, det detector.Detector, gate *capture.MotionGate, recognizer *gesture.WaveRecognizer) *SenseProvider {
	if recognizer == nil {
		recognizer = gesture.NewWaveRecognizer(gesture.DefaultConfig())
	}
	return &SenseProvider{
		camera:     camera,
		gate:       gate,
		detector:   det,
		recognizer: recognizer,
		now:        time.Now,
	}
}

// EnableColorStream requests a color stream of the given size and rate.
func (p *SenseProvider) EnableColorStream(width, height, fps int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkSetup(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 || fps <= 0 {
		return fmt.Errorf("invalid color stream %dx%d@%d", width, height, fps)
	}

	p.camera.SetResolution(width, height)
	p.camera.SetFPS(fps)
	p.colorEnabled = true
	return nil
}

// EnableHandTracking turns on hand tracking for acquired frames.
func (p *SenseProvider) EnableHandTracking() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkSetup(); err != nil {
		return err
	}
	if p.detector == nil {
		return errors.New("no hand detector available")
	}
	p.handEnabled = true
	return nil
}

// ConfigureGesture selects the gesture reported by QueryGestureState.
// Only the wave gesture is supported.
func (p *SenseProvider) ConfigureGesture(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkSetup(); err != nil {
		return err
	}
	if !p.handEnabled {
		return ErrHandTrackingDisabled
	}
	if name != gesture.Wave {
		return fmt.Errorf("%w: %q", ErrUnknownGesture, name)
	}
	p.gestureName = name
	return nil
}

// Initialize opens the camera.
func (p *SenseProvider) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkSetup(); err != nil {
		return err
	}
	if !p.colorEnabled {
		return ErrNoColorStream
	}
	if err := p.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	p.initialized = true
	return nil
}

func (p *SenseProvider) checkSetup() error {
	if p.disposed {
		return ErrDisposed
	}
	if p.initialized {
		return ErrAlreadyInitialized
	}
	return nil
}

// AcquireFrame reads the next frame and runs gesture recognition on it.
// Camera reads always block, so blocking only documents the caller's intent.
func (p *SenseProvider) AcquireFrame(blocking bool) error {
	p.mu.Lock()
	switch {
	case p.disposed:
		p.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrAcquire, ErrDisposed)
	case !p.initialized:
		p.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrAcquire, ErrNotInitialized)
	}
	p.releaseLocked()
	p.mu.Unlock()

	// Read without the lock so Dispose is not held up by a slow device.
	mat, err := p.camera.ReadFrame()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAcquire, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed {
		mat.Close()
		return fmt.Errorf("%w: %w", ErrAcquire, ErrDisposed)
	}

	p.current = mat
	p.capturedAt = p.now().UnixMilli()
	p.signal = p.recognize(mat, p.capturedAt)
	return nil
}

// recognize updates the wave recognizer with the hands tracked in mat.
func (p *SenseProvider) recognize(mat *gocv.Mat, ts int64) frame.GestureSignal {
	if !p.handEnabled || p.gestureName == "" {
		return frame.GestureSignal{Timestamp: ts}
	}

	var hands []detector.HandLandmarks
	if p.gate == nil || p.gate.Open(mat) {
		var err error
		hands, err = p.detector.Detect(mat)
		if err != nil {
			log.Printf("hand tracking failed: %v", err)
			hands = nil
		}
	}

	res := p.recognizer.Update(hands, ts)
	return frame.GestureSignal{
		Fired:      res.Fired,
		Name:       p.gestureName,
		Handedness: res.Handedness,
		Confidence: res.Confidence,
		Timestamp:  ts,
	}
}

// QuerySample copies the held frame into a BGR24 Frame.
func (p *SenseProvider) QuerySample() (*frame.Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.current.Empty() {
		return nil, ErrNoFrame
	}

	return matToFrame(p.current, p.capturedAt)
}

// matToFrame copies mat into a Frame, converting to three channels if needed.
func matToFrame(mat *gocv.Mat, ts int64) (*frame.Frame, error) {
	src := *mat
	switch mat.Channels() {
	case 3:
	case 1, 4:
		bgr := gocv.NewMat()
		defer bgr.Close()
		code := gocv.ColorGrayToBGR
		if mat.Channels() == 4 {
			code = gocv.ColorBGRAToBGR
		}
		gocv.CvtColor(*mat, &bgr, code)
		src = bgr
	default:
		return nil, fmt.Errorf("unsupported channel count %d", mat.Channels())
	}

	// ToBytes copies out of the Mat, so the Frame outlives ReleaseFrame.
	return &frame.Frame{
		Pix:       src.ToBytes(),
		Width:     src.Cols(),
		Height:    src.Rows(),
		Format:    frame.PixelFormatBGR24,
		Timestamp: ts,
	}, nil
}

// QueryGestureState returns the gesture result for the held frame.
func (p *SenseProvider) QueryGestureState() frame.GestureSignal {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return frame.GestureSignal{}
	}
	return p.signal
}

// ReleaseFrame closes the held frame.
func (p *SenseProvider) ReleaseFrame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
}

func (p *SenseProvider) releaseLocked() {
	if p.current != nil {
		p.current.Close()
		p.current = nil
	}
	p.signal = frame.GestureSignal{}
}

// Dispose releases the camera, the motion gate and the detector. Only the
// first call does any work; later calls return the same error.
func (p *SenseProvider) Dispose() error {
	p.disposeOnce.Do(func() {
		p.mu.Lock()
		p.disposed = true
		p.releaseLocked()
		p.mu.Unlock()

		var errs []error
		if err := p.camera.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close camera: %w", err))
		}
		if p.gate != nil {
			p.gate.Close()
		}
		if p.detector != nil {
			if err := p.detector.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close detector: %w", err))
			}
		}
		p.disposeErr = errors.Join(errs...)
	})
	return p.disposeErr
}
