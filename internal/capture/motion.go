package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Motion gating constants.
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
	// DefaultMotionThreshold is the percentage of changed pixels that counts as motion.
	DefaultMotionThreshold = 1.0
	// DefaultHold is how long the gate stays open after the last motion.
	DefaultHold = 2 * time.Second
)

// MotionGate decides whether a frame is worth running hand tracking on.
// It opens when consecutive frames differ by more than the threshold and
// stays open for the hold period after the last detected motion.
type MotionGate struct {
	threshold  float64
	hold       time.Duration
	now        func() time.Time
	prevGray   *gocv.Mat // nil until the first frame sets a baseline
	lastMotion time.Time
	mu         sync.Mutex
}

// NewMotionGate creates a MotionGate. threshold is the percentage of pixels
// that must change, e.g. 1.0 means 1%. Non-positive arguments use the defaults.
func NewMotionGate(threshold float64, hold time.Duration) *MotionGate {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	if hold <= 0 {
		hold = DefaultHold
	}
	return &MotionGate{
		threshold: threshold,
		hold:      hold,
		now:       time.Now,
	}
}

// Open reports whether the gate is open after observing frame.
func (g *MotionGate) Open(frame *gocv.Mat) bool {
	moved, _ := g.Detect(frame)

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if moved {
		g.lastMotion = now
		return true
	}
	return !g.lastMotion.IsZero() && now.Sub(g.lastMotion) <= g.hold
}

// Detect compares frame with the previous one and returns whether it moved
// and the percentage of pixels that changed. The first frame only sets the
// baseline.
func (g *MotionGate) Detect(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if g.prevGray == nil {
		prev := blurred.Clone()
		g.prevGray = &prev
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, *g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0

	blurred.CopyTo(g.prevGray)

	return changed > g.threshold, changed
}

// Reset drops the baseline frame and closes the gate.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clear()
}

// Close releases the baseline frame. A later Detect starts a new baseline.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clear()
}

// hasBaseline reports whether a previous frame is held.
func (g *MotionGate) hasBaseline() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prevGray != nil
}

func (g *MotionGate) clear() {
	if g.prevGray != nil {
		g.prevGray.Close()
		g.prevGray = nil
	}
	g.lastMotion = time.Time{}
}
