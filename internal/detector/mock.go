package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Results queued with Queue are returned one per Detect call; once the
// queue is drained Detect falls back to the hands set with SetHands.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	queue  [][]HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by Detect when the queue is empty.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Queue appends per-call results.
func (m *MockDetector) Queue(results ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, results...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued result, the fixed hands, or the error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// OpenPalmAt returns an upright open right hand whose palm is centered at
// (x, y) in normalized image coordinates.
func OpenPalmAt(x, y float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Offsets from the palm center; Y decreases going up.
	offsets := [NumLandmarks]Point3D{
		Wrist:     {X: 0.00, Y: 0.12},
		ThumbCMC:  {X: 0.05, Y: 0.08},
		ThumbMCP:  {X: 0.10, Y: 0.04},
		ThumbIP:   {X: 0.14, Y: 0.00},
		ThumbTip:  {X: 0.18, Y: -0.03},
		IndexMCP:  {X: 0.05, Y: -0.03},
		IndexPIP:  {X: 0.06, Y: -0.11},
		IndexDIP:  {X: 0.07, Y: -0.16},
		IndexTip:  {X: 0.07, Y: -0.21},
		MiddleMCP: {X: 0.00, Y: -0.04},
		MiddlePIP: {X: 0.00, Y: -0.13},
		MiddleDIP: {X: 0.00, Y: -0.19},
		MiddleTip: {X: 0.00, Y: -0.24},
		RingMCP:   {X: -0.05, Y: -0.03},
		RingPIP:   {X: -0.06, Y: -0.11},
		RingDIP:   {X: -0.07, Y: -0.16},
		RingTip:   {X: -0.07, Y: -0.20},
		PinkyMCP:  {X: -0.10, Y: -0.02},
		PinkyPIP:  {X: -0.12, Y: -0.08},
		PinkyDIP:  {X: -0.13, Y: -0.12},
		PinkyTip:  {X: -0.14, Y: -0.15},
	}

	// The palm centroid of the offsets is (-0.02, 0), shift it onto (x, y).
	for i, o := range offsets {
		landmarks.Points[i] = Point3D{X: x + o.X + 0.02, Y: y + o.Y}
	}

	return landmarks
}

// FistAt returns a closed right hand centered at (x, y).
func FistAt(x, y float64) HandLandmarks {
	h := OpenPalmAt(x, y)
	for _, f := range [...][3]int{
		{IndexMCP, IndexPIP, IndexTip},
		{MiddleMCP, MiddlePIP, MiddleTip},
		{RingMCP, RingPIP, RingTip},
		{PinkyMCP, PinkyPIP, PinkyTip},
	} {
		mcp := h.Points[f[0]]
		// Fold the tip back toward the wrist past the PIP joint.
		h.Points[f[1]] = Point3D{X: mcp.X, Y: mcp.Y - 0.03}
		h.Points[f[2]] = Point3D{X: mcp.X, Y: mcp.Y + 0.02}
	}
	return h
}
