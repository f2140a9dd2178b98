// Package detector provides hand tracking for the wave recognizer.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark position in normalized image coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 landmarks of one tracked hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// palmIndices are the landmarks that move rigidly with the palm.
var palmIndices = [...]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// PalmCenter returns the centroid of the wrist and the four finger MCP joints.
func (h *HandLandmarks) PalmCenter() Point3D {
	var c Point3D
	if h == nil {
		return c
	}
	for _, i := range palmIndices {
		c.X += h.Points[i].X
		c.Y += h.Points[i].Y
		c.Z += h.Points[i].Z
	}
	n := float64(len(palmIndices))
	return Point3D{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
}

// FingersExtended reports how many of the four fingers have their tip further
// from the wrist than their PIP joint, in the image plane.
func (h *HandLandmarks) FingersExtended() int {
	if h == nil {
		return 0
	}
	wrist := h.Points[Wrist]
	count := 0
	for _, f := range [...][2]int{{IndexPIP, IndexTip}, {MiddlePIP, MiddleTip}, {RingPIP, RingTip}, {PinkyPIP, PinkyTip}} {
		if dist2(h.Points[f[1]], wrist) > dist2(h.Points[f[0]], wrist) {
			count++
		}
	}
	return count
}

func dist2(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
