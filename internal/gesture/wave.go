// Package gesture recognizes the wave gesture from a stream of tracked hands.
package gesture

import (
	"math"

	"github.com/ayusman/hellowave/internal/detector"
)

// Wave is the name of the only gesture the recognizer reports.
const Wave = "wave"

// PathPoint is one palm position in the tracked path.
type PathPoint struct {
	X         float64 // normalized image X
	Y         float64 // normalized image Y
	Timestamp int64   // milliseconds
}

// Config tunes wave recognition.
type Config struct {
	// WindowMs is how much path history is considered.
	WindowMs int64
	// MinSwings is the number of side-to-side direction changes required.
	MinSwings int
	// MinAmplitude is the smallest horizontal travel that counts as a swing.
	MinAmplitude float64
	// MinFingers is how many fingers must be extended for the hand to count as open.
	MinFingers int
	// CooldownMs suppresses repeated waves after one fires.
	CooldownMs int64
	// MaxPath bounds the path buffer.
	MaxPath int
}

// DefaultConfig returns settings that fire on three quick swings of an open hand.
func DefaultConfig() Config {
	return Config{
		WindowMs:     1500,
		MinSwings:    3,
		MinAmplitude: 0.04,
		MinFingers:   3,
		CooldownMs:   1000,
		MaxPath:      60,
	}
}

// Result is the outcome of one Update.
type Result struct {
	Fired      bool
	Handedness string
	Confidence float64
	Swings     int
}

// WaveRecognizer tracks the palm of the most confident open hand and fires
// when it swings side to side enough times within the window. It is not
// safe for concurrent use.
type WaveRecognizer struct {
	config    Config
	path      []PathPoint
	lastFired int64
	fired     bool
}

// NewWaveRecognizer creates a recognizer. Non-positive window, swing,
// amplitude and path settings take their defaults.
func NewWaveRecognizer(config Config) *WaveRecognizer {
	def := DefaultConfig()
	if config.WindowMs <= 0 {
		config.WindowMs = def.WindowMs
	}
	if config.MinSwings <= 0 {
		config.MinSwings = def.MinSwings
	}
	if config.MinAmplitude <= 0 {
		config.MinAmplitude = def.MinAmplitude
	}
	if config.MinFingers < 0 {
		config.MinFingers = 0
	}
	if config.CooldownMs < 0 {
		config.CooldownMs = 0
	}
	if config.MaxPath <= 0 {
		config.MaxPath = def.MaxPath
	}

	return &WaveRecognizer{
		config: config,
		path:   make([]PathPoint, 0, config.MaxPath),
	}
}

// Update feeds the hands tracked at timestampMs and reports whether a wave fired.
func (w *WaveRecognizer) Update(hands []detector.HandLandmarks, timestampMs int64) Result {
	hand := w.pickHand(hands)
	if hand == nil {
		// Losing the hand or closing it breaks the wave.
		w.path = w.path[:0]
		return Result{}
	}

	center := hand.PalmCenter()
	w.push(PathPoint{X: center.X, Y: center.Y, Timestamp: timestampMs})

	swings := countSwings(w.path, w.config.MinAmplitude)
	res := Result{
		Handedness: hand.Handedness,
		Swings:     swings,
	}

	if swings < w.config.MinSwings {
		return res
	}
	if w.fired && timestampMs-w.lastFired < w.config.CooldownMs {
		return res
	}

	res.Fired = true
	res.Confidence = hand.Score
	w.fired = true
	w.lastFired = timestampMs

	// Clear path buffer to prevent repeated triggers
	w.path = w.path[:0]

	return res
}

// Reset forgets the tracked path and cooldown.
func (w *WaveRecognizer) Reset() {
	w.path = w.path[:0]
	w.fired = false
	w.lastFired = 0
}

// Path returns a copy of the tracked path.
func (w *WaveRecognizer) Path() []PathPoint {
	out := make([]PathPoint, len(w.path))
	copy(out, w.path)
	return out
}

func (w *WaveRecognizer) pickHand(hands []detector.HandLandmarks) *detector.HandLandmarks {
	var best *detector.HandLandmarks
	for i := range hands {
		h := &hands[i]
		if h.FingersExtended() < w.config.MinFingers {
			continue
		}
		if best == nil || h.Score > best.Score {
			best = h
		}
	}
	return best
}

func (w *WaveRecognizer) push(p PathPoint) {
	// Drop points that fell out of the window
	cutoff := p.Timestamp - w.config.WindowMs
	drop := 0
	for drop < len(w.path) && w.path[drop].Timestamp < cutoff {
		drop++
	}
	if drop > 0 {
		w.path = append(w.path[:0], w.path[drop:]...)
	}

	if len(w.path) >= w.config.MaxPath {
		copy(w.path, w.path[1:])
		w.path = w.path[:w.config.MaxPath-1]
	}
	w.path = append(w.path, p)
}

// countSwings counts horizontal direction reversals whose travel is at
// least minAmplitude. Jitter smaller than minAmplitude is ignored.
func countSwings(path []PathPoint, minAmplitude float64) int {
	if len(path) < 2 {
		return 0
	}

	swings := 0
	dir := 0 // -1 left, +1 right, 0 unknown
	extreme := path[0].X

	for _, p := range path[1:] {
		delta := p.X - extreme
		switch {
		case dir >= 0 && delta > 0:
			extreme = p.X
			if dir == 0 && math.Abs(p.X-path[0].X) >= minAmplitude {
				dir = 1
			}
		case dir <= 0 && delta < 0:
			extreme = p.X
			if dir == 0 && math.Abs(p.X-path[0].X) >= minAmplitude {
				dir = -1
			}
		case dir != 0 && math.Abs(delta) >= minAmplitude:
			// Moved back far enough from the last extreme.
			swings++
			dir = -dir
			extreme = p.X
		}
	}

	return swings
}
