package gesture

import (
	"testing"

	"github.com/ayusman/hellowave/internal/detector"
)

// palms returns one open palm per x position.
func palms(xs ...float64) [][]detector.HandLandmarks {
	out := make([][]detector.HandLandmarks, len(xs))
	for i, x := range xs {
		out[i] = []detector.HandLandmarks{detector.OpenPalmAt(x, 0.5)}
	}
	return out
}

// feed sends frames 100ms apart starting at start and returns the results.
func feed(w *WaveRecognizer, start int64, frames [][]detector.HandLandmarks) []Result {
	results := make([]Result, len(frames))
	for i, hands := range frames {
		results[i] = w.Update(hands, start+int64(i)*100)
	}
	return results
}

func firedAt(results []Result) []int {
	var idx []int
	for i, r := range results {
		if r.Fired {
			idx = append(idx, i)
		}
	}
	return idx
}

func TestWaveRecognizer_FiresOnThreeSwings(t *testing.T) {
	w := NewWaveRecognizer(DefaultConfig())

	results := feed(w, 0, palms(0.4, 0.6, 0.4, 0.6, 0.4))

	got := firedAt(results)
	if len(got) != 1 || got[0] != 4 {
		t.Fatalf("fired at %v, want [4]", got)
	}
	r := results[4]
	if r.Handedness != "Right" {
		t.Errorf("Handedness = %q, want Right", r.Handedness)
	}
	if r.Confidence <= 0 {
		t.Errorf("Confidence = %f, want > 0", r.Confidence)
	}
	if len(w.Path()) != 0 {
		t.Errorf("path should be cleared after firing, len = %d", len(w.Path()))
	}
}

func TestWaveRecognizer_NoFire(t *testing.T) {
	tests := []struct {
		name   string
		frames [][]detector.HandLandmarks
	}{
		{
			name:   "hand held still",
			frames: palms(0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5),
		},
		{
			name:   "single sweep",
			frames: palms(0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8),
		},
		{
			name:   "jitter below amplitude",
			frames: palms(0.50, 0.52, 0.50, 0.52, 0.50, 0.52, 0.50),
		},
		{
			name: "closed fist",
			frames: [][]detector.HandLandmarks{
				{detector.FistAt(0.4, 0.5)},
				{detector.FistAt(0.6, 0.5)},
				{detector.FistAt(0.4, 0.5)},
				{detector.FistAt(0.6, 0.5)},
				{detector.FistAt(0.4, 0.5)},
			},
		},
		{
			name:   "no hands",
			frames: make([][]detector.HandLandmarks, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWaveRecognizer(DefaultConfig())
			if got := firedAt(feed(w, 0, tt.frames)); len(got) != 0 {
				t.Errorf("fired at %v, want none", got)
			}
		})
	}
}

func TestWaveRecognizer_LosingHandResets(t *testing.T) {
	w := NewWaveRecognizer(DefaultConfig())

	frames := palms(0.4, 0.6, 0.4)
	frames = append(frames, nil)
	frames = append(frames, palms(0.6, 0.4)...)

	if got := firedAt(feed(w, 0, frames)); len(got) != 0 {
		t.Errorf("fired at %v, want none after hand was lost", got)
	}
}

func TestWaveRecognizer_WindowExpiresOldSwings(t *testing.T) {
	w := NewWaveRecognizer(DefaultConfig())

	// Swings spaced 1s apart never fit three into a 1.5s window.
	for i, x := range []float64{0.4, 0.6, 0.4, 0.6, 0.4, 0.6} {
		if r := w.Update([]detector.HandLandmarks{detector.OpenPalmAt(x, 0.5)}, int64(i)*1000); r.Fired {
			t.Fatalf("fired at update %d, want none", i)
		}
	}
}

func TestWaveRecognizer_Cooldown(t *testing.T) {
	w := NewWaveRecognizer(DefaultConfig())

	first := feed(w, 0, palms(0.4, 0.6, 0.4, 0.6, 0.4))
	if len(firedAt(first)) != 1 {
		t.Fatal("first wave should fire")
	}

	// Completes within a second of the first firing.
	second := feed(w, 500, palms(0.6, 0.4, 0.6, 0.4, 0.6))
	if got := firedAt(second); len(got) != 0 {
		t.Errorf("second wave fired at %v during cooldown", got)
	}

	third := feed(w, 5000, palms(0.4, 0.6, 0.4, 0.6, 0.4))
	if len(firedAt(third)) != 1 {
		t.Error("wave after cooldown should fire")
	}
}

func TestWaveRecognizer_PicksMostConfidentOpenHand(t *testing.T) {
	w := NewWaveRecognizer(DefaultConfig())

	left := detector.OpenPalmAt(0.2, 0.5)
	left.Handedness = "Left"
	left.Score = 0.6

	var results []Result
	for i, x := range []float64{0.4, 0.6, 0.4, 0.6, 0.4} {
		right := detector.OpenPalmAt(x, 0.5)
		right.Score = 0.9
		results = append(results, w.Update([]detector.HandLandmarks{left, right}, int64(i)*100))
	}

	if !results[4].Fired {
		t.Fatal("wave of the confident hand should fire")
	}
	if results[4].Handedness != "Right" {
		t.Errorf("Handedness = %q, want Right", results[4].Handedness)
	}
}

func TestWaveRecognizer_MaxPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPath = 4
	w := NewWaveRecognizer(cfg)

	feed(w, 0, palms(0.5, 0.5, 0.5, 0.5, 0.5, 0.5))
	if got := len(w.Path()); got != 4 {
		t.Errorf("len(Path()) = %d, want 4", got)
	}
}

func TestWaveRecognizer_Reset(t *testing.T) {
	w := NewWaveRecognizer(DefaultConfig())
	feed(w, 0, palms(0.4, 0.6, 0.4, 0.6, 0.4))

	w.Reset()
	if len(w.Path()) != 0 {
		t.Error("Reset() should clear the path")
	}

	// Cooldown is cleared too, so an immediate wave fires.
	if len(firedAt(feed(w, 500, palms(0.4, 0.6, 0.4, 0.6, 0.4)))) != 1 {
		t.Error("wave after Reset() should fire")
	}
}

func TestCountSwings(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want int
	}{
		{name: "empty", xs: nil, want: 0},
		{name: "single point", xs: []float64{0.5}, want: 0},
		{name: "one swing", xs: []float64{0.4, 0.6, 0.4}, want: 1},
		{name: "slow build up", xs: []float64{0.50, 0.52, 0.50, 0.46, 0.55}, want: 1},
		{name: "four swings", xs: []float64{0.3, 0.7, 0.3, 0.7, 0.3, 0.7}, want: 4},
		{name: "small return ignored", xs: []float64{0.3, 0.7, 0.68, 0.7}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := make([]PathPoint, len(tt.xs))
			for i, x := range tt.xs {
				path[i] = PathPoint{X: x}
			}
			if got := countSwings(path, 0.04); got != tt.want {
				t.Errorf("countSwings() = %d, want %d", got, tt.want)
			}
		})
	}
}
