package presenter

import "github.com/ayusman/hellowave/internal/frame"

// Status messages shown under the video.
const (
	IdlePrompt = "(Wave Your Hand)"
	Greeting   = "Hello World!"
)

// ResetFrames is the number of frames after a wave before the greeting is cleared.
const ResetFrames = 50

// DisplayState is the presenter's view state. Transitions return a new value.
type DisplayState struct {
	Mirrored           bool
	Status             string
	Armed              bool
	FramesSinceTrigger int
}

// Transform is a scale about the image center applied when rendering.
type Transform struct {
	ScaleX float64
	ScaleY float64
}

// Mirrored reports whether the transform flips the image horizontally.
func (t Transform) Mirrored() bool {
	return t.ScaleX < 0
}

// NewDisplayState returns the state before the window has loaded.
func NewDisplayState(mirrored bool) DisplayState {
	return DisplayState{Mirrored: mirrored}
}

// Transform returns the render transform for the current mirror flag.
func (s DisplayState) Transform() Transform {
	if s.Mirrored {
		return Transform{ScaleX: -1, ScaleY: 1}
	}
	return Transform{ScaleX: 1, ScaleY: 1}
}

// ToggleMirror flips the mirror flag.
func (s DisplayState) ToggleMirror() DisplayState {
	s.Mirrored = !s.Mirrored
	return s
}

// Loaded resets the status to the idle prompt.
func (s DisplayState) Loaded() DisplayState {
	s.Status = IdlePrompt
	s.Armed = false
	s.FramesSinceTrigger = 0
	return s
}

// Step advances the state by one displayed frame.
//
// While armed, every frame counts toward ResetFrames regardless of the
// signal; on reaching it the status returns to the idle prompt. A fired
// signal only arms the countdown when it is not already running.
func (s DisplayState) Step(sig frame.GestureSignal) DisplayState {
	if s.Armed {
		s.FramesSinceTrigger++
		if s.FramesSinceTrigger >= ResetFrames {
			s.Status = IdlePrompt
			s.Armed = false
			s.FramesSinceTrigger = 0
		}
		return s
	}

	if sig.Fired {
		s.Status = Greeting
		s.Armed = true
		s.FramesSinceTrigger = 0
	}
	return s
}
