package presenter

import (
	"testing"

	"github.com/ayusman/hellowave/internal/frame"
)

func TestDisplayState_Step(t *testing.T) {
	tests := []struct {
		name  string
		state DisplayState
		sig   frame.GestureSignal
		want  DisplayState
	}{
		{
			name:  "idle without wave",
			state: DisplayState{Status: IdlePrompt},
			sig:   frame.GestureSignal{},
			want:  DisplayState{Status: IdlePrompt},
		},
		{
			name:  "idle with wave arms",
			state: DisplayState{Status: IdlePrompt},
			sig:   frame.GestureSignal{Fired: true},
			want:  DisplayState{Status: Greeting, Armed: true},
		},
		{
			name:  "armed counts up",
			state: DisplayState{Status: Greeting, Armed: true, FramesSinceTrigger: 3},
			sig:   frame.GestureSignal{},
			want:  DisplayState{Status: Greeting, Armed: true, FramesSinceTrigger: 4},
		},
		{
			name:  "armed wave does not restart",
			state: DisplayState{Status: Greeting, Armed: true, FramesSinceTrigger: 3},
			sig:   frame.GestureSignal{Fired: true},
			want:  DisplayState{Status: Greeting, Armed: true, FramesSinceTrigger: 4},
		},
		{
			name:  "threshold resets",
			state: DisplayState{Status: Greeting, Armed: true, FramesSinceTrigger: ResetFrames - 1},
			sig:   frame.GestureSignal{Fired: true},
			want:  DisplayState{Status: IdlePrompt},
		},
		{
			name:  "mirror flag preserved",
			state: DisplayState{Mirrored: true, Status: IdlePrompt},
			sig:   frame.GestureSignal{Fired: true},
			want:  DisplayState{Mirrored: true, Status: Greeting, Armed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Step(tt.sig); got != tt.want {
				t.Errorf("Step() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDisplayState_ToggleMirrorTwice(t *testing.T) {
	s := NewDisplayState(false)
	if got := s.ToggleMirror().ToggleMirror(); got != s {
		t.Errorf("double toggle = %+v, want %+v", got, s)
	}
}

func TestDisplayState_Loaded(t *testing.T) {
	s := DisplayState{Mirrored: true, Status: Greeting, Armed: true, FramesSinceTrigger: 9}
	want := DisplayState{Mirrored: true, Status: IdlePrompt}
	if got := s.Loaded(); got != want {
		t.Errorf("Loaded() = %+v, want %+v", got, want)
	}
}
