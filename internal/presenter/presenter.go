// Package presenter turns captured frames and gesture signals into on-screen content.
package presenter

import "github.com/ayusman/hellowave/internal/frame"

// Surface is the display the presenter draws on. Implementations are only
// called from the goroutine that owns the presenter.
type Surface interface {
	// ShowFrame renders f with the given transform.
	ShowFrame(f *frame.Frame, t Transform)
	// ShowStatus replaces the status message.
	ShowStatus(msg string)
}

// Presenter owns the DisplayState and drives a Surface. It is not safe for
// concurrent use; all calls must come from the UI goroutine.
type Presenter struct {
	surface Surface
	state   DisplayState
}

// New creates a Presenter drawing on surface.
func New(surface Surface, mirrored bool) *Presenter {
	return &Presenter{
		surface: surface,
		state:   NewDisplayState(mirrored),
	}
}

// State returns a copy of the current display state.
func (p *Presenter) State() DisplayState {
	return p.state
}

// OnLoaded shows the idle prompt.
func (p *Presenter) OnLoaded() {
	p.state = p.state.Loaded()
	p.surface.ShowStatus(p.state.Status)
}

// OnFrame renders f and updates the status message from sig.
// A nil or malformed frame is ignored.
func (p *Presenter) OnFrame(f *frame.Frame, sig frame.GestureSignal) {
	if !f.Valid() {
		return
	}

	p.surface.ShowFrame(f, p.state.Transform())

	prev := p.state.Status
	p.state = p.state.Step(sig)
	if p.state.Status != prev {
		p.surface.ShowStatus(p.state.Status)
	}
}

// OnToggleMirror flips the mirror flag. The next OnFrame uses the new transform.
func (p *Presenter) OnToggleMirror() {
	p.state = p.state.ToggleMirror()
}
