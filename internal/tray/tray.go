// Package tray provides the system tray menu for Hello Wave.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the tray icon menu. It mirrors the window's mirror button and
// offers a Quit item.
type Tray struct {
	onMirror func()
	onQuit   func()
	mirrored bool
	mu       sync.RWMutex

	menuMirror *systray.MenuItem
	menuLast   *systray.MenuItem
	done       chan struct{}
}

// New creates a Tray showing the given mirror state.
func New(mirrored bool) *Tray {
	return &Tray{
		mirrored: mirrored,
		done:     make(chan struct{}),
	}
}

// OnMirror sets the callback invoked when the Mirror item is clicked.
func (t *Tray) OnMirror(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMirror = fn
}

// OnQuit sets the callback invoked when the Quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Start registers the tray with the platform without taking over the main
// thread, which belongs to the video window.
func (t *Tray) Start() {
	systray.Register(t.onReady, t.onExit)
}

// Stop removes the tray icon.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Hello Wave")
	systray.SetTooltip("Wave at the camera")

	t.mu.Lock()
	t.menuMirror = systray.AddMenuItem(mirrorTitle(t.mirrored), "Flip the video horizontally")
	systray.AddSeparator()
	t.menuLast = systray.AddMenuItem(lastTitle(""), "Last detected gesture")
	t.menuLast.Disable()
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Hello Wave")
	mirrorClicks := t.menuMirror.ClickedCh
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-mirrorClicks:
				t.handleMirror()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			case <-t.done:
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	close(t.done)
}

// handleMirror forwards a click. The label follows SetMirrored once the
// window has applied the change.
func (t *Tray) handleMirror() {
	t.mu.RLock()
	callback := t.onMirror
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetMirrored updates the Mirror item label.
func (t *Tray) SetMirrored(mirrored bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.mirrored = mirrored
	if t.menuMirror != nil {
		t.menuMirror.SetTitle(mirrorTitle(mirrored))
	}
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLast != nil {
		t.menuLast.SetTitle(lastTitle(name))
	}
}

// IsMirrored returns the mirror state last reported through SetMirrored.
func (t *Tray) IsMirrored() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mirrored
}

func mirrorTitle(mirrored bool) string {
	if mirrored {
		return "● Mirrored"
	}
	return "○ Not mirrored"
}

func lastTitle(name string) string {
	if name == "" {
		return "Last: none"
	}
	return "Last: " + name
}
