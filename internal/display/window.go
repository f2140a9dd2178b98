// Package display renders frames and the status message in an OpenCV window.
package display

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"github.com/ayusman/hellowave/internal/frame"
	"github.com/ayusman/hellowave/internal/presenter"
	"gocv.io/x/gocv"
)

// Status text layout.
const (
	statusFont      = gocv.FontHersheySimplex
	statusScale     = 1.0
	statusThickness = 2
	statusBand      = 48
)

var (
	statusColor = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	bandColor   = color.RGBA{R: 0, G: 0, B: 0, A: 0}
)

// Window is a presenter.Surface backed by a gocv window. Like all HighGUI
// calls, its methods must run on the UI goroutine.
type Window struct {
	win    *gocv.Window
	last   gocv.Mat
	status string
	width  int
	height int
}

// NewWindow opens a window titled title. width and height size the blank
// canvas shown before the first frame.
func NewWindow(title string, width, height int) *Window {
	return &Window{
		win:    gocv.NewWindow(title),
		last:   gocv.NewMat(),
		width:  width,
		height: height,
	}
}

// ShowFrame renders f with transform t and redraws the status over it.
func (w *Window) ShowFrame(f *frame.Frame, t presenter.Transform) {
	mat, err := toMat(f, t)
	if err != nil {
		log.Printf("display: dropping frame: %v", err)
		return
	}
	w.last.Close()
	w.last = mat
	w.redraw()
}

// ShowStatus replaces the status message.
func (w *Window) ShowStatus(msg string) {
	w.status = msg
	w.redraw()
}

// Poll pumps HighGUI events for up to d and returns the key pressed, or -1.
func (w *Window) Poll(d time.Duration) int {
	ms := int(d / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return w.win.WaitKey(ms)
}

// Closed reports whether the user closed the window.
func (w *Window) Closed() bool {
	return !w.win.IsOpen()
}

// Close releases the last frame and destroys the window.
func (w *Window) Close() error {
	w.last.Close()
	return w.win.Close()
}

func (w *Window) redraw() {
	var canvas gocv.Mat
	if w.last.Empty() {
		canvas = gocv.NewMatWithSize(w.height, w.width, gocv.MatTypeCV8UC3)
	} else {
		canvas = w.last.Clone()
	}
	defer canvas.Close()

	drawStatus(&canvas, w.status)
	w.win.IMShow(canvas)
}

// toMat converts f to a BGR Mat and applies the mirror transform.
func toMat(f *frame.Frame, t presenter.Transform) (gocv.Mat, error) {
	if !f.Valid() {
		return gocv.Mat{}, fmt.Errorf("invalid frame")
	}

	src, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("wrap frame: %w", err)
	}
	defer src.Close()

	bgr := gocv.NewMat()
	if f.Format == frame.PixelFormatRGB24 {
		gocv.CvtColor(src, &bgr, gocv.ColorRGBToBGR)
	} else {
		src.CopyTo(&bgr)
	}

	if !t.Mirrored() {
		return bgr, nil
	}

	flipped := gocv.NewMat()
	gocv.Flip(bgr, &flipped, 1)
	bgr.Close()
	return flipped, nil
}

// drawStatus draws msg centered in a dark band along the bottom of img.
func drawStatus(img *gocv.Mat, msg string) {
	if msg == "" || img.Empty() {
		return
	}

	rows, cols := img.Rows(), img.Cols()
	band := image.Rect(0, rows-statusBand, cols, rows)
	gocv.Rectangle(img, band, bandColor, -1)

	size := gocv.GetTextSize(msg, statusFont, statusScale, statusThickness)
	x := (cols - size.X) / 2
	if x < 0 {
		x = 0
	}
	y := rows - (statusBand-size.Y)/2
	gocv.PutText(img, msg, image.Pt(x, y), statusFont, statusScale, statusColor, statusThickness)
}
