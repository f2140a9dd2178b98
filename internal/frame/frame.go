// Package frame defines the values handed from the capture worker to the display.
package frame

// PixelFormat describes the byte layout of a Frame's pixel buffer.
type PixelFormat int

const (
	// PixelFormatBGR24 is 8-bit blue, green, red per pixel (OpenCV's native order).
	PixelFormatBGR24 PixelFormat = iota
	// PixelFormatRGB24 is 8-bit red, green, blue per pixel.
	PixelFormatRGB24
)

// BytesPerPixel returns the number of bytes one pixel occupies.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatBGR24, PixelFormatRGB24:
		return 3
	default:
		return 0
	}
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatBGR24:
		return "BGR24"
	case PixelFormatRGB24:
		return "RGB24"
	default:
		return "unknown"
	}
}

// Frame is one color image sample. Pix is owned by the Frame and must not be
// modified after construction.
type Frame struct {
	Pix       []byte
	Width     int
	Height    int
	Format    PixelFormat
	Timestamp int64 // Unix milliseconds
}

// New copies pix into a new Frame.
func New(pix []byte, width, height int, format PixelFormat, timestamp int64) *Frame {
	buf := make([]byte, len(pix))
	copy(buf, pix)
	return &Frame{
		Pix:       buf,
		Width:     width,
		Height:    height,
		Format:    format,
		Timestamp: timestamp,
	}
}

// Valid reports whether the pixel buffer matches the frame geometry.
func (f *Frame) Valid() bool {
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return false
	}
	bpp := f.Format.BytesPerPixel()
	return bpp > 0 && len(f.Pix) == f.Width*f.Height*bpp
}

// GestureSignal is the gesture result for a single frame.
type GestureSignal struct {
	Fired      bool
	Name       string
	Handedness string // "Left" or "Right"
	Confidence float64
	Timestamp  int64 // Unix milliseconds
}
