// Package capture provides color camera capture and motion gating using GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Default stream settings.
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrReadFailed is returned when the device yields no frame.
	ErrReadFailed = errors.New("failed to read frame from camera")
)

// Camera defines the interface for color camera implementations.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame blocks until the next frame is available.
	// The caller is responsible for closing the returned Mat.
	ReadFrame() (*gocv.Mat, error)
	SetResolution(width, height int)
	Resolution() (width, height int)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// videoSource is the part of a video device the camera drives.
type videoSource interface {
	Read(m *gocv.Mat) bool
	Configure(width, height, fps int)
	Close() error
}

// gocvSource is a videoSource over a gocv.VideoCapture.
type gocvSource struct {
	*gocv.VideoCapture
}

func openGocvSource(deviceID int) (videoSource, error) {
	vc, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, err
	}
	return gocvSource{vc}, nil
}

func (s gocvSource) Configure(width, height, fps int) {
	s.Set(gocv.VideoCaptureFrameWidth, float64(width))
	s.Set(gocv.VideoCaptureFrameHeight, float64(height))
	s.Set(gocv.VideoCaptureFPS, float64(fps))
}

// cameraImpl captures from a local video device through GoCV.
type cameraImpl struct {
	deviceID int
	open     func(deviceID int) (videoSource, error)
	source   videoSource
	mu       sync.Mutex
	running  bool
	reading  bool
	width    int
	height   int
	fps      int
}

// NewCamera creates a Camera for the given device ID at 640x480, 30 FPS.
func NewCamera(deviceID int) Camera {
	return newCamera(deviceID, openGocvSource)
}

func newCamera(deviceID int, open func(int) (videoSource, error)) *cameraImpl {
	return &cameraImpl{
		deviceID: deviceID,
		open:     open,
		width:    DefaultWidth,
		height:   DefaultHeight,
		fps:      DefaultFPS,
	}
}

// Open opens the device and applies the configured stream settings.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	source, err := c.open(c.deviceID)
	if err != nil {
		return err
	}
	source.Configure(c.width, c.height, c.fps)

	c.source = source
	c.running = true

	return nil
}

// Close releases the device. It is safe to call on a camera that was never
// opened. If a read is in flight the camera is marked closed at once and the
// device is released by ReadFrame when the read returns.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	source := c.source
	c.source = nil
	c.running = false

	if source == nil || c.reading {
		return nil
	}
	return source.Close()
}

// ReadFrame reads a single frame from the device. Only one read may be in
// flight at a time.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	source := c.source
	if !c.running || source == nil {
		c.mu.Unlock()
		return nil, ErrCameraNotOpen
	}
	c.reading = true
	c.mu.Unlock()

	mat := gocv.NewMat()
	ok := source.Read(&mat)

	c.mu.Lock()
	c.reading = false
	closed := c.source != source
	c.mu.Unlock()

	if closed {
		// Close ran during the read and left the device to us.
		mat.Close()
		source.Close()
		return nil, ErrCameraNotOpen
	}

	if !ok {
		mat.Close()
		return nil, ErrReadFailed
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// SetResolution sets the requested frame size. Non-positive values are ignored.
func (c *cameraImpl) SetResolution(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.width = width
	c.height = height

	if c.source != nil && !c.reading {
		c.source.Configure(c.width, c.height, c.fps)
	}
}

// Resolution returns the requested frame size.
func (c *cameraImpl) Resolution() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.width, c.height
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.source != nil && !c.reading {
		c.source.Configure(c.width, c.height, c.fps)
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen returns true if the camera is currently open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
