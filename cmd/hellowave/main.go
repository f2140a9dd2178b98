package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ayusman/hellowave/internal/app"
	"github.com/ayusman/hellowave/internal/capture"
	"github.com/ayusman/hellowave/internal/detector"
	"github.com/ayusman/hellowave/internal/display"
	"github.com/ayusman/hellowave/internal/gesture"
	"github.com/ayusman/hellowave/internal/provider"
	"github.com/ayusman/hellowave/internal/tray"
)

// HighGUI and the tray both need the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	mirror := flag.Bool("mirror", false, "start with the video mirrored")
	flag.Parse()

	fmt.Println("Hello Wave - wave at the camera")

	cfg := app.DefaultConfig()
	cfg.Mirror = *mirror

	det, found := detector.New(detector.DefaultConfig())
	if found {
		log.Println("Using MediaPipe hand detector")
	} else {
		log.Println("MediaPipe service not found, hand detection disabled")
	}

	p := provider.NewSenseProvider(
		capture.NewCamera(cfg.CameraID),
		det,
		capture.NewMotionGate(cfg.MotionThresh, capture.DefaultHold),
		gesture.NewWaveRecognizer(gesture.DefaultConfig()),
	)

	win := display.NewWindow("Hello Wave", cfg.Width, cfg.Height)
	a := app.New(cfg, p, win)
	log.Printf("Session %s", a.SessionID())

	if err := a.Setup(); err != nil {
		win.Close()
		log.Fatalf("Failed to start camera: %v", err)
	}

	tr := tray.New(cfg.Mirror)
	tr.OnMirror(a.ToggleMirror)
	tr.OnQuit(a.Quit)
	a.OnMirrorChanged(tr.SetMirrored)
	a.OnGesture(tr.SetLastGesture)
	tr.Start()
	defer tr.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Printf("Run failed: %v", err)
	}
}
