package app

import (
	"context"
	"fmt"

	"github.com/ayusman/hellowave/internal/frame"
	"github.com/ayusman/hellowave/internal/provider"
)

// Message is one frame and its gesture signal handed from the capture
// worker to the UI goroutine.
type Message struct {
	Frame  *frame.Frame
	Signal frame.GestureSignal
}

// runCapture is the capture loop. It acquires frames from p and sends them
// on out until acquisition fails or ctx is cancelled, then closes out.
//
// out should be unbuffered: the send blocks until the UI goroutine takes the
// message, so at most one frame is in flight to the display.
func runCapture(ctx context.Context, p provider.Provider, out chan<- Message) error {
	defer close(out)

	for {
		// Cancellation is checked between acquisitions; a blocked
		// AcquireFrame only returns once the provider is disposed.
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := captureOne(ctx, p, out); err != nil {
			return err
		}
	}
}

// captureOne runs one acquire/query/send/release iteration. ReleaseFrame is
// deferred so the provider's frame is returned on every exit path.
func captureOne(ctx context.Context, p provider.Provider, out chan<- Message) error {
	if err := p.AcquireFrame(true); err != nil {
		return err
	}
	defer p.ReleaseFrame()

	f, err := p.QuerySample()
	if err != nil {
		return fmt.Errorf("%w: query sample: %w", provider.ErrAcquire, err)
	}
	msg := Message{Frame: f, Signal: p.QueryGestureState()}

	select {
	case out <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
