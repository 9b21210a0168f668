package p5

import (
	"context"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/p5/surface"
)

// spaceWaitInterval is how often SpaceWait polls the surface.
const spaceWaitInterval = 10 * time.Millisecond

// inputState is the input latched at the last poll. Key and button
// presses are replaced on every poll; the cursor position is kept until
// the cursor moves. closed stays set once a close request was seen.
type inputState struct {
	key        gpucontext.Key
	keyPressed bool

	pressed    gpucontext.MouseButton
	hasPressed bool

	released    gpucontext.MouseButton
	hasReleased bool

	x, y float64

	closed bool
}

func newInputState() inputState {
	return inputState{x: -100, y: -100}
}

// latch keeps the last event of each kind.
func (in *inputState) latch(events []surface.Event) {
	in.keyPressed = false
	in.hasPressed = false
	in.hasReleased = false
	for _, ev := range events {
		switch ev.Kind {
		case surface.EventKeyPress:
			in.key, in.keyPressed = ev.Key, true
		case surface.EventMousePress:
			in.pressed, in.hasPressed = ev.Button, true
			in.x, in.y = ev.X, ev.Y
		case surface.EventMouseRelease:
			in.released, in.hasReleased = ev.Button, true
			in.x, in.y = ev.X, ev.Y
		case surface.EventMouseMove:
			in.x, in.y = ev.X, ev.Y
		case surface.EventClose:
			in.closed = true
		}
	}
}

// KeyPress reports whether k was the last key pressed before the last
// Reveal or PollEvents.
func (s *Screen) KeyPress(k gpucontext.Key) bool {
	return s.input.keyPressed && s.input.key == k
}

// MousePress reports whether b was the last mouse button pressed before
// the last Reveal or PollEvents.
func (s *Screen) MousePress(b gpucontext.MouseButton) bool {
	return s.input.hasPressed && s.input.pressed == b
}

// MouseRelease reports whether b was the last mouse button released before
// the last Reveal or PollEvents.
func (s *Screen) MouseRelease(b gpucontext.MouseButton) bool {
	return s.input.hasReleased && s.input.released == b
}

// MouseX returns the cursor x position in window coordinates. It is -100
// until the cursor first moves over the window.
func (s *Screen) MouseX() float64 { return s.input.x }

// MouseY returns the cursor y position in window coordinates.
func (s *Screen) MouseY() float64 { return s.input.y }

// PollEvents latches pending input without revealing a frame and returns
// the polled events.
func (s *Screen) PollEvents() ([]surface.Event, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	events := s.surf.PollEvents()
	s.input.latch(events)
	return events, nil
}

// SpaceWait blocks until the space bar is pressed. It returns
// ErrWindowClosed when the window is closed first, including a close seen
// by an earlier Reveal or PollEvents, and ctx.Err() when ctx is done.
// Events read while waiting are latched.
func (s *Screen) SpaceWait(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	ticker := time.NewTicker(spaceWaitInterval)
	defer ticker.Stop()
	for {
		if s.input.closed {
			return ErrWindowClosed
		}
		events := s.surf.PollEvents()
		s.input.latch(events)
		for _, ev := range events {
			switch {
			case ev.Kind == surface.EventKeyPress && ev.Key == gpucontext.KeySpace:
				return nil
			case ev.Kind == surface.EventClose:
				return ErrWindowClosed
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
