package p5

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/p5/surface"
)

func TestInputLatch(t *testing.T) {
	tests := []struct {
		name   string
		events []surface.Event
		check  func(t *testing.T, s *Screen)
	}{
		{
			name:   "initial cursor",
			events: nil,
			check: func(t *testing.T, s *Screen) {
				if s.MouseX() != -100 || s.MouseY() != -100 {
					t.Errorf("cursor = (%v, %v), want (-100, -100)", s.MouseX(), s.MouseY())
				}
			},
		},
		{
			name:   "last key wins",
			events: []surface.Event{surface.KeyPress(gpucontext.KeyA), surface.KeyPress(gpucontext.KeySpace)},
			check: func(t *testing.T, s *Screen) {
				if !s.KeyPress(gpucontext.KeySpace) {
					t.Error("KeyPress(Space) = false")
				}
				if s.KeyPress(gpucontext.KeyA) {
					t.Error("KeyPress(A) = true after a later key")
				}
			},
		},
		{
			name: "buttons move the cursor",
			events: []surface.Event{
				surface.MousePress(gpucontext.MouseButtonLeft, 10, 20),
				surface.MouseRelease(gpucontext.MouseButtonRight, 30, 40),
			},
			check: func(t *testing.T, s *Screen) {
				if !s.MousePress(gpucontext.MouseButtonLeft) || !s.MouseRelease(gpucontext.MouseButtonRight) {
					t.Error("buttons not latched")
				}
				if s.MousePress(gpucontext.MouseButtonRight) || s.MouseRelease(gpucontext.MouseButtonLeft) {
					t.Error("wrong buttons latched")
				}
				if s.MouseX() != 30 || s.MouseY() != 40 {
					t.Errorf("cursor = (%v, %v), want (30, 40)", s.MouseX(), s.MouseY())
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScreen(t, 8, 8)
			headless(s).Inject(tt.events...)
			if _, err := s.PollEvents(); err != nil {
				t.Fatal(err)
			}
			tt.check(t, s)
		})
	}
}

func TestInputResetsEachPoll(t *testing.T) {
	s := newTestScreen(t, 8, 8)
	headless(s).Inject(
		surface.KeyPress(gpucontext.KeyA),
		surface.MousePress(gpucontext.MouseButtonLeft, 5, 6),
	)
	if err := s.Reveal(); err != nil {
		t.Fatal(err)
	}
	if !s.KeyPress(gpucontext.KeyA) || !s.MousePress(gpucontext.MouseButtonLeft) {
		t.Fatal("input not latched by Reveal")
	}

	if err := s.Reveal(); err != nil {
		t.Fatal(err)
	}
	if s.KeyPress(gpucontext.KeyA) || s.MousePress(gpucontext.MouseButtonLeft) {
		t.Error("presses survived a frame without input")
	}
	if s.MouseX() != 5 || s.MouseY() != 6 {
		t.Errorf("cursor = (%v, %v), want it kept at (5, 6)", s.MouseX(), s.MouseY())
	}
}

func TestPollEventsAfterClose(t *testing.T) {
	s := newTestScreen(t, 8, 8)
	_ = s.Close()
	if _, err := s.PollEvents(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("PollEvents() = %v, want ErrDestroyed", err)
	}
}

func TestSpaceWait(t *testing.T) {
	t.Run("space", func(t *testing.T) {
		s := newTestScreen(t, 8, 8)
		headless(s).Inject(surface.KeyPress(gpucontext.KeyA), surface.KeyPress(gpucontext.KeySpace))
		if err := s.SpaceWait(context.Background()); err != nil {
			t.Fatalf("SpaceWait() = %v", err)
		}
		if !s.KeyPress(gpucontext.KeySpace) {
			t.Error("space press not latched")
		}
	})

	t.Run("close", func(t *testing.T) {
		s := newTestScreen(t, 8, 8)
		headless(s).Inject(surface.CloseRequest())
		if err := s.SpaceWait(context.Background()); err != ErrWindowClosed {
			t.Fatalf("SpaceWait() = %v, want ErrWindowClosed", err)
		}
	})

	t.Run("closed before waiting", func(t *testing.T) {
		s := newTestScreen(t, 8, 8)
		headless(s).Inject(surface.CloseRequest())
		if err := s.Reveal(); err != nil {
			t.Fatalf("Reveal() delivering the close request = %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.SpaceWait(ctx); err != ErrWindowClosed {
			t.Fatalf("SpaceWait() = %v, want ErrWindowClosed", err)
		}
	})

	t.Run("context", func(t *testing.T) {
		s := newTestScreen(t, 8, 8)
		ctx, cancel := context.WithTimeout(context.Background(), 3*spaceWaitInterval)
		defer cancel()
		start := time.Now()
		if err := s.SpaceWait(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("SpaceWait() = %v, want DeadlineExceeded", err)
		}
		if time.Since(start) < 2*spaceWaitInterval {
			t.Error("SpaceWait returned before the deadline")
		}
	})

	t.Run("other keys keep waiting", func(t *testing.T) {
		s := newTestScreen(t, 8, 8)
		headless(s).Inject(surface.KeyPress(gpucontext.KeyEnter))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := s.SpaceWait(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("SpaceWait() = %v, want Canceled", err)
		}
		if !s.KeyPress(gpucontext.KeyEnter) {
			t.Error("key read while waiting not latched")
		}
	})
}
