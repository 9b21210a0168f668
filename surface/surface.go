// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/p5/render"
)

var (
	// ErrWindowClosed signals that the surface was closed.
	ErrWindowClosed = errors.New("surface: window closed")

	// ErrCursorUnsupported is returned by surfaces that cannot change the cursor.
	ErrCursorUnsupported = errors.New("surface: cursor not supported")

	// ErrUnavailable is returned by an Opener that cannot run with the given Config.
	ErrUnavailable = errors.New("surface: backend unavailable")
)

// Surface is the windowing collaborator.
//
// Surfaces are used from a single goroutine. Implementations whose input
// arrives on another goroutine queue it internally.
type Surface interface {
	// FramebufferSize returns the presentable size in pixels.
	FramebufferSize() (width, height int)

	// Acquire returns the target for the next frame.
	Acquire() (render.Target, error)

	// Present shows the target returned by the last Acquire.
	Present(target render.Target) error

	// PollEvents returns the events that arrived since the last call.
	PollEvents() []Event

	// Close releases the surface. Further Acquire/Present calls return
	// ErrWindowClosed.
	Close() error
}

// CursorSetter is implemented by surfaces that control the cursor shape.
type CursorSetter interface {
	SetCursor(shape gpucontext.CursorShape) error
}

// FocusReporter is implemented by surfaces that know whether they have
// input focus.
type FocusReporter interface {
	Focused() bool
}

// EventKind identifies an Event.
type EventKind uint8

const (
	EventKeyPress EventKind = iota + 1
	EventKeyRelease
	EventText
	EventMouseMove
	EventMousePress
	EventMouseRelease
	EventScroll
	EventResize
	EventFocus
	EventClose
)

var eventKindNames = [...]string{
	EventKeyPress:     "KeyPress",
	EventKeyRelease:   "KeyRelease",
	EventText:         "Text",
	EventMouseMove:    "MouseMove",
	EventMousePress:   "MousePress",
	EventMouseRelease: "MouseRelease",
	EventScroll:       "Scroll",
	EventResize:       "Resize",
	EventFocus:        "Focus",
	EventClose:        "Close",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) && eventKindNames[k] != "" {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Event is one input or window event. Which fields are meaningful depends
// on Kind: Key/Mods for key events, Button and X/Y for mouse buttons, X/Y
// for moves, DX/DY for scrolls, Width/Height for resizes, Focused for focus
// changes and Text for text input.
type Event struct {
	Kind    EventKind
	Key     gpucontext.Key
	Mods    gpucontext.Modifiers
	Button  gpucontext.MouseButton
	X, Y    float64
	DX, DY  float64
	Width   int
	Height  int
	Focused bool
	Text    string
}

// KeyPress returns a key press event.
func KeyPress(k gpucontext.Key) Event { return Event{Kind: EventKeyPress, Key: k} }

// MousePress returns a mouse press event at (x, y).
func MousePress(b gpucontext.MouseButton, x, y float64) Event {
	return Event{Kind: EventMousePress, Button: b, X: x, Y: y}
}

// MouseRelease returns a mouse release event at (x, y).
func MouseRelease(b gpucontext.MouseButton, x, y float64) Event {
	return Event{Kind: EventMouseRelease, Button: b, X: x, Y: y}
}

// MouseMove returns a cursor move event.
func MouseMove(x, y float64) Event { return Event{Kind: EventMouseMove, X: x, Y: y} }

// CloseRequest returns a window close request.
func CloseRequest() Event { return Event{Kind: EventClose} }
