package p5

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/p5/render"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// devices are the render devices of open screens; SetLogger forwards the
// logger to the ones that accept it.
var (
	devicesMu sync.Mutex
	devices   = make(map[render.Device]int)
)

// SetLogger configures the logger for p5 and the devices of open screens.
// By default, p5 produces no log output. Pass nil to restore the silent
// default.
//
// Log levels used by p5:
//   - [slog.LevelDebug]: framebuffer resizes, program compilation
//   - [slog.LevelInfo]: screen lifecycle
//   - [slog.LevelWarn]: release errors, events dropped while closing
//
// Example:
//
//	p5.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	devicesMu.Lock()
	defer devicesMu.Unlock()
	for d := range devices {
		propagateLogger(d, l)
	}
}

// Logger returns the current logger used by p5.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(d render.Device, l *slog.Logger) {
	if ls, ok := d.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

// trackDevice registers d for logger propagation and hands it the current
// logger.
func trackDevice(d render.Device) {
	devicesMu.Lock()
	defer devicesMu.Unlock()
	devices[d]++
	propagateLogger(d, Logger())
}

func untrackDevice(d render.Device) {
	devicesMu.Lock()
	defer devicesMu.Unlock()
	if devices[d] <= 1 {
		delete(devices, d)
		return
	}
	devices[d]--
}
