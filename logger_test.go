package p5

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/p5/render/rendertest"
)

// loggingDevice is a recording device that accepts a logger.
type loggingDevice struct {
	*rendertest.Device

	mu     sync.Mutex
	logger *slog.Logger
}

func (d *loggingDevice) SetLogger(l *slog.Logger) {
	d.mu.Lock()
	d.logger = l
	d.mu.Unlock()
}

func (d *loggingDevice) current() *slog.Logger {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.logger
}

func restoreLogger(t testing.TB) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
}

func TestLoggerSilentByDefault(t *testing.T) {
	restoreLogger(t)

	tests := []struct {
		name  string
		setup func()
	}{
		{"initial", func() {}},
		{"nil restores silence", func() {
			SetLogger(slog.Default())
			SetLogger(nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			l := Logger()
			if l == nil {
				t.Fatal("Logger() = nil")
			}
			for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
				if l.Enabled(context.Background(), level) {
					t.Errorf("logger enabled at %v", level)
				}
			}
		})
	}

	h := nopHandler{}
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("frame", 1)}).(nopHandler); !ok {
		t.Error("WithAttrs left the nop handler")
	}
	if _, ok := h.WithGroup("screen").(nopHandler); !ok {
		t.Error("WithGroup left the nop handler")
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("Handle() = %v", err)
	}
}

func TestSetLogger(t *testing.T) {
	restoreLogger(t)

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)
	if Logger() != custom {
		t.Fatal("Logger() is not the logger passed to SetLogger")
	}
	Logger().Info("reveal", "frame", 3)
	if !strings.Contains(buf.String(), "frame=3") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestSetLoggerPropagatesToScreenDevice(t *testing.T) {
	restoreLogger(t)
	orig := Logger()

	dev := &loggingDevice{Device: rendertest.New()}
	s := newTestScreenOn(t, dev, 64, 64)
	if dev.current() != orig {
		t.Error("NewScreen did not hand the current logger to the device")
	}

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(custom)
	if dev.current() != custom {
		t.Error("SetLogger did not reach the device of an open screen")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	SetLogger(orig)
	if dev.current() != custom {
		t.Error("SetLogger reached the device of a closed screen")
	}
}

func TestSharedDeviceStaysTracked(t *testing.T) {
	restoreLogger(t)

	dev := &loggingDevice{Device: rendertest.New()}
	first := newTestScreenOn(t, dev, 16, 16)
	newTestScreenOn(t, dev, 16, 16)

	if err := first.Close(); err != nil {
		t.Fatal(err)
	}
	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(custom)
	if dev.current() != custom {
		t.Error("closing one screen untracked a device another screen still uses")
	}
}

func TestScreenLogsLifecycle(t *testing.T) {
	restoreLogger(t)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	s := newTestScreen(t, 32, 32)
	headless(s).Resize(64, 32)
	if err := s.Reveal(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	for _, msg := range []string{
		"p5: program compiled",
		"p5: screen opened",
		"p5: framebuffer resized",
		"p5: screen closed",
	} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("log output missing %q:\n%s", msg, buf.String())
		}
	}
}

func TestLoggerConcurrentWithScreens(t *testing.T) {
	restoreLogger(t)

	devicesMu.Lock()
	before := len(devices)
	devicesMu.Unlock()

	const workers = 16
	var wg sync.WaitGroup
	for range workers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
		go func() {
			defer wg.Done()
			d := &loggingDevice{Device: rendertest.New()}
			trackDevice(d)
			Logger().Debug("p5: tracked")
			untrackDevice(d)
		}()
	}
	wg.Wait()

	devicesMu.Lock()
	n := len(devices)
	devicesMu.Unlock()
	if n != before {
		t.Errorf("%d devices tracked, want %d", n, before)
	}
}

func BenchmarkDisabledLog(b *testing.B) {
	restoreLogger(b)
	SetLogger(nil)
	b.ReportAllocs()
	for b.Loop() {
		Logger().Debug("p5: framebuffer resized", "width", 640, "height", 480)
	}
}
