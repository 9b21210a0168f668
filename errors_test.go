package p5

import (
	"errors"
	"testing"
)

func TestDrawErrorUnwrap(t *testing.T) {
	backend := errors.New("pipeline rejected")
	var err error = &DrawError{Pass: "stroke", Program: 1, Err: backend}

	if !errors.Is(err, ErrDrawFailed) {
		t.Error("DrawError is not ErrDrawFailed")
	}
	if !errors.Is(err, backend) {
		t.Error("DrawError does not unwrap to the backend error")
	}
	var de *DrawError
	if !errors.As(err, &de) || de.Pass != "stroke" || de.Program != 1 {
		t.Errorf("errors.As = %+v", de)
	}
	want := "p5: stroke draw with program 1: pipeline rejected"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWindowErrorsAreSurfaceErrors(t *testing.T) {
	if ErrWindowClosed.Error() == "" || ErrCursorUnsupported.Error() == "" {
		t.Fatal("empty sentinel message")
	}
	if errors.Is(ErrWindowClosed, ErrSwapFailed) {
		t.Error("ErrWindowClosed must stay distinct from ErrSwapFailed")
	}
}
