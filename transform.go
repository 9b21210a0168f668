package p5

import (
	"fmt"
	"io"
)

// TransformStack is the current model-view-projection matrix plus a stack of
// saved matrices. Every transform pre-multiplies: current = M * current.
//
// The stack is seeded with one identity entry that Pop never removes, so
// popping more often than pushing resets to identity instead of failing.
type TransformStack struct {
	current Mat4
	stack   []Mat4
}

// NewTransformStack returns a stack whose current matrix is the identity.
func NewTransformStack() *TransformStack {
	return &TransformStack{current: Identity(), stack: []Mat4{Identity()}}
}

// Current returns the current matrix.
func (t *TransformStack) Current() Mat4 { return t.current }

// Depth returns the number of saved matrices, not counting the seed.
func (t *TransformStack) Depth() int { return len(t.stack) - 1 }

// Push saves a copy of the current matrix.
func (t *TransformStack) Push() { t.stack = append(t.stack, t.current) }

// Pop restores the most recently saved matrix, or the identity when
// nothing was saved.
func (t *TransformStack) Pop() {
	if n := len(t.stack); n > 1 {
		t.current = t.stack[n-1]
		t.stack = t.stack[:n-1]
		return
	}
	t.current = Identity()
}

// Reset sets the current matrix to the identity. Saved matrices are kept.
func (t *TransformStack) Reset() { t.current = Identity() }

// Apply pre-multiplies the current matrix by m.
func (t *TransformStack) Apply(m Mat4) { t.current = m.Mul(t.current) }

func (t *TransformStack) Translate(x, y, z float32) { t.Apply(Translation(x, y, z)) }
func (t *TransformStack) Scale(x, y, z float32)     { t.Apply(Scaling(x, y, z)) }
func (t *TransformStack) RotateX(angle float32)     { t.Apply(RotationX(angle)) }
func (t *TransformStack) RotateY(angle float32)     { t.Apply(RotationY(angle)) }
func (t *TransformStack) RotateZ(angle float32)     { t.Apply(RotationZ(angle)) }
func (t *TransformStack) ShearX(angle float32)      { t.Apply(ShearingX(angle)) }
func (t *TransformStack) ShearY(angle float32)      { t.Apply(ShearingY(angle)) }

// Rotate rotates by angle radians about the axis (x, y, z).
func (t *TransformStack) Rotate(angle, x, y, z float32) { t.Apply(Rotation(angle, x, y, z)) }

// PushMatrix saves the current transform.
func (s *Screen) PushMatrix() { s.transform.Push() }

// PopMatrix restores the last saved transform, or the identity.
func (s *Screen) PopMatrix() { s.transform.Pop() }

// ResetMatrix sets the current transform to the identity.
func (s *Screen) ResetMatrix() { s.transform.Reset() }

func (s *Screen) Translate(x, y, z float32)     { s.transform.Translate(x, y, z) }
func (s *Screen) Scale(x, y, z float32)         { s.transform.Scale(x, y, z) }
func (s *Screen) ShearX(angle float32)          { s.transform.ShearX(angle) }
func (s *Screen) ShearY(angle float32)          { s.transform.ShearY(angle) }
func (s *Screen) RotateX(angle float32)         { s.transform.RotateX(angle) }
func (s *Screen) RotateY(angle float32)         { s.transform.RotateY(angle) }
func (s *Screen) RotateZ(angle float32)         { s.transform.RotateZ(angle) }
func (s *Screen) Rotate(angle, x, y, z float32) { s.transform.Rotate(angle, x, y, z) }

// ApplyMatrix pre-multiplies the current transform by the matrix whose
// rows are given in order.
func (s *Screen) ApplyMatrix(rows [16]float32) { s.transform.Apply(FromRows(rows)) }

// Matrix returns the current transform.
func (s *Screen) Matrix() Mat4 { return s.transform.Current() }

// PrintMatrix writes the current transform to w.
func (s *Screen) PrintMatrix(w io.Writer) error {
	_, err := fmt.Fprintln(w, s.transform.Current())
	return err
}
