package p5

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 float32 matrix stored column-major: the element in row r,
// column c is at index c*4+r. Points are column vectors, p' = M * p.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FromRows builds a matrix from 16 values given row by row, the order a
// matrix is written on paper.
func FromRows(v [16]float32) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[c*4+r] = v[r*4+c]
		}
	}
	return m
}

// Translation returns a translation by (x, y, z).
func Translation(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scaling returns a non-uniform scale.
func Scaling(x, y, z float32) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotationX returns a rotation by angle radians about the x axis.
func RotationX(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// RotationY returns a rotation by angle radians about the y axis.
func RotationY(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// RotationZ returns a rotation by angle radians about the z axis.
func RotationZ(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Rotation returns a rotation by angle radians about the axis (x, y, z).
// The axis is normalized; a zero axis yields the identity.
func Rotation(angle, x, y, z float32) Mat4 {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return Identity()
	}
	x, y, z = x/l, y/l, z/l
	s, c := math32.Sincos(angle)
	t := 1 - c
	return FromRows([16]float32{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x, 0,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	})
}

// ShearingX returns a shear of x by tan(angle) * y.
func ShearingX(angle float32) Mat4 {
	m := Identity()
	m[4] = math32.Tan(angle)
	return m
}

// ShearingY returns a shear of y by tan(angle) * x.
func ShearingY(angle float32) Mat4 {
	m := Identity()
	m[1] = math32.Tan(angle)
	return m
}

// At returns the element in row r, column c.
func (m Mat4) At(r, c int) float32 { return m[c*4+r] }

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * n[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Transform returns m * v.
func (m Mat4) Transform(v [4]float32) [4]float32 {
	var out [4]float32
	for r := 0; r < 4; r++ {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = m[c*4+r]
		}
	}
	return out
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(n Mat4, eps float32) bool {
	for i := range m {
		if math32.Abs(m[i]-n[i]) > eps {
			return false
		}
	}
	return true
}

// Array returns the elements in column-major order, the layout WGSL
// mat4x4<f32> expects.
func (m Mat4) Array() [16]float32 { return m }

// String formats the matrix row by row.
func (m Mat4) String() string {
	var sb strings.Builder
	for r := 0; r < 4; r++ {
		fmt.Fprintf(&sb, "[% .4f % .4f % .4f % .4f]", m.At(r, 0), m.At(r, 1), m.At(r, 2), m.At(r, 3))
		if r < 3 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
