package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// MVPName is the uniform every program receives: the model-view-projection
// matrix taken from the current transform.
const MVPName = "MVP"

// UniformKind is the WGSL type of a uniform value.
type UniformKind uint8

const (
	UniformFloat UniformKind = iota
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat4
)

// WGSL returns the WGSL type name.
func (k UniformKind) WGSL() string {
	switch k {
	case UniformFloat:
		return "f32"
	case UniformVec2:
		return "vec2<f32>"
	case UniformVec3:
		return "vec3<f32>"
	case UniformVec4:
		return "vec4<f32>"
	case UniformMat4:
		return "mat4x4<f32>"
	}
	return "unknown"
}

// components is the number of float32 values stored.
func (k UniformKind) components() int {
	switch k {
	case UniformFloat:
		return 1
	case UniformVec2:
		return 2
	case UniformVec3:
		return 3
	case UniformVec4:
		return 4
	case UniformMat4:
		return 16
	}
	return 0
}

// align and size follow the WGSL uniform address space layout rules.
func (k UniformKind) align() int {
	switch k {
	case UniformFloat:
		return 4
	case UniformVec2:
		return 8
	default:
		return 16
	}
}

func (k UniformKind) size() int {
	switch k {
	case UniformMat4:
		return 64
	default:
		return k.components() * 4
	}
}

// Uniform is one named uniform value.
type Uniform struct {
	Name  string
	Kind  UniformKind
	Value [16]float32
}

// Float returns a scalar uniform.
func Float(name string, v float32) Uniform {
	u := Uniform{Name: name, Kind: UniformFloat}
	u.Value[0] = v
	return u
}

// Vec2 returns a two-component uniform.
func Vec2(name string, x, y float32) Uniform {
	u := Uniform{Name: name, Kind: UniformVec2}
	u.Value[0], u.Value[1] = x, y
	return u
}

// Vec3 returns a three-component uniform.
func Vec3(name string, x, y, z float32) Uniform {
	u := Uniform{Name: name, Kind: UniformVec3}
	u.Value[0], u.Value[1], u.Value[2] = x, y, z
	return u
}

// Vec4 returns a four-component uniform.
func Vec4(name string, x, y, z, w float32) Uniform {
	u := Uniform{Name: name, Kind: UniformVec4}
	u.Value[0], u.Value[1], u.Value[2], u.Value[3] = x, y, z, w
	return u
}

// Mat4 returns a matrix uniform from 16 column-major values.
func Mat4(name string, m [16]float32) Uniform {
	return Uniform{Name: name, Kind: UniformMat4, Value: m}
}

// ErrUniformName is returned for names that are not WGSL identifiers or
// appear twice.
var ErrUniformName = errors.New("render: invalid uniform name")

// Uniforms is an ordered set of named uniform values.
// The zero value is an empty set.
type Uniforms struct {
	list []Uniform
}

// NewUniforms returns a set holding values in order. A later value with
// the same name replaces an earlier one.
func NewUniforms(values ...Uniform) *Uniforms {
	u := &Uniforms{}
	for _, v := range values {
		u.Set(v)
	}
	return u
}

// Set replaces the value named v.Name, or appends it.
func (u *Uniforms) Set(v Uniform) {
	for i := range u.list {
		if u.list[i].Name == v.Name {
			u.list[i] = v
			return
		}
	}
	u.list = append(u.list, v)
}

// Get returns the value named name.
func (u *Uniforms) Get(name string) (Uniform, bool) {
	if u == nil {
		return Uniform{}, false
	}
	for _, v := range u.list {
		if v.Name == name {
			return v, true
		}
	}
	return Uniform{}, false
}

// Len returns the number of values.
func (u *Uniforms) Len() int {
	if u == nil {
		return 0
	}
	return len(u.list)
}

// All returns a copy of the values in order.
func (u *Uniforms) All() []Uniform {
	if u == nil {
		return nil
	}
	return append([]Uniform(nil), u.list...)
}

// Clone returns an independent copy.
func (u *Uniforms) Clone() *Uniforms {
	return &Uniforms{list: u.All()}
}

// Layout returns a signature of names and kinds in order. Two sets with the
// same layout pack into the same buffer shape.
func (u *Uniforms) Layout() string {
	if u == nil {
		return ""
	}
	var sb strings.Builder
	for i, v := range u.list {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.Name)
		sb.WriteByte(':')
		sb.WriteString(v.Kind.WGSL())
	}
	return sb.String()
}

// Validate checks that every name is a WGSL identifier and unique.
func (u *Uniforms) Validate() error {
	if u == nil {
		return nil
	}
	seen := make(map[string]bool, len(u.list))
	for _, v := range u.list {
		if !isIdent(v.Name) {
			return fmt.Errorf("%w: %q", ErrUniformName, v.Name)
		}
		if seen[v.Name] {
			return fmt.Errorf("%w: duplicate %q", ErrUniformName, v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

// Size returns the packed size in bytes, rounded up to 16.
func (u *Uniforms) Size() int {
	off := 0
	if u != nil {
		for _, v := range u.list {
			off = alignUp(off, v.Kind.align()) + v.Kind.size()
		}
	}
	if off == 0 {
		return 16
	}
	return alignUp(off, 16)
}

// Pack serializes the values with WGSL uniform layout.
func (u *Uniforms) Pack() []byte {
	buf := make([]byte, u.Size())
	if u == nil {
		return buf
	}
	off := 0
	for _, v := range u.list {
		off = alignUp(off, v.Kind.align())
		for c := 0; c < v.Kind.components(); c++ {
			binary.LittleEndian.PutUint32(buf[off+c*4:], math.Float32bits(v.Value[c]))
		}
		off += v.Kind.size()
	}
	return buf
}

// WGSLStruct returns a WGSL struct declaration matching Pack.
// An empty set declares a single padding member.
func (u *Uniforms) WGSLStruct(name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "struct %s {\n", name)
	if u.Len() == 0 {
		sb.WriteString("    _pad: vec4<f32>,\n")
	}
	for _, v := range u.All() {
		fmt.Fprintf(&sb, "    %s: %s,\n", v.Name, v.Kind.WGSL())
	}
	sb.WriteString("}\n")
	return sb.String()
}

func alignUp(n, a int) int {
	return (n + a - 1) / a * a
}

func isIdent(s string) bool {
	if s == "" || s == "_" || strings.HasPrefix(s, "__") {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
