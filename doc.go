// Package p5 provides a Processing-style drawing layer for Go.
//
// # Overview
//
// p5 keeps the model of Processing sketches: a Screen holds the current
// fill and stroke colors, anchor modes and transform, shapes are built
// from parameter lists, and Reveal shows the finished frame. Unlike
// immediate-mode canvases, shapes are retained: they are tessellated and
// uploaded once and can be drawn every frame.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/p5"
//	    "github.com/gogpu/p5/backend/halgpu"
//	)
//
//	dev, _ := halgpu.Open()
//	defer dev.Destroy()
//
//	screen, _ := p5.NewScreen(dev, p5.WithSize(512, 512))
//	defer screen.Close()
//
//	// Two ellipses in one shape.
//	screen.Fill(p5.RGB(1, 0, 0), p5.RGB(0, 0, 1))
//	dots, _ := screen.Ellipse(
//	    []float64{-0.5, 0.5}, []float64{0, 0}, nil,
//	    []float64{0.3, 0.3}, []float64{0.3, 0.3},
//	)
//	defer dots.Destroy()
//
//	screen.Background(p5.Gray(0.9))
//	screen.Draw(dots)
//	screen.Reveal()
//	screen.Save("dots.png")
//
// # Architecture
//
// The library is organized into:
//   - Public API: Screen, RenderState, Shape, TransformStack, ShaderInfo
//   - render: the GPU contract (vertices, index rules, uniforms, devices)
//   - surface: the window contract, with headless and windowed surfaces
//   - backend/halgpu: a render.Device on github.com/gogpu/wgpu/hal
//   - Internal: tess (tessellation), shader (WGSL programs), imageio
//
// # Frames
//
// Draws go to an offscreen framebuffer in a high-precision format. Reveal
// copies it onto the surface with the blit program, presents, polls input
// and counts the frame. ErrWindowClosed from Reveal ends the loop.
//
// # Coordinate System
//
// Shape coordinates are normalized device coordinates:
//   - Origin (0,0) at the center
//   - X increases right, Y increases up, both in [-1, 1]
//   - Z in [-1, 1]; later instances of a batch get a tiny z bias
//   - Angles in radians
//
// With WithPreserveAspectRatio, coordinates are scaled so that shapes keep
// their proportions on non-square framebuffers.
package p5

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
