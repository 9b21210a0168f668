// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"
)

// Pixels is a framebuffer read back to the CPU.
//
// Pix holds RGBA float32 values, four per pixel, row-major with the top
// row first.
type Pixels struct {
	Width  int
	Height int
	Pix    []float32
}

// At returns the RGBA values of pixel (x, y), y counted from the top.
func (p *Pixels) At(x, y int) [4]float32 {
	i := (y*p.Width + x) * 4
	return [4]float32{p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3]}
}

// NRGBA converts the pixels to 8 bits per channel, clamping to [0, 1].
// With opaque set, every alpha is written as 255.
func (p *Pixels) NRGBA(opaque bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			v := p.At(x, y)
			c := color.NRGBA{R: to8(v[0]), G: to8(v[1]), B: to8(v[2]), A: to8(v[3])}
			if opaque {
				c.A = 255
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func to8(v float32) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
