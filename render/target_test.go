package render

import "testing"

func TestPixelsNRGBA(t *testing.T) {
	p := &Pixels{
		Width:  2,
		Height: 1,
		Pix:    []float32{1, 0.5, 0, 0.5, -1, 2, 0, 0},
	}

	img := p.NRGBA(false)
	c := img.NRGBAAt(0, 0)
	if c.R != 255 || c.G != 128 || c.B != 0 || c.A != 128 {
		t.Errorf("pixel 0 = %+v", c)
	}
	c = img.NRGBAAt(1, 0)
	if c.R != 0 || c.G != 255 || c.A != 0 {
		t.Errorf("pixel 1 not clamped: %+v", c)
	}

	if a := p.NRGBA(true).NRGBAAt(1, 0).A; a != 255 {
		t.Errorf("opaque alpha = %d, want 255", a)
	}
}
