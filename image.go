package p5

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/p5/internal/imageio"
	"github.com/gogpu/p5/render"
)

// LoadImage decodes the image file at path into a texture. PNG, JPEG, GIF,
// BMP, TIFF and WebP are recognized by content.
func (s *Screen) LoadImage(path string) (render.Texture, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	img, err := imageio.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageNotFound, path, err)
	}
	return s.upload(filepath.Base(path), img)
}

// TextureFromImage uploads img as a texture.
func (s *Screen) TextureFromImage(label string, img image.Image) (render.Texture, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.upload(label, imageio.ToNRGBA(img))
}

func (s *Screen) upload(label string, img *image.NRGBA) (render.Texture, error) {
	tex, err := s.dev.CreateTexture(render.TextureDesc{
		Label:  label,
		Width:  img.Rect.Dx(),
		Height: img.Rect.Dy(),
		Format: gputypes.TextureFormatRGBA8Unorm,
		Pixels: imageio.Pixels(img),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTextureCreate, label, err)
	}
	return tex, nil
}

// Snapshot reads the offscreen framebuffer back as an opaque image.
func (s *Screen) Snapshot() (*image.NRGBA, error) {
	fb, err := s.offscreen()
	if err != nil {
		return nil, err
	}
	px, err := s.dev.ReadPixels(fb)
	if err != nil {
		return nil, fmt.Errorf("p5: read pixels: %w", err)
	}
	return px.NRGBA(true), nil
}

// Save writes the offscreen framebuffer to path. The format follows the
// extension: png, jpg/jpeg, gif, bmp or tif/tiff. Alpha is dropped.
func (s *Screen) Save(path string) error {
	img, err := s.Snapshot()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImageNotSaved, path, err)
	}
	if err := imageio.Save(path, img); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImageNotSaved, path, err)
	}
	return nil
}
