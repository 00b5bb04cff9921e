package simulate

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

var ErrDimensionMismatch = errors.New("pixel buffer length does not match dimensions")

// Buffer is a row-major interleaved RGBA pixel buffer. The pipeline
// owns its buffers per call and never retains one across invocations.
type Buffer struct {
	Pix    []uint8
	Width  int
	Height int
}

func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
	}
}

func (b *Buffer) Validate() error {
	if len(b.Pix) != b.Width*b.Height*4 {
		return fmt.Errorf("%w: len=%d want=%d", ErrDimensionMismatch, len(b.Pix), b.Width*b.Height*4)
	}
	return nil
}

func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Pix:    make([]uint8, len(b.Pix)),
		Width:  b.Width,
		Height: b.Height,
	}
	copy(out.Pix, b.Pix)
	return out
}

// FromImage flattens any image into a tightly packed RGBA buffer.
func FromImage(src image.Image) *Buffer {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != w*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	}

	return &Buffer{Pix: rgba.Pix, Width: w, Height: h}
}

// ToImage wraps the buffer as an image.RGBA without copying pixels.
func (b *Buffer) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
