package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/dermaflow/skinsim/internal/domain"
	"github.com/dermaflow/skinsim/internal/simulate"
	_ "golang.org/x/image/webp"
)

type stdlibSimulator struct{}

func (s stdlibSimulator) Simulate(ctx context.Context, input []byte, step domain.CorrectionStep) (Rendered, error) {
	select {
	case <-ctx.Done():
		return Rendered{}, ctx.Err()
	default:
	}

	src, srcFormat, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return Rendered{}, fmt.Errorf("decode source image: %w", err)
	}

	buf := simulate.FromImage(src)
	corrected, skinPixels, err := simulate.Run(buf, step.Concern, step.Intensity)
	if err != nil {
		return Rendered{}, err
	}

	format := normalizeOutputFormat(strings.ToLower(strings.TrimSpace(step.Format)))
	if strings.TrimSpace(step.Format) == "" {
		format = normalizeOutputFormat(strings.ToLower(srcFormat))
	}

	data, err := encodeImage(corrected.ToImage(), format, step.Quality)
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{
		Data:       data,
		Format:     format,
		Width:      corrected.Width,
		Height:     corrected.Height,
		SkinPixels: skinPixels,
	}, nil
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "jpeg":
		if quality <= 0 || quality > 100 {
			quality = 80
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case "png":
		encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case "webp":
		return nil, errors.New("webp export requires govips build tag")
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	return buf.Bytes(), nil
}
