//go:build govips && cgo

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/dermaflow/skinsim/internal/domain"
	"github.com/dermaflow/skinsim/internal/simulate"
)

// govipsSimulator delegates decode and export to libvips and keeps the
// correction math on the flat RGBA buffer. Decoded pixels travel
// through a lossless png round trip so the classifier sees the same
// bytes the stdlib simulator would.
type govipsSimulator struct{}

func (s govipsSimulator) Simulate(ctx context.Context, input []byte, step domain.CorrectionStep) (Rendered, error) {
	select {
	case <-ctx.Done():
		return Rendered{}, ctx.Err()
	default:
	}

	img, err := vips.NewImageFromBuffer(input)
	if err != nil {
		return Rendered{}, fmt.Errorf("decode source image: %w", err)
	}
	defer img.Close()

	pngBytes, _, err := img.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return Rendered{}, fmt.Errorf("normalize source image: %w", err)
	}

	decoded, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return Rendered{}, fmt.Errorf("read normalized image: %w", err)
	}

	buf := simulate.FromImage(decoded)
	corrected, skinPixels, err := simulate.Run(buf, step.Concern, step.Intensity)
	if err != nil {
		return Rendered{}, err
	}

	var correctedPNG bytes.Buffer
	if err := png.Encode(&correctedPNG, corrected.ToImage()); err != nil {
		return Rendered{}, fmt.Errorf("stage corrected image: %w", err)
	}

	out, err := vips.NewImageFromBuffer(correctedPNG.Bytes())
	if err != nil {
		return Rendered{}, fmt.Errorf("load corrected image: %w", err)
	}
	defer out.Close()

	format := formatForStep(step.Format, input)
	data, err := exportGovipsImage(out, format, step.Quality)
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

func formatForStep(stepFormat string, input []byte) string {
	if strings.TrimSpace(stepFormat) != "" {
		return normalizeOutputFormat(strings.ToLower(strings.TrimSpace(stepFormat)))
	}

	switch vips.DetermineImageType(input) {
	case vips.ImageTypeJPEG:
		return "jpeg"
	case vips.ImageTypeWEBP:
		return "webp"
	default:
		return "png"
	}
}

func exportGovipsImage(img *vips.ImageRef, format string, quality int) ([]byte, error) {
	switch format {
	case "jpeg":
		params := vips.NewJpegExportParams()
		if quality > 0 && quality <= 100 {
			params.Quality = quality
		}
		data, _, err := img.ExportJpeg(params)
		if err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		return data, nil
	case "png":
		params := vips.NewPngExportParams()
		if quality > 0 && quality <= 100 {
			params.Quality = quality
		}
		data, _, err := img.ExportPng(params)
		if err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return data, nil
	case "webp":
		params := vips.NewWebpExportParams()
		if quality > 0 && quality <= 100 {
			params.Quality = quality
		}
		data, _, err := img.ExportWebp(params)
		if err != nil {
			return nil, fmt.Errorf("encode webp: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
