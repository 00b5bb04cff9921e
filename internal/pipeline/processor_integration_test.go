package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dermaflow/skinsim/internal/domain"
)

func TestLocalProcessor_FileInSimulateFileOut(t *testing.T) {
	tmp := t.TempDir()
	inputPath := filepath.Join(tmp, "selfie.png")
	outputDir := filepath.Join(tmp, "out")

	srcBytes := buildFacePNG(t, 240, 200)
	if err := os.WriteFile(inputPath, srcBytes, 0o644); err != nil {
		t.Fatalf("write input image: %v", err)
	}

	processor, err := NewLocalProcessor(outputDir)
	if err != nil {
		t.Fatalf("new local processor: %v", err)
	}

	req := Request{
		JobID:      "job-local-1",
		SourceType: SourceTypeLocalFile,
		ObjectKey:  inputPath,
		Corrections: []domain.CorrectionStep{
			{
				ID:        "redness_full",
				Concern:   domain.ConcernRedness,
				Intensity: 1.0,
				Format:    "jpeg",
				Quality:   75,
			},
			{
				ID:        "texture_soft",
				Concern:   domain.ConcernTexture,
				Intensity: 0.6,
				Format:    "png",
			},
		},
	}

	result, err := processor.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("process request: %v", err)
	}

	if len(result.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(result.Outputs))
	}

	redness := result.Outputs[0]
	if redness.Format != "jpeg" {
		t.Fatalf("expected jpeg output format, got %s", redness.Format)
	}
	if redness.SkinPixels == 0 {
		t.Fatal("expected skin pixels on a face image")
	}
	verifyImageWidth(t, redness.Path, 240)

	texture := result.Outputs[1]
	if texture.Format != "png" {
		t.Fatalf("expected png output format, got %s", texture.Format)
	}

	textureBytes, err := os.ReadFile(texture.Path)
	if err != nil {
		t.Fatalf("read texture output: %v", err)
	}
	if bytes.Equal(srcBytes, textureBytes) {
		t.Fatal("expected corrected output to differ from source image bytes")
	}
}

func TestLocalProcessor_ZeroIntensityReencodesSource(t *testing.T) {
	tmp := t.TempDir()
	inputPath := filepath.Join(tmp, "selfie.png")

	srcBytes := buildFacePNG(t, 64, 64)
	if err := os.WriteFile(inputPath, srcBytes, 0o644); err != nil {
		t.Fatalf("write input image: %v", err)
	}

	processor, err := NewLocalProcessor(t.TempDir())
	if err != nil {
		t.Fatalf("new local processor: %v", err)
	}

	result, err := processor.Process(context.Background(), Request{
		JobID:      "job-zero",
		SourceType: SourceTypeLocalFile,
		ObjectKey:  inputPath,
		Corrections: []domain.CorrectionStep{
			{ID: "noop", Concern: domain.ConcernTexture, Intensity: 0, Format: "png"},
		},
	})
	if err != nil {
		t.Fatalf("process request: %v", err)
	}

	out, err := os.ReadFile(result.Outputs[0].Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	srcPixels := decodeRGBA(t, srcBytes)
	outPixels := decodeRGBA(t, out)
	if !bytes.Equal(srcPixels, outPixels) {
		t.Fatal("expected zero-intensity output pixels to match the source")
	}
}

func TestLocalProcessor_UnsupportedSourceType(t *testing.T) {
	processor, err := NewLocalProcessor(t.TempDir())
	if err != nil {
		t.Fatalf("new local processor: %v", err)
	}

	_, err = processor.Process(context.Background(), Request{
		JobID:      "job-unsupported",
		SourceType: "s3_presigned",
		ObjectKey:  "uploads/job/source",
		Corrections: []domain.CorrectionStep{
			{ID: "redness_full", Concern: domain.ConcernRedness, Intensity: 1},
		},
	})
	if err == nil {
		t.Fatal("expected unsupported source_type error")
	}
}

func TestLocalProcessor_UnknownConcernFails(t *testing.T) {
	tmp := t.TempDir()
	inputPath := filepath.Join(tmp, "selfie.png")
	if err := os.WriteFile(inputPath, buildFacePNG(t, 32, 32), 0o644); err != nil {
		t.Fatalf("write input image: %v", err)
	}

	processor, err := NewLocalProcessor(t.TempDir())
	if err != nil {
		t.Fatalf("new local processor: %v", err)
	}

	_, err = processor.Process(context.Background(), Request{
		JobID:      "job-unknown-concern",
		SourceType: SourceTypeLocalFile,
		ObjectKey:  inputPath,
		Corrections: []domain.CorrectionStep{
			{ID: "mystery", Concern: domain.Concern("wrinkles"), Intensity: 1},
		},
	})
	if err == nil {
		t.Fatal("expected unknown concern error")
	}
}

// buildFacePNG paints a skin-toned field with a few reddish spots and a
// non-skin border, close enough to a selfie for the classifier.
func buildFacePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := color.RGBA{R: 200, G: 140, B: 110, A: 255}
			if x < w/8 || x >= w-w/8 {
				px = color.RGBA{R: 30, G: 60, B: 120, A: 255}
			} else if (x+y)%29 == 0 {
				px = color.RGBA{R: 215, G: 140, B: 115, A: 255}
			}
			img.Set(x, y, px)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode source png: %v", err)
	}
	return buf.Bytes()
}

func decodeRGBA(t *testing.T, data []byte) []uint8 {
	t.Helper()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode image: %v", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	return rgba.Pix
}

func verifyImageWidth(t *testing.T, path string, want int) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open image %s: %v", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode image %s: %v", path, err)
	}

	if got := img.Bounds().Dx(); got != want {
		t.Fatalf("expected width %d, got %d", want, got)
	}
}
