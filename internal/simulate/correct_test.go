package simulate

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/dermaflow/skinsim/internal/domain"
)

var allConcerns = []domain.Concern{
	domain.ConcernActiveBlemish,
	domain.ConcernDarkCircle,
	domain.ConcernTexture,
	domain.ConcernRedness,
	domain.ConcernPigmentation,
}

func TestRunZeroIntensityIsByteIdentical(t *testing.T) {
	src := NewBuffer(8, 8)
	fillSkin(src, 200, 140, 110)

	for _, concern := range allConcerns {
		out, _, err := Run(src, concern, 0)
		if err != nil {
			t.Fatalf("%s: run returned error: %v", concern, err)
		}
		if !bytes.Equal(out.Pix, src.Pix) {
			t.Fatalf("%s: expected zero intensity to return unchanged pixels", concern)
		}
	}
}

func TestRunLeavesNonSkinPixelsUntouched(t *testing.T) {
	src := NewBuffer(10, 10)
	fillSkin(src, 200, 140, 110)
	// Scatter non-skin pixels through the field.
	nonSkin := []int{0, 7, 33, 55, 99}
	for _, p := range nonSkin {
		i := p * 4
		src.Pix[i] = 10
		src.Pix[i+1] = 40
		src.Pix[i+2] = 230
	}

	for _, concern := range allConcerns {
		out, _, err := Run(src, concern, 1)
		if err != nil {
			t.Fatalf("%s: run returned error: %v", concern, err)
		}
		for _, p := range nonSkin {
			i := p * 4
			for c := 0; c < 4; c++ {
				if out.Pix[i+c] != src.Pix[i+c] {
					t.Fatalf("%s: non-skin pixel %d channel %d changed from %d to %d",
						concern, p, c, src.Pix[i+c], out.Pix[i+c])
				}
			}
		}
	}
}

func TestRunTextureOnUniformImageEqualsBlur(t *testing.T) {
	src := NewBuffer(4, 4)
	fillSkin(src, 200, 140, 110)

	out, skin, err := Run(src, domain.ConcernTexture, 1)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if skin != 16 {
		t.Fatalf("expected all 16 pixels classified as skin, got %d", skin)
	}

	blurred := BoxBlur(src, blurRadiusFor(4))
	if !bytes.Equal(out.Pix, blurred.Pix) {
		t.Fatal("expected uniform texture pass to reproduce the blurred buffer exactly")
	}
}

func TestRunActiveBlemishHealsRedOutlier(t *testing.T) {
	src := NewBuffer(9, 9)
	fillSkin(src, 200, 140, 110)
	center := (4*9 + 4) * 4
	src.Pix[center] = 215
	src.Pix[center+2] = 115

	out, _, err := Run(src, domain.ConcernActiveBlemish, 1)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	blurred := BoxBlur(src, blurRadiusFor(9))
	origR := float64(src.Pix[center])
	healedR := float64(out.Pix[center])
	localR := float64(blurred.Pix[center])

	if healedR >= origR {
		t.Fatalf("expected healed red below original: got %f, original %f", healedR, origR)
	}
	if math.Abs(healedR-localR) >= math.Abs(origR-localR) {
		t.Fatalf("expected healed red closer to local average %f than original %f, got %f",
			localR, origR, healedR)
	}
}

func TestRunRednessGlobalPullsRedTowardGreen(t *testing.T) {
	src := NewBuffer(6, 6)
	fillSkin(src, 200, 140, 110)

	out, _, err := Run(src, domain.ConcernRedness, 1)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	// Uniform field has no spikes, so every pixel takes the global
	// branch: r + (g-r)*0.3 = 200 - 18 = 182.
	for p := 0; p < 36; p++ {
		i := p * 4
		if out.Pix[i] != 182 {
			t.Fatalf("pixel %d: expected red 182, got %d", p, out.Pix[i])
		}
		if out.Pix[i+1] != 140 || out.Pix[i+2] != 110 {
			t.Fatalf("pixel %d: expected green/blue untouched, got %d/%d", p, out.Pix[i+1], out.Pix[i+2])
		}
	}
}

func TestRunDarkCircleStaysInsideEyeBand(t *testing.T) {
	src := NewBuffer(20, 20)
	// Dark skin tone everywhere: every pixel is a brighten candidate,
	// so any change outside the band would be visible.
	fillSkin(src, 120, 85, 70)

	out, _, err := Run(src, domain.ConcernDarkCircle, 1)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	region := EstimateFaceRegion(src)
	changed := 0
	for p := 0; p < 400; p++ {
		i := p * 4
		same := out.Pix[i] == src.Pix[i] && out.Pix[i+1] == src.Pix[i+1] && out.Pix[i+2] == src.Pix[i+2]
		relX := float64(p%20) - region.CenterX
		relY := float64(p/20) - region.CenterY
		if !inEyeBand(relX, relY, region.Radius) {
			if !same {
				t.Fatalf("pixel %d outside eye band was modified", p)
			}
			continue
		}
		if same {
			t.Fatalf("dark pixel %d inside eye band was not brightened", p)
		}
		changed++
	}
	if changed == 0 {
		t.Fatal("expected some pixels inside the eye band to change")
	}
}

func TestRunDarkCircleBoostChannels(t *testing.T) {
	src := NewBuffer(20, 20)
	fillSkin(src, 120, 85, 70)

	out, _, err := Run(src, domain.ConcernDarkCircle, 1)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	region := EstimateFaceRegion(src)
	for p := 0; p < 400; p++ {
		relX := float64(p%20) - region.CenterX
		relY := float64(p/20) - region.CenterY
		if !inEyeBand(relX, relY, region.Radius) {
			continue
		}
		i := p * 4
		if out.Pix[i] != 160 || out.Pix[i+1] != 125 || out.Pix[i+2] != 102 {
			t.Fatalf("pixel %d: expected boost to (160,125,102), got (%d,%d,%d)",
				p, out.Pix[i], out.Pix[i+1], out.Pix[i+2])
		}
		return
	}
	t.Fatal("no eye band pixel found")
}

// Documents that healing is a one-shot additive pass, not a convergent
// filter: applying the same correction twice keeps moving pixels.
func TestRunIsNotIdempotent(t *testing.T) {
	src := NewBuffer(8, 8)
	for p := 0; p < 64; p++ {
		i := p * 4
		r := uint8(192)
		if (p%8+p/8)%2 == 0 {
			r = 208
		}
		src.Pix[i] = r
		src.Pix[i+1] = 140
		src.Pix[i+2] = 110
		src.Pix[i+3] = 255
	}

	once, _, err := Run(src, domain.ConcernTexture, 0.5)
	if err != nil {
		t.Fatalf("first run returned error: %v", err)
	}
	twice, _, err := Run(once, domain.ConcernTexture, 0.5)
	if err != nil {
		t.Fatalf("second run returned error: %v", err)
	}

	if bytes.Equal(once.Pix, twice.Pix) {
		t.Fatal("expected second application to change pixels again")
	}
}

func TestRunDimensionMismatchFailsFast(t *testing.T) {
	bad := &Buffer{Pix: make([]uint8, 10), Width: 4, Height: 4}
	if _, _, err := Run(bad, domain.ConcernTexture, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestRunUnknownConcernRejected(t *testing.T) {
	src := NewBuffer(2, 2)
	if _, _, err := Run(src, domain.Concern("wrinkles"), 1); !errors.Is(err, domain.ErrUnknownConcern) {
		t.Fatalf("expected ErrUnknownConcern, got %v", err)
	}
}

func TestRunEmptyBufferUnchanged(t *testing.T) {
	src := NewBuffer(0, 0)
	out, skin, err := Run(src, domain.ConcernRedness, 1)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if len(out.Pix) != 0 || skin != 0 {
		t.Fatalf("expected empty result, got %d bytes and %d skin pixels", len(out.Pix), skin)
	}
}

func TestRunDoesNotMutateSource(t *testing.T) {
	src := NewBuffer(8, 8)
	fillSkin(src, 200, 140, 110)
	before := append([]uint8(nil), src.Pix...)

	if _, _, err := Run(src, domain.ConcernPigmentation, 1); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !bytes.Equal(src.Pix, before) {
		t.Fatal("run mutated the source buffer")
	}
}
