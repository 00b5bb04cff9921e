package simulate

import (
	"math"
	"testing"
)

func fillSkin(b *Buffer, r, g, bl uint8) {
	for p := 0; p < b.Width*b.Height; p++ {
		i := p * 4
		b.Pix[i] = r
		b.Pix[i+1] = g
		b.Pix[i+2] = bl
		b.Pix[i+3] = 255
	}
}

func TestEstimateFaceRegionAllSkinCentered(t *testing.T) {
	src := NewBuffer(15, 13)
	fillSkin(src, 200, 140, 110)

	region := EstimateFaceRegion(src)

	if math.Abs(region.CenterX-7.5) > 1 {
		t.Fatalf("expected centerX≈7.5, got %f", region.CenterX)
	}
	if math.Abs(region.CenterY-6.5) > 1 {
		t.Fatalf("expected centerY≈6.5, got %f", region.CenterY)
	}
	if region.Radius <= 0 {
		t.Fatalf("expected positive radius, got %f", region.Radius)
	}
}

func TestEstimateFaceRegionRadiusScale(t *testing.T) {
	src := NewBuffer(20, 20)
	fillSkin(src, 200, 140, 110)

	region := EstimateFaceRegion(src)

	// 100 sampled skin pixels at stride 4: sqrt(400) * 0.6 = 12.
	if math.Abs(region.Radius-12) > 0.001 {
		t.Fatalf("expected radius 12, got %f", region.Radius)
	}
}

func TestEstimateFaceRegionNoSkinFallsBackToCenter(t *testing.T) {
	src := NewBuffer(10, 8)
	fillSkin(src, 0, 0, 255)

	region := EstimateFaceRegion(src)

	if region.CenterX != 5 || region.CenterY != 4 {
		t.Fatalf("expected fallback center (5,4), got (%f,%f)", region.CenterX, region.CenterY)
	}
	if region.Radius != 0 {
		t.Fatalf("expected zero radius for no skin, got %f", region.Radius)
	}
}

func TestEstimateFaceRegionSkipsTransparentPixels(t *testing.T) {
	src := NewBuffer(10, 10)
	fillSkin(src, 200, 140, 110)
	for p := 0; p < 100; p++ {
		src.Pix[p*4+3] = 0
	}

	region := EstimateFaceRegion(src)

	if region.CenterX != 5 || region.CenterY != 5 {
		t.Fatalf("expected fallback center for fully transparent image, got (%f,%f)", region.CenterX, region.CenterY)
	}
}
