package simulate

import (
	"math"
	"testing"
)

func TestRGBToYCbCr(t *testing.T) {
	y, cb, cr := rgbToYCbCr(200, 140, 110)

	if math.Abs(y-154.52) > 0.01 {
		t.Fatalf("expected y≈154.52, got %f", y)
	}
	if math.Abs(cb-102.88) > 0.01 {
		t.Fatalf("expected cb≈102.88, got %f", cb)
	}
	if math.Abs(cr-160.44) > 0.01 {
		t.Fatalf("expected cr≈160.44, got %f", cr)
	}
}

func TestIsSkin(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b uint8
		want    bool
	}{
		{"medium skin tone", 200, 140, 110, true},
		{"darker skin tone", 120, 85, 70, true},
		{"white", 255, 255, 255, false},
		{"black", 0, 0, 0, false},
		{"saturated red", 255, 0, 0, false},
		{"saturated blue", 0, 0, 255, false},
		{"saturated green", 0, 255, 0, false},
	}

	for _, tc := range cases {
		if got := isSkin(tc.r, tc.g, tc.b); got != tc.want {
			t.Errorf("%s: isSkin(%d,%d,%d) = %v, want %v", tc.name, tc.r, tc.g, tc.b, got, tc.want)
		}
	}
}
