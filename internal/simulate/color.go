package simulate

// rgbToYCbCr converts one pixel's channels to the YCbCr model used by
// the skin classifier. ITU-R BT.601 full-range coefficients.
func rgbToYCbCr(r, g, b uint8) (y, cb, cr float64) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	y = 0.299*rf + 0.587*gf + 0.114*bf
	cb = 128 - 0.168736*rf - 0.331264*gf + 0.5*bf
	cr = 128 + 0.5*rf - 0.418688*gf - 0.081312*bf
	return y, cb, cr
}

// isSkin is the fixed-threshold skin heuristic. The bounds are load
// bearing: the region estimator and frame validator both depend on the
// exact pixel counts this classification produces.
func isSkin(r, g, b uint8) bool {
	y, cb, cr := rgbToYCbCr(r, g, b)
	return cb > 80 && cb < 125 && cr > 135 && cr < 170 && y > 40
}

func luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}
