package simulate

// BoxBlur applies a separable mean filter: a horizontal pass into an
// intermediate buffer, then a vertical pass over that result. Each
// pass clamps its sample index to the image bounds (edge replicate),
// keeps the divisor at the full window size, and truncates the
// per-channel integer division. Alpha is passed through unchanged.
// Radius 0 degenerates to a copy.
func BoxBlur(src *Buffer, radius int) *Buffer {
	if radius <= 0 {
		return src.Clone()
	}

	w, h := src.Width, src.Height
	mid := NewBuffer(w, h)
	out := NewBuffer(w, h)
	window := 2*radius + 1

	for y := 0; y < h; y++ {
		row := y * w * 4
		for x := 0; x < w; x++ {
			var sumR, sumG, sumB int
			for dx := -radius; dx <= radius; dx++ {
				sx := clampInt(x+dx, 0, w-1)
				i := row + sx*4
				sumR += int(src.Pix[i])
				sumG += int(src.Pix[i+1])
				sumB += int(src.Pix[i+2])
			}
			i := row + x*4
			mid.Pix[i] = uint8(sumR / window)
			mid.Pix[i+1] = uint8(sumG / window)
			mid.Pix[i+2] = uint8(sumB / window)
			mid.Pix[i+3] = src.Pix[i+3]
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sumR, sumG, sumB int
			for dy := -radius; dy <= radius; dy++ {
				sy := clampInt(y+dy, 0, h-1)
				i := (sy*w + x) * 4
				sumR += int(mid.Pix[i])
				sumG += int(mid.Pix[i+1])
				sumB += int(mid.Pix[i+2])
			}
			i := (y*w + x) * 4
			out.Pix[i] = uint8(sumR / window)
			out.Pix[i+1] = uint8(sumG / window)
			out.Pix[i+2] = uint8(sumB / window)
			out.Pix[i+3] = src.Pix[i+3]
		}
	}

	return out
}

// blurRadiusFor picks the blur radius the correction pass uses:
// roughly half a percent of the image width, never below 2.
func blurRadiusFor(width int) int {
	radius := width / 200
	if radius < 2 {
		radius = 2
	}
	return radius
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
