package simulate

import "math"

// regionStride is the sampling stride of the face region scan. It only
// trades precision for speed; the estimate contract does not depend on
// its value.
const regionStride = 4

// FaceRegion is the estimated face centroid and an approximate linear
// face dimension, derived once per invocation from skin-pixel
// statistics. Consumed read-only by the dark-circle eye band.
type FaceRegion struct {
	CenterX float64
	CenterY float64
	Radius  float64
}

// EstimateFaceRegion scans every regionStride-th pixel, accumulates the
// coordinates of those the skin classifier accepts, and converts the
// sampled skin area into a centroid plus radius. Fully transparent
// pixels are skipped. An image with no skin pixels falls back to the
// geometric image center.
func EstimateFaceRegion(src *Buffer) FaceRegion {
	w, h := src.Width, src.Height
	total := w * h

	var sumX, sumY, count int
	for p := 0; p < total; p += regionStride {
		i := p * 4
		if src.Pix[i+3] == 0 {
			continue
		}
		if !isSkin(src.Pix[i], src.Pix[i+1], src.Pix[i+2]) {
			continue
		}
		sumX += p % w
		sumY += p / w
		count++
	}

	if count == 0 {
		return FaceRegion{
			CenterX: float64(w) / 2,
			CenterY: float64(h) / 2,
		}
	}

	return FaceRegion{
		CenterX: float64(sumX) / float64(count),
		CenterY: float64(sumY) / float64(count),
		// Empirical scale from sampled skin area to a linear face
		// dimension. The eye-band geometry depends on this exact factor.
		Radius: math.Sqrt(float64(count*regionStride)) * 0.6,
	}
}
