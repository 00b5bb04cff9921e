package simulate

import (
	"math"

	"github.com/dermaflow/skinsim/internal/domain"
)

// Tuned thresholds for the per-pixel correction branches. They have no
// derivation beyond visual tuning; retuning them is a product decision.
const (
	rednessSpikeThreshold = 10
	healSpikeScale        = 20
	textureVarianceScale  = 30
	darkCircleLumaLimit   = 140
	darkCircleBoost       = 40
)

// Run produces a corrected copy of src for one concern at the given
// intensity. It returns the corrected buffer and the number of pixels
// the skin classifier accepted during the pass. The source buffer is
// never mutated.
//
// intensity <= 0 short-circuits to an untouched copy; values above 1
// are clamped. An empty buffer is returned unchanged.
func Run(src *Buffer, concern domain.Concern, intensity float64) (*Buffer, int, error) {
	if err := src.Validate(); err != nil {
		return nil, 0, err
	}
	if _, err := domain.ParseConcern(string(concern)); err != nil {
		return nil, 0, err
	}
	if intensity <= 0 || src.Width == 0 || src.Height == 0 {
		return src.Clone(), 0, nil
	}
	if intensity > 1 {
		intensity = 1
	}

	blurred := BoxBlur(src, blurRadiusFor(src.Width))
	region := EstimateFaceRegion(src)

	out := src.Clone()
	skin := 0
	w := src.Width
	for p := 0; p < w*src.Height; p++ {
		i := p * 4
		if src.Pix[i+3] == 0 {
			continue
		}
		r := float64(src.Pix[i])
		g := float64(src.Pix[i+1])
		b := float64(src.Pix[i+2])
		if !isSkin(src.Pix[i], src.Pix[i+1], src.Pix[i+2]) {
			continue
		}
		skin++

		br := float64(blurred.Pix[i])
		bg := float64(blurred.Pix[i+1])
		bb := float64(blurred.Pix[i+2])

		switch concern {
		case domain.ConcernActiveBlemish, domain.ConcernRedness:
			// High-pass red excess over the local average marks a
			// localized anomaly (pimple, broken capillary).
			spike := (r - br) - (g - bg)
			if spike > rednessSpikeThreshold {
				heal := math.Min(1, intensity*spike/healSpikeScale)
				nr := r + (br-r)*heal
				ng := g + (bg-g)*heal
				nb := b + (bb-b)*heal
				if concern == domain.ConcernActiveBlemish {
					// Desaturate the residual redness of the healed spot.
					nr -= 5 * heal
					ng += 3 * heal
				}
				out.Pix[i] = clampChannel(nr)
				out.Pix[i+1] = clampChannel(ng)
				out.Pix[i+2] = clampChannel(nb)
			} else if concern == domain.ConcernRedness {
				// Diffuse redness: pull red toward green, no blur input.
				out.Pix[i] = clampChannel(r + (g-r)*0.3*intensity)
			}

		case domain.ConcernTexture, domain.ConcernPigmentation:
			variance := math.Abs(r-br) + math.Abs(g-bg) + math.Abs(b-bb)
			// Edge-preserving mask: flat skin smooths fully, busy
			// regions (eyes, nostrils, hairline) stay untouched.
			mask := 1 - math.Min(1, variance/textureVarianceScale)
			if concern == domain.ConcernPigmentation && luma(r, g, b) < luma(br, bg, bb) {
				mask = 1
			}
			if blend := mask * intensity; blend > 0 {
				out.Pix[i] = clampChannel(r + (br-r)*blend)
				out.Pix[i+1] = clampChannel(g + (bg-g)*blend)
				out.Pix[i+2] = clampChannel(b + (bb-b)*blend)
			}

		case domain.ConcernDarkCircle:
			relX := float64(p%w) - region.CenterX
			relY := float64(p/w) - region.CenterY
			if !inEyeBand(relX, relY, region.Radius) {
				continue
			}
			if luma(r, g, b) >= darkCircleLumaLimit {
				continue
			}
			boost := darkCircleBoost * intensity
			out.Pix[i] = clampChannel(r + boost)
			out.Pix[i+1] = clampChannel(g + boost)
			// Smaller blue lift counters the blue/purple shadow cast.
			out.Pix[i+2] = clampChannel(b + 0.8*boost)
		}
	}

	return out, skin, nil
}

// inEyeBand bounds the dark-circle effect to the upper half-band above
// the face centroid, a stand-in for the under-eye area that avoids
// landmark detection.
func inEyeBand(relX, relY, radius float64) bool {
	return relY < 0 && relY > -radius*0.5 && math.Abs(relX) < radius*0.7
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
