package simulate

const (
	frameCropSize     = 20
	frameSkinMinRatio = 0.3
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FrameCheck is the advisory result the live capture loop shows the
// user while they line up their face. It never blocks processing.
type FrameCheck struct {
	Aligned bool   `json:"aligned"`
	Message string `json:"message"`
	Center  Point  `json:"center"`
}

// CheckFrame samples a small center crop and reports whether enough of
// it classifies as skin for the face to be considered centered. Much
// cheaper than the simulation pass; safe to call per preview frame.
func CheckFrame(src *Buffer) (FrameCheck, error) {
	if err := src.Validate(); err != nil {
		return FrameCheck{}, err
	}

	w, h := src.Width, src.Height
	center := Point{X: w / 2, Y: h / 2}
	if w == 0 || h == 0 {
		return FrameCheck{Message: "no image data", Center: center}, nil
	}

	cropW := clampInt(frameCropSize, 1, w)
	cropH := clampInt(frameCropSize, 1, h)
	x0 := clampInt(center.X-cropW/2, 0, w-cropW)
	y0 := clampInt(center.Y-cropH/2, 0, h-cropH)

	skin := 0
	for y := y0; y < y0+cropH; y++ {
		for x := x0; x < x0+cropW; x++ {
			i := (y*w + x) * 4
			if isSkin(src.Pix[i], src.Pix[i+1], src.Pix[i+2]) {
				skin++
			}
		}
	}

	ratio := float64(skin) / float64(cropW*cropH)
	if ratio > frameSkinMinRatio {
		return FrameCheck{
			Aligned: true,
			Message: "face aligned",
			Center:  center,
		}, nil
	}
	return FrameCheck{
		Aligned: false,
		Message: "center your face in the frame",
		Center:  center,
	}, nil
}
