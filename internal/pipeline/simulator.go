package pipeline

import (
	"context"

	"github.com/dermaflow/skinsim/internal/domain"
)

// Rendered is one encoded correction output plus the statistics the
// worker reports for it.
type Rendered struct {
	Data       []byte
	Format     string
	Width      int
	Height     int
	SkinPixels int
}

type Simulator interface {
	Simulate(ctx context.Context, input []byte, step domain.CorrectionStep) (Rendered, error)
}

func normalizeOutputFormat(format string) string {
	switch format {
	case "jpg":
		return "jpeg"
	case "jpeg", "png", "webp":
		return format
	default:
		return "png"
	}
}
