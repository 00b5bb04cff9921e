package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dermaflow/skinsim/internal/domain"
	"github.com/dermaflow/skinsim/internal/storage"
)

const SourceTypeS3Presigned = domain.SourceTypeS3Presigned

func NewObjectStoreProcessor(fetcher ObjectStoreFetcher, emitter ObjectStoreEmitter) (*Processor, error) {
	simulator, err := newSimulator()
	if err != nil {
		return nil, fmt.Errorf("build simulator: %w", err)
	}

	return &Processor{
		fetcher:   fetcher,
		simulator: simulator,
		emitter:   emitter,
	}, nil
}

type ObjectStoreFetcher struct {
	Storage *storage.Client
}

func (f ObjectStoreFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if f.Storage == nil {
		return nil, errors.New("storage client is required")
	}
	if strings.EqualFold(req.SourceType, SourceTypeLocalFile) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSourceType, req.SourceType)
	}
	return f.Storage.ReadObject(ctx, req.ObjectKey)
}

type ObjectStoreEmitter struct {
	Storage      *storage.Client
	OutputPrefix string
}

func (e ObjectStoreEmitter) Emit(ctx context.Context, req Request, step domain.CorrectionStep, rendered Rendered) (Output, error) {
	if e.Storage == nil {
		return Output{}, errors.New("storage client is required")
	}
	if strings.TrimSpace(step.ID) == "" {
		return Output{}, errors.New("correction step id is required")
	}

	objectKey := path.Join(
		defaultOutputPrefix(e.OutputPrefix),
		sanitizePathToken(req.JobID),
		fmt.Sprintf("%s.%s", sanitizePathToken(step.ID), normalizeOutputFormat(rendered.Format)),
	)

	if err := e.Storage.WriteObject(ctx, objectKey, rendered.Data, contentTypeForFormat(rendered.Format)); err != nil {
		return Output{}, err
	}

	return Output{
		StepID:     step.ID,
		Concern:    string(step.Concern),
		Format:     normalizeOutputFormat(rendered.Format),
		Path:       objectKey,
		Bytes:      len(rendered.Data),
		Width:      rendered.Width,
		Height:     rendered.Height,
		SkinPixels: rendered.SkinPixels,
		Success:    true,
	}, nil
}

func defaultOutputPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "outputs"
	}
	return prefix
}

func contentTypeForFormat(format string) string {
	switch normalizeOutputFormat(strings.ToLower(strings.TrimSpace(format))) {
	case "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
