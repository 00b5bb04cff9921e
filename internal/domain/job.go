package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	JobStatusCreated    = "created"
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusSucceeded  = "succeeded"
	JobStatusFailed     = "failed"

	SourceTypeLocalFile   = "local_file"
	SourceTypeS3Presigned = "s3_presigned"
)

type CreateSimulationRequest struct {
	SourceType  string           `json:"source_type"`
	WebhookURL  string           `json:"webhook_url,omitempty"`
	ObjectKey   string           `json:"object_key,omitempty"`
	Corrections []CorrectionStep `json:"corrections"`
}

// CorrectionStep asks for one corrected rendition of the source photo:
// a skin concern plus the strength of the simulated improvement.
type CorrectionStep struct {
	ID        string  `json:"id"`
	Concern   Concern `json:"concern"`
	Intensity float64 `json:"intensity"`
	Format    string  `json:"format,omitempty"`
	Quality   int     `json:"quality,omitempty"`
}

type Job struct {
	ID          string
	UserID      string
	Status      string
	SourceType  string
	WebhookURL  string
	Corrections []CorrectionStep
	ObjectKey   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r CreateSimulationRequest) Validate() error {
	sourceType := strings.ToLower(strings.TrimSpace(r.SourceType))
	if sourceType == "" {
		return errors.New("source_type is required")
	}
	if sourceType != SourceTypeLocalFile && sourceType != SourceTypeS3Presigned {
		return fmt.Errorf("unsupported source_type: %s", r.SourceType)
	}
	if sourceType == SourceTypeLocalFile && strings.TrimSpace(r.ObjectKey) == "" {
		return errors.New("object_key is required for source_type=local_file")
	}
	if len(r.Corrections) == 0 {
		return errors.New("corrections must contain at least one step")
	}
	for i, step := range r.Corrections {
		if strings.TrimSpace(step.ID) == "" {
			return fmt.Errorf("corrections[%d].id is required", i)
		}
		if _, err := ParseConcern(string(step.Concern)); err != nil {
			return fmt.Errorf("corrections[%d].concern: %w", i, err)
		}
		if step.Intensity < 0 || step.Intensity > 1 {
			return fmt.Errorf("corrections[%d].intensity must be in [0,1]", i)
		}
	}
	return nil
}
