package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dermaflow/skinsim/internal/domain"
	"github.com/hibiken/asynq"
)

const TypeSimulate = "simulation:process"

type SimulatePayload struct {
	JobID       string                  `json:"job_id"`
	SourceType  string                  `json:"source_type"`
	WebhookURL  string                  `json:"webhook_url,omitempty"`
	ObjectKey   string                  `json:"object_key"`
	Corrections []domain.CorrectionStep `json:"corrections"`
	RequestedAt time.Time               `json:"requested_at"`
}

func NewSimulateTask(payload SimulatePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal simulate payload: %w", err)
	}
	return asynq.NewTask(TypeSimulate, body), nil
}

func ParseSimulatePayload(task *asynq.Task) (SimulatePayload, error) {
	var payload SimulatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SimulatePayload{}, fmt.Errorf("unmarshal simulate payload: %w", err)
	}
	return payload, nil
}
