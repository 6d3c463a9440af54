package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskIntegritySweep recomputes ledger invariants for one tenant.
	TaskIntegritySweep = "ledger:integrity_sweep"
)

// IntegritySweepPayload names the tenant whose ledger store gets swept. An
// empty tenant sweeps the default store.
type IntegritySweepPayload struct {
	Tenant string `json:"tenant"`
}

// NewIntegritySweepTask constructs the sweep task for one tenant.
func NewIntegritySweepTask(payload IntegritySweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIntegritySweep, data), nil
}
