// Package jobs wires background work onto Asynq: the scheduled spreadsheet
// import plus its manual HTTP trigger.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-interiors/meridian/internal/importer"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSheetImport is the task type for the spreadsheet import run.
	TaskSheetImport = "import:sheet"

	// lastRunKey holds the JSON summary of the most recent import run.
	lastRunKey = "import:last_run"
)

// SheetImportPayload records how an import run was started.
type SheetImportPayload struct {
	Trigger string `json:"trigger"`
}

// NewSheetImportTask constructs an Asynq task for one import run.
func NewSheetImportTask(trigger string) (*asynq.Task, error) {
	data, err := json.Marshal(SheetImportPayload{Trigger: trigger})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSheetImport, data), nil
}

// RunRecord is the persisted summary of one import run.
type RunRecord struct {
	Trigger    string          `json:"trigger"`
	FinishedAt time.Time       `json:"finishedAt"`
	Result     importer.Result `json:"result"`
	Error      string          `json:"error,omitempty"`
}

// SheetImportRunner executes import tasks and records the outcome.
type SheetImportRunner struct {
	logger *slog.Logger
	svc    *importer.Service
	redis  *redis.Client
}

// NewSheetImportRunner constructs a runner.
func NewSheetImportRunner(logger *slog.Logger, svc *importer.Service, rdb *redis.Client) *SheetImportRunner {
	return &SheetImportRunner{logger: logger, svc: svc, redis: rdb}
}

// Handle processes TaskSheetImport tasks.
func (r *SheetImportRunner) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SheetImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	record := RunRecord{Trigger: payload.Trigger}
	result, err := r.svc.Run(ctx)
	record.FinishedAt = time.Now().UTC()
	if err != nil {
		record.Error = err.Error()
	} else {
		record.Result = *result
	}
	r.store(ctx, record)

	if err != nil {
		r.logger.Error("sheet import run", "trigger", payload.Trigger, "error", err)
		return err
	}
	return nil
}

func (r *SheetImportRunner) store(ctx context.Context, record RunRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, lastRunKey, data, 0).Err(); err != nil {
		r.logger.Warn("store import run record", "error", err)
	}
}

// LastRun returns the latest stored run record, or nil when none exists.
func LastRun(ctx context.Context, rdb *redis.Client) (*RunRecord, error) {
	data, err := rdb.Get(ctx, lastRunKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
