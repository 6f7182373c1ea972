// Package execution records function invocations in the database so that
// failed resolutions and preloads can be audited after the fact.
package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Database is the subset of the shared Database needed for execution logging.
type Database interface {
	SetExecution(ctx context.Context, id string, data map[string]interface{}) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error
}

// Execution statuses.
const (
	StatusStarted = "STARTED"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// ExecutionOptions contains optional fields for execution logging
type ExecutionOptions struct {
	UserID      string
	TriggerType string
	Inputs      interface{}
}

// LogStart creates an execution record with STARTED status.
func LogStart(ctx context.Context, db Database, service string, opts ExecutionOptions) (string, error) {
	execID := fmt.Sprintf("%s-%d", service, time.Now().UnixNano())

	record := map[string]interface{}{
		"execution_id": execID,
		"service":      service,
		"status":       StatusStarted,
		"start_time":   time.Now().UTC(),
	}
	if opts.UserID != "" {
		record["user_id"] = opts.UserID
	}
	if opts.TriggerType != "" {
		record["trigger_type"] = opts.TriggerType
	}
	if opts.Inputs != nil {
		if inputsJSON, err := json.Marshal(opts.Inputs); err == nil {
			record["inputs_json"] = string(inputsJSON)
		}
	}

	if err := db.SetExecution(ctx, execID, record); err != nil {
		return execID, fmt.Errorf("failed to log execution start: %w", err)
	}
	return execID, nil
}

// LogSuccess updates an execution record with SUCCESS status.
func LogSuccess(ctx context.Context, db Database, execID string, outputs interface{}) error {
	updates := map[string]interface{}{
		"status":   StatusSuccess,
		"end_time": time.Now().UTC(),
	}
	if outputs != nil {
		if outputsJSON, err := json.Marshal(outputs); err == nil {
			updates["outputs_json"] = string(outputsJSON)
		}
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution success: %w", err)
	}
	return nil
}

// LogFailure updates an execution record with FAILED status.
func LogFailure(ctx context.Context, db Database, execID string, cause error) error {
	updates := map[string]interface{}{
		"status":        StatusFailed,
		"end_time":      time.Now().UTC(),
		"error_message": cause.Error(),
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution failure: %w", err)
	}
	return nil
}
