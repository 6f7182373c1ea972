package execution

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ripixel/demofit-server/pkg/testing/mocks"
)

func TestLogStart(t *testing.T) {
	var gotID string
	var gotData map[string]interface{}
	db := &mocks.MockDatabase{
		SetExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			gotID = id
			gotData = data
			return nil
		},
	}

	execID, err := LogStart(context.Background(), db, "preloader", ExecutionOptions{
		UserID:      "user-1",
		TriggerType: "pubsub",
		Inputs:      map[string]string{"plan_id": "plan-9"},
	})
	if err != nil {
		t.Fatalf("LogStart: %v", err)
	}
	if !strings.HasPrefix(execID, "preloader-") {
		t.Errorf("execID = %q, want preloader- prefix", execID)
	}
	if gotID != execID {
		t.Errorf("stored id = %q, want %q", gotID, execID)
	}
	if gotData["status"] != StatusStarted {
		t.Errorf("status = %v, want %q", gotData["status"], StatusStarted)
	}
	if gotData["user_id"] != "user-1" {
		t.Errorf("user_id = %v", gotData["user_id"])
	}
	if _, ok := gotData["inputs_json"]; !ok {
		t.Error("inputs_json missing")
	}
}

func TestLogStartPropagatesDBError(t *testing.T) {
	db := &mocks.MockDatabase{
		SetExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			return errors.New("firestore down")
		},
	}
	execID, err := LogStart(context.Background(), db, "resolver", ExecutionOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if execID == "" {
		t.Error("execID should still be generated on failure")
	}
}

func TestLogSuccessAndFailure(t *testing.T) {
	updates := map[string]map[string]interface{}{}
	db := &mocks.MockDatabase{
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			updates[id] = data
			return nil
		},
	}

	if err := LogSuccess(context.Background(), db, "exec-1", map[string]int{"resolved": 3}); err != nil {
		t.Fatalf("LogSuccess: %v", err)
	}
	if updates["exec-1"]["status"] != StatusSuccess {
		t.Errorf("status = %v", updates["exec-1"]["status"])
	}
	if _, ok := updates["exec-1"]["outputs_json"]; !ok {
		t.Error("outputs_json missing")
	}

	if err := LogFailure(context.Background(), db, "exec-2", errors.New("boom")); err != nil {
		t.Fatalf("LogFailure: %v", err)
	}
	if updates["exec-2"]["status"] != StatusFailed {
		t.Errorf("status = %v", updates["exec-2"]["status"])
	}
	if updates["exec-2"]["error_message"] != "boom" {
		t.Errorf("error_message = %v", updates["exec-2"]["error_message"])
	}
}
