package preloader

import (
	"encoding/json"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

func TestParsePlanEventBarePayload(t *testing.T) {
	e := cloudevents.NewEvent()
	e.SetID("1")
	e.SetSource("test")
	e.SetType("dev.demofit.workout.plan.created")
	if err := e.SetData(cloudevents.ApplicationJSON, map[string]interface{}{
		"user_id":        "user-1",
		"plan_id":        "plan-9",
		"exercise_names": []string{"push up", "squat"},
	}); err != nil {
		t.Fatalf("SetData: %v", err)
	}

	payload, err := parsePlanEvent(e)
	if err != nil {
		t.Fatalf("parsePlanEvent: %v", err)
	}
	if payload.UserID != "user-1" || payload.PlanID != "plan-9" {
		t.Errorf("payload = %+v", payload)
	}
	if len(payload.ExerciseNames) != 2 {
		t.Errorf("ExerciseNames = %v, want 2 entries", payload.ExerciseNames)
	}
}

func TestParsePlanEventPubSubWrapper(t *testing.T) {
	inner, _ := json.Marshal(map[string]interface{}{
		"user_id":        "user-2",
		"exercise_names": []string{"burpee"},
	})

	e := cloudevents.NewEvent()
	e.SetID("2")
	e.SetSource("test")
	e.SetType("google.cloud.pubsub.topic.v1.messagePublished")
	if err := e.SetData(cloudevents.ApplicationJSON, map[string]interface{}{
		"message": map[string]interface{}{
			"data": inner, // []byte marshals to base64, matching Pub/Sub push
		},
		"subscription": "projects/demofit-prod/subscriptions/preloader",
	}); err != nil {
		t.Fatalf("SetData: %v", err)
	}

	payload, err := parsePlanEvent(e)
	if err != nil {
		t.Fatalf("parsePlanEvent: %v", err)
	}
	if payload.UserID != "user-2" {
		t.Errorf("UserID = %q, want user-2", payload.UserID)
	}
	if len(payload.ExerciseNames) != 1 || payload.ExerciseNames[0] != "burpee" {
		t.Errorf("ExerciseNames = %v", payload.ExerciseNames)
	}
}

func TestParsePlanEventMissingUserID(t *testing.T) {
	e := cloudevents.NewEvent()
	e.SetID("3")
	e.SetSource("test")
	e.SetType("dev.demofit.workout.plan.created")
	e.SetData(cloudevents.ApplicationJSON, map[string]interface{}{
		"exercise_names": []string{"squat"},
	})

	if _, err := parsePlanEvent(e); err == nil {
		t.Error("expected an error for a payload without user_id")
	}
}

func TestParsePlanEventGarbage(t *testing.T) {
	e := cloudevents.NewEvent()
	e.SetID("4")
	e.SetSource("test")
	e.SetType("dev.demofit.workout.plan.created")
	e.DataEncoded = []byte("not json")

	if _, err := parsePlanEvent(e); err == nil {
		t.Error("expected an error for malformed data")
	}
}
