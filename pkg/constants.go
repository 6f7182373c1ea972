package shared

// ProjectID is the default GCP project when the environment does not say.
const ProjectID = "demofit-prod"

// Pub/Sub topics.
const (
	TopicResolutionDegraded = "exercise-resolution-degraded"
	TopicWorkoutPlanCreated = "workout-plan-created"
)

// Secret names.
const (
	SecretExerciseDBAPIKey = "EXERCISEDB_API_KEY"
)
