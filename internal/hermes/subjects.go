package hermes

import "time"

const (
	SubjectDecisionRequest  = "worthit.decision.request"
	SubjectDecisionComputed = "worthit.decision.computed"
	SubjectHistoryImported  = "worthit.history.imported"

	StreamName   = "WORTHIT_EVENTS"
	StreamMaxAge = 30 * 24 * time.Hour

	// QueueGroup spreads decision requests across service replicas.
	QueueGroup = "worthit"
)

// StreamSubjects are captured by the event stream.
var StreamSubjects = []string{"worthit.decision.>", "worthit.history.>"}

func SubjectHistorySaved(entryID string) string   { return "worthit.history." + entryID + ".saved" }
func SubjectHistoryDeleted(entryID string) string { return "worthit.history." + entryID + ".deleted" }
