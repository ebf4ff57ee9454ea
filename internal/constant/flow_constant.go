package constant

// Terminal outcomes of a conversation step.
const (
	OutcomeSaved             = "saved"
	OutcomeSavedWithWarnings = "saved_with_warnings"
	OutcomeRejected          = "rejected"
	OutcomeSavedLocally      = "saved_locally"
)

// Analytics event names, published fire-and-forget on the event bus.
const (
	EventValidationError = "validation_error"
	EventSaveSuccess     = "save_success"
	EventSaveFailure     = "save_failure"
	EventFeedback        = "feedback"
)

// VisitEventsTopic is the in-process pub/sub topic for analytics events.
const VisitEventsTopic = "visit.events"
