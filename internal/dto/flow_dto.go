package dto

import "time"

// ExtractedFields is the untrusted partial field map produced by the AI
// extractor, keyed by sheet column name. Any field may be absent or wrong.
type ExtractedFields map[string]any

type Question struct {
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"`
}

type Outcome struct {
	Status   string   `json:"status"`
	Messages []string `json:"messages,omitempty"`
}

// StepReply is what every conversation step hands back to the transport:
// either the next question (optionally preceded by a correction hint when the
// previous answer was rejected) or a terminal outcome.
type StepReply struct {
	Question  *Question `json:"question,omitempty"`
	Outcome   *Outcome  `json:"outcome,omitempty"`
	ErrorHint string    `json:"error_hint,omitempty"`
}

// FailedSaveEntry is one row of the local fallback store.
type FailedSaveEntry struct {
	Timestamp time.Time         `json:"timestamp"`
	Error     string            `json:"error"`
	Record    map[string]string `json:"record"`
}

// AnalyticsEvent is the wire shape published on the visit events topic.
type AnalyticsEvent struct {
	Event  string    `json:"event"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// EventStats is the aggregated per-event counter kept by the analytics
// consumer.
type EventStats struct {
	Count          int      `json:"count"`
	LastOccurrence string   `json:"last_occurrence"`
	Examples       []string `json:"examples,omitempty"`
}
