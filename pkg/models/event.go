package models

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentEvent is emitted by the poller the first time a qualifying
// notification is seen, and consumed exactly once by the orchestrator.
type AssignmentEvent struct {
	TraceID    string    `json:"trace_id"`
	MessageID  string    `json:"message_id"`
	Reference  string    `json:"reference"`
	Subject    string    `json:"subject"`
	ReceivedAt time.Time `json:"received_at"`
}

func NewAssignmentEvent(messageID, reference, subject string, receivedAt time.Time) AssignmentEvent {
	return AssignmentEvent{
		TraceID:    uuid.NewString(),
		MessageID:  messageID,
		Reference:  reference,
		Subject:    subject,
		ReceivedAt: receivedAt,
	}
}
