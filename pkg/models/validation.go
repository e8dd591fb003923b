package models

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateAssignmentEvent(ev *AssignmentEvent) error {
	if ev == nil {
		return &ValidationError{
			Field:   "event",
			Message: "assignment event cannot be nil",
		}
	}

	if ev.MessageID == "" {
		return &ValidationError{
			Field:   "message_id",
			Message: "message ID is required",
		}
	}

	if ev.Reference == "" {
		return &ValidationError{
			Field:   "reference",
			Message: "work item reference is required",
		}
	}

	if ev.ReceivedAt.IsZero() {
		return &ValidationError{
			Field:   "received_at",
			Message: "receipt timestamp is required",
		}
	}

	return nil
}
