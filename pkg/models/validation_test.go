package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignmentEventAssignsTraceID(t *testing.T) {
	ev := NewAssignmentEvent("101", "https://host/g/p/-/merge_requests/1", "subject", time.Now())
	assert.NotEmpty(t, ev.TraceID)

	other := NewAssignmentEvent("101", "https://host/g/p/-/merge_requests/1", "subject", time.Now())
	assert.NotEqual(t, ev.TraceID, other.TraceID)
}

func TestValidateAssignmentEvent(t *testing.T) {
	valid := NewAssignmentEvent("101", "https://host/g/p/-/merge_requests/1", "subject", time.Now())
	require.NoError(t, ValidateAssignmentEvent(&valid))

	tests := []struct {
		name   string
		mutate func(*AssignmentEvent)
		field  string
	}{
		{"missing message ID", func(ev *AssignmentEvent) { ev.MessageID = "" }, "message_id"},
		{"missing reference", func(ev *AssignmentEvent) { ev.Reference = "" }, "reference"},
		{"zero timestamp", func(ev *AssignmentEvent) { ev.ReceivedAt = time.Time{} }, "received_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := valid
			tt.mutate(&ev)
			err := ValidateAssignmentEvent(&ev)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	assert.Error(t, ValidateAssignmentEvent(nil))
}
