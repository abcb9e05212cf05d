package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/quorum/internal/constants"
)

func TestIsValidTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		from  constants.JobStatus
		to    constants.JobStatus
		valid bool
	}{
		{"pending to running", constants.JobStatusPending, constants.JobStatusRunning, true},
		{"pending to failed", constants.JobStatusPending, constants.JobStatusFailed, true},
		{"pending to cancelled", constants.JobStatusPending, constants.JobStatusCancelled, true},
		{"pending to completed", constants.JobStatusPending, constants.JobStatusCompleted, false},
		{"pending to timeout", constants.JobStatusPending, constants.JobStatusTimeout, false},
		{"running to completed", constants.JobStatusRunning, constants.JobStatusCompleted, true},
		{"running to failed", constants.JobStatusRunning, constants.JobStatusFailed, true},
		{"running to timeout", constants.JobStatusRunning, constants.JobStatusTimeout, true},
		{"running to cancelled", constants.JobStatusRunning, constants.JobStatusCancelled, true},
		{"running to pending", constants.JobStatusRunning, constants.JobStatusPending, false},
		{"completed is terminal", constants.JobStatusCompleted, constants.JobStatusRunning, false},
		{"failed is terminal", constants.JobStatusFailed, constants.JobStatusRunning, false},
		{"timeout is terminal", constants.JobStatusTimeout, constants.JobStatusCancelled, false},
		{"cancelled is terminal", constants.JobStatusCancelled, constants.JobStatusRunning, false},
		{"same state never valid", constants.JobStatusRunning, constants.JobStatusRunning, false},
		{"unknown state never valid", constants.JobStatus("weird"), constants.JobStatusRunning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, IsValidTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTerminalStatus(constants.JobStatusPending))
	assert.False(t, IsTerminalStatus(constants.JobStatusRunning))
	assert.True(t, IsTerminalStatus(constants.JobStatusCompleted))
	assert.True(t, IsTerminalStatus(constants.JobStatusFailed))
	assert.True(t, IsTerminalStatus(constants.JobStatusTimeout))
	assert.True(t, IsTerminalStatus(constants.JobStatusCancelled))
	assert.False(t, IsTerminalStatus(constants.JobStatus("weird")))
}
