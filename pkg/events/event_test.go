package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	evt := NewBaseEvent("loan.defaulted", "loan-001", "Loan", "org-001")
	after := time.Now().UTC()

	_, err := uuid.Parse(evt.EventID())
	require.NoError(t, err, "event ID should be a valid UUID")

	assert.Equal(t, "loan.defaulted", evt.EventType())
	assert.Equal(t, "loan-001", evt.AggregateID())
	assert.Equal(t, "Loan", evt.AggregateType())
	assert.Equal(t, "org-001", evt.TenantID())
	assert.False(t, evt.OccurredAt().Before(before))
	assert.False(t, evt.OccurredAt().After(after))
}

func TestBaseEventUniqueIDs(t *testing.T) {
	a := NewBaseEvent("loan.overdue", "loan-001", "Loan", "org-001")
	b := NewBaseEvent("loan.overdue", "loan-001", "Loan", "org-001")
	assert.NotEqual(t, a.EventID(), b.EventID())
}
