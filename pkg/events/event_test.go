package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	e := NewBaseEvent("lending.loan.opened", "loan-42", "Loan")

	assert.NotEmpty(t, e.EventID())
	assert.Equal(t, "lending.loan.opened", e.EventType())
	assert.Equal(t, "loan-42", e.AggregateID())
	assert.Equal(t, "Loan", e.AggregateType())
	assert.WithinDuration(t, time.Now().UTC(), e.OccurredAt(), time.Minute)
}

func TestCollector(t *testing.T) {
	var c Collector
	c.Record(NewBaseEvent("a", "1", "Loan"))
	c.Record(NewBaseEvent("b", "1", "Loan"))

	require.Len(t, c.Events(), 2)

	drained := c.Drain()
	require.Len(t, drained, 2)
	assert.Empty(t, c.Events())
}
