package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherFanOut(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []string
	d.Subscribe(EventEmployeeClockedIn, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.EmployeeID)
		return nil
	})
	d.Subscribe(EventEmployeeClockedIn, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.EmployeeID)
		return nil
	})
	d.Subscribe(EventEmployeeClockedOut, func(_ context.Context, _ Event) error {
		got = append(got, "wrong type")
		return nil
	})

	err := d.Publish(context.Background(), Event{
		Type:       EventEmployeeClockedIn,
		EmployeeID: "emp-1",
		Timestamp:  time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:emp-1", "second:emp-1"}, got)
}

func TestDispatcherHandlerErrorDoesNotStopFanOut(t *testing.T) {
	d := NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(EventLateArrival, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventLateArrival, func(_ context.Context, _ Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLateArrival})
	require.NoError(t, err)
	assert.True(t, reached)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventEmployeeRegistered}))
}
