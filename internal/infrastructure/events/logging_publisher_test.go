package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	logginginfra "github.com/alexisbeaulieu97/storefront/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/storefront/internal/ports"
)

func TestLoggingPublisherIncludesCorrelationID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := logginginfra.New(logginginfra.Options{
		Writer:    buf,
		Level:     "debug",
		Layer:     "test",
		Component: "publisher",
	})
	require.NoError(t, err)

	publisher := NewLoggingPublisher(logger)

	ctx := ports.WithCorrelationID(context.Background(), "abc-123")
	err = publisher.Publish(ctx, Event{
		Type: ports.EventStateChanged,
		Data: map[string]interface{}{"command": "SelectTheme"},
	})
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "domain event", entry["message"])
	require.Equal(t, ports.EventStateChanged, entry["event_type"])
	require.Equal(t, "abc-123", entry["correlation_id"])
	require.Equal(t, "SelectTheme", entry["command"])
}

func TestLoggingPublisherInvokesSubscribers(t *testing.T) {
	t.Parallel()

	publisher := NewLoggingPublisher(logginginfra.NewNoOpLogger())

	var calls []string
	_, err := publisher.Subscribe(ports.EventSectionResolved, func(ctx context.Context, event ports.DomainEvent) error {
		calls = append(calls, "first")
		return errors.New("handler failed")
	})
	require.NoError(t, err)
	sub, err := publisher.Subscribe(ports.EventSectionResolved, func(ctx context.Context, event ports.DomainEvent) error {
		calls = append(calls, "second")
		return nil
	})
	require.NoError(t, err)

	event := Event{Type: ports.EventSectionResolved, Data: map[string]interface{}{"section_type": "Footer"}}
	require.NoError(t, publisher.Publish(context.Background(), event))
	require.Equal(t, []string{"first", "second"}, calls, "a failing handler must not stop delivery")

	sub.Unsubscribe()
	require.NoError(t, publisher.Publish(context.Background(), event))
	require.Equal(t, []string{"first", "second", "first"}, calls)
}

func TestLoggingPublisherWithoutLogger(t *testing.T) {
	t.Parallel()

	publisher := NewLoggingPublisher(nil)
	handled := false
	_, err := publisher.Subscribe(ports.EventCommandRejected, func(context.Context, ports.DomainEvent) error {
		handled = true
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(context.Background(), Event{Type: ports.EventCommandRejected}))
	require.True(t, handled)
}
