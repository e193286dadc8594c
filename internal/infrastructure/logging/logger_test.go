package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/storefront/internal/ports"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		payload := make(map[string]interface{})
		require.NoError(t, json.Unmarshal([]byte(line), &payload), "line %q", line)
		out = append(out, payload)
	}
	return out
}

func TestLoggerIncludesCorrelationIDAndLayer(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{
		Writer:    &buf,
		Level:     "debug",
		Layer:     "infrastructure",
		Component: "section_loader",
	})
	require.NoError(t, err)

	ctx := ports.WithCorrelationID(context.Background(), "abc123")
	logger.Info(ctx, "loaded section", "path", "/tmp/Hero.section.yaml")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	payload := lines[0]
	require.Equal(t, "infrastructure", payload["layer"])
	require.Equal(t, "section_loader", payload["component"])
	require.Equal(t, "abc123", payload["correlation_id"])
	require.Equal(t, "/tmp/Hero.section.yaml", payload["path"])
	require.Equal(t, "loaded section", payload["message"])
	require.Equal(t, "info", payload["level"])
}

func TestLoggerWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	child := logger.With("component", "resolver").(*Logger)
	child.Warn(context.Background(), "resolution failed", "section_type", "Footer", "error", errors.New("boom"), "elapsed", 1500*time.Millisecond)

	payload := decodeLines(t, &buf)[0]
	require.Equal(t, "resolver", payload["component"])
	require.Equal(t, "Footer", payload["section_type"])
	require.Equal(t, "boom", payload["error"])
	require.EqualValues(t, 1500, payload["elapsed_ms"])
	require.Equal(t, "infrastructure", payload["layer"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Level: "warn"})
	require.NoError(t, err)

	logger.Info(context.Background(), "hidden")
	require.Zero(t, buf.Len())

	_, err = New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNoOpLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	noOp := NewNoOpLogger()
	noOp.Info(context.Background(), "hello world")
	require.Zero(t, buf.Len())
	require.Equal(t, noOp, noOp.With("key", "value"))

	logger.Info(context.Background(), "emitted")
	require.NotZero(t, buf.Len())
}

func TestCorrelateKeepsExistingID(t *testing.T) {
	ctx := Correlate(context.Background())
	id := ports.GetCorrelationID(ctx)
	require.NotEmpty(t, id)
	require.Equal(t, id, ports.GetCorrelationID(Correlate(ctx)))
}

func TestDeferredReplaysInOrder(t *testing.T) {
	held := NewDeferred(10)

	ctx := ports.WithCorrelationID(context.Background(), "held")
	held.Info(ctx, "store opened", "component", "store")
	held.With("component", "composer").Error(ctx, "save failed", "attempt", 1)
	held.Debug(ctx, "hidden below warn")
	require.Equal(t, 3, held.Len())

	var output bytes.Buffer
	delegate, err := New(Options{Writer: &output, Level: "info"})
	require.NoError(t, err)

	held.Replay(delegate)
	require.Zero(t, held.Len())

	lines := decodeLines(t, &output)
	require.Len(t, lines, 2)
	require.Equal(t, "store opened", lines[0]["message"])
	require.Equal(t, "store", lines[0]["component"])
	require.Equal(t, "save failed", lines[1]["message"])
	require.Equal(t, "error", lines[1]["level"])
	require.Equal(t, "composer", lines[1]["component"])
	require.Equal(t, "held", lines[1]["correlation_id"])
}

func TestDeferredDropsOldestPastLimit(t *testing.T) {
	held := NewDeferred(2)
	for _, msg := range []string{"first", "second", "third"} {
		held.Info(context.Background(), msg)
	}
	require.Equal(t, 2, held.Len())

	var output bytes.Buffer
	delegate, err := New(Options{Writer: &output})
	require.NoError(t, err)
	held.Replay(delegate)

	lines := decodeLines(t, &output)
	require.Len(t, lines, 3)
	require.Equal(t, "warn", lines[0]["level"])
	require.EqualValues(t, 1, lines[0]["dropped"])
	require.Equal(t, "second", lines[1]["message"])
	require.Equal(t, "third", lines[2]["message"])

	held.Replay(nil)
}
