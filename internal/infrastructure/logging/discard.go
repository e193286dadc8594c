package logging

import (
	"context"

	"github.com/alexisbeaulieu97/storefront/internal/ports"
)

type discard struct{}

func (discard) Debug(context.Context, string, ...interface{}) {}
func (discard) Info(context.Context, string, ...interface{})  {}
func (discard) Warn(context.Context, string, ...interface{})  {}
func (discard) Error(context.Context, string, ...interface{}) {}
func (d discard) With(...interface{}) ports.Logger            { return d }

// NewNoOpLogger returns a logger that drops every entry. Components fall
// back to it when constructed without a logger.
func NewNoOpLogger() ports.Logger { return discard{} }

// Correlate returns ctx carrying a correlation id, generating one unless ctx
// already has one. Commands call it once so every entry they cause, store
// dispatches and resolutions included, shares the id.
func Correlate(ctx context.Context) context.Context {
	if ports.GetCorrelationID(ctx) != "" {
		return ctx
	}
	return ports.WithCorrelationID(ctx, ports.GenerateCorrelationID())
}
