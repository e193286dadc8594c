package logging

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/storefront/internal/ports"
)

// DefaultDeferredLimit caps a Deferred log when no limit is given.
const DefaultDeferredLimit = 1000

type deferredEntry struct {
	ctx    context.Context
	level  zerolog.Level
	msg    string
	fields []interface{}
}

type deferredLog struct {
	mu      sync.Mutex
	limit   int
	entries []deferredEntry
	dropped int
}

// Deferred is a logger that holds entries in memory until Replay. The
// interactive builder logs through it while it owns the terminal. Once the
// limit is reached the oldest entries are dropped and counted.
type Deferred struct {
	log    *deferredLog
	fields []interface{}
}

// NewDeferred returns an empty deferred logger holding at most limit entries.
func NewDeferred(limit int) *Deferred {
	if limit <= 0 {
		limit = DefaultDeferredLimit
	}
	return &Deferred{log: &deferredLog{limit: limit}}
}

func (d *Deferred) Debug(ctx context.Context, msg string, fields ...interface{}) {
	d.add(ctx, zerolog.DebugLevel, msg, fields)
}

func (d *Deferred) Info(ctx context.Context, msg string, fields ...interface{}) {
	d.add(ctx, zerolog.InfoLevel, msg, fields)
}

func (d *Deferred) Warn(ctx context.Context, msg string, fields ...interface{}) {
	d.add(ctx, zerolog.WarnLevel, msg, fields)
}

func (d *Deferred) Error(ctx context.Context, msg string, fields ...interface{}) {
	d.add(ctx, zerolog.ErrorLevel, msg, fields)
}

// With returns a child sharing the same held entries.
func (d *Deferred) With(fields ...interface{}) ports.Logger {
	return &Deferred{log: d.log, fields: append(append([]interface{}{}, d.fields...), fields...)}
}

// Len reports how many entries are held.
func (d *Deferred) Len() int {
	d.log.mu.Lock()
	defer d.log.mu.Unlock()
	return len(d.log.entries)
}

// Replay writes the held entries to to, oldest first, and empties the log.
// Dropped entries are reported as one warning ahead of the rest.
func (d *Deferred) Replay(to ports.Logger) {
	if to == nil {
		return
	}
	d.log.mu.Lock()
	entries, dropped := d.log.entries, d.log.dropped
	d.log.entries, d.log.dropped = nil, 0
	d.log.mu.Unlock()

	if dropped > 0 {
		to.Warn(context.Background(), "log entries dropped while output was held", "dropped", dropped)
	}
	for _, e := range entries {
		switch e.level {
		case zerolog.DebugLevel:
			to.Debug(e.ctx, e.msg, e.fields...)
		case zerolog.WarnLevel:
			to.Warn(e.ctx, e.msg, e.fields...)
		case zerolog.ErrorLevel:
			to.Error(e.ctx, e.msg, e.fields...)
		default:
			to.Info(e.ctx, e.msg, e.fields...)
		}
	}
}

func (d *Deferred) add(ctx context.Context, level zerolog.Level, msg string, fields []interface{}) {
	entry := deferredEntry{
		ctx:    ctx,
		level:  level,
		msg:    msg,
		fields: append(append([]interface{}{}, d.fields...), fields...),
	}

	d.log.mu.Lock()
	defer d.log.mu.Unlock()
	if len(d.log.entries) == d.log.limit {
		d.log.entries = append(d.log.entries[:0], d.log.entries[1:]...)
		d.log.dropped++
	}
	d.log.entries = append(d.log.entries, entry)
}
