package builder

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/events"
	logginginfra "github.com/alexisbeaulieu97/storefront/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/storefront/internal/ports"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// Resolver resolves section types in the background. *sections.Resolver
// satisfies it.
type Resolver interface {
	ResolveAsync(ctx context.Context, sectionType, prefix string) <-chan sections.Result
}

// StateChanged is published after every accepted command.
type StateChanged struct {
	Command string
	State   State
}

// EventType implements ports.DomainEvent.
func (StateChanged) EventType() string { return ports.EventStateChanged }

// Payload implements ports.DomainEvent. It summarizes the state for logging;
// subscribers that need the full snapshot read the State field.
func (e StateChanged) Payload() interface{} {
	data := map[string]interface{}{
		"command": e.Command,
		"mode":    e.State.Mode().String(),
	}
	if e.State.Theme != nil {
		data["theme"] = e.State.Theme.ID
	}
	if p, ok := e.State.SelectedPage(); ok {
		data["page"] = p.Name
		data["sections"] = len(p.Body)
	}
	if e.State.SelectedID != "" {
		data["selected"] = e.State.SelectedID
	}
	return data
}

// Store owns the current State. Dispatch is serialized; listeners and event
// subscribers run after the lock is released, so they may dispatch again.
type Store struct {
	mu        sync.Mutex
	state     State
	resolver  Resolver
	logger    ports.Logger
	publisher ports.EventPublisher
	inflight  map[string]struct{}
	listeners []listener
	nextID    uint64
	wg        sync.WaitGroup
}

type listener struct {
	id uint64
	fn func(State)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for dispatch diagnostics.
func WithStoreLogger(logger ports.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStorePublisher sets the event publisher.
func WithStorePublisher(publisher ports.EventPublisher) StoreOption {
	return func(s *Store) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

// WithInitialState seeds the store.
func WithInitialState(state State) StoreOption {
	return func(s *Store) { s.state = state }
}

// NewStore creates a store. A nil resolver disables background resolution.
func NewStore(resolver Resolver, opts ...StoreOption) *Store {
	s := &Store{
		resolver: resolver,
		logger:   logginginfra.NewNoOpLogger(),
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher == nil {
		s.publisher = events.NewLoggingPublisher(s.logger)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Publisher exposes the event publisher so callers can subscribe.
func (s *Store) Publisher() ports.EventPublisher {
	return s.publisher
}

// Subscribe registers fn to receive every accepted state. It returns a
// function that removes the listener.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool { return l.id == id })
	}
}

// Dispatch reduces cmd against the current state. A rejected command leaves
// the state untouched and returns the error. After an accepted command the
// store starts resolving every section type of the active page that has no
// recorded outcome.
func (s *Store) Dispatch(ctx context.Context, cmd Command) (State, error) {
	s.mu.Lock()
	next, err := Reduce(s.state, cmd)
	if err != nil {
		current := s.state
		s.mu.Unlock()
		s.rejected(ctx, cmd, err)
		return current, err
	}
	s.state = next
	pending := s.startResolutions(ctx, next)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	name := commandName(cmd)
	if _, ok := cmd.(ComponentResolved); !ok {
		s.logger.Debug(ctx, "command applied", "command", name, "resolving", len(pending))
	}
	for _, l := range listeners {
		l.fn(next)
	}
	_ = s.publisher.Publish(ctx, StateChanged{Command: name, State: next})
	return next, nil
}

// Wait blocks until every background resolution started so far has been
// dispatched back into the store.
func (s *Store) Wait() {
	s.wg.Wait()
}

func (s *Store) rejected(ctx context.Context, cmd Command, err error) {
	name := commandName(cmd)
	s.logger.Warn(ctx, "command rejected", "command", name, "error", err)
	data := map[string]interface{}{"command": name, "error": err.Error()}
	var invariant *sferrors.InvariantError
	if errors.As(err, &invariant) {
		data["reason"] = invariant.Message
	}
	_ = s.publisher.Publish(ctx, events.Event{Type: ports.EventCommandRejected, Data: data})
}

// startResolutions must be called with s.mu held.
func (s *Store) startResolutions(ctx context.Context, state State) []string {
	if s.resolver == nil {
		return nil
	}
	prefix := state.Prefix()
	var started []string
	for _, sectionType := range state.Unresolved() {
		key := prefix + "/" + sectionType
		if _, busy := s.inflight[key]; busy {
			continue
		}
		s.inflight[key] = struct{}{}
		started = append(started, sectionType)

		s.wg.Add(1)
		results := s.resolver.ResolveAsync(context.WithoutCancel(ctx), sectionType, prefix)
		go s.await(ctx, key, results)
	}
	return started
}

func (s *Store) await(ctx context.Context, key string, results <-chan sections.Result) {
	defer s.wg.Done()
	result, ok := <-results

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()

	if !ok {
		return
	}
	_, _ = s.Dispatch(context.WithoutCancel(ctx), ComponentResolved{
		Type:        result.Type,
		Prefix:      result.Prefix,
		SectionType: result.SectionType,
		Err:         result.Err,
	})
}

func commandName(cmd Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return cmd.CommandName()
}
