package builder

import (
	"context"
	"slices"

	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// Dispatcher accepts builder commands. *Store satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd Command) (State, error)
	State() State
}

// DragEnd is the outcome of a drag gesture over the section list: the id order
// as displayed when the gesture finished.
type DragEnd struct {
	Order     []string
	Cancelled bool
}

// ReorderController turns drag gestures and keyboard moves into
// ReorderSections commands.
type ReorderController struct {
	dispatcher Dispatcher
}

// NewReorderController creates a controller dispatching into d.
func NewReorderController(d Dispatcher) *ReorderController {
	return &ReorderController{dispatcher: d}
}

// HandleDragEnd dispatches the final order of a gesture. It reports false when
// nothing was dispatched: the gesture was cancelled or the order is unchanged.
func (c *ReorderController) HandleDragEnd(ctx context.Context, ev DragEnd) (bool, error) {
	if ev.Cancelled {
		return false, nil
	}
	p, ok := c.dispatcher.State().SelectedPage()
	if !ok {
		return false, sferrors.NewInvariantError("ReorderSections", "no active page")
	}
	if slices.Equal(p.IDs(), ev.Order) {
		return false, nil
	}
	if _, err := c.dispatcher.Dispatch(ctx, ReorderSections{Order: slices.Clone(ev.Order)}); err != nil {
		return false, err
	}
	return true, nil
}

// Move shifts the section with id by delta positions, clamped to the body.
func (c *ReorderController) Move(ctx context.Context, id string, delta int) (bool, error) {
	p, ok := c.dispatcher.State().SelectedPage()
	if !ok {
		return false, sferrors.NewInvariantError("ReorderSections", "no active page")
	}
	from := p.IndexOf(id)
	if from < 0 {
		return false, sferrors.NewInvariantError("ReorderSections", "section "+id+" is not on the active page")
	}
	return c.MoveTo(ctx, id, from+delta)
}

// MoveTo places the section with id at index, clamped to the body.
func (c *ReorderController) MoveTo(ctx context.Context, id string, index int) (bool, error) {
	p, ok := c.dispatcher.State().SelectedPage()
	if !ok {
		return false, sferrors.NewInvariantError("ReorderSections", "no active page")
	}
	ids := p.IDs()
	from := slices.Index(ids, id)
	if from < 0 {
		return false, sferrors.NewInvariantError("ReorderSections", "section "+id+" is not on the active page")
	}
	index = max(0, min(index, len(ids)-1))
	if index == from {
		return false, nil
	}
	ids = slices.Delete(ids, from, from+1)
	ids = slices.Insert(ids, index, id)
	return c.HandleDragEnd(ctx, DragEnd{Order: ids})
}
