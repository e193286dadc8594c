// Package editor implements the section editor: a draft of the selected
// section's data that is validated field by field and only reaches the builder
// store on Save.
package editor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

var (
	// ErrNoSelection is returned by Open when the builder is idle.
	ErrNoSelection = errors.New("no section selected")
	// ErrPending is returned by Open while the section type is still resolving.
	ErrPending = errors.New("section type is still resolving")
	// ErrClosed is returned by every operation after Save or Cancel.
	ErrClosed = errors.New("editor is closed")
)

// NoEyedropperNotice is shown when the host cannot pick colours from the screen.
const NoEyedropperNotice = "Picking a colour from the screen is not available here. Type a hex value or choose a swatch."

// Eyedropper picks a colour from the screen. Hosts without that capability
// leave it nil.
type Eyedropper interface {
	PickColor(ctx context.Context) (string, error)
}

// EyedropperFunc adapts a function to Eyedropper.
type EyedropperFunc func(ctx context.Context) (string, error)

// PickColor implements Eyedropper.
func (f EyedropperFunc) PickColor(ctx context.Context) (string, error) { return f(ctx) }

// Option configures an Editor.
type Option func(*Editor)

// WithEyedropper enables the eyedropper colour mode.
func WithEyedropper(e Eyedropper) Option {
	return func(ed *Editor) { ed.eyedropper = e }
}

// Editor edits one section. It is not safe for concurrent use.
type Editor struct {
	dispatcher  builder.Dispatcher
	section     page.Section
	sectionType *sections.SectionType
	eyedropper  Eyedropper

	seed     map[string]any
	draft    map[string]any
	messages map[string]string
	notice   string
	closed   bool
}

// Open starts editing the section selected in d's current state. The draft is
// the section data with schema defaults filled in; keys the schema does not
// know are carried through untouched.
func Open(d builder.Dispatcher, opts ...Option) (*Editor, error) {
	state := d.State()
	section, ok := state.SelectedSection()
	if !ok {
		return nil, ErrNoSelection
	}
	impl, err, pending := state.Resolution(section.Type)
	if pending {
		return nil, ErrPending
	}
	if err != nil {
		return nil, err
	}
	return New(d, section, impl, opts...), nil
}

// New creates an editor for section described by sectionType.
func New(d builder.Dispatcher, section page.Section, sectionType *sections.SectionType, opts ...Option) *Editor {
	draft := sectionType.Prepare(section.Data)
	ed := &Editor{
		dispatcher:  d,
		section:     section,
		sectionType: sectionType,
		seed:        page.CloneData(draft),
		draft:       draft,
		messages:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(ed)
	}
	return ed
}

// Section returns the section being edited as it was when the editor opened.
func (ed *Editor) Section() page.Section { return ed.section }

// SectionType returns the resolved section type.
func (ed *Editor) SectionType() *sections.SectionType { return ed.sectionType }

// Draft returns a copy of the current draft.
func (ed *Editor) Draft() map[string]any { return page.CloneData(ed.draft) }

// Dirty reports whether the draft differs from the data the editor opened with.
func (ed *Editor) Dirty() bool { return !reflect.DeepEqual(ed.seed, ed.draft) }

// Value returns the draft value at p.
func (ed *Editor) Value(p Path) (any, bool) {
	return valueAt(ed.draft, p.steps)
}

// Message returns the inline message recorded for p, if any.
func (ed *Editor) Message(p Path) string { return ed.messages[p.String()] }

// Messages returns every inline message keyed by path.
func (ed *Editor) Messages() map[string]string {
	out := make(map[string]string, len(ed.messages))
	for k, v := range ed.messages {
		out[k] = v
	}
	return out
}

// Notice returns the latest editor-wide notice, such as a missing capability.
func (ed *Editor) Notice() string { return ed.notice }

// Set validates value against the field at p and writes it into the draft. A
// rejected value leaves the draft unchanged and records an inline message.
func (ed *Editor) Set(p Path, value any) error {
	if ed.closed {
		return ErrClosed
	}
	field, err := fieldAt(ed.sectionType.Schema, p)
	if err != nil {
		return ed.fail(p, err)
	}
	if err := field.Validate(p.String(), value); err != nil {
		return ed.fail(p, err)
	}
	return ed.write(p, page.CloneValue(value))
}

// SetInput parses raw text typed into the control at p, then sets it.
func (ed *Editor) SetInput(p Path, raw string) error {
	if ed.closed {
		return ErrClosed
	}
	field, err := fieldAt(ed.sectionType.Schema, p)
	if err != nil {
		return ed.fail(p, err)
	}
	value, err := schema.ParseInput(p.String(), field, raw)
	if err != nil {
		return ed.fail(p, err)
	}
	return ed.write(p, value)
}

// AddItem appends item to the array at p. A nil item appends the item
// schema's default.
func (ed *Editor) AddItem(p Path, item any) error {
	if ed.closed {
		return ErrClosed
	}
	field, list, err := ed.array(p)
	if err != nil {
		return ed.fail(p, err)
	}
	if item == nil {
		item = field.NewItem()
	}
	if field.MaxItems > 0 && len(list) >= field.MaxItems {
		return ed.fail(p, sferrors.NewValidationError(p.String(), fmt.Sprintf("holds at most %d items", field.MaxItems), nil))
	}
	if err := field.Item.Validate(p.Index(len(list)).String(), item); err != nil {
		return ed.fail(p, err)
	}
	next := append(slices.Clone(list), page.CloneValue(item))
	return ed.write(p, next)
}

// RemoveItem deletes element index of the array at p.
func (ed *Editor) RemoveItem(p Path, index int) error {
	if ed.closed {
		return ErrClosed
	}
	_, list, err := ed.array(p)
	if err != nil {
		return ed.fail(p, err)
	}
	if index < 0 || index >= len(list) {
		return ed.fail(p, sferrors.NewValidationError(p.String(), fmt.Sprintf("index %d out of range", index), nil))
	}
	return ed.write(p, slices.Delete(slices.Clone(list), index, index+1))
}

// UpdateItem replaces element index of the array at p.
func (ed *Editor) UpdateItem(p Path, index int, value any) error {
	if ed.closed {
		return ErrClosed
	}
	field, list, err := ed.array(p)
	if err != nil {
		return ed.fail(p, err)
	}
	if index < 0 || index >= len(list) {
		return ed.fail(p, sferrors.NewValidationError(p.String(), fmt.Sprintf("index %d out of range", index), nil))
	}
	if err := field.Item.Validate(p.Index(index).String(), value); err != nil {
		return ed.fail(p, err)
	}
	next := slices.Clone(list)
	next[index] = page.CloneValue(value)
	return ed.write(p, next)
}

// MoveItem moves element from to position to inside the array at p.
func (ed *Editor) MoveItem(p Path, from, to int) error {
	if ed.closed {
		return ErrClosed
	}
	_, list, err := ed.array(p)
	if err != nil {
		return ed.fail(p, err)
	}
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return ed.fail(p, sferrors.NewValidationError(p.String(), "index out of range", nil))
	}
	next := slices.Clone(list)
	item := next[from]
	next = slices.Delete(next, from, from+1)
	next = slices.Insert(next, to, item)
	return ed.write(p, next)
}

// Save commits the draft with UpdateSection and returns the builder to idle.
func (ed *Editor) Save(ctx context.Context) (builder.State, error) {
	if ed.closed {
		return ed.dispatcher.State(), ErrClosed
	}
	if _, err := ed.dispatcher.Dispatch(ctx, builder.UpdateSection{ID: ed.section.ID, Data: ed.Draft()}); err != nil {
		return ed.dispatcher.State(), err
	}
	ed.closed = true
	return ed.dispatcher.Dispatch(ctx, builder.SetSelectedSection{})
}

// Cancel discards the draft and returns the builder to idle.
func (ed *Editor) Cancel(ctx context.Context) (builder.State, error) {
	if ed.closed {
		return ed.dispatcher.State(), ErrClosed
	}
	ed.closed = true
	ed.draft = ed.seed
	return ed.dispatcher.Dispatch(ctx, builder.SetSelectedSection{})
}

func (ed *Editor) array(p Path) (*schema.ArrayField, []any, error) {
	field, err := fieldAt(ed.sectionType.Schema, p)
	if err != nil {
		return nil, nil, err
	}
	array, ok := field.(*schema.ArrayField)
	if !ok {
		return nil, nil, sferrors.NewValidationError(p.String(), fmt.Sprintf("%s field is not a list", field.Kind()), nil)
	}
	current, _ := ed.Value(p)
	list, ok := schema.AsList(current)
	if !ok {
		return nil, nil, sferrors.NewValidationError(p.String(), "value is not a list", nil)
	}
	return array, list, nil
}

func (ed *Editor) write(p Path, value any) error {
	next, err := setAt(ed.draft, p.steps, value, p.String())
	if err != nil {
		return ed.fail(p, err)
	}
	ed.draft = next.(map[string]any)
	ed.clearMessages(p)
	return nil
}

func (ed *Editor) fail(p Path, err error) error {
	key := p.String()
	var ve *sferrors.ValidationError
	if errors.As(err, &ve) {
		ed.messages[key] = ve.Message
	} else {
		ed.messages[key] = err.Error()
	}
	return err
}

// clearMessages drops messages for p and anything below it.
func (ed *Editor) clearMessages(p Path) {
	prefix := p.String()
	for key := range ed.messages {
		if key == prefix || hasChildPrefix(key, prefix) {
			delete(ed.messages, key)
		}
	}
}

func hasChildPrefix(key, prefix string) bool {
	if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
		return false
	}
	next := key[len(prefix)]
	return next == '.' || next == '['
}
