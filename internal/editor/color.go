package editor

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// SetHex commits a colour typed as text. A missing '#' is added; anything that
// is not six hex digits is rejected inline.
func (ed *Editor) SetHex(p Path, raw string) error {
	if ed.closed {
		return ErrClosed
	}
	if _, err := ed.colorField(p); err != nil {
		return ed.fail(p, err)
	}
	return ed.Set(p, schema.NormalizeHex(raw))
}

// PickSwatch commits swatch i of the colour field at p.
func (ed *Editor) PickSwatch(p Path, i int) error {
	if ed.closed {
		return ErrClosed
	}
	field, err := ed.colorField(p)
	if err != nil {
		return ed.fail(p, err)
	}
	if i < 0 || i >= len(field.Swatches) {
		return ed.fail(p, sferrors.NewValidationError(p.String(), fmt.Sprintf("no swatch %d", i), nil))
	}
	return ed.Set(p, field.Swatches[i])
}

// Eyedrop picks a colour from the screen into the field at p. It reports
// false without error when the host has no eyedropper; Notice then explains
// why.
func (ed *Editor) Eyedrop(ctx context.Context, p Path) (bool, error) {
	if ed.closed {
		return false, ErrClosed
	}
	if _, err := ed.colorField(p); err != nil {
		return false, ed.fail(p, err)
	}
	if ed.eyedropper == nil {
		ed.notice = NoEyedropperNotice
		return false, nil
	}
	picked, err := ed.eyedropper.PickColor(ctx)
	if err != nil {
		ed.notice = "Eyedropper failed: " + err.Error()
		return false, nil
	}
	ed.notice = ""
	if err := ed.SetHex(p, picked); err != nil {
		return false, err
	}
	return true, nil
}

// Swatches returns the picker swatches of the colour field at p.
func (ed *Editor) Swatches(p Path) []string {
	field, err := ed.colorField(p)
	if err != nil {
		return nil
	}
	return append([]string(nil), field.Swatches...)
}

func (ed *Editor) colorField(p Path) (*schema.ColorField, error) {
	field, err := fieldAt(ed.sectionType.Schema, p)
	if err != nil {
		return nil, err
	}
	color, ok := field.(*schema.ColorField)
	if !ok {
		return nil, sferrors.NewValidationError(p.String(), fmt.Sprintf("%s field is not a colour", field.Kind()), nil)
	}
	return color, nil
}
