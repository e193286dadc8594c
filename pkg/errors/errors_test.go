package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("theme.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "theme.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "theme.yaml:12")
}

func TestValidationErrorCarriesFieldPath(t *testing.T) {
	t.Parallel()

	err := NewValidationError("columns[1].links[0].href", "must not be empty", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "columns[1].links[0].href", validationErr.Field)
	require.Contains(t, validationErr.Error(), "must not be empty")
}

func TestResolutionErrorNamesTypeAndPrefix(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("no such section")
	err := NewResolutionError("Footer", "minimal-theme/sections", underlying)

	var resolutionErr *ResolutionError
	require.ErrorAs(t, err, &resolutionErr)
	require.Equal(t, "Footer", resolutionErr.SectionType)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "minimal-theme/sections/Footer")
}

func TestInvariantErrorNamesCommand(t *testing.T) {
	t.Parallel()

	err := NewInvariantError("ReorderSections", "order is not a permutation of the body")

	var invariantErr *InvariantError
	require.ErrorAs(t, err, &invariantErr)
	require.Equal(t, "ReorderSections", invariantErr.Command)
	require.Contains(t, err.Error(), "not a permutation")
}
