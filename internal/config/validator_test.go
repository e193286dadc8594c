package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	valid := Default()

	badTheme := Default()
	badTheme.Theme = "has space"

	pageWithoutTheme := Default()
	pageWithoutTheme.Page = "home"

	badWorkspace := Default()
	badWorkspace.Workspace = "shop.yaml"

	badWidth := Default()
	badWidth.Preview.Width = 5

	badLevel := Default()
	badLevel.Logging.Level = "trace"

	cases := []struct {
		name      string
		cfg       *Config
		wantField string
	}{
		{name: "defaults are valid", cfg: valid},
		{name: "nil config", cfg: nil, wantField: "config"},
		{name: "theme id format", cfg: badTheme, wantField: "theme"},
		{name: "page needs theme", cfg: pageWithoutTheme, wantField: "page"},
		{name: "workspace must be json", cfg: badWorkspace, wantField: "workspace"},
		{name: "preview width range", cfg: badWidth, wantField: "preview.width"},
		{name: "log level enum", cfg: badLevel, wantField: "logging.level"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateConfig(tc.cfg)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}
			var validationErr *sferrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.wantField, validationErr.Field)
		})
	}
}
