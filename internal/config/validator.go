package config

import (
	"path/filepath"

	"github.com/alexisbeaulieu97/storefront/internal/validation"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// ValidateConfig performs schema and cross-field validation on the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return sferrors.NewValidationError("config", "configuration is nil", nil)
	}

	if err := validation.Instance().Struct(cfg); err != nil {
		return validation.Convert(err, "config")
	}

	if cfg.Page != "" && cfg.Theme == "" {
		return sferrors.NewValidationError("page", "page requires theme to be set", nil)
	}
	if filepath.Ext(cfg.Workspace) != ".json" {
		return sferrors.NewValidationError("workspace", "workspace must be a .json file", nil)
	}

	return nil
}
