package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"

	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	hexColorPattern   = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	sectionIDPattern  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]*$`)
	pathPrefixPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*(/[a-z0-9][a-z0-9._-]*)*$`)
)

// Instance configures and returns the shared validator used across packages.
//
// Custom tags:
//   - hex6: a "#rrggbb" colour
//   - section_id: a stable section identifier
//   - semver: a semantic version accepted by Masterminds/semver
//   - path_prefix: a slash separated component path prefix ("minimal-theme/sections")
func Instance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("hex6", func(fl validator.FieldLevel) bool {
			return IsHexColor(fl.Field().String())
		})

		_ = v.RegisterValidation("section_id", func(fl validator.FieldLevel) bool {
			return sectionIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			_, err := semver.NewVersion(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("path_prefix", func(fl validator.FieldLevel) bool {
			return pathPrefixPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// IsHexColor reports whether value is a 6-digit hex colour with a leading '#'.
func IsHexColor(value string) bool {
	return hexColorPattern.MatchString(value)
}

// Convert normalizes validator errors into storefront validation errors.
// Field names are lowered and joined with dots so they read like YAML keys.
func Convert(err error, fallbackField string) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return sferrors.NewValidationError(field, msg, err)
	}

	return sferrors.NewValidationError(fallbackField, err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		// Drop the root struct name.
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, toSnake(part))
	}
	return strings.Join(lowered, ".")
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && name[i-1] != '[' {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
