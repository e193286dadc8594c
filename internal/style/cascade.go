package style

import (
	"encoding/json"
	"fmt"

	"dario.cat/mergo"
)

// Section data keys that carry a section-local style override. Their values
// use the same shape as the matching Settings group.
const (
	LocalColorsKey       = "colors"
	LocalFontsKey        = "fonts"
	LocalBorderRadiusKey = "borderRadius"
)

// LocalAliases maps flat section data keys, as exposed by section schemas, to
// the style leaf they override.
var LocalAliases = map[string]string{
	"backgroundColor": "colors.background.primary",
	"textColor":       "colors.text.primary",
	"accentColor":     "colors.main",
	"headingFont":     "fonts.headings",
	"bodyFont":        "fonts.body",
}

// Resolve computes the effective style of one section. Each leaf takes the
// section-local value when set, else the theme value, else the built-in
// default. A nil theme means no settings are loaded.
func Resolve(theme *Settings, local map[string]any) (Settings, error) {
	out := Defaults()
	if theme != nil {
		if err := mergo.Merge(&out, *theme, mergo.WithOverride); err != nil {
			return Defaults(), fmt.Errorf("merge theme settings: %w", err)
		}
	}

	overrides, err := LocalOverrides(local)
	if err != nil {
		return out, err
	}
	if err := mergo.Merge(&out, overrides, mergo.WithOverride); err != nil {
		return out, fmt.Errorf("merge section style: %w", err)
	}
	return out, nil
}

// LocalOverrides extracts the section-local style layer from section data.
func LocalOverrides(data map[string]any) (Settings, error) {
	var local Settings
	if data == nil {
		return local, nil
	}
	layer := make(map[string]any, 3)
	for _, key := range []string{LocalColorsKey, LocalFontsKey, LocalBorderRadiusKey} {
		if value, ok := data[key]; ok && value != nil {
			layer[key] = value
		}
	}
	if len(layer) > 0 {
		raw, err := json.Marshal(layer)
		if err != nil {
			return local, fmt.Errorf("encode section style: %w", err)
		}
		if err := json.Unmarshal(raw, &local); err != nil {
			return Settings{}, fmt.Errorf("decode section style: %w", err)
		}
	}

	for key, path := range LocalAliases {
		value, ok := data[key].(string)
		if !ok || value == "" {
			continue
		}
		next, err := local.Set(path, value)
		if err != nil {
			return Settings{}, err
		}
		local = next
	}
	return local, nil
}

// Effective is Resolve without an error path: a malformed key of the local
// layer is ignored so a single bad section never blocks rendering. The other
// local keys still apply.
func Effective(theme *Settings, local map[string]any) Settings {
	out, err := Resolve(theme, local)
	if err == nil {
		return out
	}
	out, err = Resolve(theme, usableLocal(local))
	if err != nil {
		fallback, _ := Resolve(theme, nil)
		return fallback
	}
	return out
}

// usableLocal keeps the style keys of data that decode on their own.
func usableLocal(data map[string]any) map[string]any {
	keys := []string{LocalColorsKey, LocalFontsKey, LocalBorderRadiusKey}
	for key := range LocalAliases {
		keys = append(keys, key)
	}
	kept := make(map[string]any, len(keys))
	for _, key := range keys {
		value, ok := data[key]
		if !ok {
			continue
		}
		if _, err := LocalOverrides(map[string]any{key: value}); err != nil {
			continue
		}
		kept[key] = value
	}
	return kept
}
