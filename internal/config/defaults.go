package config

import (
	"github.com/goccy/go-json"
)

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"strict":         false,
		"default_locale": "en",
		"parallel":       false,
		"log_level":      "warn",
		"log_format":     "text",
		"output":         "text",
		"no_color":       false,
	}
}

// GetDefaultConfigTemplate returns the file written by `config init`: every
// key with its default value.
func GetDefaultConfigTemplate() string {
	data, err := json.MarshalIndent(GetDefaults(), "", "  ")
	if err != nil {
		return "{}\n"
	}
	return string(data) + "\n"
}
