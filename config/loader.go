package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/transit-analytics/gtfs-assess/validate"
)

// Load reads and validates the application configuration, applying defaults
// after validation.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	v := validator.New()
	if err := v.Struct(cfg.Validation); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	for _, f := range cfg.Feeds {
		if err := v.Struct(f); err != nil {
			return nil, fmt.Errorf("config feed %q: %w", f.Name, err)
		}
	}
	if cfg.Validation.Window == 0 {
		cfg.Validation.Window = validate.DefaultWindow
	}
	return &cfg, nil
}
