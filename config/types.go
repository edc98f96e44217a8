package config

// ValidationConfig controls the validation pass.
type ValidationConfig struct {
	// FarStops enables the fast-travel checks.
	FarStops bool `yaml:"farStops"`
	// Window is the multi-stop check's window size.
	Window int `yaml:"window" validate:"omitempty,gte=2"`
	// Thresholds overrides the maximum plausible speed (km/h) per
	// route_type code.
	Thresholds map[int]float64 `yaml:"thresholds" validate:"omitempty,dive,gt=0"`
	// DefaultThresholdKMH overrides the threshold for unmapped route_types.
	DefaultThresholdKMH float64 `yaml:"defaultThresholdKMH" validate:"omitempty,gt=0"`
	// LookupURL optionally refreshes route_type descriptions remotely.
	LookupURL string `yaml:"lookupURL" validate:"omitempty,url"`
}

// FeedConfig names one GTFS archive.
type FeedConfig struct {
	Name string `yaml:"name" validate:"required"`
	Path string `yaml:"path" validate:"required"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Validation ValidationConfig `yaml:"validation"`
	Feeds      []FeedConfig     `yaml:"feeds"`
}
