package config

// Model is the unified, format-agnostic representation of the tool settings.
type Model struct {
	Include   string  `yaml:"include" toml:"include"`
	Exclude   string  `yaml:"exclude" toml:"exclude"`
	Time      float64 `yaml:"time" toml:"time"`
	Mode      string  `yaml:"mode" toml:"mode"`
	Where     string  `yaml:"where" toml:"where"`
	LogLevel  string  `yaml:"log_level" toml:"log_level"`
	LogFormat string  `yaml:"log_format" toml:"log_format"`
	Workers   int     `yaml:"workers" toml:"workers"`
	Color     string  `yaml:"color" toml:"color"`
	Bounds    bool    `yaml:"bounds" toml:"bounds"`
	Matrices  bool    `yaml:"matrices" toml:"matrices"`
	Watch     bool    `yaml:"watch" toml:"watch"`

	// Shutter is "open,close"; empty samples a single instant.
	Shutter    string  `yaml:"shutter" toml:"shutter"`
	WidthScale float64 `yaml:"width_scale" toml:"width_scale"`
}

// Default returns the settings used when neither a file nor a flag
// provides a value.
func Default() *Model {
	return &Model{
		Mode:      "depth",
		LogLevel:  "info",
		LogFormat: "text",
		Workers:   4,
		Color:     "auto",
		Bounds:    true,

		WidthScale: 1,
	}
}
