package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// the config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			FigureWidth: 960,
			Shape:       "rect",
			Palette:     "fixed",
		},
		Serve: ServeConfig{
			Addr:           ":8765",
			MaxUploadBytes: 8 << 20,
		},
		Output: OutputConfig{
			Format: "yaml",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Render = mergeRenderConfig(loaded.Render, defaults.Render)
	result.Serve = mergeServeConfig(loaded.Serve, defaults.Serve)
	result.Output = mergeOutputConfig(loaded.Output, defaults.Output)

	return result
}

func mergeRenderConfig(loaded, defaults RenderConfig) RenderConfig {
	result := RenderConfig{}

	// FigureWidth: use loaded if non-zero
	if loaded.FigureWidth != 0 {
		result.FigureWidth = loaded.FigureWidth
	} else {
		result.FigureWidth = defaults.FigureWidth
	}

	// Shape: use loaded if non-empty
	if loaded.Shape != "" {
		result.Shape = loaded.Shape
	} else {
		result.Shape = defaults.Shape
	}

	// Palette: use loaded if non-empty
	if loaded.Palette != "" {
		result.Palette = loaded.Palette
	} else {
		result.Palette = defaults.Palette
	}

	return result
}

func mergeServeConfig(loaded, defaults ServeConfig) ServeConfig {
	result := ServeConfig{}

	// Addr: use loaded if non-empty
	if loaded.Addr != "" {
		result.Addr = loaded.Addr
	} else {
		result.Addr = defaults.Addr
	}

	// MaxUploadBytes: use loaded if non-zero
	if loaded.MaxUploadBytes != 0 {
		result.MaxUploadBytes = loaded.MaxUploadBytes
	} else {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	// Format: use loaded if non-empty
	if loaded.Format != "" {
		result.Format = loaded.Format
	} else {
		result.Format = defaults.Format
	}

	return result
}
