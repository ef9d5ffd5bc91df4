package config

// Default returns the built-in configuration. The hook entry point
// falls back to it when loading fails, because a broken config file
// must not break the hook pipeline.
func Default() *Configuration {
	return &Configuration{
		Enabled:        true,
		DataDir:        expandHomePath("~/.ccnotify"),
		Backends:       nil,
		BackendTimeout: 5,
		Sound:          true,
		OpenInVSCode:   true,
		RetentionDays:  0,
		LogMaxAgeDays:  7,
	}
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"enabled":          true,
		"data_dir":         "~/.ccnotify",
		"backends":         []string{},
		"backend_timeout":  5,
		"sound":            true,
		"open_in_vscode":   true,
		"retention_days":   0,
		"log_max_age_days": 7,
	}
}
