package config

import "runtime"

const (
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultMaxDepth      = 64
	defaultConfigPath    = "~/.config/bidsheur/config.toml"
	projectConfigName    = "bidsheur.toml"
	defaultSampleSubject = "rat01"
	defaultSampleSession = "01"
)

// Default returns a Config populated with repository defaults. An empty
// Rules path selects the built-in rest-awake table.
func Default() Config {
	return Config{
		Subject:   defaultSampleSubject,
		Session:   defaultSampleSession,
		Workers:   runtime.NumCPU(),
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		Locate: Locate{
			MaxDepth: defaultMaxDepth,
		},
	}
}

const sampleConfig = `# bidsheur configuration

# Rule table (.yaml, .yml or .toml). Leave empty for the built-in
# rest-awake 9.4T table.
rules = ""

# Defaults for "plan" and "sample".
subject = "rat01"
session = "01"

# Scanner worker goroutines. 0 means one per CPU.
workers = 0

log_level = "info"     # debug, info, warn, error
log_format = "console" # console or json

[locate]
max_depth = 64
ascend = 0
include_hidden = false
`
