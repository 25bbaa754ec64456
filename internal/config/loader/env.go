package loader

import (
	"os"
	"strings"
)

// EnvPrefix is the prefix of every environment variable glance reads.
const EnvPrefix = "GLANCE_"

// EnvLoader loads configuration from environment variables.
// Values are kept as strings; type checking happens in the config package.
type EnvLoader struct {
	mapping map[string]string // Env var -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a new environment variable loader with the default
// mapping. The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
	}
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":   "logging.level",
		prefix + "LOG_FILE":    "logging.file",
		prefix + "VIEW_MARKER": "view.marker",
	}
}

// SetLookup replaces the function used to read variables.
func (l *EnvLoader) SetLookup(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	l.lookup = lookup
}

// Load reads the mapped environment variables and returns a configuration map.
// Empty values are treated as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			setByPath(config, path, val)
		}
	}

	return config, nil
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	// Navigate/create intermediate maps
	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}
