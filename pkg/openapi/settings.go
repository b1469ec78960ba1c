package openapi

import (
	"fmt"
	"strings"
)

// DefaultJSONPath is where the document route is mounted unless configured.
const DefaultJSONPath = "/openapi.json"

// Settings controls how the document is generated and served.
type Settings struct {
	// JSONPath is the route path serving the document. Paths ending in .yaml
	// or .yml serve YAML; anything else serves JSON.
	JSONPath string `json:"json_path" yaml:"json_path" mapstructure:"path"`
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{JSONPath: DefaultJSONPath}
}

// Validate checks that the document path is routable.
func (s Settings) Validate() error {
	if !strings.HasPrefix(s.JSONPath, "/") {
		return fmt.Errorf("openapi: document path %q must start with '/'", s.JSONPath)
	}
	return nil
}

// ServesYAML reports whether the document route should emit YAML.
func (s Settings) ServesYAML() bool {
	return IsYAMLPath(s.JSONPath)
}

// IsYAMLPath reports whether path names a YAML document.
func IsYAMLPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
