// Package yaml loads helpdex configuration files.
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fwojciec/helpdex"
)

// LoadConfig reads a YAML configuration file, applies defaults, and
// validates the result. A missing file is not an error: it yields a
// defaulted, empty configuration so the CLI works without one.
func LoadConfig(path string) (*helpdex.Config, error) {
	var config helpdex.Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fall through to defaults.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, helpdex.Errorf(helpdex.EINVALID, "parse config %s: %v", path, err)
		}
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &config, nil
}
