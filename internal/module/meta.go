package module

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Meta is the optional module.yaml found at the root of a module directory
type Meta struct {
	Description string `yaml:"description,omitempty"`
	Version     string `yaml:"version,omitempty"`
}

// LoadMeta reads a module.yaml. A missing file yields an empty Meta.
func LoadMeta(path string) (Meta, error) {
	var meta Meta

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return meta, nil
		}
		return meta, err
	}

	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return meta, nil
}
