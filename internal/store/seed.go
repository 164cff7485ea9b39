package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gardencal/internal/model"
)

// seedFile is the on-disk shape of a -seed file. JSON is accepted too,
// being a subset of YAML.
type seedFile struct {
	Plants []model.Plant `yaml:"plants"`
}

// LoadSeedFile reads plants from a YAML or JSON file of the form
// {plants: [...]}.
func LoadSeedFile(path string) ([]model.Plant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("store: decode seed %s: %w", path, err)
	}
	for i, p := range f.Plants {
		if p.Name == "" {
			return nil, fmt.Errorf("store: seed %s: plant %d has no name", path, i)
		}
	}
	return f.Plants, nil
}
