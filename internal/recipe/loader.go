package recipe

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load decodes a YAML recipe from r. Unknown fields are rejected so typos in
// recipe files fail loudly instead of silently dropping configuration.
func Load(r io.Reader) (Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var rec Recipe
	if err := dec.Decode(&rec); err != nil {
		return Recipe{}, fmt.Errorf("decode recipe: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return Recipe{}, fmt.Errorf("invalid recipe: %w", err)
	}
	return rec, nil
}

// LoadFile reads and decodes a YAML recipe file.
func LoadFile(path string) (Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recipe{}, fmt.Errorf("open recipe file: %w", err)
	}
	defer f.Close()

	rec, err := Load(f)
	if err != nil {
		return Recipe{}, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}
