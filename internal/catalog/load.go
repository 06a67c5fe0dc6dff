package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	stderrors "cardiochat/internal/common/errors"
)

// File is the on-disk YAML shape of a catalog.
type File struct {
	Name              string      `yaml:"name"`
	NameKey           string      `yaml:"name_key,omitempty"`
	SubmittingMessage string      `yaml:"submitting_message,omitempty"`
	Fields            []FieldSpec `yaml:"fields"`
}

// Load reads a catalog definition from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog definition. Unknown keys are
// rejected so typos in a field definition do not silently drop a constraint.
func Parse(data []byte) (*Catalog, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, stderrors.NewCatalogInvalidError(fmt.Sprintf("decode yaml: %v", err))
	}
	return New(f.Name, f.NameKey, f.SubmittingMessage, f.Fields)
}

// Marshal renders a catalog back to YAML.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(File{
		Name:              c.Name(),
		NameKey:           c.NameKey(),
		SubmittingMessage: c.SubmittingMessage(),
		Fields:            c.Fields(),
	})
}
