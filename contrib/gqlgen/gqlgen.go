// Package gqlgen keeps a gqlgen.yml in sync with the schema and types
// emitted by loom, and can run gqlgen on it.
package gqlgen

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config represents the subset of gqlgen.yml loom reads and updates.
// Unknown keys are dropped on save.
type Config struct {
	// SchemaFilename is the path(s) to the GraphQL schema file(s).
	SchemaFilename StringList `yaml:"schema,omitempty"`

	Exec     PackageConfig  `yaml:"exec,omitempty"`
	Model    PackageConfig  `yaml:"model,omitempty"`
	Resolver ResolverConfig `yaml:"resolver,omitempty"`

	// Autobind is a list of packages to autobind types from.
	Autobind []string `yaml:"autobind,omitempty"`

	// Models maps GraphQL type names to Go models.
	Models map[string]TypeMapEntry `yaml:"models,omitempty"`

	OmitSliceElementPointers bool `yaml:"omit_slice_element_pointers,omitempty"`
	OmitGetters              bool `yaml:"omit_getters,omitempty"`
	NullableInputOmittable   bool `yaml:"nullable_input_omittable,omitempty"`
}

// PackageConfig names a generated file and its package.
type PackageConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
}

// ResolverConfig configures the resolver generation.
type ResolverConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
	Layout   string `yaml:"layout,omitempty"`
	DirName  string `yaml:"dir,omitempty"`
}

// TypeMapEntry is the configuration for a single GraphQL type.
type TypeMapEntry struct {
	Model  StringList              `yaml:"model,omitempty"`
	Fields map[string]TypeMapField `yaml:"fields,omitempty"`
}

// TypeMapField is the configuration for a single field.
type TypeMapField struct {
	Resolver  bool   `yaml:"resolver,omitempty"`
	FieldName string `yaml:"fieldName,omitempty"`
}

// StringList is a YAML value that is either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// Load reads a gqlgen.yml file. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Models: make(map[string]TypeMapEntry)}, nil
		}
		return nil, fmt.Errorf("read gqlgen config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse gqlgen config: %w", err)
	}
	if cfg.Models == nil {
		cfg.Models = make(map[string]TypeMapEntry)
	}
	return &cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal gqlgen config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// AddSchemaPath adds a schema path if not already present.
func (c *Config) AddSchemaPath(path string) {
	if !slices.Contains(c.SchemaFilename, path) {
		c.SchemaFilename = append(c.SchemaFilename, path)
	}
}

// AddAutobind adds a package to the autobind list if not already present.
func (c *Config) AddAutobind(pkg string) {
	if !slices.Contains(c.Autobind, pkg) {
		c.Autobind = append(c.Autobind, pkg)
	}
}

// SetModel adds a Go model binding for a GraphQL type.
func (c *Config) SetModel(typeName, modelPath string) {
	if c.Models == nil {
		c.Models = make(map[string]TypeMapEntry)
	}
	entry := c.Models[typeName]
	if !slices.Contains(entry.Model, modelPath) {
		entry.Model = append(entry.Model, modelPath)
	}
	c.Models[typeName] = entry
}

// Scalar bindings of the custom scalars in a loom schema.
const (
	TimeModel = "github.com/99designs/gqlgen/graphql.Time"
	MapModel  = "github.com/99designs/gqlgen/graphql.Map"
	IDModel   = "github.com/99designs/gqlgen/graphql.ID"
)

// Bind points the config at a loom schema file and the package holding
// the generated types. An empty typesPackage only adds the schema and the
// scalar bindings.
func (c *Config) Bind(schemaPath, typesPackage string) {
	if schemaPath != "" {
		c.AddSchemaPath(schemaPath)
	}
	if typesPackage != "" {
		c.AddAutobind(typesPackage)
	}
	c.SetModel("ID", IDModel)
	c.SetModel("DateTime", TimeModel)
	c.SetModel("JSON", MapModel)
}

// Update loads the config at path, binds it and saves it back.
func Update(path, schemaPath, typesPackage string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	cfg.Bind(schemaPath, typesPackage)
	return Save(path, cfg)
}
