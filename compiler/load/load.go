// Package load reads model configuration from YAML.
//
// A configuration file lists models under a models mapping. Field entries
// name a registered field type; the rest of the entry is decoded into the
// config struct of that type:
//
//	db:
//	  provider: sqlite
//	models:
//	  Post:
//	    mixins: [time]
//	    fields:
//	      title: {type: text, validation: {isRequired: true}}
//	      author: {type: relationship, ref: User.posts}
//	  User:
//	    fields:
//	      name: {type: text}
//	      posts: {type: relationship, ref: Post.author, many: true}
package load

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/syssam/loom"
	"github.com/syssam/loom/schema"
	"github.com/syssam/loom/schema/field"
	"github.com/syssam/loom/schema/mixin"
)

// FieldType decodes a YAML field entry into a field constructor. The type
// and access keys are removed from the entry before decoding.
type FieldType func(node *yaml.Node) (schema.FieldFunc, error)

// Decoder returns a FieldType decoding entries into C before calling build.
func Decoder[C any](build func(C) schema.FieldFunc) FieldType {
	return func(node *yaml.Node) (schema.FieldFunc, error) {
		var cfg C
		if err := node.Decode(&cfg); err != nil {
			return nil, err
		}
		return build(cfg), nil
	}
}

// Loader turns YAML documents into a schema.Config.
type Loader struct {
	types  map[string]FieldType
	mixins map[string]mixin.Mixin
}

// New returns a loader with the built-in field types and mixins
// registered.
func New() *Loader {
	l := &Loader{
		types:  make(map[string]FieldType),
		mixins: make(map[string]mixin.Mixin),
	}
	l.RegisterType("text", Decoder(field.Text))
	l.RegisterType("integer", Decoder(field.Integer))
	l.RegisterType("float", Decoder(field.Float))
	l.RegisterType("checkbox", Decoder(field.Checkbox))
	l.RegisterType("timestamp", Decoder(field.Timestamp))
	l.RegisterType("select", Decoder(field.Select))
	l.RegisterType("json", Decoder(field.JSON))
	l.RegisterType("relationship", Decoder(field.Relationship))
	l.RegisterMixin("time", mixin.Time{})
	l.RegisterMixin("createTime", mixin.CreateTime{})
	l.RegisterMixin("updateTime", mixin.UpdateTime{})
	l.RegisterMixin("softDelete", mixin.SoftDelete{})
	l.RegisterMixin("timeSoftDelete", mixin.TimeSoftDelete{})
	return l
}

// RegisterType registers a field type under name, replacing any previous
// registration.
func (l *Loader) RegisterType(name string, t FieldType) {
	l.types[name] = t
}

// RegisterMixin registers a mixin under name.
func (l *Loader) RegisterMixin(name string, m mixin.Mixin) {
	l.mixins[name] = m
}

// Types returns the registered field type names, sorted.
func (l *Loader) Types() []string {
	names := make([]string, 0, len(l.types))
	for name := range l.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type file struct {
	DB      schema.DBConfig                 `yaml:"db"`
	Storage map[string]schema.StorageConfig `yaml:"storage"`
	Session *schema.SessionConfig           `yaml:"session"`
	UI      schema.UIConfig                 `yaml:"ui"`
	Models  yaml.Node                       `yaml:"models"`
}

type model struct {
	Description         string              `yaml:"description"`
	Mixins              []string            `yaml:"mixins"`
	UI                  schema.ModelUI      `yaml:"ui"`
	DB                  schema.ModelDB      `yaml:"db"`
	GraphQL             schema.ModelGraphQL `yaml:"graphql"`
	Access              Access              `yaml:"access"`
	DefaultIsFilterable any                 `yaml:"defaultIsFilterable"`
	DefaultIsOrderable  any                 `yaml:"defaultIsOrderable"`
	Fields              yaml.Node           `yaml:"fields"`
}

// fieldHeader holds the keys shared by every field entry.
type fieldHeader struct {
	Type   string       `yaml:"type"`
	Access *FieldAccess `yaml:"access"`
}

// LoadFile reads and loads the file at path.
func (l *Loader) LoadFile(path string) (*schema.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loom/load: %w", err)
	}
	return l.Load(data)
}

// Load decodes a YAML document. Models and fields keep their document
// order.
func (l *Loader) Load(data []byte) (*schema.Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("loom/load: %w", err)
	}
	cfg := &schema.Config{
		DB:      f.DB,
		Storage: f.Storage,
		Session: f.Session,
		UI:      f.UI,
	}
	if f.Models.Kind == 0 {
		return cfg, nil
	}
	if f.Models.Kind != yaml.MappingNode {
		return nil, loom.NewConfigurationError("models", "must be a mapping of model keys (line %d)", f.Models.Line)
	}
	for i := 0; i+1 < len(f.Models.Content); i += 2 {
		key, node := f.Models.Content[i].Value, f.Models.Content[i+1]
		m, err := l.model(key, node)
		if err != nil {
			return nil, err
		}
		cfg.Models = append(cfg.Models, m)
	}
	return cfg, nil
}

func (l *Loader) model(key string, node *yaml.Node) (*schema.ModelConfig, error) {
	if isNull(node) {
		return nil, nil
	}
	var raw model
	if err := node.Decode(&raw); err != nil {
		return nil, loom.WrapConfigurationError(key, err, "invalid model")
	}
	access, err := raw.Access.model(key)
	if err != nil {
		return nil, err
	}
	m := &schema.ModelConfig{
		Key:                 key,
		Description:         raw.Description,
		UI:                  raw.UI,
		DB:                  raw.DB,
		GraphQL:             raw.GraphQL,
		Access:              access,
		DefaultIsFilterable: raw.DefaultIsFilterable,
		DefaultIsOrderable:  raw.DefaultIsOrderable,
	}
	if fields := raw.Fields; fields.Kind != 0 {
		if fields.Kind != yaml.MappingNode {
			return nil, loom.NewConfigurationError(key+".fields", "must be a mapping of field keys (line %d)", fields.Line)
		}
		for i := 0; i+1 < len(fields.Content); i += 2 {
			fk, fn := fields.Content[i].Value, fields.Content[i+1]
			fieldFunc, err := l.field(key+"."+fk, fn)
			if err != nil {
				return nil, err
			}
			m.Fields = append(m.Fields, schema.Field{Key: fk, Func: fieldFunc})
		}
	}
	mixins := make([]mixin.Mixin, 0, len(raw.Mixins))
	for _, name := range raw.Mixins {
		mx, ok := l.mixins[name]
		if !ok {
			return nil, loom.NewConfigurationError(key+".mixins", "unknown mixin %q", name)
		}
		mixins = append(mixins, mx)
	}
	mixin.Apply(m, mixins...)
	return m, nil
}

// field returns nil for a null entry; the model initializer reports it.
func (l *Loader) field(path string, node *yaml.Node) (schema.FieldFunc, error) {
	if isNull(node) {
		return nil, nil
	}
	var h fieldHeader
	if err := node.Decode(&h); err != nil {
		return nil, loom.WrapConfigurationError(path, err, "invalid field")
	}
	if h.Type == "" {
		return nil, loom.NewConfigurationError(path, "the field must name a type (line %d)", node.Line)
	}
	t, ok := l.types[h.Type]
	if !ok {
		return nil, loom.NewConfigurationError(path, "unknown field type %q", h.Type)
	}
	fn, err := t(without(node, "type", "access"))
	if err != nil {
		return nil, loom.WrapConfigurationError(path, err, "invalid %s field", h.Type)
	}
	if h.Access == nil {
		return fn, nil
	}
	access, err := h.Access.field(path)
	if err != nil {
		return nil, err
	}
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		def, err := fn(fc)
		if err != nil || def == nil {
			return def, err
		}
		def.Access = access
		return def, nil
	}, nil
}

// without returns a copy of a mapping node with the given keys removed.
func without(n *yaml.Node, keys ...string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return n
	}
	out := *n
	out.Content = make([]*yaml.Node, 0, len(n.Content))
	for i := 0; i+1 < len(n.Content); i += 2 {
		if slices.Contains(keys, n.Content[i].Value) {
			continue
		}
		out.Content = append(out.Content, n.Content[i], n.Content[i+1])
	}
	return &out
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

var std = New()

// Load decodes a YAML document with the built-in field types.
func Load(data []byte) (*schema.Config, error) { return std.Load(data) }

// LoadFile loads the file at path with the built-in field types.
func LoadFile(path string) (*schema.Config, error) { return std.LoadFile(path) }
