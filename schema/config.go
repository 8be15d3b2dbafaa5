package schema

import (
	"github.com/syssam/loom"
	"github.com/syssam/loom/privacy"
)

// Provider is the database provider the models are mapped to.
type Provider string

// Supported providers.
const (
	ProviderSQLite   Provider = "sqlite"
	ProviderPostgres Provider = "postgresql"
	ProviderMySQL    Provider = "mysql"
)

// IDKind selects how the id field of a model is generated.
type IDKind string

// ID kinds.
const (
	IDAutoincrement IDKind = "autoincrement"
	IDUUID          IDKind = "uuid"
	IDCUID          IDKind = "cuid"
)

// Config is the top-level configuration.
type Config struct {
	// Models in declaration order.
	Models  []*ModelConfig
	DB      DBConfig
	Storage map[string]StorageConfig
	// Session is non-nil when a session strategy is configured.
	Session *SessionConfig
	UI      UIConfig
}

// DBConfig configures the database mapping shared by all models.
type DBConfig struct {
	Provider Provider `yaml:"provider"`
	IDField  IDField  `yaml:"idField"`
}

// IDField configures the generated id field.
type IDField struct {
	Kind IDKind `yaml:"kind"`
}

// StorageConfig describes a storage target used by file and image fields.
type StorageConfig struct {
	Kind      string `yaml:"kind"` // local or s3
	Type      string `yaml:"type"` // file or image
	BaseURL   string `yaml:"baseUrl"`
	StorePath string `yaml:"storagePath"`
}

// SessionConfig names the model that backs sessions.
type SessionConfig struct {
	Model string `yaml:"model"`
}

// UIConfig holds admin UI options.
type UIConfig struct {
	EnableSessionItem bool `yaml:"enableSessionItem"`
}

// Model returns the model config with the given key, or nil.
func (c *Config) Model(key string) *ModelConfig {
	for _, m := range c.Models {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Field pairs a field key with its constructor.
type Field struct {
	Key  string
	Func FieldFunc
}

// ModelConfig configures a single model.
type ModelConfig struct {
	Key         string
	Fields      []Field
	Access      privacy.ModelAccess
	Hooks       ModelHooks
	Description string
	UI          ModelUI
	DB          ModelDB
	GraphQL     ModelGraphQL

	// DefaultIsFilterable and DefaultIsOrderable accept nil, a bool or a
	// privacy.GateFunc. Nil means true.
	DefaultIsFilterable any
	DefaultIsOrderable  any
}

// ModelUI holds admin UI options of a model.
type ModelUI struct {
	Label       string   `yaml:"label"`
	Singular    string   `yaml:"singular"`
	Plural      string   `yaml:"plural"`
	Path        string   `yaml:"path"`
	Description string   `yaml:"description"`
	LabelField  string   `yaml:"labelField"`
	// SearchFields is nil when unspecified.
	SearchFields []string `yaml:"searchFields"`
	ListView     ListView `yaml:"listView"`
	HideCreate   bool     `yaml:"hideCreate"`
	HideDelete   bool     `yaml:"hideDelete"`
}

// ListView configures the admin list page.
type ListView struct {
	InitialColumns []string `yaml:"initialColumns"`
	InitialSort    *Sort    `yaml:"initialSort"`
	PageSize       int      `yaml:"pageSize"`
}

// Sort is an initial list sort.
type Sort struct {
	Field     string `yaml:"field" json:"field"`
	Direction string `yaml:"direction" json:"direction"` // ASC or DESC
}

// ModelDB holds database options of a model.
type ModelDB struct {
	Map     string   `yaml:"map"`
	IDField *IDField `yaml:"idField"`
}

// ModelGraphQL holds GraphQL options of a model.
type ModelGraphQL struct {
	Omit        *loom.Omit `yaml:"omit"`
	Plural      string     `yaml:"plural"`
	Description string     `yaml:"description"`
	// CacheHint is used when CacheHintFunc is nil.
	CacheHint     *loom.CacheHint    `yaml:"cacheHint"`
	CacheHintFunc loom.CacheHintFunc `yaml:"-"`
	// MaxResults limits list queries; zero means unbounded.
	MaxResults int `yaml:"maxResults"`
}
