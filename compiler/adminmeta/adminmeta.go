// Package adminmeta builds the admin UI metadata document from an
// initialised model registry.
package adminmeta

import (
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/syssam/loom"
	"github.com/syssam/loom/compiler/core"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
	"github.com/syssam/loom/schema/field"
)

// DefaultPageSize is the list page size of a model without listView.pageSize.
const DefaultPageSize = 50

// labelCandidates are tried in order when ui.labelField is not set.
var labelCandidates = []string{"label", "name", "title"}

// Option configures Build.
type Option func(*builder)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}

type builder struct {
	reg   *core.Registry
	cfg   *schema.Config
	views *Views
	log   *zap.Logger
	meta  *schema.AdminMeta
}

// Build returns the admin metadata of every model with queries enabled.
// Field metadata hooks run once every model and field entry exists, so a
// field can inspect the metadata of other models.
func Build(reg *core.Registry, cfg *schema.Config, opts ...Option) (*schema.AdminMeta, error) {
	b := &builder{
		reg:   reg,
		cfg:   cfg,
		views: NewViews(),
		log:   zap.NewNop(),
		meta: &schema.AdminMeta{
			Models:            []*schema.AdminModelMeta{},
			ModelByKey:        make(map[string]*schema.AdminModelMeta),
			EnableSessionItem: cfg.UI.EnableSessionItem,
			EnableSignout:     cfg.Session != nil,
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, m := range reg.Models() {
		if !m.Enabled.Query {
			b.log.Debug("admin meta: skipping model without queries", zap.String("model", m.Key))
			continue
		}
		mm := b.model(m)
		b.meta.Models = append(b.meta.Models, mm)
		b.meta.ModelByKey[m.Key] = mm
	}
	for _, m := range reg.Models() {
		if mm := b.meta.ModelByKey[m.Key]; mm != nil {
			if err := b.fields(m, mm); err != nil {
				return nil, err
			}
		}
	}
	var errs []error
	for _, mm := range b.meta.Models {
		m, _ := reg.Model(mm.Key)
		for _, fm := range mm.Fields {
			f := m.Field(fm.Key)
			if f.Def.AdminMeta == nil {
				continue
			}
			v, err := f.Def.AdminMeta(b.meta)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fm.FieldMeta = v
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	b.meta.Views = b.views.List()
	return b.meta, nil
}

func (b *builder) model(m *core.Model) *schema.AdminModelMeta {
	ui := m.Config.UI
	labelField := ui.LabelField
	if labelField == "" {
		labelField = core.IDFieldKey
		for _, key := range labelCandidates {
			if m.Field(key) != nil {
				labelField = key
				break
			}
		}
	}

	columns := ui.ListView.InitialColumns
	if columns == nil {
		columns = []string{labelField}
		for _, f := range m.Fields {
			if len(columns) == 3 {
				break
			}
			if f.Enabled.Read && f.Key != labelField && f.Key != core.IDFieldKey {
				columns = append(columns, f.Key)
			}
		}
	}

	pageSize := ui.ListView.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	var description *string
	switch {
	case ui.Description != "":
		description = &ui.Description
	case m.Config.Description != "":
		description = &m.Config.Description
	}
	return &schema.AdminModelMeta{
		Key:            m.Key,
		Label:          m.Labels.Label,
		Singular:       m.Labels.Singular,
		Plural:         m.Labels.Plural,
		Path:           m.Labels.Path,
		LabelField:     labelField,
		Description:    description,
		Fields:         []*schema.AdminFieldMeta{},
		FieldsByKey:    make(map[string]*schema.AdminFieldMeta),
		PageSize:       pageSize,
		InitialColumns: columns,
		InitialSort:    ui.ListView.InitialSort,
		ItemQueryName:  m.Key,
		ModelQueryName: m.PluralGraphQLName,
		HideCreate:     ui.HideCreate || !m.Enabled.Create,
		HideDelete:     ui.HideDelete || !m.Enabled.Delete,
	}
}

// searchModes returns the search mode of every field whose where input
// has a string contains filter.
func searchModes(m *core.Model) map[string]string {
	modes := make(map[string]string)
	for _, arg := range m.Types.Where.Fields() {
		contains, insensitive := field.HasContains(arg.Type)
		switch {
		case !contains:
		case insensitive:
			modes[arg.Name] = schema.SearchInsensitive
		default:
			modes[arg.Name] = schema.SearchDefault
		}
	}
	return modes
}

func (b *builder) fields(m *core.Model, mm *schema.AdminModelMeta) error {
	declared := m.Config.UI.SearchFields
	if slices.Contains(declared, core.IDFieldKey) {
		return loom.NewConfigurationError(m.Key+".ui.searchFields",
			"the ui.searchFields option on the %s model includes 'id'. Models can always be searched by an item's id so it must not be specified as a search field", m.Key)
	}
	modes := searchModes(m)
	search := declared
	if search == nil {
		if _, ok := modes[mm.LabelField]; ok {
			search = []string{mm.LabelField}
		}
	}
	for _, key := range declared {
		if m.Field(key) == nil {
			return loom.NewConfigurationError(m.Key+".ui.searchFields",
				"the ui.searchFields option on the %s model includes %q but that field does not exist", m.Key, key)
		}
	}

	for _, f := range m.Fields {
		if f.DB.Kind == schema.DBRelation {
			if _, ok := b.meta.ModelByKey[f.DB.Model]; !ok {
				continue
			}
		}
		if !f.Enabled.Read {
			continue
		}
		fm := &schema.AdminFieldMeta{
			Key:          f.Key,
			Label:        f.Def.Label,
			ModelKey:     m.Key,
			ViewsIndex:   b.views.ID(f.Def.Views),
			IsFilterable: f.Enabled.Filter.Enabled(),
			IsOrderable:  f.Enabled.OrderBy.Enabled(),
			CreateView:   schema.AdminMode{FieldMode: createMode(m, f)},
			ItemView:     schema.AdminMode{FieldMode: itemMode(m, f)},
			ListView:     schema.AdminMode{FieldMode: orMode(f.Def.UI.ListView, schema.FieldModeRead)},
		}
		if fm.Label == "" {
			fm.Label = graphql.Humanize(f.Key)
		}
		if d := f.Def.UI.Description; d != "" {
			fm.Description = &d
		}
		if v := f.Def.UI.Views; v != "" {
			i := b.views.ID(v)
			fm.CustomViewsIndex = &i
		}
		if slices.Contains(search, f.Key) {
			mode, ok := modes[f.Key]
			if !ok {
				return loom.NewConfigurationError(m.Key+"."+f.Key,
					"the ui.searchFields option on the %s model includes %q but that field doesn't have a contains filter that accepts a GraphQL String", m.Key, f.Key)
			}
			fm.Search = &mode
		}
		mm.Fields = append(mm.Fields, fm)
		mm.FieldsByKey[f.Key] = fm
	}
	return nil
}

func createMode(m *core.Model, f *core.Field) schema.FieldMode {
	if !m.Enabled.Create || !f.Enabled.Create || f.Def.Input.Create == nil {
		return schema.FieldModeHidden
	}
	return orMode(f.Def.UI.CreateView, schema.FieldModeEdit)
}

func itemMode(m *core.Model, f *core.Field) schema.FieldMode {
	mode := orMode(f.Def.UI.ItemView, schema.FieldModeEdit)
	if mode == schema.FieldModeEdit && (!m.Enabled.Update || !f.Enabled.Update || f.Def.Input.Update == nil) {
		return schema.FieldModeRead
	}
	return mode
}

func orMode(mode, def schema.FieldMode) schema.FieldMode {
	if mode == "" {
		return def
	}
	return mode
}
