package schema

// AdminMeta is the metadata document consumed by the admin UI.
type AdminMeta struct {
	Models            []*AdminModelMeta          `json:"models"`
	ModelByKey        map[string]*AdminModelMeta `json:"modelByKey"`
	Views             []string                   `json:"views"`
	EnableSessionItem bool                       `json:"enableSessionItem"`
	EnableSignout     bool                       `json:"enableSignout"`
}

// AdminModelMeta is the admin metadata of a model.
type AdminModelMeta struct {
	Key            string                     `json:"key"`
	Label          string                     `json:"label"`
	Singular       string                     `json:"singular"`
	Plural         string                     `json:"plural"`
	Path           string                     `json:"path"`
	LabelField     string                     `json:"labelField"`
	Description    *string                    `json:"description"`
	Fields         []*AdminFieldMeta          `json:"fields"`
	FieldsByKey    map[string]*AdminFieldMeta `json:"-"`
	PageSize       int                        `json:"pageSize"`
	InitialColumns []string                   `json:"initialColumns"`
	InitialSort    *Sort                      `json:"initialSort"`
	ItemQueryName  string                     `json:"itemQueryName"`
	ModelQueryName string                     `json:"modelQueryName"`
	HideCreate     bool                       `json:"hideCreate"`
	HideDelete     bool                       `json:"hideDelete"`
}

// Field returns the metadata of the named field, or nil.
func (m *AdminModelMeta) Field(key string) *AdminFieldMeta {
	return m.FieldsByKey[key]
}

// AdminFieldMeta is the admin metadata of a field.
type AdminFieldMeta struct {
	Key              string    `json:"path"`
	Label            string    `json:"label"`
	Description      *string   `json:"description"`
	ModelKey         string    `json:"modelKey"`
	ViewsIndex       int       `json:"viewsIndex"`
	CustomViewsIndex *int      `json:"customViewsIndex"`
	FieldMeta        any       `json:"fieldMeta"`
	Search           *string   `json:"search"`
	IsFilterable     bool      `json:"isFilterable"`
	IsOrderable      bool      `json:"isOrderable"`
	CreateView       AdminMode `json:"createView"`
	ItemView         AdminMode `json:"itemView"`
	ListView         AdminMode `json:"listView"`
}

// AdminMode is the field mode of an admin view.
type AdminMode struct {
	FieldMode FieldMode `json:"fieldMode"`
}

// Search modes reported for search fields.
const (
	SearchDefault     = "default"
	SearchInsensitive = "insensitive"
)
