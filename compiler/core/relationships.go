package core

import (
	"strings"

	"github.com/syssam/loom"
	"github.com/syssam/loom/schema"
)

// rawModel is the input of the relationship resolver: the raw database
// fields of one model in declaration order.
type rawModel struct {
	key    string
	keys   []string
	fields map[string]schema.DBField
}

type relationSide struct {
	model, field string
	db           schema.DBField
}

func (s relationSide) path() string { return s.model + "." + s.field }

// resolveRelationships resolves every relation field into both of its
// sides. One-sided relations get an implicit back-reference on the target
// named "from_<model>_<field>".
func resolveRelationships(models []*rawModel) (map[string][]*DBField, error) {
	byKey := make(map[string]*rawModel, len(models))
	out := make(map[string][]*DBField, len(models))
	for _, m := range models {
		byKey[m.key] = m
	}
	// Declared fields keep their position; implicit ones are appended.
	resolved := make(map[string]map[string]*schema.ResolvedDBField, len(models))
	implicit := make(map[string][]*DBField, len(models))
	for _, m := range models {
		resolved[m.key] = make(map[string]*schema.ResolvedDBField, len(m.keys))
	}
	done := make(map[string]bool)

	for _, m := range models {
		for _, key := range m.keys {
			db := m.fields[key]
			if db.Kind != schema.DBRelation {
				resolved[m.key][key] = scalarField(db)
				continue
			}
			local := relationSide{model: m.key, field: key, db: db}
			if done[local.path()] {
				continue
			}
			targetKey, targetField, twoSided := strings.Cut(db.Ref, ".")
			target, ok := byKey[targetKey]
			if !ok {
				return nil, loom.NewConfigurationError(local.path(), "unable to resolve related model %q from ref %q", targetKey, db.Ref)
			}
			if !twoSided {
				back := resolveOneSided(local, target, resolved)
				implicit[targetKey] = append(implicit[targetKey], back)
				done[local.path()] = true
				continue
			}
			fdb, ok := target.fields[targetField]
			if !ok {
				return nil, loom.NewConfigurationError(local.path(), "%s points to %s but %s does not exist", local.path(), db.Ref, db.Ref)
			}
			if fdb.Kind != schema.DBRelation {
				return nil, loom.NewConfigurationError(local.path(), "%s points to %s but %s is not a relationship field", local.path(), db.Ref, db.Ref)
			}
			foreign := relationSide{model: targetKey, field: targetField, db: fdb}
			if fdb.Ref != local.path() {
				return nil, loom.NewConfigurationError(local.path(),
					"%s points to %s, %s points to %s, expected %s to point to %s",
					local.path(), foreign.path(), foreign.path(), fdb.Ref, foreign.path(), local.path())
			}
			l, f, err := resolveTwoSided(local, foreign)
			if err != nil {
				return nil, err
			}
			resolved[local.model][local.field] = l
			resolved[foreign.model][foreign.field] = f
			done[local.path()] = true
			done[foreign.path()] = true
		}
	}

	for _, m := range models {
		fields := make([]*DBField, 0, len(m.keys)+len(implicit[m.key]))
		for _, key := range m.keys {
			fields = append(fields, &DBField{Key: key, ResolvedDBField: *resolved[m.key][key]})
		}
		for _, back := range implicit[m.key] {
			if _, exists := m.fields[back.Key]; exists {
				return nil, loom.NewConfigurationError(m.key+"."+back.Key,
					"the implicit field of a one-sided relationship conflicts with a field of the same name")
			}
		}
		out[m.key] = append(fields, implicit[m.key]...)
	}
	return out, nil
}

func scalarField(db schema.DBField) *schema.ResolvedDBField {
	return &schema.ResolvedDBField{
		Kind:       db.Kind,
		Scalar:     db.Scalar,
		Mode:       db.Mode,
		Default:    db.Default,
		Index:      db.Index,
		Map:        db.Map,
		UpdatedAt:  db.UpdatedAt,
		PrimaryKey: db.PrimaryKey,
	}
}

func foreignIDMap(s relationSide) string {
	if s.db.ForeignKey != nil && s.db.ForeignKey.Map != "" {
		return s.db.ForeignKey.Map
	}
	return s.field
}

func relation(mode schema.RelationMode, model, field string) *schema.ResolvedDBField {
	return &schema.ResolvedDBField{Kind: schema.DBRelation, RelationMode: mode, Model: model, Field: field}
}

// resolveOneSided resolves a relation declared on local only and returns
// the implicit field created on target.
func resolveOneSided(local relationSide, target *rawModel, resolved map[string]map[string]*schema.ResolvedDBField) *DBField {
	backKey := "from_" + local.model + "_" + local.field
	l := relation(local.db.RelationMode, target.key, backKey)
	back := relation(schema.RelationMany, local.model, local.field)
	back.Implicit = true
	switch local.db.RelationMode {
	case schema.RelationOne:
		l.ForeignID = &schema.ForeignID{Kind: schema.ForeignIDOwned, Map: foreignIDMap(local)}
	case schema.RelationMany:
		name := local.db.RelationName
		if name == "" {
			name = local.model + "_" + local.field
		}
		l.RelationName, back.RelationName = name, name
	}
	resolved[local.model][local.field] = l
	return &DBField{Key: backKey, ResolvedDBField: *back}
}

// resolveTwoSided resolves a relation declared on both sides.
func resolveTwoSided(a, b relationSide) (*schema.ResolvedDBField, *schema.ResolvedDBField, error) {
	if a.path() == b.path() && a.db.RelationMode == schema.RelationOne {
		return nil, nil, loom.NewConfigurationError(a.path(), "%s is a one to one relationship that references itself", a.path())
	}
	ra := relation(a.db.RelationMode, b.model, b.field)
	rb := relation(b.db.RelationMode, a.model, a.field)
	// left sorts first by "<model>.<field>".
	left, right, rl, rr := a, b, ra, rb
	if b.path() < a.path() {
		left, right, rl, rr = b, a, rb, ra
	}
	for _, s := range []relationSide{left, right} {
		if s.db.RelationName != "" && !(left.db.RelationMode == schema.RelationMany && right.db.RelationMode == schema.RelationMany) {
			return nil, nil, loom.NewConfigurationError(s.path(), "db.relationName can only be set on many to many relationships")
		}
	}

	switch {
	case left.db.RelationMode == schema.RelationOne && right.db.RelationMode == schema.RelationOne:
		if left.db.ForeignKey != nil && right.db.ForeignKey != nil {
			return nil, nil, loom.NewConfigurationError(left.path(),
				"both %s and %s have db.foreignKey set, only one side of a one to one relationship can hold the foreign key", left.path(), right.path())
		}
		owner, ro, rother := left, rl, rr
		if right.db.ForeignKey != nil {
			owner, ro, rother = right, rr, rl
		}
		ro.ForeignID = &schema.ForeignID{Kind: schema.ForeignIDOwnedUnique, Map: foreignIDMap(owner)}
		rother.ForeignID = &schema.ForeignID{Kind: schema.ForeignIDNone}

	case left.db.RelationMode == schema.RelationMany && right.db.RelationMode == schema.RelationMany:
		name := left.db.RelationName
		if r := right.db.RelationName; r != "" {
			if name != "" && name != r {
				return nil, nil, loom.NewConfigurationError(left.path(),
					"%s and %s have different db.relationName values %q and %q", left.path(), right.path(), name, r)
			}
			name = r
		}
		if name == "" {
			name = left.model + "_" + left.field
		}
		rl.RelationName, rr.RelationName = name, name

	default:
		one, many, rone := left, right, rl
		if left.db.RelationMode == schema.RelationMany {
			one, many, rone = right, left, rr
		}
		if many.db.ForeignKey != nil {
			return nil, nil, loom.NewConfigurationError(many.path(), "db.foreignKey can only be set on the one side of a one to many relationship")
		}
		rone.ForeignID = &schema.ForeignID{Kind: schema.ForeignIDOwned, Map: foreignIDMap(one)}
	}
	return ra, rb, nil
}
