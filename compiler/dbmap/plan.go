package dbmap

import (
	"context"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	loomschema "github.com/syssam/loom/schema"
)

// PlanName is the name given to the migration plans created by Plan.
const PlanName = "init"

func planApplier(p loomschema.Provider) (migrate.PlanApplier, error) {
	switch p {
	case loomschema.ProviderSQLite, "":
		return sqlite.DefaultPlan, nil
	case loomschema.ProviderPostgres:
		return postgres.DefaultPlan, nil
	case loomschema.ProviderMySQL:
		return mysql.DefaultPlan, nil
	}
	return nil, fmt.Errorf("loom/dbmap: unsupported provider %q", p)
}

// Plan returns the statements that create the tables of realm on an
// empty database. Statements are not schema qualified.
//
// SQLite declares foreign keys inline since it does not check references
// on create. The other providers create every table first and add the
// foreign keys afterwards.
func Plan(ctx context.Context, realm *schema.Realm, provider loomschema.Provider) ([]string, error) {
	pa, err := planApplier(provider)
	if err != nil {
		return nil, err
	}
	changes := Changes(realm, provider)
	if len(changes) == 0 {
		return nil, nil
	}
	empty := ""
	plan, err := pa.PlanChanges(ctx, PlanName, changes, func(o *migrate.PlanOptions) {
		o.SchemaQualifier = &empty
	})
	if err != nil {
		return nil, fmt.Errorf("loom/dbmap: planning %s changes: %w", provider, err)
	}
	stmts := make([]string, 0, len(plan.Changes))
	for _, c := range plan.Changes {
		stmts = append(stmts, c.Cmd)
	}
	return stmts, nil
}

// Changes returns the schema changes that create realm.
func Changes(realm *schema.Realm, provider loomschema.Provider) []schema.Change {
	var (
		adds    []schema.Change
		modifys []schema.Change
	)
	inline := provider == loomschema.ProviderSQLite || provider == ""
	for _, s := range realm.Schemas {
		for _, t := range s.Tables {
			if inline || len(t.ForeignKeys) == 0 {
				adds = append(adds, &schema.AddTable{T: t})
				continue
			}
			// The created table is a copy without foreign keys, t keeps them
			// for the follow-up statement.
			bare := *t
			bare.ForeignKeys = nil
			adds = append(adds, &schema.AddTable{T: &bare})
			fks := make([]schema.Change, 0, len(t.ForeignKeys))
			for _, fk := range t.ForeignKeys {
				fks = append(fks, &schema.AddForeignKey{F: fk})
			}
			modifys = append(modifys, &schema.ModifyTable{T: t, Changes: fks})
		}
	}
	return append(adds, modifys...)
}
