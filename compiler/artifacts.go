package compiler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/loom/compiler/dbmap"
)

// Artifact file names, relative to the output directory.
const (
	SchemaFile    = "schema.graphql"
	AdminMetaFile = "admin-meta.json"
	TypesFile     = "types.go"
	MigrationsDir = "migrations"
)

// MigrationFile returns the migration path of the result's provider.
func (r *Result) MigrationFile() string {
	return filepath.Join(MigrationsDir, string(r.Provider())+".sql")
}

// WriteArtifacts writes the artifacts of r under dir concurrently. The
// types file is skipped when no types were generated.
func (r *Result) WriteArtifacts(ctx context.Context, dir string) error {
	meta, err := json.MarshalIndent(r.AdminMeta, "", "  ")
	if err != nil {
		return fmt.Errorf("loom/compiler: encoding admin metadata: %w", err)
	}
	files := map[string][]byte{
		SchemaFile:        []byte(r.Schema.SDL),
		AdminMetaFile:     append(meta, '\n'),
		r.MigrationFile(): []byte(dbmap.Script(r.Migration)),
	}
	if r.Types != nil {
		files[TypesFile] = r.Types
	}
	errg, ctx := errgroup.WithContext(ctx)
	for name, data := range files {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return r.writeFile(dir, name, data)
		})
	}
	return errg.Wait()
}

func (r *Result) writeFile(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("loom/compiler: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("loom/compiler: %w", err)
	}
	if r.log != nil {
		r.log.Debug("artifact written", zap.String("path", path), zap.Int("bytes", len(data)))
	}
	return nil
}
