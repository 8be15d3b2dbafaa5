package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/loom/compiler"
	"github.com/syssam/loom/compiler/load"
	"github.com/syssam/loom/contrib/gqlgen"
	"github.com/syssam/loom/internal/watch"
	"github.com/syssam/loom/schema"
)

func newBuildCmd(root *rootOptions) *cobra.Command {
	var watchFiles bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the models and write the artifacts",
		Long: `Compile the model file and write schema.graphql, admin-meta.json, types.go
and migrations/<provider>.sql to the output directory.

With --watch the models are recompiled whenever the model file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(root.configFile)
			if err != nil {
				return err
			}
			log, err := newLogger(root.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			if err := build(ctx, s, log); err != nil {
				if !watchFiles {
					return err
				}
				log.Error("build failed", zap.Error(err))
			}
			if !watchFiles {
				return nil
			}
			log.Info("watching for changes", zap.String("models", s.Models))
			return watch.Files(ctx, []string{s.Models}, watch.DefaultDelay, log, func(ctx context.Context) error {
				return build(ctx, s, log)
			})
		},
	}
	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "rebuild when the model file changes")
	return cmd
}

// compile loads the model file and compiles it with the provider of the
// settings, when set.
func compile(ctx context.Context, s *settings, log *zap.Logger, opts ...compiler.Option) (*compiler.Result, error) {
	cfg, err := load.LoadFile(s.Models)
	if err != nil {
		return nil, err
	}
	if s.DB.Provider != "" {
		cfg.DB.Provider = schema.Provider(s.DB.Provider)
	}
	opts = append([]compiler.Option{compiler.WithLogger(log), compiler.WithPackage(s.Package)}, opts...)
	return compiler.Compile(ctx, cfg, opts...)
}

func build(ctx context.Context, s *settings, log *zap.Logger) error {
	res, err := compile(ctx, s, log)
	if err != nil {
		return err
	}
	if err := res.WriteArtifacts(ctx, s.Out); err != nil {
		return err
	}
	log.Info("artifacts written", zap.String("dir", s.Out))
	if s.GQLGen.Config == "" {
		return nil
	}
	schemaPath, err := filepath.Rel(filepath.Dir(s.GQLGen.Config), filepath.Join(s.Out, compiler.SchemaFile))
	if err != nil {
		return fmt.Errorf("gqlgen schema path: %w", err)
	}
	if err := gqlgen.Update(s.GQLGen.Config, filepath.ToSlash(schemaPath), s.GQLGen.Autobind); err != nil {
		return err
	}
	log.Debug("gqlgen config updated", zap.String("config", s.GQLGen.Config))
	if s.GQLGen.Generate {
		log.Info("running gqlgen", zap.String("config", s.GQLGen.Config))
		return gqlgen.Generate(s.GQLGen.Config)
	}
	return nil
}
