package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// settings are the project settings read from loom.yaml and LOOM_*
// environment variables.
type settings struct {
	// Models is the model configuration file.
	Models string `mapstructure:"models"`
	// Out is the artifact directory.
	Out string `mapstructure:"out"`
	// Package is the package name of the generated types.
	Package string `mapstructure:"package"`
	DB      struct {
		// Provider overrides db.provider of the model file.
		Provider string `mapstructure:"provider"`
		URL      string `mapstructure:"url"`
	} `mapstructure:"db"`
	GQLGen struct {
		// Config is the gqlgen.yml to keep in sync; empty disables it.
		Config string `mapstructure:"config"`
		// Autobind is the import path of the generated types package.
		Autobind string `mapstructure:"autobind"`
		// Generate runs gqlgen after every build.
		Generate bool `mapstructure:"generate"`
	} `mapstructure:"gqlgen"`
}

func loadSettings(file string) (*settings, error) {
	v := viper.New()
	v.SetDefault("models", "models.yaml")
	v.SetDefault("out", "generated")
	v.SetDefault("package", "models")
	v.SetDefault("db.provider", "")
	v.SetDefault("db.url", "")
	v.SetDefault("gqlgen.config", "")
	v.SetDefault("gqlgen.autobind", "")
	v.SetDefault("gqlgen.generate", false)

	v.SetEnvPrefix("loom")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("loom")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}
	s := &settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if s.Models == "" {
		return nil, errors.New("settings: models must name a file")
	}
	return s, nil
}
