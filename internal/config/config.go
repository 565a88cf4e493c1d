// Package config loads the YAML configuration file that describes the
// database connection and the dimension set a store is opened with.
package config

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/facet/pkg/database"
	"github.com/hashicorp-forge/facet/pkg/dimension"
)

// Config is the top-level configuration file structure.
type Config struct {
	// LogLevel sets the logger verbosity (trace, debug, info, warn,
	// error). Defaults to info.
	LogLevel string `yaml:"log_level"`

	Database   Database    `yaml:"database"`
	Dimensions []Dimension `yaml:"dimensions"`
}

// Database configures the backing database connection.
type Database struct {
	// Driver selects the backend, "sqlite" or "postgres". Defaults to
	// sqlite.
	Driver string `yaml:"driver"`

	// Path is the sqlite database file.
	Path string `yaml:"path"`

	// Postgres connection settings.
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// Dimension is one entry of the dimension set.
type Dimension struct {
	Name     string            `yaml:"name"`
	Kind     string            `yaml:"kind"`
	Values   []string          `yaml:"values"`
	Prefixes map[string]string `yaml:"prefixes"`
	Default  string            `yaml:"default"`
	RefField string            `yaml:"ref_field"`
}

// NewConfig parses the config file at path on the given filesystem and
// applies defaults.
func NewConfig(fs afero.Fs, path string) (*Config, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = database.DriverSQLite
	}
	if cfg.Database.Driver == database.DriverSQLite && cfg.Database.Path == "" {
		cfg.Database.Path = "facet.db"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural rules the YAML schema itself cannot
// express. Dimension semantics (value sets, prefixes, defaults) are
// validated by the dimension registry when the store opens.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel,
			validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.Database),
		validation.Field(&c.Dimensions, validation.Required),
	); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for i, d := range c.Dimensions {
		if err := d.validate(); err != nil {
			return fmt.Errorf("invalid configuration: dimension %d: %w", i, err)
		}
	}
	return nil
}

// Validate implements validation.Validatable for the nested database
// block.
func (d Database) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver,
			validation.Required,
			validation.In(database.DriverSQLite, database.DriverPostgres)),
	)
}

func (d Dimension) validate() error {
	if err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Kind, validation.Required),
	); err != nil {
		return err
	}
	if _, ok := dimension.ParseKind(d.Kind); !ok {
		return fmt.Errorf("unknown kind %q", d.Kind)
	}
	return nil
}

// DatabaseConfig converts the file settings to the database package's
// connection config.
func (c *Config) DatabaseConfig() database.Config {
	return database.Config{
		Driver:   c.Database.Driver,
		Path:     c.Database.Path,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		DBName:   c.Database.DBName,
		SSLMode:  c.Database.SSLMode,
	}
}

// DimensionConfig converts the file entries to the dimension package's
// config. Kind strings were checked by Validate.
func (c *Config) DimensionConfig() dimension.Config {
	dims := make([]dimension.Dimension, len(c.Dimensions))
	for i, d := range c.Dimensions {
		kind, _ := dimension.ParseKind(d.Kind)
		dims[i] = dimension.Dimension{
			Name:         d.Name,
			Kind:         kind,
			Values:       d.Values,
			Prefixes:     d.Prefixes,
			DefaultValue: d.Default,
			RefField:     d.RefField,
		}
	}
	return dimension.Config{Dimensions: dims}
}
