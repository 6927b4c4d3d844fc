// Package config loads the optional .zerv.yml project file.
package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/datawire/dlib/dlog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v2"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/zerv"
)

// DefaultFile is looked for in the working directory when no file is named explicitly.
const DefaultFile = ".zerv.yml"

// Config holds project-level defaults.  Command-line flags take precedence over it.
type Config struct {
	// Schema is a preset name or a key of Schemas.
	Schema       string `yaml:"schema"`
	InputFormat  string `yaml:"input_format"`
	OutputFormat string `yaml:"output_format"`
	OutputPrefix string `yaml:"output_prefix"`
	// TagPattern is a glob that version tags must match.
	TagPattern string `yaml:"tag_pattern"`
	// Schemas maps a name to a schema in the structured text notation.
	Schemas map[string]string `yaml:"schemas"`

	schemas map[string]zerv.Schema
}

// Load reads the config file at path.  If path is "", DefaultFile is used if it exists, and
// an empty Config is returned if it does not.
func Load(ctx context.Context, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			dlog.Debugf(ctx, "config: no %s; using defaults", DefaultFile)
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeIO, "reading config file", err).WithContext("file", path)
	}
	dlog.Debugf(ctx, "config: loading %s", path)
	cfg, err := Parse(bs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates config file content.  Unknown keys are rejected.
func Parse(bs []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(bs, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, "invalid config file", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.InputFormat != "" && !lo.Contains(zerv.InputFormats(), c.InputFormat) {
		return zerv.UnknownFormatError(c.InputFormat, zerv.InputFormats())
	}
	if c.OutputFormat != "" && !lo.Contains(zerv.OutputFormats(), c.OutputFormat) {
		return zerv.UnknownFormatError(c.OutputFormat, zerv.OutputFormats())
	}

	c.schemas = make(map[string]zerv.Schema, len(c.Schemas))
	for name, text := range c.Schemas {
		if zerv.IsPreset(name) {
			return errors.Newf(errors.ErrCodeSchema, "schema %q shadows the built-in preset of the same name", name)
		}
		schema, err := zerv.ParseSchema([]byte(text))
		if err != nil {
			return fmt.Errorf("schemas.%s: %w", name, err)
		}
		c.schemas[name] = *schema
	}

	if c.Schema != "" && !zerv.IsPreset(c.Schema) {
		if _, ok := c.schemas[c.Schema]; !ok {
			return errors.Newf(errors.ErrCodeSchema, "unknown schema %q", c.Schema).
				WithContext("known", strings.Join(c.SchemaNames(), ","))
		}
	}
	return nil
}

// SchemaNames lists the built-in presets and the schemas defined in the file, sorted.
func (c *Config) SchemaNames() []string {
	ret := zerv.PresetNames()
	for name := range c.Schemas {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// ResolveSchema returns the schema called name: one defined in the file, or else a preset
// evaluated against vars.
func (c *Config) ResolveSchema(name string, vars zerv.Vars) (zerv.Schema, error) {
	if schema, ok := c.schemas[name]; ok {
		return schema.Clone(), nil
	}
	return zerv.Preset(name, vars)
}
