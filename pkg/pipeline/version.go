// Package pipeline strings the other packages together into the operations that the CLI
// exposes.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/datawire/dlib/dlog"
	"github.com/samber/lo"

	"github.com/datawire/zerv/pkg/bump"
	"github.com/datawire/zerv/pkg/config"
	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/output"
	"github.com/datawire/zerv/pkg/vcs"
	"github.com/datawire/zerv/pkg/zerv"
)

// Where the version variables come from.
const (
	SourceGit   = "git"
	SourceStdin = "stdin"
	SourceNone  = "none"
)

// Sources lists the accepted values of VersionArgs.Source.
func Sources() []string {
	return []string{SourceGit, SourceStdin, SourceNone}
}

// VersionArgs are the inputs to Version.  Zero values mean "use the config file, or else the
// built-in default".
type VersionArgs struct {
	Source string
	// Dir is the checkout to inspect for SourceGit.
	Dir string
	// Stdin is read for SourceStdin; it must hold a model in the structured text notation.
	Stdin io.Reader
	// VCS replaces the git provider for SourceGit.
	VCS vcs.Provider

	InputFormat string
	TagPattern  string

	// Schema is the name of a preset or of a schema defined in the config file.
	Schema string
	// SchemaText is a schema in the structured text notation.
	SchemaText string

	Context bump.Context
	Bumps   bump.Bumps
	Output  output.Options

	Config *config.Config
}

func (args VersionArgs) withDefaults() VersionArgs {
	cfg := args.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	args.Config = cfg
	args.Source = lo.Ternary(args.Source != "", args.Source, SourceGit)
	args.InputFormat = lo.CoalesceOrEmpty(args.InputFormat, cfg.InputFormat, zerv.FormatAuto)
	args.Context.InputFormat = lo.CoalesceOrEmpty(args.Context.InputFormat, args.InputFormat)
	args.TagPattern = lo.CoalesceOrEmpty(args.TagPattern, cfg.TagPattern)
	if args.SchemaText == "" {
		args.Schema = lo.CoalesceOrEmpty(args.Schema, cfg.Schema)
	}
	if args.Output.Template == "" {
		args.Output.Format = lo.CoalesceOrEmpty(args.Output.Format, cfg.OutputFormat, zerv.FormatSemVer)
	}
	args.Output.Prefix = lo.CoalesceOrEmpty(args.Output.Prefix, cfg.OutputPrefix)
	return args
}

// Validate rejects conflicting or unknown options before any work is done.
func (args VersionArgs) Validate() error {
	if args.Schema != "" && args.SchemaText != "" {
		return errors.New(errors.ErrCodeConflict, "cannot use --schema with --schema-file")
	}
	if args.Source != "" && !lo.Contains(Sources(), args.Source) {
		return errors.Newf(errors.ErrCodeArgument, "unknown source %q", args.Source).
			WithContext("supported", strings.Join(Sources(), ","))
	}
	if args.InputFormat != "" && !lo.Contains(zerv.InputFormats(), args.InputFormat) {
		return zerv.UnknownFormatError(args.InputFormat, zerv.InputFormats())
	}
	if args.Output.Format != "" && !lo.Contains(zerv.OutputFormats(), args.Output.Format) {
		return zerv.UnknownFormatError(args.Output.Format, zerv.OutputFormats())
	}
	if err := args.Context.Validate(); err != nil {
		return err
	}
	return args.Bumps.Validate()
}

// VersionZerv computes the version model: source -> variables -> context overrides ->
// schema -> bumps.
func VersionZerv(ctx context.Context, args VersionArgs) (*zerv.Zerv, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}
	args = args.withDefaults()

	vars, schema, err := source(ctx, args)
	if err != nil {
		return nil, err
	}
	if err := bump.ApplyContext(ctx, &vars, args.Context); err != nil {
		return nil, err
	}

	switch {
	case args.SchemaText != "":
		parsed, err := zerv.ParseSchema([]byte(args.SchemaText))
		if err != nil {
			return nil, err
		}
		schema = parsed
	case args.Schema != "" || schema == nil:
		name := lo.CoalesceOrEmpty(args.Schema, zerv.PresetStandard)
		resolved, err := args.Config.ResolveSchema(name, vars)
		if err != nil {
			return nil, err
		}
		schema = &resolved
	}
	dlog.Debugf(ctx, "pipeline: schema core=%d extra_core=%d build=%d",
		len(schema.Core), len(schema.ExtraCore), len(schema.Build))

	z, err := zerv.New(*schema, vars)
	if err != nil {
		return nil, err
	}
	if err := bump.ApplyBumps(ctx, z, args.Bumps); err != nil {
		return nil, err
	}
	return z, nil
}

// Version computes the version and formats it.
func Version(ctx context.Context, args VersionArgs) (string, error) {
	z, err := VersionZerv(ctx, args)
	if err != nil {
		return "", err
	}
	return output.Format(z, args.withDefaults().Output)
}

// source returns the starting variables, and the schema if the source carries one.
func source(ctx context.Context, args VersionArgs) (zerv.Vars, *zerv.Schema, error) {
	switch args.Source {
	case SourceGit:
		provider := args.VCS
		if provider == nil {
			provider = &vcs.Git{
				Dir:         args.Dir,
				TagPattern:  args.TagPattern,
				InputFormat: args.InputFormat,
			}
		}
		data, err := provider.Data(ctx)
		if err != nil {
			return zerv.Vars{}, nil, err
		}
		if args.Context.TagVersion != "" {
			data.TagVersion = args.Context.TagVersion
		}
		vars, err := data.Vars(ctx, args.InputFormat)
		return vars, nil, err
	case SourceStdin:
		if args.Stdin == nil {
			return zerv.Vars{}, nil, errors.New(errors.ErrCodeArgument, "no input provided on stdin")
		}
		bs, err := io.ReadAll(args.Stdin)
		if err != nil {
			return zerv.Vars{}, nil, errors.Wrap(errors.ErrCodeIO, "reading stdin", err)
		}
		if len(bs) == 0 {
			return zerv.Vars{}, nil, errors.New(errors.ErrCodeArgument, "no input provided on stdin").
				WithContext("hint", "pipe the output of `zerv version --output-format=zerv`")
		}
		z, err := zerv.Unmarshal(bs)
		if err != nil {
			return zerv.Vars{}, nil, fmt.Errorf("stdin: %w", err)
		}
		return z.Vars, &z.Schema, nil
	default:
		return zerv.Vars{}, nil, nil
	}
}
