package pipeline

import (
	"context"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/zerv/pkg/output"
	"github.com/datawire/zerv/pkg/zerv"
)

// RenderArgs are the inputs to Render.
type RenderArgs struct {
	Version     string
	InputFormat string
	Output      output.Options
}

// Render parses a version string in one grammar and prints it in another.
func Render(ctx context.Context, args RenderArgs) (string, error) {
	if args.Output.Format == "" && args.Output.Template == "" {
		args.Output.Format = zerv.FormatSemVer
	}
	z, format, err := zerv.ParseVersion(args.Version, args.InputFormat)
	if err != nil {
		return "", err
	}
	dlog.Debugf(ctx, "render: %q parsed as %s", args.Version, format)
	return output.Format(z, args.Output)
}
