// Package output turns a finished model into the string the user asked for.
package output

import (
	"strings"

	"github.com/datawire/zerv/pkg/zerv"
)

// Options select how a model is printed.
type Options struct {
	// Format is one of zerv.OutputFormats(); ignored if Template is set.
	Format string
	// Prefix is prepended verbatim, e.g. "v".
	Prefix string
	// Template is a text/template; see RenderTemplate.
	Template string
}

// Format renders z according to opts.
func Format(z *zerv.Zerv, opts Options) (string, error) {
	var ret string
	var err error
	switch {
	case opts.Template != "":
		ret, err = RenderTemplate(z, opts.Template)
	case opts.Format == zerv.FormatSemVer:
		ret, err = z.SemVerString()
	case opts.Format == zerv.FormatPEP440:
		ret, err = z.PEP440String()
	case opts.Format == zerv.FormatZerv:
		var bs []byte
		bs, err = zerv.Marshal(z)
		ret = strings.TrimRight(string(bs), "\n")
	default:
		err = zerv.UnknownFormatError(opts.Format, zerv.OutputFormats())
	}
	if err != nil {
		return "", err
	}
	return opts.Prefix + ret, nil
}
