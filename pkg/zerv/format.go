package zerv

import (
	"strings"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/version/pep440"
	"github.com/datawire/zerv/pkg/version/semver"
)

// Format names, as accepted by --input-format and --output-format.
const (
	FormatAuto   = "auto"
	FormatSemVer = "semver"
	FormatPEP440 = "pep440"
	FormatZerv   = "zerv"
)

// InputFormats lists the formats that ParseVersion accepts.
func InputFormats() []string {
	return []string{FormatAuto, FormatSemVer, FormatPEP440}
}

// OutputFormats lists the formats that a model can be rendered as.
func OutputFormats() []string {
	return []string{FormatSemVer, FormatPEP440, FormatZerv}
}

// ParseVersion parses a version string in the given format and lifts it into the canonical
// model.  FormatAuto tries SemVer first, then PEP 440, and reports which one matched.
func ParseVersion(str, format string) (*Zerv, string, error) {
	switch format {
	case FormatSemVer:
		ver, err := semver.ParseVersion(str)
		if err != nil {
			return nil, "", err
		}
		return FromSemVer(*ver), FormatSemVer, nil
	case FormatPEP440:
		ver, err := pep440.ParseVersion(str)
		if err != nil {
			return nil, "", err
		}
		return FromPEP440(*ver), FormatPEP440, nil
	case FormatAuto, "":
		if z, f, err := ParseVersion(str, FormatSemVer); err == nil {
			return z, f, nil
		}
		if z, f, err := ParseVersion(str, FormatPEP440); err == nil {
			return z, f, nil
		}
		return nil, "", errors.Newf(errors.ErrCodeParse,
			"%q is neither a valid SemVer nor a valid PEP 440 version", str)
	default:
		return nil, "", UnknownFormatError(format, InputFormats())
	}
}

// UnknownFormatError reports an unsupported format name.
func UnknownFormatError(format string, supported []string) error {
	return errors.Newf(errors.ErrCodeUnknownFormat, "unknown format %q", format).
		WithContext("supported", strings.Join(supported, ","))
}
