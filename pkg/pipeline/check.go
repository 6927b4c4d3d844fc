package pipeline

import (
	"context"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/zerv/pkg/version/pep440"
	"github.com/datawire/zerv/pkg/version/semver"
	"github.com/datawire/zerv/pkg/zerv"
)

// CheckResult is the verdict of one grammar on a version string.
type CheckResult struct {
	Format string
	// Normalized is the version re-rendered in Format, if it is valid.
	Normalized string
	// PreRelease is set for valid versions that sort before their release: a SemVer
	// pre-release, or a PEP 440 pre- or dev-release.
	PreRelease bool
	Err        error
}

// Valid reports whether the grammar accepted the string.
func (r CheckResult) Valid() bool {
	return r.Err == nil
}

// Check reports whether version is valid SemVer and/or PEP 440.  With the auto format both
// grammars are tried.
func Check(ctx context.Context, version, format string) ([]CheckResult, error) {
	var formats []string
	switch format {
	case "", zerv.FormatAuto:
		formats = []string{zerv.FormatSemVer, zerv.FormatPEP440}
	case zerv.FormatSemVer, zerv.FormatPEP440:
		formats = []string{format}
	default:
		return nil, zerv.UnknownFormatError(format, []string{zerv.FormatAuto, zerv.FormatSemVer, zerv.FormatPEP440})
	}

	ret := make([]CheckResult, 0, len(formats))
	for _, f := range formats {
		res := checkOne(version, f)
		dlog.Debugf(ctx, "check: %q as %s: valid=%v pre-release=%v", version, f, res.Valid(), res.PreRelease)
		ret = append(ret, res)
	}
	return ret, nil
}

func checkOne(version, format string) CheckResult {
	res := CheckResult{Format: format}
	if format == zerv.FormatSemVer {
		ver, err := semver.ParseVersion(version)
		if err != nil {
			res.Err = err
			return res
		}
		res.PreRelease = ver.IsPreRelease()
		res.Normalized, res.Err = zerv.FromSemVer(*ver).SemVerString()
		return res
	}
	ver, err := pep440.ParseVersion(version)
	if err != nil {
		res.Err = err
		return res
	}
	res.PreRelease = ver.IsPreRelease()
	res.Normalized, res.Err = zerv.FromPEP440(*ver).PEP440String()
	return res
}
