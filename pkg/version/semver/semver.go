// Package semver implements parsing, display, and ordering of Semantic Versioning 2.0.0
// version strings.
//
// https://semver.org/spec/v2.0.0.html
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	xsemver "golang.org/x/mod/semver"

	"github.com/datawire/zerv/pkg/errors"
)

// Identifier is one dot-separated pre-release or build-metadata identifier.
type Identifier struct {
	IsNum bool
	Num   uint64
	Str   string
}

// NumericIdentifier returns an identifier holding n.
func NumericIdentifier(n uint64) Identifier {
	return Identifier{IsNum: true, Num: n}
}

// StringIdentifier returns an identifier holding s verbatim.
func StringIdentifier(s string) Identifier {
	return Identifier{Str: s}
}

// ParseIdentifier types an identifier: digit runs without a leading zero (or "0" itself)
// that fit in a uint64 are numeric, and everything else is kept as a string.
func ParseIdentifier(s string) Identifier {
	if s != "" && strings.Trim(s, "0123456789") == "" && (s == "0" || s[0] != '0') {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return NumericIdentifier(n)
		}
	}
	return StringIdentifier(s)
}

func (id Identifier) String() string {
	if id.IsNum {
		return strconv.FormatUint(id.Num, 10)
	}
	return id.Str
}

func (id Identifier) GoString() string {
	if id.IsNum {
		return fmt.Sprintf("semver.NumericIdentifier(%d)", id.Num)
	}
	return fmt.Sprintf("semver.StringIdentifier(%q)", id.Str)
}

// Version is a parsed SemVer version.  Pre holds the raw pre-release identifiers in the
// order they were declared; no meaning is assigned to them here.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
	Pre   []Identifier
	Build []Identifier
}

const (
	numPart    = `0|[1-9][0-9]*`
	preIdent   = `(?:` + numPart + `|[0-9]*[a-zA-Z-][0-9a-zA-Z-]*)`
	buildIdent = `[0-9a-zA-Z-]+`
)

var reVersion = regexp.MustCompile(`^[vV]?` +
	`(?P<major>` + numPart + `)\.(?P<minor>` + numPart + `)\.(?P<patch>` + numPart + `)` +
	`(?:-(?P<pre>` + preIdent + `(?:\.` + preIdent + `)*))?` +
	`(?:\+(?P<build>` + buildIdent + `(?:\.` + buildIdent + `)*))?$`)

// ParseVersion parses a SemVer string.  A leading "v" or "V" is accepted and dropped.
// Failures carry errors.ErrCodeParse.
func ParseVersion(str string) (*Version, error) {
	ver, err := parseVersion(str)
	if err != nil {
		return nil, fmt.Errorf("semver.ParseVersion: %w", err)
	}
	return ver, nil
}

func parseVersion(str string) (*Version, error) {
	match := reVersion.FindStringSubmatch(str)
	if match == nil {
		return nil, errors.Newf(errors.ErrCodeParse, "invalid SemVer version: %q", str)
	}
	var ver Version
	for name, dst := range map[string]*uint64{
		"major": &ver.Major,
		"minor": &ver.Minor,
		"patch": &ver.Patch,
	} {
		n, err := strconv.ParseUint(match[reVersion.SubexpIndex(name)], 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, fmt.Sprintf("%s: %q", name, str), err)
		}
		*dst = n
	}
	if pre := match[reVersion.SubexpIndex("pre")]; pre != "" {
		ver.Pre = lo.Map(strings.Split(pre, "."), func(s string, _ int) Identifier {
			return ParseIdentifier(s)
		})
	}
	if build := match[reVersion.SubexpIndex("build")]; build != "" {
		ver.Build = lo.Map(strings.Split(build, "."), func(s string, _ int) Identifier {
			return ParseIdentifier(s)
		})
	}
	return &ver, nil
}

func joinIdentifiers(ids []Identifier) string {
	return strings.Join(lo.Map(ids, func(id Identifier, _ int) string {
		return id.String()
	}), ".")
}

// String returns the version without a "v" prefix.
func (ver Version) String() string {
	var ret strings.Builder
	fmt.Fprintf(&ret, "%d.%d.%d", ver.Major, ver.Minor, ver.Patch)
	if len(ver.Pre) > 0 {
		ret.WriteString("-")
		ret.WriteString(joinIdentifiers(ver.Pre))
	}
	if len(ver.Build) > 0 {
		ret.WriteString("+")
		ret.WriteString(joinIdentifiers(ver.Build))
	}
	return ret.String()
}

// Cmp orders versions by SemVer precedence; build metadata is ignored.
func (a Version) Cmp(b Version) int {
	return xsemver.Compare(a.canonical(), b.canonical())
}

func (ver Version) canonical() string {
	str := fmt.Sprintf("v%d.%d.%d", ver.Major, ver.Minor, ver.Patch)
	if len(ver.Pre) > 0 {
		str += "-" + joinIdentifiers(ver.Pre)
	}
	return str
}

// IsPreRelease reports whether the version has pre-release identifiers.
func (ver Version) IsPreRelease() bool {
	return len(ver.Pre) > 0
}
