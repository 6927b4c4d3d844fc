package pep440

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/datawire/zerv/pkg/errors"
)

// Version is a full PEP 440 version, including any local version label.
type Version = LocalVersion

// ParseVersion parses and normalizes a PEP 440 version string.  Failures carry
// errors.ErrCodeParse.
func ParseVersion(str string) (*Version, error) {
	ver, err := parseVersion(str)
	if err != nil {
		return nil, fmt.Errorf("pep440.ParseVersion: %w", err)
	}
	return ver, nil
}

// PublicVersion is a version identifier without the local version label.
//
// The canonical public version identifiers MUST comply with the following scheme:
//
//	[N!]N(.N)*[{a|b|rc}N][.postN][.devN]
type PublicVersion struct {
	// Epoch segment: `N!`; 0 means absent.
	Epoch int
	// Release segment: `N(.N)*`; never empty.
	Release []int
	// Pre-release segment: `{a|b|rc}N`
	Pre *PreRelease
	// Post-release segment: `.postN`
	Post *int
	// Development release segment: `.devN`
	Dev *int
}

// PreRelease is the `{a|b|rc}N` segment.  L is always one of the normalized spellings "a",
// "b", or "rc".  N is nil when the input omitted the number; it displays and sorts as 0.
type PreRelease struct {
	L string
	N *int
}

// Number returns the pre-release number, treating an implicit number as 0.
func (pre PreRelease) Number() int {
	if pre.N == nil {
		return 0
	}
	return *pre.N
}

func (pre PreRelease) GoString() string {
	n := "nil"
	if pre.N != nil {
		n = fmt.Sprintf("intPtr(%#v)", *pre.N)
	}
	return fmt.Sprintf("pep440.PreRelease{L:%q, N:%s}", pre.L, n)
}

func (ver PublicVersion) GoString() string {
	pre := "nil"
	if ver.Pre != nil {
		pre = fmt.Sprintf("&%#v", *ver.Pre)
	}
	post := "nil"
	if ver.Post != nil {
		post = fmt.Sprintf("intPtr(%#v)", *ver.Post)
	}
	dev := "nil"
	if ver.Dev != nil {
		dev = fmt.Sprintf("intPtr(%#v)", *ver.Dev)
	}
	return fmt.Sprintf("pep440.PublicVersion{Epoch:%d, Release:%#v, Pre:%s, Post:%s, Dev:%s}",
		ver.Epoch, ver.Release, pre, post, dev)
}

func (ver PublicVersion) writeTo(ret *strings.Builder) {
	if ver.Epoch > 0 {
		fmt.Fprintf(ret, "%d!", ver.Epoch)
	}
	if len(ver.Release) == 0 {
		panic("invalid version: no release segments")
	}
	fmt.Fprintf(ret, "%d", ver.Release[0])
	for _, segment := range ver.Release[1:] {
		fmt.Fprintf(ret, ".%d", segment)
	}
	if ver.Pre != nil {
		fmt.Fprintf(ret, "%s%d", ver.Pre.L, ver.Pre.Number())
	}
	if ver.Post != nil {
		fmt.Fprintf(ret, ".post%d", *ver.Post)
	}
	if ver.Dev != nil {
		fmt.Fprintf(ret, ".dev%d", *ver.Dev)
	}
}

// String returns the normalized form of the public version.
func (ver PublicVersion) String() string {
	var ret strings.Builder
	ver.writeTo(&ret)
	return ret.String()
}

// LocalVersion is a public version plus an optional `+`-introduced local version label.
// Each local segment is either an integer (digits only, no leading zeros) or a lower-case
// alphanumeric string.
type LocalVersion struct {
	PublicVersion
	Local []intstr.IntOrString
}

func (ver LocalVersion) GoString() string {
	return fmt.Sprintf("pep440.LocalVersion{PublicVersion:%#v, Local:%#v}",
		ver.PublicVersion, ver.Local)
}

// String returns the normalized form of the version.
func (ver LocalVersion) String() string {
	var ret strings.Builder
	ver.PublicVersion.writeTo(&ret)
	sep := "+"
	for _, local := range ver.Local {
		ret.WriteString(sep)
		ret.WriteString(local.String())
		sep = "."
	}
	return ret.String()
}

// IsPreRelease reports whether the version sorts before its release segment alone, which
// dev-releases also do.
func (ver PublicVersion) IsPreRelease() bool {
	return ver.Pre != nil || ver.Dev != nil
}

func (ver PublicVersion) releaseSegment(n int) int {
	if n < len(ver.Release) {
		return ver.Release[n]
	}
	return 0
}

func errInvalid(str string) error {
	return errors.Newf(errors.ErrCodeParse, "invalid PEP 440 version: %q", str)
}
