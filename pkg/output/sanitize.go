package output

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Sanitize presets.
const (
	SanitizeSemVer = "semver"
	SanitizePEP440 = "pep440"
	SanitizeUint   = "uint"
)

var (
	reNonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)
	reNonDigit = regexp.MustCompile(`[^0-9]+`)
)

// foldASCII strips combining marks, so that "café" becomes "cafe" rather than "caf".
func foldASCII(str string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ret, _, err := transform.String(t, str)
	if err != nil {
		return str
	}
	return ret
}

func trimZeros(seg string) string {
	if strings.Trim(seg, "0123456789") != "" {
		return seg
	}
	if seg = strings.TrimLeft(seg, "0"); seg == "" {
		return "0"
	}
	return seg
}

// Sanitize cleans an arbitrary string (a branch name, say) into something that is safe to
// put in a version identifier.
//
//	semver  alphanumeric runs joined with ".", numeric runs without leading zeros
//	pep440  like semver, but lowercase
//	uint    only the digits, without leading zeros, or "0"
func Sanitize(preset, str string) (string, error) {
	switch preset {
	case SanitizeSemVer, SanitizePEP440:
		str = foldASCII(str)
		if preset == SanitizePEP440 {
			str = strings.ToLower(str)
		}
		segs := strings.FieldsFunc(reNonAlnum.ReplaceAllString(str, "."), func(r rune) bool { return r == '.' })
		for i := range segs {
			segs[i] = trimZeros(segs[i])
		}
		return strings.Join(segs, "."), nil
	case SanitizeUint:
		return trimZeros(reNonDigit.ReplaceAllString(str, "")), nil
	default:
		return "", fmt.Errorf("unknown sanitize preset %q (expected %q, %q, or %q)",
			preset, SanitizeSemVer, SanitizePEP440, SanitizeUint)
	}
}
