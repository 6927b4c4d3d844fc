package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/datawire/zerv/pkg/errors"
)

// reVersion is the regular expression from Appendix B of PEP 440, with comments and
// whitespace stripped so that Go's RE2 accepts it.
var reVersion = regexp.MustCompile(`(?i)^\s*` + regexp.MustCompile(`(?:\s+|#.*)`).ReplaceAllString(`
		v?
		(?:
		    (?:(?P<epoch>[0-9]+)!)?                           # epoch
		    (?P<release>[0-9]+(?:\.[0-9]+)*)                  # release segment
		    (?P<pre>                                          # pre-release
		        [-_\.]?
		        (?P<pre_l>(a|b|c|rc|alpha|beta|pre|preview))
		        [-_\.]?
		        (?P<pre_n>[0-9]+)?
		    )?
		    (?P<post>                                         # post release
		        (?:-(?P<post_n1>[0-9]+))
		        |
		        (?:
		            [-_\.]?
		            (?P<post_l>post|rev|r)
		            [-_\.]?
		            (?P<post_n2>[0-9]+)?
		        )
		    )?
		    (?P<dev>                                          # dev release
		        [-_\.]?
		        (?P<dev_l>dev)
		        [-_\.]?
		        (?P<dev_n>[0-9]+)?
		    )?
		)
		(?:\+(?P<local>[a-z0-9]+(?:[-_\.][a-z0-9]+)*))?       # local version
	`, ``) + `\s*$`)

var (
	preLetters = map[string][]string{
		"a":  {"alpha"},
		"b":  {"beta"},
		"rc": {"c", "pre", "preview"},
	}
	postLetters = map[string][]string{
		"post": {"", "rev", "r"},
	}
	devLetters = map[string][]string{
		"dev": nil,
	}
)

type letterNumber struct {
	L string
	N *int
}

func canonicalLetter(letter string, acceptableLetters map[string][]string) (string, bool) {
	if _, ok := acceptableLetters[letter]; ok {
		return letter, true
	}
	for canonical, others := range acceptableLetters {
		for _, other := range others {
			if letter == other {
				return canonical, true
			}
		}
	}
	return "", false
}

func parseLetterNumber(letter, number string, acceptableLetters map[string][]string) (*letterNumber, error) {
	if letter == "" && number == "" {
		//nolint:nilnil // absent segment
		return nil, nil
	}
	var ret letterNumber
	var ok bool
	ret.L, ok = canonicalLetter(strings.ToLower(letter), acceptableLetters)
	if !ok {
		return nil, fmt.Errorf("invalid string-part: %q", letter)
	}
	if number != "" {
		n, err := strconv.Atoi(number)
		if err != nil {
			return nil, err
		}
		ret.N = &n
	}
	return &ret, nil
}

// parseLocalSegment types one local segment: digits-only segments become integers (with
// leading zeros dropped), anything else a lower-case string.  intstr holds an int32, so
// digit runs too long for it are kept as their zero-stripped decimal string.
func parseLocalSegment(part string) intstr.IntOrString {
	part = strings.ToLower(part)
	if strings.Trim(part, "0123456789") != "" {
		return intstr.FromString(part)
	}
	trimmed := strings.TrimLeft(part, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	n, err := strconv.ParseInt(trimmed, 10, 32)
	if err != nil {
		return intstr.FromString(trimmed)
	}
	return intstr.FromInt(int(n))
}

func parseVersion(str string) (*Version, error) {
	match := reVersion.FindStringSubmatch(str)
	if match == nil {
		return nil, errInvalid(str)
	}
	wrap := func(what string, err error) error {
		return errors.Wrap(errors.ErrCodeParse, fmt.Sprintf("%s: %q", what, str), err)
	}

	var ver Version
	var err error

	if epoch := match[reVersion.SubexpIndex("epoch")]; epoch != "" {
		ver.Epoch, err = strconv.Atoi(epoch)
		if err != nil {
			return nil, wrap("epoch", err)
		}
	}

	for _, segStr := range strings.Split(match[reVersion.SubexpIndex("release")], ".") {
		segInt, err := strconv.Atoi(segStr)
		if err != nil {
			return nil, wrap("release", err)
		}
		ver.Release = append(ver.Release, segInt)
	}

	pre, err := parseLetterNumber(
		match[reVersion.SubexpIndex("pre_l")],
		match[reVersion.SubexpIndex("pre_n")],
		preLetters)
	if err != nil {
		return nil, wrap("pre-release", err)
	}
	if pre != nil {
		ver.Pre = &PreRelease{L: pre.L, N: pre.N}
	}

	post, err := parseLetterNumber(
		match[reVersion.SubexpIndex("post_l")],
		match[reVersion.SubexpIndex("post_n1")]+match[reVersion.SubexpIndex("post_n2")],
		postLetters)
	if err != nil {
		return nil, wrap("post-release", err)
	}
	if post != nil {
		ver.Post = implicitZero(post.N)
	}

	dev, err := parseLetterNumber(
		match[reVersion.SubexpIndex("dev_l")],
		match[reVersion.SubexpIndex("dev_n")],
		devLetters)
	if err != nil {
		return nil, wrap("dev", err)
	}
	if dev != nil {
		ver.Dev = implicitZero(dev.N)
	}

	if local := match[reVersion.SubexpIndex("local")]; local != "" {
		ver.Local = ParseLocalSegments(local)
	}

	return &ver, nil
}

func implicitZero(n *int) *int {
	if n == nil {
		var zero int
		return &zero
	}
	return n
}

// ParseLocalSegments splits a local version label on `.`, `-`, and `_`, typing each segment
// the same way ParseVersion does.
func ParseLocalSegments(label string) []intstr.IntOrString {
	parts := strings.FieldsFunc(label, func(r rune) bool {
		return strings.ContainsRune("-_.", r)
	})
	ret := make([]intstr.IntOrString, 0, len(parts))
	for _, part := range parts {
		ret = append(ret, parseLocalSegment(part))
	}
	return ret
}
