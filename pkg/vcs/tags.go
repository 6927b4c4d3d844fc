package vcs

import (
	"context"

	"github.com/datawire/dlib/dlog"
	"github.com/gobwas/glob"
	"github.com/samber/lo"

	"github.com/datawire/zerv/pkg/version/pep440"
	"github.com/datawire/zerv/pkg/version/semver"
	"github.com/datawire/zerv/pkg/zerv"
)

type taggedVersion struct {
	Tag    string
	Format string
	SemVer *semver.Version
	PEP440 *pep440.Version
}

func parseTag(tag, format string) (taggedVersion, bool) {
	ret := taggedVersion{Tag: tag}
	switch format {
	case zerv.FormatSemVer:
		ver, err := semver.ParseVersion(tag)
		if err != nil {
			return ret, false
		}
		ret.Format, ret.SemVer = zerv.FormatSemVer, ver
		return ret, true
	case zerv.FormatPEP440:
		ver, err := pep440.ParseVersion(tag)
		if err != nil {
			return ret, false
		}
		ret.Format, ret.PEP440 = zerv.FormatPEP440, ver
		return ret, true
	default:
		if ret, ok := parseTag(tag, zerv.FormatSemVer); ok {
			return ret, true
		}
		return parseTag(tag, zerv.FormatPEP440)
	}
}

// less orders two versions of the same format.
func (a taggedVersion) less(b taggedVersion) bool {
	if a.Format == zerv.FormatSemVer {
		return a.SemVer.Cmp(*b.SemVer) < 0
	}
	return a.PEP440.Cmp(*b.PEP440) < 0
}

// selectTag picks the highest version among the tags that match pattern (a nil pattern
// matches everything) and parse in format.  With the auto format, each tag is detected
// separately and only tags of the most common format (SemVer on a tie) are compared, since
// the two orderings are not comparable.
func selectTag(ctx context.Context, tags []string, pattern glob.Glob, format string) (string, bool) {
	versions := lo.FilterMap(tags, func(tag string, _ int) (taggedVersion, bool) {
		if pattern != nil && !pattern.Match(tag) {
			return taggedVersion{}, false
		}
		ver, ok := parseTag(tag, format)
		if !ok {
			dlog.Warnf(ctx, "skipping tag %q: not a valid version", tag)
		}
		return ver, ok
	})
	if len(versions) == 0 {
		return "", false
	}

	nSemVer := lo.CountBy(versions, func(v taggedVersion) bool { return v.Format == zerv.FormatSemVer })
	majority := zerv.FormatSemVer
	if nSemVer*2 < len(versions) {
		majority = zerv.FormatPEP440
	}
	versions = lo.Filter(versions, func(v taggedVersion, _ int) bool { return v.Format == majority })

	best := lo.MaxBy(versions, func(a, b taggedVersion) bool { return b.less(a) })
	dlog.Debugf(ctx, "vcs: selected tag %q (%s) from %d candidates", best.Tag, best.Format, len(versions))
	return best.Tag, true
}
