package zerv

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/datawire/zerv/pkg/version/semver"
)

// FromSemVer lifts a SemVer version into the canonical model.
//
// The pre-release identifiers are classified left to right.  A keyword (epoch, post, dev,
// or any pre-release label spelling, case-insensitive) followed by a numeric identifier
// sets that variable, unless the variable was already set by an earlier keyword.  A
// pre-release label with no number after it sets the pre-release with no number, again
// only if none is set yet.  A consumed keyword becomes a Var in extra_core; every other
// identifier stays a literal in extra_core, in its original position.  Build metadata
// becomes literals in build.
func FromSemVer(ver semver.Version) *Zerv {
	vars := Vars{
		Major: lo.ToPtr(ver.Major),
		Minor: lo.ToPtr(ver.Minor),
		Patch: lo.ToPtr(ver.Patch),
	}
	extraCore := classifyPreRelease(ver.Pre, &vars)
	build := lo.Map(ver.Build, func(id semver.Identifier, _ int) Component {
		return identifierComponent(id)
	})
	if len(build) == 0 {
		build = nil
	}
	return &Zerv{
		Schema: NewSchema(
			Components{Var(FieldMajor), Var(FieldMinor), Var(FieldPatch)},
			extraCore,
			build),
		Vars: vars,
	}
}

func identifierComponent(id semver.Identifier) Component {
	if id.IsNum {
		return Int(id.Num)
	}
	return Str(id.Str)
}

func classifyPreRelease(ids []semver.Identifier, vars *Vars) Components {
	var ret Components
	for i := 0; i < len(ids); i++ {
		id := ids[i]
		if id.IsNum {
			ret = append(ret, Int(id.Num))
			continue
		}
		keyword := strings.ToLower(id.Str)
		var next *uint64
		if i+1 < len(ids) && ids[i+1].IsNum {
			next = lo.ToPtr(ids[i+1].Num)
		}

		var consumed Var
		switch label, isLabel := ParsePreReleaseLabel(keyword); {
		case keyword == "epoch" && next != nil && vars.Epoch == nil:
			vars.Epoch = next
			consumed = FieldEpoch
		case keyword == "post" && next != nil && vars.Post == nil:
			vars.Post = next
			consumed = FieldPost
		case keyword == "dev" && next != nil && vars.Dev == nil:
			vars.Dev = next
			consumed = FieldDev
		case isLabel && vars.PreRelease == nil:
			vars.PreRelease = &PreRelease{Label: label, Number: next}
			consumed = FieldPreRelease
		}

		if consumed == "" {
			ret = append(ret, Str(id.Str))
			continue
		}
		ret = append(ret, consumed)
		if next != nil {
			i++
		}
	}
	return ret
}

var reSemVerUnsafe = regexp.MustCompile(`[^0-9A-Za-z-]+`)

// semverIdentifiers flattens a value into identifiers.  Pre-release identifiers may not be
// numeric with a leading zero, so such runs are renumbered; build metadata keeps them as
// strings.
func semverIdentifiers(val Value, pre bool) []semver.Identifier {
	if val.IsNum {
		if !pre && val.Text != "" {
			return []semver.Identifier{semver.ParseIdentifier(val.Text)}
		}
		return []semver.Identifier{semver.NumericIdentifier(val.Num)}
	}
	var ret []semver.Identifier
	for _, part := range strings.Split(reSemVerUnsafe.ReplaceAllString(val.Text, "."), ".") {
		if part == "" {
			continue
		}
		if pre && strings.Trim(part, "0123456789") == "" {
			if part = strings.TrimLeft(part, "0"); part == "" {
				part = "0"
			}
		}
		ret = append(ret, semver.ParseIdentifier(part))
	}
	return ret
}

// SemVer lowers the model into a SemVer version, driven by the schema.
//
// The first three numeric core values are major, minor, and patch (an absent major, minor,
// or patch counts as 0); remaining core values lead the pre-release.  The epoch,
// pre-release, post, and dev variables expand to a keyword plus number ("epoch.2",
// "alpha.1", "post.3", "dev.4") where they appear.  Other extra_core values follow in the
// pre-release, and build values become build metadata.
func (z *Zerv) SemVer() (*semver.Version, error) {
	var release []uint64
	var pre, build []semver.Identifier

	for _, sec := range Sections() {
		for _, c := range *z.Schema.Section(sec) {
			var vals []Value
			v, isVar := c.(Var)
			keyed := isVar && isSecondaryField(v)
			if keyed {
				vals = z.Vars.expandSecondary(v)
			} else {
				var err error
				vals, err = z.Resolve(c)
				if err != nil {
					return nil, err
				}
				if isVar && sec == SectionCore && len(vals) == 0 && isReleaseField(v) {
					vals = []Value{NumValue(0)}
				}
			}
			for _, val := range vals {
				switch {
				case sec == SectionCore && !keyed && val.IsNum && len(release) < 3:
					release = append(release, val.Num)
				case sec == SectionBuild:
					build = append(build, semverIdentifiers(val, false)...)
				default:
					pre = append(pre, semverIdentifiers(val, true)...)
				}
			}
		}
	}
	for len(release) < 3 {
		release = append(release, 0)
	}
	return &semver.Version{
		Major: release[0],
		Minor: release[1],
		Patch: release[2],
		Pre:   pre,
		Build: build,
	}, nil
}

// expandSecondary renders a secondary variable as keyword plus number.
func (v Vars) expandSecondary(name Var) []Value {
	switch name {
	case FieldEpoch:
		if v.Epoch != nil {
			return []Value{StrValue("epoch"), NumValue(*v.Epoch)}
		}
	case FieldPreRelease:
		return v.ResolveVar(FieldPreRelease)
	case FieldPost:
		if v.Post != nil {
			return []Value{StrValue("post"), NumValue(*v.Post)}
		}
	case FieldDev:
		if v.Dev != nil {
			return []Value{StrValue("dev"), NumValue(*v.Dev)}
		}
	}
	return nil
}

// SemVerString renders the model as a SemVer string.
func (z *Zerv) SemVerString() (string, error) {
	ver, err := z.SemVer()
	if err != nil {
		return "", err
	}
	return ver.String(), nil
}
