package zerv

import (
	"sort"
	"strings"

	"github.com/datawire/zerv/pkg/errors"
)

// Preset names.  The "standard" and "calver" families pick a tier from the variables; the
// "-base*" names are fixed schemas.
const (
	PresetStandard          = "standard"
	PresetStandardNoContext = "standard-no-context"
	PresetStandardContext   = "standard-context"
	PresetCalVer            = "calver"
	PresetCalVerNoContext   = "calver-no-context"
	PresetCalVerContext     = "calver-context"

	presetZervStandard = "zerv-standard"
	presetZervCalVer   = "zerv-calver"
)

// Tier is the VCS state that a smart preset adapts to.
type Tier int

const (
	// TierTagged is a clean checkout of a tagged commit.
	TierTagged Tier = 1
	// TierDistance is a clean checkout some commits past the tag.
	TierDistance Tier = 2
	// TierDirty is a checkout with uncommitted changes.
	TierDirty Tier = 3
)

// TierOf classifies the variables.
func TierOf(v Vars) Tier {
	switch {
	case v.IsDirty():
		return TierDirty
	case v.Distance != nil && *v.Distance > 0:
		return TierDistance
	default:
		return TierTagged
	}
}

func standardCore() Components {
	return Components{Var(FieldMajor), Var(FieldMinor), Var(FieldPatch)}
}

func calverCore() Components {
	return Components{Timestamp("YYYY"), Timestamp("MM"), Timestamp("DD"), Var(FieldPatch)}
}

func buildContext() Components {
	return Components{Var(FieldBumpedBranch), Var(FieldDistance), Var(FieldBumpedCommitHashShort)}
}

type extraLevel int

const (
	extraBase extraLevel = iota
	extraPreRelease
	extraPost
	extraDev
)

var extraSuffix = map[extraLevel]string{
	extraBase:       "",
	extraPreRelease: "-prerelease",
	extraPost:       "-prerelease-post",
	extraDev:        "-prerelease-post-dev",
}

func (l extraLevel) components() Components {
	switch l {
	case extraBase:
		return Components{Var(FieldEpoch)}
	case extraPreRelease:
		return Components{Var(FieldEpoch), Var(FieldPreRelease)}
	case extraPost:
		return Components{Var(FieldEpoch), Var(FieldPreRelease), Var(FieldPost)}
	default:
		return Components{Var(FieldEpoch), Var(FieldPreRelease), Var(FieldPost), Var(FieldDev)}
	}
}

func fixedSchema(core Components, level extraLevel, withContext bool) Schema {
	var build Components
	if withContext {
		build = buildContext()
	}
	return NewSchema(core, level.components(), build)
}

func smartLevel(v Vars) extraLevel {
	switch {
	case v.IsDirty():
		return extraDev
	case v.Distance != nil && *v.Distance > 0, v.PreRelease != nil && v.Post != nil:
		return extraPost
	case v.PreRelease != nil:
		return extraPreRelease
	default:
		return extraBase
	}
}

type presetFunc func(Vars) Schema

var presets = map[string]presetFunc{}

func init() {
	families := []struct {
		name string
		core func() Components
	}{
		{"standard", standardCore},
		{"calver", calverCore},
	}
	for _, family := range families {
		core := family.core
		for level, suffix := range extraSuffix {
			level := level
			presets[family.name+"-base"+suffix] = func(Vars) Schema {
				return fixedSchema(core(), level, false)
			}
			presets[family.name+"-base"+suffix+"-context"] = func(Vars) Schema {
				return fixedSchema(core(), level, true)
			}
		}
		presets[family.name] = func(v Vars) Schema {
			tier := TierOf(v)
			return fixedSchema(core(), smartLevel(v), tier != TierTagged)
		}
		presets[family.name+"-no-context"] = func(v Vars) Schema {
			return fixedSchema(core(), smartLevel(v), false)
		}
		presets[family.name+"-context"] = func(v Vars) Schema {
			return fixedSchema(core(), smartLevel(v), true)
		}
	}
	presets[presetZervStandard] = presets[PresetStandard]
	presets[presetZervCalVer] = presets[PresetCalVer]
}

// PresetNames lists every preset name, sorted.
func PresetNames() []string {
	ret := make([]string, 0, len(presets))
	for name := range presets {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// IsPreset reports whether name is a known preset.
func IsPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// Preset returns the named preset's schema for the given variables.  Smart presets choose
// the extra_core components from the variables and add the VCS build context when the
// checkout is not a clean tagged commit.
func Preset(name string, vars Vars) (Schema, error) {
	fn, ok := presets[name]
	if !ok {
		return Schema{}, errors.Newf(errors.ErrCodeSchema, "unknown schema preset %q", name).
			WithContext("known", strings.Join(PresetNames(), ","))
	}
	return fn(vars), nil
}
