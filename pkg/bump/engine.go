package bump

import (
	"context"
	"fmt"
	"math"

	"github.com/datawire/dlib/dlog"
	"github.com/samber/lo"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/reproducible"
	"github.com/datawire/zerv/pkg/zerv"
)

type engine struct {
	ctx   context.Context
	z     *zerv.Zerv
	order zerv.PrecedenceOrder

	// pos maps a component's index at the time the specs were compiled to its current
	// index, or -1 once a reset has removed it.
	pos map[zerv.Section][]int
}

// ApplyBumps applies b to z.  The schema must already be final, since component specs are
// resolved against it.  On error z is left unmodified.
func ApplyBumps(ctx context.Context, z *zerv.Zerv, b Bumps) error {
	if err := b.Validate(); err != nil {
		return err
	}
	specs := make(map[zerv.Section][]componentSpec)
	for _, sec := range zerv.Sections() {
		overrides, bumps := b.sectionSpecs(sec)
		compiled, err := compileSpecs(sec, overrides, bumps, len(*z.Schema.Section(sec)))
		if err != nil {
			return err
		}
		specs[sec] = compiled
	}

	e := &engine{
		ctx:   ctx,
		z:     z.Clone(),
		order: z.Schema.PrecedenceOrder,
		pos:   make(map[zerv.Section][]int),
	}
	for _, sec := range zerv.Sections() {
		e.pos[sec] = lo.Range(len(*e.z.Schema.Section(sec)))
	}

	for _, level := range e.order.Levels() {
		var err error
		switch level {
		case zerv.PrecEpoch:
			err = e.field(level, &e.z.Vars.Epoch, b.Epoch, b.BumpEpoch)
		case zerv.PrecMajor:
			err = e.field(level, &e.z.Vars.Major, b.Major, b.BumpMajor)
		case zerv.PrecMinor:
			err = e.field(level, &e.z.Vars.Minor, b.Minor, b.BumpMinor)
		case zerv.PrecPatch:
			err = e.field(level, &e.z.Vars.Patch, b.Patch, b.BumpPatch)
		case zerv.PrecPreReleaseLabel:
			err = e.preReleaseLabel(b.PreReleaseLabel, b.BumpPreReleaseLabel)
		case zerv.PrecPreReleaseNum:
			err = e.preReleaseNum(b.PreReleaseNum, b.BumpPreReleaseNum)
		case zerv.PrecPost:
			err = e.field(level, &e.z.Vars.Post, b.Post, b.BumpPost)
		case zerv.PrecDev:
			err = e.field(level, &e.z.Vars.Dev, b.Dev, b.BumpDev)
		case zerv.PrecCore:
			err = e.section(zerv.SectionCore, specs[zerv.SectionCore])
		case zerv.PrecExtraCore:
			err = e.section(zerv.SectionExtraCore, specs[zerv.SectionExtraCore])
		case zerv.PrecBuild:
			err = e.section(zerv.SectionBuild, specs[zerv.SectionBuild])
		default:
			panic(fmt.Errorf("unreachable: unknown precedence level %q", level))
		}
		if err != nil {
			return err
		}
	}

	if e.z.Vars.IsDirty() {
		now := reproducible.Now(ctx).Unix()
		dlog.Debugf(ctx, "bump: dirty, setting bumped_timestamp=%d", now)
		e.z.Vars.BumpedTimestamp = &now
	}

	*z = *e.z
	return nil
}

func add(level zerv.Precedence, cur *uint64, incr uint64) (*uint64, error) {
	base := uint64(0)
	if cur != nil {
		base = *cur
	}
	if base > math.MaxUint64-incr {
		return nil, errors.Newf(errors.ErrCodeArgument, "bumping %s by %d overflows", level, incr)
	}
	return lo.ToPtr(base + incr), nil
}

// field applies an override then a bump to a numeric variable.
func (e *engine) field(level zerv.Precedence, ptr **uint64, override, incr *uint64) error {
	if override != nil {
		dlog.Debugf(e.ctx, "bump: override %s=%d", level, *override)
		*ptr = lo.ToPtr(*override)
	}
	if incr != nil {
		val, err := add(level, *ptr, *incr)
		if err != nil {
			return err
		}
		dlog.Debugf(e.ctx, "bump: bump %s by %d to %d", level, *incr, *val)
		*ptr = val
		e.resetBelow(level)
	}
	return nil
}

func (e *engine) preReleaseLabel(override, bump string) error {
	vars := &e.z.Vars
	if override != "" {
		label, _ := zerv.ParsePreReleaseLabel(override)
		num := lo.ToPtr[uint64](0)
		if vars.PreRelease != nil && vars.PreRelease.Number != nil {
			num = lo.ToPtr(*vars.PreRelease.Number)
		}
		dlog.Debugf(e.ctx, "bump: override %s=%s", zerv.PrecPreReleaseLabel, label)
		vars.PreRelease = &zerv.PreRelease{Label: label, Number: num}
	}
	if bump != "" {
		label, _ := zerv.ParsePreReleaseLabel(bump)
		dlog.Debugf(e.ctx, "bump: bump %s to %s", zerv.PrecPreReleaseLabel, label)
		e.resetBelow(zerv.PrecPreReleaseLabel)
		vars.PreRelease = &zerv.PreRelease{Label: label, Number: lo.ToPtr[uint64](0)}
	}
	return nil
}

func (e *engine) preReleaseNum(override, incr *uint64) error {
	vars := &e.z.Vars
	if override != nil {
		dlog.Debugf(e.ctx, "bump: override %s=%d", zerv.PrecPreReleaseNum, *override)
		if vars.PreRelease == nil {
			vars.PreRelease = &zerv.PreRelease{Label: zerv.LabelAlpha}
		}
		vars.PreRelease.Number = lo.ToPtr(*override)
	}
	if incr != nil {
		if vars.PreRelease == nil {
			return errors.Newf(errors.ErrCodeArgument,
				"cannot bump the pre-release number by %d: the version has no pre-release label", *incr).
				WithContext("hint", "give a pre-release label override or bump as well")
		}
		val, err := add(zerv.PrecPreReleaseNum, vars.PreRelease.Number, *incr)
		if err != nil {
			return err
		}
		dlog.Debugf(e.ctx, "bump: bump %s by %d to %d", zerv.PrecPreReleaseNum, *incr, *val)
		vars.PreRelease.Number = val
		e.resetBelow(zerv.PrecPreReleaseNum)
	}
	return nil
}

// section applies component specs to one schema section.
func (e *engine) section(sec zerv.Section, specs []componentSpec) error {
	for _, spec := range specs {
		cur := e.pos[sec][spec.Index]
		if cur < 0 {
			dlog.Debugf(e.ctx, "bump: %s[%d] was removed by a reset; skipping", sec, spec.Index)
			continue
		}
		comps := e.z.Schema.Section(sec)
		what := fmt.Sprintf("%s[%d]", sec, spec.Index)
		switch c := (*comps)[cur].(type) {
		case zerv.Var:
			if err := e.sectionVar(what, c, spec); err != nil {
				return err
			}
		case zerv.Int:
			override, err := parseOptUint(what, spec.Override)
			if err != nil {
				return err
			}
			incr, err := parseOptUint(what, spec.Bump)
			if err != nil {
				return err
			}
			val := lo.ToPtr(uint64(c))
			if override != nil {
				val = override
			}
			if incr != nil {
				if val, err = add(sec.Precedence(), val, *incr); err != nil {
					return err
				}
			}
			dlog.Debugf(e.ctx, "bump: %s: %d -> %d", what, uint64(c), *val)
			(*comps)[cur] = zerv.Int(*val)
			if incr != nil {
				e.resetBelow(sec.Precedence())
			}
		case zerv.Str:
			if spec.Bump != nil {
				return errors.Newf(errors.ErrCodeArgument, "%s: cannot bump string component %q", what, string(c))
			}
			dlog.Debugf(e.ctx, "bump: %s: %q -> %q", what, string(c), *spec.Override)
			(*comps)[cur] = zerv.Str(*spec.Override)
		case zerv.Timestamp:
			return errors.Newf(errors.ErrCodeArgument, "%s: cannot bump or override timestamp component %q",
				what, string(c))
		default:
			panic(fmt.Errorf("unreachable: unknown component type %T", c))
		}
	}
	return nil
}

// sectionVar delegates a spec on a Var component to the variable it references.
func (e *engine) sectionVar(what string, name zerv.Var, spec componentSpec) error {
	override, err := parseOptUint(what, spec.Override)
	if err != nil {
		return err
	}
	incr, err := parseOptUint(what, spec.Bump)
	if err != nil {
		return err
	}
	vars := &e.z.Vars
	switch name {
	case zerv.FieldEpoch:
		return e.field(zerv.PrecEpoch, &vars.Epoch, override, incr)
	case zerv.FieldMajor:
		return e.field(zerv.PrecMajor, &vars.Major, override, incr)
	case zerv.FieldMinor:
		return e.field(zerv.PrecMinor, &vars.Minor, override, incr)
	case zerv.FieldPatch:
		return e.field(zerv.PrecPatch, &vars.Patch, override, incr)
	case zerv.FieldPreRelease:
		return e.preReleaseNum(override, incr)
	case zerv.FieldPost:
		return e.field(zerv.PrecPost, &vars.Post, override, incr)
	case zerv.FieldDev:
		return e.field(zerv.PrecDev, &vars.Dev, override, incr)
	default:
		return errors.Newf(errors.ErrCodeArgument, "%s: cannot bump or override variable %q", what, string(name))
	}
}

func (e *engine) resetBelow(level zerv.Precedence) {
	for _, lower := range e.order.Below(level) {
		e.reset(lower)
	}
}

func (e *engine) reset(level zerv.Precedence) {
	vars := &e.z.Vars
	switch level {
	case zerv.PrecEpoch:
		vars.Epoch = nil
	case zerv.PrecMajor:
		vars.Major = lo.ToPtr[uint64](0)
	case zerv.PrecMinor:
		vars.Minor = lo.ToPtr[uint64](0)
	case zerv.PrecPatch:
		vars.Patch = lo.ToPtr[uint64](0)
	case zerv.PrecPreReleaseLabel:
		vars.PreRelease = nil
	case zerv.PrecPreReleaseNum:
		if vars.PreRelease != nil {
			vars.PreRelease.Number = lo.ToPtr[uint64](0)
		}
	case zerv.PrecPost:
		vars.Post = nil
	case zerv.PrecDev:
		vars.Dev = nil
	case zerv.PrecCore:
		e.dropLiterals(zerv.SectionCore)
	case zerv.PrecExtraCore:
		e.dropLiterals(zerv.SectionExtraCore)
	case zerv.PrecBuild:
		e.dropLiterals(zerv.SectionBuild)
	}
}

func (e *engine) dropLiterals(sec zerv.Section) {
	comps := e.z.Schema.Section(sec)
	newIdx := make([]int, len(*comps))
	kept := (*comps)[:0]
	for i, c := range *comps {
		if zerv.IsLiteral(c) {
			newIdx[i] = -1
			continue
		}
		newIdx[i] = len(kept)
		kept = append(kept, c)
	}
	*comps = kept
	for i, cur := range e.pos[sec] {
		if cur >= 0 {
			e.pos[sec][i] = newIdx[cur]
		}
	}
}
