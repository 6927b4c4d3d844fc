package zerv

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/version/pep440"
)

// FromPEP440 lifts a PEP 440 version into the canonical model.
//
// The first three release segments become major, minor, and patch (missing ones stay
// absent); further release segments become Int literals in core.  Epoch (if non-zero),
// pre-release, post, and dev each populate their variable and add a Var to extra_core.  The
// local label becomes literals in build, typed as parsed.
func FromPEP440(ver pep440.Version) *Zerv {
	var vars Vars
	core := Components{Var(FieldMajor), Var(FieldMinor), Var(FieldPatch)}
	for i, seg := range ver.Release {
		n := uint64(seg)
		switch i {
		case 0:
			vars.Major = &n
		case 1:
			vars.Minor = &n
		case 2:
			vars.Patch = &n
		default:
			core = append(core, Int(n))
		}
	}

	var extraCore Components
	if ver.Epoch > 0 {
		vars.Epoch = lo.ToPtr(uint64(ver.Epoch))
		extraCore = append(extraCore, Var(FieldEpoch))
	}
	if ver.Pre != nil {
		label, _ := ParsePreReleaseLabel(ver.Pre.L)
		vars.PreRelease = &PreRelease{Label: label}
		if ver.Pre.N != nil {
			vars.PreRelease.Number = lo.ToPtr(uint64(*ver.Pre.N))
		}
		extraCore = append(extraCore, Var(FieldPreRelease))
	}
	if ver.Post != nil {
		vars.Post = lo.ToPtr(uint64(*ver.Post))
		extraCore = append(extraCore, Var(FieldPost))
	}
	if ver.Dev != nil {
		vars.Dev = lo.ToPtr(uint64(*ver.Dev))
		extraCore = append(extraCore, Var(FieldDev))
	}

	build := lo.Map(ver.Local, func(seg intstr.IntOrString, _ int) Component {
		if seg.Type == intstr.Int {
			return Int(uint64(seg.IntVal))
		}
		return Str(seg.StrVal)
	})
	if len(build) == 0 {
		build = nil
	}

	return &Zerv{
		Schema: NewSchema(core, extraCore, build),
		Vars:   vars,
	}
}

var rePEP440LocalUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// pep440Local flattens a value into local version segments.
func pep440Local(val Value) []intstr.IntOrString {
	if val.IsNum && val.Num <= math.MaxInt32 {
		return []intstr.IntOrString{intstr.FromInt(int(val.Num))}
	}
	text := rePEP440LocalUnsafe.ReplaceAllString(strings.ToLower(val.String()), ".")
	return pep440.ParseLocalSegments(text)
}

// toInt bounds the numbers that pep440.Version holds as int.  Local segments are narrower;
// see pep440Local.
func toInt(n uint64, what string) (int, error) {
	if n > math.MaxInt {
		return 0, errors.Newf(errors.ErrCodeConversion, "%s %d is too large for a PEP 440 version", what, n)
	}
	return int(n), nil
}

// PEP440 lowers the model into a PEP 440 version, driven by the schema.
//
// In core, major/minor/patch (absent counts as 0) and any other numeric value become release
// segments, and non-numeric values go to the local label.  The epoch, pre-release, post, and
// dev variables fill their dedicated segments wherever they appear.  Everything else in
// extra_core and build is flattened into the local label, in schema order.
func (z *Zerv) PEP440() (*pep440.Version, error) {
	var ver pep440.Version
	var local []intstr.IntOrString

	secondary := func(name Var) error {
		switch name {
		case FieldEpoch:
			if z.Vars.Epoch != nil {
				n, err := toInt(*z.Vars.Epoch, "epoch")
				if err != nil {
					return err
				}
				ver.Epoch = n
			}
		case FieldPreRelease:
			if pre := z.Vars.PreRelease; pre != nil {
				ver.Pre = &pep440.PreRelease{L: pre.Label.PEP440()}
				if pre.Number != nil {
					n, err := toInt(*pre.Number, "pre-release number")
					if err != nil {
						return err
					}
					ver.Pre.N = &n
				}
			}
		case FieldPost:
			if z.Vars.Post != nil {
				n, err := toInt(*z.Vars.Post, "post-release number")
				if err != nil {
					return err
				}
				ver.Post = &n
			}
		case FieldDev:
			if z.Vars.Dev != nil {
				n, err := toInt(*z.Vars.Dev, "dev-release number")
				if err != nil {
					return err
				}
				ver.Dev = &n
			}
		}
		return nil
	}

	for _, sec := range Sections() {
		for _, c := range *z.Schema.Section(sec) {
			if v, ok := c.(Var); ok && isSecondaryField(v) {
				if err := secondary(v); err != nil {
					return nil, err
				}
				continue
			}
			vals, err := z.Resolve(c)
			if err != nil {
				return nil, err
			}
			if sec == SectionCore {
				if v, ok := c.(Var); ok && len(vals) == 0 && isReleaseField(v) {
					vals = []Value{NumValue(0)}
				}
			}
			for _, val := range vals {
				if sec == SectionCore && val.IsNum {
					n, err := toInt(val.Num, "release segment")
					if err != nil {
						return nil, err
					}
					ver.Release = append(ver.Release, n)
					continue
				}
				local = append(local, pep440Local(val)...)
			}
		}
	}
	if len(ver.Release) == 0 {
		ver.Release = []int{0}
	}
	if len(local) > 0 {
		ver.Local = local
	}
	return &ver, nil
}

func isReleaseField(name Var) bool {
	switch name {
	case FieldMajor, FieldMinor, FieldPatch:
		return true
	default:
		return false
	}
}

// PEP440String renders the model as a normalized PEP 440 string.
func (z *Zerv) PEP440String() (string, error) {
	ver, err := z.PEP440()
	if err != nil {
		return "", fmt.Errorf("zerv.PEP440: %w", err)
	}
	return ver.String(), nil
}
