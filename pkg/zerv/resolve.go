package zerv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/datawire/zerv/pkg/errors"
)

func numValues(n *uint64) []Value {
	if n == nil {
		return nil
	}
	return []Value{NumValue(*n)}
}

func strValues(s *string) []Value {
	if s == nil || *s == "" {
		return nil
	}
	return []Value{StrValue(*s)}
}

func tsValues(ts *int64) []Value {
	if ts == nil || *ts < 0 {
		return nil
	}
	return []Value{NumValue(uint64(*ts))}
}

// ResolveVar returns the values that a variable contributes to a rendered section, or nil
// if the variable is absent.  The pre-release variable contributes its label and, if
// present, its number.
func (v Vars) ResolveVar(name Var) []Value {
	switch name {
	case FieldMajor:
		return numValues(v.Major)
	case FieldMinor:
		return numValues(v.Minor)
	case FieldPatch:
		return numValues(v.Patch)
	case FieldEpoch:
		return numValues(v.Epoch)
	case FieldPreRelease:
		if v.PreRelease == nil {
			return nil
		}
		return append([]Value{StrValue(string(v.PreRelease.Label))}, numValues(v.PreRelease.Number)...)
	case FieldPost:
		return numValues(v.Post)
	case FieldDev:
		return numValues(v.Dev)
	case FieldDistance:
		return numValues(v.Distance)
	case FieldDirty:
		if v.Dirty == nil {
			return nil
		}
		return []Value{StrValue(strconv.FormatBool(*v.Dirty))}
	case FieldBranch, FieldBumpedBranch:
		return strValues(v.BumpedBranch)
	case FieldCommitHashShort, FieldBumpedCommitHashShort:
		return strValues(v.BumpedCommitHashShort())
	case FieldBumpedCommitHash:
		return strValues(v.BumpedCommitHash)
	case FieldBumpedTimestamp:
		return tsValues(v.BumpedTimestamp)
	case FieldLastBranch:
		return strValues(v.LastBranch)
	case FieldLastCommitHash:
		return strValues(v.LastCommitHash)
	case FieldLastCommitHashShort:
		return strValues(v.LastCommitHashShort())
	case FieldLastTimestamp:
		return tsValues(v.LastTimestamp)
	}
	if strings.HasPrefix(string(name), CustomPrefix) {
		raw, ok := v.LookupCustom(strings.TrimPrefix(string(name), CustomPrefix))
		if !ok {
			return nil
		}
		val, ok := scalarValue(raw)
		if !ok {
			return nil
		}
		return []Value{val}
	}
	return nil
}

// timestamp is the instant that Timestamp components render: the current commit's time,
// falling back to the tag's time.
func (v Vars) timestamp() *int64 {
	if v.BumpedTimestamp != nil {
		return v.BumpedTimestamp
	}
	return v.LastTimestamp
}

// Resolve returns the values that one component contributes.  Literal components always
// contribute exactly one value; an absent variable contributes none; a Timestamp
// component with no timestamp to render fails with errors.ErrCodeMissingData.
func (z *Zerv) Resolve(c Component) ([]Value, error) {
	switch c := c.(type) {
	case Str:
		return []Value{StrValue(string(c))}, nil
	case Int:
		return []Value{NumValue(uint64(c))}, nil
	case Var:
		return z.Vars.ResolveVar(c), nil
	case Timestamp:
		ts := z.Vars.timestamp()
		if ts == nil {
			return nil, errors.Newf(errors.ErrCodeMissingData,
				"timestamp pattern %q requires bumped_timestamp or last_timestamp", string(c))
		}
		val, err := FormatTimestamp(string(c), *ts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, fmt.Sprintf("timestamp pattern %q", string(c)), err)
		}
		return []Value{val}, nil
	default:
		panic(fmt.Errorf("unreachable: unknown component type %T", c))
	}
}

// ResolveSection resolves every component of a section, in order.
func (z *Zerv) ResolveSection(sec Section) ([]Value, error) {
	var ret []Value
	for _, c := range *z.Schema.Section(sec) {
		vals, err := z.Resolve(c)
		if err != nil {
			return nil, err
		}
		ret = append(ret, vals...)
	}
	return ret, nil
}

// RenderSection resolves a section and joins its values with sep.  A section whose
// components are all absent renders as "".
func (z *Zerv) RenderSection(sec Section, sep string) (string, error) {
	vals, err := z.ResolveSection(sec)
	if err != nil {
		return "", err
	}
	strs := make([]string, 0, len(vals))
	for _, val := range vals {
		strs = append(strs, val.String())
	}
	return strings.Join(strs, sep), nil
}

// Render renders the schema directly, without going through either grammar:
// "CORE[-EXTRA_CORE][+BUILD]", each section dot-joined and empty sections omitted.
func (z *Zerv) Render() (string, error) {
	var ret strings.Builder
	for _, part := range []struct {
		sec    Section
		prefix string
	}{
		{SectionCore, ""},
		{SectionExtraCore, "-"},
		{SectionBuild, "+"},
	} {
		str, err := z.RenderSection(part.sec, ".")
		if err != nil {
			return "", err
		}
		if str == "" {
			continue
		}
		if ret.Len() > 0 {
			ret.WriteString(part.prefix)
		}
		ret.WriteString(str)
	}
	return ret.String(), nil
}
