package bump

import (
	"sort"
	"strconv"
	"strings"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/zerv"
)

// componentSpec is the override and/or bump requested for one schema component.
type componentSpec struct {
	Index    int
	Override *string
	Bump     *string
}

func argError(sec zerv.Section, spec, format string, args ...interface{}) error {
	return errors.Newf(errors.ErrCodeArgument, format, args...).
		WithContext("section", sec).
		WithContext("spec", spec)
}

func parseIndex(sec zerv.Section, spec, str string, length int) (int, error) {
	idx, err := strconv.Atoi(str)
	if err != nil {
		return 0, argError(sec, spec, "invalid component index %q", str)
	}
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, argError(sec, spec, "component index %s out of range for a section of %d components", str, length)
	}
	return idx, nil
}

// parseSpec parses "INDEX=VALUE", or bare "INDEX" when dflt is non-nil.
func parseSpec(sec zerv.Section, spec string, length int, dflt *string) (int, string, error) {
	idxStr, val, hasVal := strings.Cut(spec, "=")
	if !hasVal {
		if dflt == nil {
			return 0, "", argError(sec, spec, "override %q requires a value (INDEX=VALUE)", spec)
		}
		val = *dflt
	}
	idx, err := parseIndex(sec, spec, idxStr, length)
	if err != nil {
		return 0, "", err
	}
	if strings.HasPrefix(val, "-") {
		if _, err := strconv.ParseInt(val, 10, 64); err == nil {
			return 0, "", argError(sec, spec, "negative value %s not supported", val)
		}
	}
	return idx, val, nil
}

// compileSpecs resolves the section's specs against its current length, merging the
// override and bump for the same index, sorted by index.
func compileSpecs(sec zerv.Section, overrides, bumps []string, length int) ([]componentSpec, error) {
	byIndex := make(map[int]*componentSpec)
	get := func(idx int) *componentSpec {
		if byIndex[idx] == nil {
			byIndex[idx] = &componentSpec{Index: idx}
		}
		return byIndex[idx]
	}
	for _, spec := range overrides {
		idx, val, err := parseSpec(sec, spec, length, nil)
		if err != nil {
			return nil, err
		}
		cs := get(idx)
		if cs.Override != nil {
			return nil, argError(sec, spec, "duplicate override for component %d", idx)
		}
		cs.Override = &val
	}
	one := "1"
	for _, spec := range bumps {
		idx, val, err := parseSpec(sec, spec, length, &one)
		if err != nil {
			return nil, err
		}
		cs := get(idx)
		if cs.Bump != nil {
			return nil, argError(sec, spec, "duplicate bump for component %d", idx)
		}
		cs.Bump = &val
	}
	ret := make([]componentSpec, 0, len(byIndex))
	for _, cs := range byIndex {
		ret = append(ret, *cs)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Index < ret[j].Index })
	return ret, nil
}

func parseUint(what, str string) (*uint64, error) {
	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return nil, errors.Newf(errors.ErrCodeArgument, "%s: expected a non-negative integer, got %q", what, str)
	}
	return &n, nil
}

func parseOptUint(what string, str *string) (*uint64, error) {
	if str == nil {
		return nil, nil
	}
	return parseUint(what, *str)
}
