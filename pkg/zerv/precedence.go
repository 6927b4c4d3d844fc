package zerv

import (
	"encoding/json"
	"fmt"
)

// Precedence is a rank assigned to a version field or schema section by the bump engine.
type Precedence string

const (
	PrecEpoch           Precedence = "epoch"
	PrecMajor           Precedence = "major"
	PrecMinor           Precedence = "minor"
	PrecPatch           Precedence = "patch"
	PrecCore            Precedence = "core"
	PrecPreReleaseLabel Precedence = "pre_release_label"
	PrecPreReleaseNum   Precedence = "pre_release_num"
	PrecPost            Precedence = "post"
	PrecDev             Precedence = "dev"
	PrecExtraCore       Precedence = "extra_core"
	PrecBuild           Precedence = "build"
)

var defaultPrecedence = []Precedence{
	PrecEpoch,
	PrecMajor,
	PrecMinor,
	PrecPatch,
	PrecCore,
	PrecPreReleaseLabel,
	PrecPreReleaseNum,
	PrecPost,
	PrecDev,
	PrecExtraCore,
	PrecBuild,
}

// PrecedenceOrder is a total order over every Precedence, highest first.  It is indexable
// both ways: by position (Levels) and by level (Index).  The zero value is not usable; use
// DefaultPrecedenceOrder or NewPrecedenceOrder.
type PrecedenceOrder struct {
	levels []Precedence
	index  map[Precedence]int
}

// DefaultPrecedenceOrder returns the PEP 440 order: epoch, major, minor, patch, core,
// pre-release label, pre-release number, post, dev, extra_core, build.
func DefaultPrecedenceOrder() PrecedenceOrder {
	ret, err := NewPrecedenceOrder(defaultPrecedence)
	if err != nil {
		panic(err)
	}
	return ret
}

// NewPrecedenceOrder validates that levels is a permutation of every Precedence.
func NewPrecedenceOrder(levels []Precedence) (PrecedenceOrder, error) {
	known := make(map[Precedence]bool, len(defaultPrecedence))
	for _, p := range defaultPrecedence {
		known[p] = true
	}
	ret := PrecedenceOrder{
		levels: append([]Precedence(nil), levels...),
		index:  make(map[Precedence]int, len(levels)),
	}
	for i, p := range levels {
		if !known[p] {
			return PrecedenceOrder{}, fmt.Errorf("unknown precedence level %q", p)
		}
		if _, dup := ret.index[p]; dup {
			return PrecedenceOrder{}, fmt.Errorf("duplicate precedence level %q", p)
		}
		ret.index[p] = i
	}
	if len(ret.index) != len(known) {
		return PrecedenceOrder{}, fmt.Errorf("precedence order must list all %d levels, got %d",
			len(known), len(ret.index))
	}
	return ret, nil
}

func (o PrecedenceOrder) valid() bool {
	return len(o.levels) == len(defaultPrecedence)
}

func (o PrecedenceOrder) orDefault() PrecedenceOrder {
	if o.valid() {
		return o
	}
	return DefaultPrecedenceOrder()
}

// Levels returns the levels, highest precedence first.
func (o PrecedenceOrder) Levels() []Precedence {
	return append([]Precedence(nil), o.orDefault().levels...)
}

// Index returns the position of p; lower is higher precedence.
func (o PrecedenceOrder) Index(p Precedence) int {
	i, ok := o.orDefault().index[p]
	if !ok {
		panic(fmt.Errorf("unknown precedence level %q", p))
	}
	return i
}

// Below returns every level strictly lower than p, in order.
func (o PrecedenceOrder) Below(p Precedence) []Precedence {
	o = o.orDefault()
	return append([]Precedence(nil), o.levels[o.index[p]+1:]...)
}

func (o PrecedenceOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.orDefault().levels)
}

func (o *PrecedenceOrder) UnmarshalJSON(data []byte) error {
	var levels []Precedence
	if err := json.Unmarshal(data, &levels); err != nil {
		return err
	}
	if levels == nil {
		*o = DefaultPrecedenceOrder()
		return nil
	}
	ret, err := NewPrecedenceOrder(levels)
	if err != nil {
		return err
	}
	*o = ret
	return nil
}
