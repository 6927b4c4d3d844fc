package zerv

import (
	"fmt"
	"strings"

	"github.com/datawire/zerv/pkg/errors"
)

// Variable names that a Var component may reference.
const (
	FieldMajor      = "major"
	FieldMinor      = "minor"
	FieldPatch      = "patch"
	FieldEpoch      = "epoch"
	FieldPreRelease = "pre_release"
	FieldPost       = "post"
	FieldDev        = "dev"

	FieldDistance              = "distance"
	FieldDirty                 = "dirty"
	FieldBranch                = "branch" // alias of bumped_branch
	FieldCommitHashShort       = "commit_hash_short"
	FieldBumpedBranch          = "bumped_branch"
	FieldBumpedCommitHash      = "bumped_commit_hash"
	FieldBumpedCommitHashShort = "bumped_commit_hash_short"
	FieldBumpedTimestamp       = "bumped_timestamp"
	FieldLastBranch            = "last_branch"
	FieldLastCommitHash        = "last_commit_hash"
	FieldLastCommitHashShort   = "last_commit_hash_short"
	FieldLastTimestamp         = "last_timestamp"

	// CustomPrefix introduces a dotted path into Vars.Custom, e.g. "custom.build_id".
	CustomPrefix = "custom."
)

var knownFields = map[string]bool{
	FieldMajor:                 true,
	FieldMinor:                 true,
	FieldPatch:                 true,
	FieldEpoch:                 true,
	FieldPreRelease:            true,
	FieldPost:                  true,
	FieldDev:                   true,
	FieldDistance:              true,
	FieldDirty:                 true,
	FieldBranch:                true,
	FieldCommitHashShort:       true,
	FieldBumpedBranch:          true,
	FieldBumpedCommitHash:      true,
	FieldBumpedCommitHashShort: true,
	FieldBumpedTimestamp:       true,
	FieldLastBranch:            true,
	FieldLastCommitHash:        true,
	FieldLastCommitHashShort:   true,
	FieldLastTimestamp:         true,
}

// IsKnownField reports whether name may be referenced by a Var component.
func IsKnownField(name string) bool {
	if knownFields[name] {
		return true
	}
	return strings.HasPrefix(name, CustomPrefix) && len(name) > len(CustomPrefix)
}

// isSecondaryField reports whether name is one of the fields that the grammars give a
// dedicated slot to (epoch, pre-release, post, dev) rather than a positional identifier.
func isSecondaryField(name Var) bool {
	switch name {
	case FieldEpoch, FieldPreRelease, FieldPost, FieldDev:
		return true
	default:
		return false
	}
}

// Section names a schema section.
type Section string

const (
	SectionCore      Section = "core"
	SectionExtraCore Section = "extra_core"
	SectionBuild     Section = "build"
)

// Precedence returns the precedence level of the section.
func (s Section) Precedence() Precedence {
	switch s {
	case SectionCore:
		return PrecCore
	case SectionExtraCore:
		return PrecExtraCore
	default:
		return PrecBuild
	}
}

// Schema describes how to render Vars: three ordered sections plus the precedence order used
// by the bump engine.
type Schema struct {
	Core            Components      `json:"core"`
	ExtraCore       Components      `json:"extra_core"`
	Build           Components      `json:"build"`
	PrecedenceOrder PrecedenceOrder `json:"precedence_order"`
}

// NewSchema returns a schema with the default precedence order.
func NewSchema(core, extraCore, build Components) Schema {
	return Schema{
		Core:            core,
		ExtraCore:       extraCore,
		Build:           build,
		PrecedenceOrder: DefaultPrecedenceOrder(),
	}
}

// Section returns a pointer to the named section.
func (s *Schema) Section(sec Section) *Components {
	switch sec {
	case SectionCore:
		return &s.Core
	case SectionExtraCore:
		return &s.ExtraCore
	case SectionBuild:
		return &s.Build
	default:
		panic("unknown schema section " + string(sec))
	}
}

// Sections lists the section names in rendering order.
func Sections() []Section {
	return []Section{SectionCore, SectionExtraCore, SectionBuild}
}

// Clone returns a deep copy.
func (s Schema) Clone() Schema {
	ret := s
	ret.Core = append(Components(nil), s.Core...)
	ret.ExtraCore = append(Components(nil), s.ExtraCore...)
	ret.Build = append(Components(nil), s.Build...)
	ret.PrecedenceOrder = s.PrecedenceOrder.orDefault()
	return ret
}

// Validate checks every component reference; it fails with errors.ErrCodeSchema naming the
// offending identifier.
func (s Schema) Validate() error {
	if len(s.Core)+len(s.ExtraCore)+len(s.Build) == 0 {
		return errors.New(errors.ErrCodeSchema, "schema must contain at least one component")
	}
	for _, sec := range Sections() {
		for i, c := range *s.Section(sec) {
			switch c := c.(type) {
			case Str, Int:
			case Var:
				if !IsKnownField(string(c)) {
					return errors.Newf(errors.ErrCodeSchema, "unknown variable %q", string(c)).
						WithContext("section", sec).
						WithContext("index", i)
				}
			case Timestamp:
				if err := ValidateTimestampPattern(string(c)); err != nil {
					return errors.Wrap(errors.ErrCodeSchema,
						fmt.Sprintf("invalid timestamp pattern %q", string(c)), err).
						WithContext("section", sec).
						WithContext("index", i)
				}
			default:
				return errors.Newf(errors.ErrCodeSchema, "unknown component type %T", c)
			}
		}
	}
	return nil
}
