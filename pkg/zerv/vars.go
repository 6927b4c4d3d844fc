package zerv

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PreReleaseLabel is the normalized pre-release label.
type PreReleaseLabel string

const (
	LabelAlpha PreReleaseLabel = "alpha"
	LabelBeta  PreReleaseLabel = "beta"
	LabelRC    PreReleaseLabel = "rc"
)

var labelAliases = map[string]PreReleaseLabel{
	"alpha":   LabelAlpha,
	"a":       LabelAlpha,
	"beta":    LabelBeta,
	"b":       LabelBeta,
	"rc":      LabelRC,
	"c":       LabelRC,
	"pre":     LabelRC,
	"preview": LabelRC,
}

// ParsePreReleaseLabel maps any accepted spelling (case-insensitive) to its label.
func ParsePreReleaseLabel(str string) (PreReleaseLabel, bool) {
	label, ok := labelAliases[strings.ToLower(str)]
	return label, ok
}

// PEP440 returns the PEP 440 spelling of the label.
func (l PreReleaseLabel) PEP440() string {
	switch l {
	case LabelAlpha:
		return "a"
	case LabelBeta:
		return "b"
	default:
		return "rc"
	}
}

func (l *PreReleaseLabel) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	label, ok := ParsePreReleaseLabel(str)
	if !ok {
		return fmt.Errorf("invalid pre-release label: %q", str)
	}
	*l = label
	return nil
}

// PreRelease is a pre-release label with an optional number.
type PreRelease struct {
	Label  PreReleaseLabel `json:"label"`
	Number *uint64         `json:"number,omitempty"`
}

// Vars is the set of version variables.  Every field is optional, and absence is distinct
// from zero.
type Vars struct {
	Major      *uint64     `json:"major,omitempty"`
	Minor      *uint64     `json:"minor,omitempty"`
	Patch      *uint64     `json:"patch,omitempty"`
	Epoch      *uint64     `json:"epoch,omitempty"`
	PreRelease *PreRelease `json:"pre_release,omitempty"`
	Post       *uint64     `json:"post,omitempty"`
	Dev        *uint64     `json:"dev,omitempty"`

	// VCS state of the commit being versioned.
	Distance         *uint64 `json:"distance,omitempty"`
	Dirty            *bool   `json:"dirty,omitempty"`
	BumpedBranch     *string `json:"bumped_branch,omitempty"`
	BumpedCommitHash *string `json:"bumped_commit_hash,omitempty"`
	BumpedTimestamp  *int64  `json:"bumped_timestamp,omitempty"`

	// VCS state of the last matching tag.
	LastBranch     *string `json:"last_branch,omitempty"`
	LastCommitHash *string `json:"last_commit_hash,omitempty"`
	LastTimestamp  *int64  `json:"last_timestamp,omitempty"`

	Custom map[string]interface{} `json:"custom,omitempty"`
}

const shortHashLen = 7

func shortHash(hash *string) *string {
	if hash == nil {
		return nil
	}
	str := *hash
	if len(str) > shortHashLen {
		str = str[:shortHashLen]
	}
	return &str
}

// BumpedCommitHashShort returns the first 7 characters of the current commit hash.
func (v Vars) BumpedCommitHashShort() *string { return shortHash(v.BumpedCommitHash) }

// LastCommitHashShort returns the first 7 characters of the tagged commit hash.
func (v Vars) LastCommitHashShort() *string { return shortHash(v.LastCommitHash) }

// IsDirty reports whether the dirty flag is present and true.
func (v Vars) IsDirty() bool {
	return v.Dirty != nil && *v.Dirty
}

// LookupCustom resolves a dotted path inside the custom map.
func (v Vars) LookupCustom(path string) (interface{}, bool) {
	var cur interface{} = v.Custom
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Clone returns a deep copy.
func (v Vars) Clone() Vars {
	ret := v
	ret.Major = clonePtr(v.Major)
	ret.Minor = clonePtr(v.Minor)
	ret.Patch = clonePtr(v.Patch)
	ret.Epoch = clonePtr(v.Epoch)
	if v.PreRelease != nil {
		ret.PreRelease = &PreRelease{
			Label:  v.PreRelease.Label,
			Number: clonePtr(v.PreRelease.Number),
		}
	}
	ret.Post = clonePtr(v.Post)
	ret.Dev = clonePtr(v.Dev)
	ret.Distance = clonePtr(v.Distance)
	ret.Dirty = clonePtr(v.Dirty)
	ret.BumpedBranch = clonePtr(v.BumpedBranch)
	ret.BumpedCommitHash = clonePtr(v.BumpedCommitHash)
	ret.BumpedTimestamp = clonePtr(v.BumpedTimestamp)
	ret.LastBranch = clonePtr(v.LastBranch)
	ret.LastCommitHash = clonePtr(v.LastCommitHash)
	ret.LastTimestamp = clonePtr(v.LastTimestamp)
	if v.Custom != nil {
		ret.Custom = cloneValue(v.Custom).(map[string]interface{})
	}
	return ret
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneValue(val interface{}) interface{} {
	switch val := val.(type) {
	case map[string]interface{}:
		ret := make(map[string]interface{}, len(val))
		for k, v := range val {
			ret[k] = cloneValue(v)
		}
		return ret
	case []interface{}:
		ret := make([]interface{}, len(val))
		for i, v := range val {
			ret[i] = cloneValue(v)
		}
		return ret
	default:
		return val
	}
}
