package bump

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/datawire/dlib/dlog"
	"github.com/samber/lo"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/zerv"
)

// Context overrides the VCS-derived variables.  It is applied before the schema is chosen,
// since the smart presets look at distance and dirty.
type Context struct {
	// TagVersion replaces epoch, major, minor, patch, pre-release, post, and dev with those
	// parsed from this version string, in InputFormat.
	TagVersion  string
	InputFormat string

	Distance *uint64
	Dirty    bool
	NoDirty  bool
	// Clean means "distance absent, not dirty".
	Clean bool

	BumpedBranch     *string
	BumpedCommitHash *string
	BumpedTimestamp  *int64

	// Custom is a JSON object that replaces Vars.Custom.
	Custom string

	// BumpContext asks for the VCS context to be kept, which it is unless NoBumpContext is
	// set.  It only matters to Validate, which rejects it alongside NoBumpContext.
	BumpContext bool
	// NoBumpContext forces a clean, distance-0 state with no bumped_* metadata.
	NoBumpContext bool
}

// Validate rejects conflicting options.
func (c Context) Validate() error {
	conflict := func(a, b string) error {
		return errors.Newf(errors.ErrCodeConflict, "cannot use --%s with --%s", a, b)
	}
	switch {
	case c.Dirty && c.NoDirty:
		return conflict("dirty", "no-dirty")
	case c.Clean && c.Distance != nil:
		return conflict("clean", "distance")
	case c.Clean && c.Dirty:
		return conflict("clean", "dirty")
	case c.Clean && c.NoDirty:
		return conflict("clean", "no-dirty")
	case c.BumpContext && c.NoBumpContext:
		return conflict("bump-context", "no-bump-context")
	case c.NoBumpContext && c.Dirty:
		return conflict("no-bump-context", "dirty")
	}
	return nil
}

func (c Context) dirty() *bool {
	switch {
	case c.Dirty:
		return lo.ToPtr(true)
	case c.NoDirty:
		return lo.ToPtr(false)
	default:
		return nil
	}
}

// ApplyContext applies c to vars.  On error vars is left unmodified.
func ApplyContext(ctx context.Context, vars *zerv.Vars, c Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	ret := vars.Clone()

	if c.Distance != nil {
		ret.Distance = c.Distance
	}
	if dirty := c.dirty(); dirty != nil {
		ret.Dirty = dirty
	}
	if c.BumpedBranch != nil {
		ret.BumpedBranch = c.BumpedBranch
	}
	if c.BumpedCommitHash != nil {
		ret.BumpedCommitHash = c.BumpedCommitHash
	}
	if c.BumpedTimestamp != nil {
		ret.BumpedTimestamp = c.BumpedTimestamp
	}

	if c.Clean {
		ret.Distance = nil
		ret.Dirty = lo.ToPtr(false)
	}

	if c.TagVersion != "" {
		tag, format, err := zerv.ParseVersion(c.TagVersion, c.InputFormat)
		if err != nil {
			return err
		}
		dlog.Debugf(ctx, "context: tag version %q parsed as %s", c.TagVersion, format)
		ret.Epoch = tag.Vars.Epoch
		ret.Major = tag.Vars.Major
		ret.Minor = tag.Vars.Minor
		ret.Patch = tag.Vars.Patch
		ret.PreRelease = tag.Vars.PreRelease
		ret.Post = tag.Vars.Post
		ret.Dev = tag.Vars.Dev
	}

	if c.Custom != "" {
		dec := json.NewDecoder(strings.NewReader(c.Custom))
		dec.UseNumber()
		var custom map[string]interface{}
		if err := dec.Decode(&custom); err != nil {
			return errors.Wrap(errors.ErrCodeArgument, "invalid --custom JSON object", err)
		}
		ret.Custom = custom
	}

	if c.NoBumpContext {
		ret.Distance = lo.ToPtr[uint64](0)
		ret.Dirty = lo.ToPtr(false)
		ret.BumpedBranch = nil
		ret.BumpedCommitHash = nil
		ret.BumpedTimestamp = nil
	}

	*vars = ret
	return nil
}
