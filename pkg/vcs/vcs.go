// Package vcs extracts the version-relevant state of a source checkout: the last version tag,
// how far HEAD is from it, and whether the working tree is dirty.
package vcs

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"
	"github.com/samber/lo"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/zerv"
)

// Data is a flat record of VCS state.
type Data struct {
	// TagVersion is the name of the last version tag reachable from HEAD, or "" if there is
	// none.
	TagVersion    string
	TagCommitHash string
	TagTimestamp  *int64
	// Distance is the number of commits from the tag to HEAD.
	Distance uint64

	CommitHash      string
	CommitTimestamp int64
	// Branch is the current branch, or "" for a detached HEAD.
	Branch string
	Dirty  bool

	Shallow bool
}

// Provider supplies VCS data for a checkout.
type Provider interface {
	Data(ctx context.Context) (*Data, error)
}

// Vars parses the tag in inputFormat and combines it with the rest of the record.  It fails
// with errors.ErrCodeNoTags if there is no tag.
func (d Data) Vars(ctx context.Context, inputFormat string) (zerv.Vars, error) {
	if d.TagVersion == "" {
		return zerv.Vars{}, errors.New(errors.ErrCodeNoTags, "no version tags found").
			WithContext("hint", "create a tag such as v0.1.0, or pass --tag-version")
	}
	tag, format, err := zerv.ParseVersion(d.TagVersion, inputFormat)
	if err != nil {
		return zerv.Vars{}, fmt.Errorf("tag %q: %w", d.TagVersion, err)
	}
	dlog.Debugf(ctx, "vcs: tag %q parsed as %s", d.TagVersion, format)

	vars := tag.Vars
	vars.Distance = lo.ToPtr(d.Distance)
	vars.Dirty = lo.ToPtr(d.Dirty)
	if d.Branch != "" {
		vars.BumpedBranch = lo.ToPtr(d.Branch)
	}
	if d.CommitHash != "" {
		vars.BumpedCommitHash = lo.ToPtr(d.CommitHash)
	}
	vars.BumpedTimestamp = lo.ToPtr(d.CommitTimestamp)
	if d.TagCommitHash != "" {
		vars.LastCommitHash = lo.ToPtr(d.TagCommitHash)
	}
	vars.LastTimestamp = d.TagTimestamp
	return vars, nil
}
