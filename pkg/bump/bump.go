// Copyright (C) 2026  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package bump implements the override/bump/reset engine that derives a new version from the
// canonical model, and the context overrides that adjust the VCS-derived variables before it
// runs.
//
// The engine walks the schema's precedence order from highest to lowest.  At each level it
// first applies an override (an absolute value), then a bump (an increment, where an absent
// value counts as 0).  A bump, even a bump by 0, then resets every lower level to its
// baseline:
//
//	epoch              absent
//	major/minor/patch  0
//	pre-release label  absent (which also drops the number)
//	pre-release number 0, if there is a label
//	post, dev          absent
//	core/extra_core/build  Str and Int literals removed
//
// Finally, if the dirty flag is set, bumped_timestamp is set to the current time.
package bump

import (
	"context"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/zerv"
)

// Bumps is the set of overrides and increments to apply.  A nil pointer or empty string
// means "not given".
type Bumps struct {
	Epoch           *uint64
	Major           *uint64
	Minor           *uint64
	Patch           *uint64
	PreReleaseLabel string
	PreReleaseNum   *uint64
	Post            *uint64
	Dev             *uint64

	BumpEpoch           *uint64
	BumpMajor           *uint64
	BumpMinor           *uint64
	BumpPatch           *uint64
	BumpPreReleaseLabel string
	BumpPreReleaseNum   *uint64
	BumpPost            *uint64
	BumpDev             *uint64

	// Schema component specs.  Overrides are "INDEX=VALUE"; bumps are "INDEX[=VALUE]" with
	// VALUE defaulting to 1.  A negative INDEX counts from the end of the section.
	Core          []string
	ExtraCore     []string
	Build         []string
	BumpCore      []string
	BumpExtraCore []string
	BumpBuild     []string
}

func (b Bumps) sectionSpecs(sec zerv.Section) (overrides, bumps []string) {
	switch sec {
	case zerv.SectionCore:
		return b.Core, b.BumpCore
	case zerv.SectionExtraCore:
		return b.ExtraCore, b.BumpExtraCore
	default:
		return b.Build, b.BumpBuild
	}
}

// Validate rejects conflicting or malformed options before anything is mutated.
func (b Bumps) Validate() error {
	if b.PreReleaseLabel != "" && b.BumpPreReleaseLabel != "" {
		return errors.New(errors.ErrCodeConflict,
			"cannot both override and bump the pre-release label")
	}
	for _, label := range []string{b.PreReleaseLabel, b.BumpPreReleaseLabel} {
		if label == "" {
			continue
		}
		if _, ok := zerv.ParsePreReleaseLabel(label); !ok {
			return errors.Newf(errors.ErrCodeArgument, "invalid pre-release label %q", label).
				WithContext("valid", "alpha,beta,rc")
		}
	}
	return nil
}

// Apply applies c and then b to z.  On error z is left unmodified.
func Apply(ctx context.Context, z *zerv.Zerv, c Context, b Bumps) error {
	tmp := z.Clone()
	if err := ApplyContext(ctx, &tmp.Vars, c); err != nil {
		return err
	}
	if err := ApplyBumps(ctx, tmp, b); err != nil {
		return err
	}
	*z = *tmp
	return nil
}
