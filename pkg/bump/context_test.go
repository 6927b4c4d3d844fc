package bump_test

import (
	"encoding/json"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/zerv/pkg/bump"
	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/testutil"
	"github.com/datawire/zerv/pkg/zerv"
)

func vcsVars() zerv.Vars {
	return zerv.Vars{
		Major:            u64(1),
		Minor:            u64(2),
		Patch:            u64(3),
		Distance:         u64(5),
		Dirty:            lo.ToPtr(true),
		BumpedBranch:     lo.ToPtr("main"),
		BumpedCommitHash: lo.ToPtr("abcdef1234567890"),
		BumpedTimestamp:  lo.ToPtr(int64(1709629623)),
	}
}

func TestApplyContext(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		Context bump.Context
		Expect  func(*zerv.Vars)
	}
	testcases := map[string]TestCase{
		"empty": {
			bump.Context{},
			func(*zerv.Vars) {},
		},
		"distance": {
			bump.Context{Distance: u64(0)},
			func(v *zerv.Vars) { v.Distance = u64(0) },
		},
		"no-dirty": {
			bump.Context{NoDirty: true},
			func(v *zerv.Vars) { v.Dirty = lo.ToPtr(false) },
		},
		"clean": {
			bump.Context{Clean: true},
			func(v *zerv.Vars) {
				v.Distance = nil
				v.Dirty = lo.ToPtr(false)
			},
		},
		"bumped-metadata": {
			bump.Context{
				BumpedBranch:     lo.ToPtr("release/v2"),
				BumpedCommitHash: lo.ToPtr("0123456"),
				BumpedTimestamp:  lo.ToPtr(int64(42)),
			},
			func(v *zerv.Vars) {
				v.BumpedBranch = lo.ToPtr("release/v2")
				v.BumpedCommitHash = lo.ToPtr("0123456")
				v.BumpedTimestamp = lo.ToPtr(int64(42))
			},
		},
		"bump-context": {
			bump.Context{BumpContext: true},
			func(*zerv.Vars) {},
		},
		"no-bump-context": {
			bump.Context{NoBumpContext: true, BumpedBranch: lo.ToPtr("ignored")},
			func(v *zerv.Vars) {
				v.Distance = u64(0)
				v.Dirty = lo.ToPtr(false)
				v.BumpedBranch = nil
				v.BumpedCommitHash = nil
				v.BumpedTimestamp = nil
			},
		},
		"tag-version": {
			bump.Context{TagVersion: "v2.0.0-rc.1"},
			func(v *zerv.Vars) {
				v.Major = u64(2)
				v.Minor = u64(0)
				v.Patch = u64(0)
				v.PreRelease = &zerv.PreRelease{Label: zerv.LabelRC, Number: u64(1)}
			},
		},
		"tag-version-pep440": {
			bump.Context{TagVersion: "3!4.5.post6", InputFormat: zerv.FormatPEP440},
			func(v *zerv.Vars) {
				v.Epoch = u64(3)
				v.Major = u64(4)
				v.Minor = u64(5)
				v.Patch = nil
				v.Post = u64(6)
			},
		},
		"custom": {
			bump.Context{Custom: `{"build_id": 123, "env": {"name": "prod"}}`},
			func(v *zerv.Vars) {
				v.Custom = map[string]interface{}{
					"build_id": json.Number("123"),
					"env":      map[string]interface{}{"name": "prod"},
				}
			},
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			ctx := dlog.NewTestContext(t, true)
			vars := vcsVars()
			require.NoError(t, bump.ApplyContext(ctx, &vars, tcData.Context))
			exp := vcsVars()
			tcData.Expect(&exp)
			testutil.AssertEqualDump(t, exp, vars)
		})
	}
}

func TestApplyContextErrors(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		Context bump.Context
		Code    errors.ErrorCode
	}
	testcases := map[string]TestCase{
		"dirty-and-no-dirty": {
			bump.Context{Dirty: true, NoDirty: true}, errors.ErrCodeConflict,
		},
		"clean-and-distance": {
			bump.Context{Clean: true, Distance: u64(2)}, errors.ErrCodeConflict,
		},
		"clean-and-dirty": {
			bump.Context{Clean: true, Dirty: true}, errors.ErrCodeConflict,
		},
		"clean-and-no-dirty": {
			bump.Context{Clean: true, NoDirty: true}, errors.ErrCodeConflict,
		},
		"bump-context-and-no-bump-context": {
			bump.Context{BumpContext: true, NoBumpContext: true}, errors.ErrCodeConflict,
		},
		"no-bump-context-and-dirty": {
			bump.Context{NoBumpContext: true, Dirty: true}, errors.ErrCodeConflict,
		},
		"bad-tag-version": {
			bump.Context{TagVersion: "not a version"}, errors.ErrCodeParse,
		},
		"bad-input-format": {
			bump.Context{TagVersion: "1.2.3", InputFormat: "calver"}, errors.ErrCodeUnknownFormat,
		},
		"bad-custom": {
			bump.Context{Custom: `{"unterminated": `}, errors.ErrCodeArgument,
		},
		"custom-not-an-object": {
			bump.Context{Custom: `[1, 2]`}, errors.ErrCodeArgument,
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			ctx := dlog.NewTestContext(t, true)
			vars := vcsVars()
			err := bump.ApplyContext(ctx, &vars, tcData.Context)
			require.Error(t, err)
			assert.Equal(t, tcData.Code, errors.CodeOf(err), "%v", err)
			testutil.AssertEqualDump(t, vcsVars(), vars)
		})
	}
}

//nolint:paralleltest // can't use .Parallel() with .Setenv()
func TestApply(t *testing.T) {
	t.Setenv("SOURCE_DATE_EPOCH", "1700000000")
	ctx := dlog.NewTestContext(t, true)

	z := parseWith(t, "1.2.3", zerv.FormatSemVer, "")
	z.Vars.Dirty = lo.ToPtr(false)
	require.NoError(t, bump.Apply(ctx, z,
		bump.Context{Dirty: true},
		bump.Bumps{BumpMinor: u64(1)}))
	assert.Equal(t, "1.3.0", mustSemVer(t, z))
	assert.Equal(t, int64(1700000000), *z.Vars.BumpedTimestamp)

	before := testutil.Dump(z)
	err := bump.Apply(ctx, z,
		bump.Context{Clean: true},
		bump.Bumps{BumpPreReleaseNum: u64(1)})
	assert.True(t, errors.HasCode(err, errors.ErrCodeArgument), "%v", err)
	assert.Equal(t, before, testutil.Dump(z), "a failed bump must not leak the context changes")
}
