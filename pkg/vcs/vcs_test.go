package vcs_test

import (
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/testutil"
	"github.com/datawire/zerv/pkg/vcs"
	"github.com/datawire/zerv/pkg/zerv"
)

func TestDataVars(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, true)
	data := vcs.Data{
		TagVersion:      "v1.2.3-rc.2",
		TagCommitHash:   "1111111",
		TagTimestamp:    int64p(1700000000),
		Distance:        4,
		CommitHash:      "abcdef1234567890",
		CommitTimestamp: 1709629623,
		Branch:          "main",
		Dirty:           true,
	}
	vars, err := data.Vars(ctx, zerv.FormatAuto)
	require.NoError(t, err)
	testutil.AssertEqualDump(t,
		zerv.Vars{
			Major:            lo.ToPtr[uint64](1),
			Minor:            lo.ToPtr[uint64](2),
			Patch:            lo.ToPtr[uint64](3),
			PreRelease:       &zerv.PreRelease{Label: zerv.LabelRC, Number: lo.ToPtr[uint64](2)},
			Distance:         lo.ToPtr[uint64](4),
			Dirty:            lo.ToPtr(true),
			BumpedBranch:     lo.ToPtr("main"),
			BumpedCommitHash: lo.ToPtr("abcdef1234567890"),
			BumpedTimestamp:  lo.ToPtr[int64](1709629623),
			LastCommitHash:   lo.ToPtr("1111111"),
			LastTimestamp:    lo.ToPtr[int64](1700000000),
		},
		vars)

	data.Branch = ""
	data.TagVersion = "2!1.0.post3"
	vars, err = data.Vars(ctx, zerv.FormatPEP440)
	require.NoError(t, err)
	assert.Nil(t, vars.BumpedBranch)
	assert.Equal(t, uint64(2), *vars.Epoch)
	assert.Equal(t, uint64(3), *vars.Post)
	assert.Nil(t, vars.Patch)
}

func TestDataVarsErrors(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		Tag    string
		Format string
		Code   errors.ErrorCode
	}
	testcases := map[string]TestCase{
		"no-tag":         {"", zerv.FormatAuto, errors.ErrCodeNoTags},
		"not-a-version":  {"nightly", zerv.FormatAuto, errors.ErrCodeParse},
		"wrong-grammar":  {"1.0a1", zerv.FormatSemVer, errors.ErrCodeParse},
		"unknown-format": {"1.0.0", "calver", errors.ErrCodeUnknownFormat},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			ctx := dlog.NewTestContext(t, true)
			_, err := vcs.Data{TagVersion: tcData.Tag}.Vars(ctx, tcData.Format)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tcData.Code), "%v", err)
		})
	}
}
