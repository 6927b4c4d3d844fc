package zerv_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/testutil"
	"github.com/datawire/zerv/pkg/zerv"
)

func TestSchemaValidate(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		Input  zerv.Schema
		ErrStr string // empty for success
	}
	testcases := map[string]TestCase{
		"empty": {
			zerv.NewSchema(nil, nil, nil),
			"at least one component",
		},
		"unknown-var": {
			zerv.NewSchema(zerv.Components{zerv.Var("major"), zerv.Var("bogus")}, nil, nil),
			`"bogus"`,
		},
		"unknown-var-in-build": {
			zerv.NewSchema(zerv.Components{zerv.Var("major")}, nil, zerv.Components{zerv.Var("sha")}),
			`"sha"`,
		},
		"empty-custom-key": {
			zerv.NewSchema(zerv.Components{zerv.Var("custom.")}, nil, nil),
			`"custom."`,
		},
		"bad-timestamp": {
			zerv.NewSchema(zerv.Components{zerv.Timestamp("YYYYQ")}, nil, nil),
			`"YYYYQ"`,
		},
		"literals-only": {
			zerv.NewSchema(zerv.Components{zerv.Int(1), zerv.Str("x")}, nil, nil),
			"",
		},
		"everything": {
			zerv.NewSchema(
				zerv.Components{zerv.Var("major"), zerv.Timestamp("compact_date"), zerv.Timestamp("%Y.%m")},
				zerv.Components{zerv.Var("pre_release"), zerv.Var("dirty"), zerv.Var("custom.build.id")},
				zerv.Components{zerv.Var("branch"), zerv.Var("commit_hash_short"), zerv.Timestamp("0H0m")}),
			"",
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			err := tcData.Input.Validate()
			if tcData.ErrStr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeSchema), "%v", err)
			assert.Contains(t, err.Error(), tcData.ErrStr)
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()
	z, err := zerv.New(
		zerv.NewSchema(
			zerv.Components{zerv.Var("major"), zerv.Var("minor"), zerv.Var("patch")},
			zerv.Components{zerv.Var("pre_release"), zerv.Var("dirty")},
			zerv.Components{
				zerv.Var("branch"),
				zerv.Var("distance"),
				zerv.Var("commit_hash_short"),
				zerv.Var("custom.build.id"),
				zerv.Var("custom.missing"),
				zerv.Timestamp("compact_date"),
			}),
		zerv.Vars{
			Major:            lo.ToPtr[uint64](1),
			Minor:            lo.ToPtr[uint64](2),
			Patch:            lo.ToPtr[uint64](3),
			Distance:         lo.ToPtr[uint64](5),
			Dirty:            lo.ToPtr(true),
			BumpedBranch:     lo.ToPtr("main"),
			BumpedCommitHash: lo.ToPtr("abcdef1234567890"),
			BumpedTimestamp:  lo.ToPtr[int64](1709629623),
			Custom: map[string]interface{}{
				"build": map[string]interface{}{"id": 42},
			},
		})
	require.NoError(t, err)

	str, err := z.Render()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-true+main.5.abcdef1.42.20240305", str)

	z.Vars.Dirty = lo.ToPtr(false)
	z.Vars.PreRelease = &zerv.PreRelease{Label: zerv.LabelBeta}
	str, err = z.Render()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-beta.false+main.5.abcdef1.42.20240305", str)

	z.Vars.BumpedTimestamp = nil
	_, err = z.Render()
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingData), "%v", err)

	z.Vars.LastTimestamp = lo.ToPtr[int64](1704067200)
	str, err = z.RenderSection(zerv.SectionBuild, "-")
	require.NoError(t, err)
	assert.Equal(t, "main-5-abcdef1-42-20240101", str)
}

func TestResolveVar(t *testing.T) {
	t.Parallel()
	vars := zerv.Vars{
		PreRelease:     &zerv.PreRelease{Label: zerv.LabelRC, Number: lo.ToPtr[uint64](2)},
		LastCommitHash: lo.ToPtr("0123"),
		Custom:         map[string]interface{}{"flag": true, "list": []interface{}{"a"}},
	}
	assert.Equal(t, []zerv.Value{zerv.StrValue("rc"), zerv.NumValue(2)}, vars.ResolveVar("pre_release"))
	assert.Equal(t, []zerv.Value{zerv.StrValue("0123")}, vars.ResolveVar("last_commit_hash_short"))
	assert.Equal(t, []zerv.Value{zerv.StrValue("true")}, vars.ResolveVar("custom.flag"))
	assert.Nil(t, vars.ResolveVar("custom.list"))
	assert.Nil(t, vars.ResolveVar("major"))
	assert.Nil(t, vars.ResolveVar("dirty"))

	vars.Dirty = lo.ToPtr(false)
	assert.Equal(t, []zerv.Value{zerv.StrValue("false")}, vars.ResolveVar("dirty"))
	vars.Dirty = lo.ToPtr(true)
	assert.Equal(t, []zerv.Value{zerv.StrValue("true")}, vars.ResolveVar("dirty"))
}

func TestParseSchema(t *testing.T) {
	t.Parallel()
	schema, err := zerv.ParseSchema([]byte(`
core:
- var: major
- int: 7
extra_core:
- str: 123
build:
- ts: compact_date
`))
	require.NoError(t, err)
	testutil.AssertEqualDump(t,
		zerv.NewSchema(
			zerv.Components{zerv.Var("major"), zerv.Int(7)},
			zerv.Components{zerv.Str("123")},
			zerv.Components{zerv.Timestamp("compact_date")}),
		*schema)

	out, err := zerv.MarshalSchema(*schema)
	require.NoError(t, err)
	again, err := zerv.ParseSchema(out)
	require.NoError(t, err)
	testutil.AssertEqualDump(t, schema, again)

	_, err = zerv.ParseSchema([]byte("core: [{var: major, int: 1}]"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeParse), "%v", err)

	_, err = zerv.ParseSchema([]byte("core: [{var: major}]\nprecedence_order: [major]"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeParse), "%v", err)

	_, err = zerv.ParseSchema([]byte("core: [{var: nope}]"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeSchema), "%v", err)

	_, err = zerv.ParseSchema([]byte("core: []\nextra_core: []"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeSchema), "%v", err)
}

func TestPrecedenceOrder(t *testing.T) {
	t.Parallel()
	order := zerv.DefaultPrecedenceOrder()
	assert.Equal(t, 0, order.Index(zerv.PrecEpoch))
	assert.Equal(t, 10, order.Index(zerv.PrecBuild))
	assert.Equal(t,
		[]zerv.Precedence{zerv.PrecPost, zerv.PrecDev, zerv.PrecExtraCore, zerv.PrecBuild},
		order.Below(zerv.PrecPreReleaseNum))

	levels := order.Levels()
	levels[0], levels[1] = levels[1], levels[0]
	swapped, err := zerv.NewPrecedenceOrder(levels)
	require.NoError(t, err)
	assert.Equal(t, 0, swapped.Index(zerv.PrecMajor))
	assert.Equal(t, 0, order.Index(zerv.PrecEpoch), "Levels must return a copy")

	_, err = zerv.NewPrecedenceOrder(levels[1:])
	assert.Error(t, err)
	_, err = zerv.NewPrecedenceOrder(append(levels[1:], zerv.PrecEpoch))
	assert.Error(t, err)
}
