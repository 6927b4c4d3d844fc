package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/zerv/pkg/config"
	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/zerv"
)

const sample = `
schema: nightly
input_format: semver
output_format: pep440
output_prefix: v
tag_pattern: "v*"
schemas:
  nightly: |
    core:
      - var: major
      - var: minor
      - var: patch
    extra_core:
      - str: nightly
      - ts: compact_date
    build: []
`

func TestParse(t *testing.T) {
	t.Parallel()
	cfg, err := config.Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "nightly", cfg.Schema)
	assert.Equal(t, "semver", cfg.InputFormat)
	assert.Equal(t, "pep440", cfg.OutputFormat)
	assert.Equal(t, "v", cfg.OutputPrefix)
	assert.Equal(t, "v*", cfg.TagPattern)
	assert.Contains(t, cfg.SchemaNames(), "nightly")
	assert.Contains(t, cfg.SchemaNames(), zerv.PresetStandard)

	schema, err := cfg.ResolveSchema("nightly", zerv.Vars{})
	require.NoError(t, err)
	assert.Equal(t, zerv.Components{zerv.Str("nightly"), zerv.Timestamp("compact_date")}, schema.ExtraCore)

	schema, err = cfg.ResolveSchema(zerv.PresetStandard, zerv.Vars{Dirty: lo.ToPtr(true)})
	require.NoError(t, err)
	assert.NotEmpty(t, schema.Build)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Input string
		Code  errors.ErrorCode
	}{
		"unknown-key":           {"scheme: standard\n", errors.ErrCodeParse},
		"not-yaml":              {"schema: [\n", errors.ErrCodeParse},
		"bad-input-format":      {"input_format: calver\n", errors.ErrCodeUnknownFormat},
		"bad-output-format":     {"output_format: auto\n", errors.ErrCodeUnknownFormat},
		"unknown-schema":        {"schema: nope\n", errors.ErrCodeSchema},
		"shadowed-preset":       {"schemas:\n  standard: 'core: [{var: major}]'\n", errors.ErrCodeSchema},
		"invalid-custom-schema": {"schemas:\n  mine: 'core: [{var: nope}]'\n", errors.ErrCodeSchema},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			_, err := config.Parse([]byte(tcData.Input))
			require.Error(t, err)
			assert.Equal(t, tcData.Code, errors.CodeOf(err), "%v", err)
		})
	}
}

//nolint:paralleltest // can't use .Parallel() with .Chdir()
func TestLoad(t *testing.T) {
	ctx := dlog.NewTestContext(t, true)
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(oldwd)
	})

	cfg, err := config.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)

	_, err = config.Load(ctx, filepath.Join(dir, "missing.yml"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeIO), "%v", err)

	require.NoError(t, os.WriteFile(config.DefaultFile, []byte("output_prefix: v\n"), 0o644))
	cfg, err = config.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "v", cfg.OutputPrefix)

	require.NoError(t, os.WriteFile(config.DefaultFile, []byte("output_prefix: [\n"), 0o644))
	_, err = config.Load(ctx, "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeParse), "%v", err)
	assert.Contains(t, err.Error(), config.DefaultFile)
}
