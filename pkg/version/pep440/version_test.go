package pep440_test

import (
	"math/rand"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/testutil"
	"github.com/datawire/zerv/pkg/version/pep440"
)

func TestSort(t *testing.T) {
	t.Parallel()
	testcases := map[string][]string{
		"final-releases": {
			"0.9",
			"0.9.1",
			"0.9.2",
			"0.9.10",
			"0.9.11",
			"1.0",
			"1.0.1",
			"1.1",
			"2.0",
			"2.0.1",
		},
		"pre-releases": {
			"4.3a2",
			"4.3b2",
			"4.3rc2",
			"4.3",
		},
		"developmental-releases": {
			"4.3a2.dev1",
			"4.3b2.dev1",
			"4.3rc2.dev1",
			"4.3.post2.dev1",
		},
		"version-epochs": {
			"2013.10",
			"2014.4",
			"1!1.0",
			"1!1.1",
			"1!2.0",
		},
		"implicit-pre-release-number": {
			"1.0.dev1",
			"1.0a",
			"1.0a1",
			"1.0b",
			"1.0rc",
			"1.0",
		},
		"summary-of-permitted-suffixes-and-relative-ordering": {
			"1.0.dev456",
			"1.0a1",
			"1.0a2.dev456",
			"1.0a12.dev456",
			"1.0a12",
			"1.0b1.dev456",
			"1.0b2",
			"1.0b2.post345.dev456",
			"1.0b2.post345",
			"1.0rc1.dev456",
			"1.0rc1",
			"1.0",
			"1.0+abc.5",
			"1.0+abc.7",
			"1.0+5",
			"1.0.post456.dev34",
			"1.0.post456",
			"1.1.dev1",
		},
		"local-segment": {
			"1.0",
			"1.0+a",
			"1.0+bar",
			"1.0+z",
			"1.0+0",
			"1.0+0.z",
			"1.0+0.0",
			"1.0+0.0.0",
			"1.0+1",
			"1.0+10",
			"1.1",
		},
	}
	for tcName, tcData := range testcases {
		strs := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			rand := rand.New(rand.NewSource(time.Now().UnixNano()))

			vers := make([]pep440.Version, 0, len(strs))
			exps := make([]string, 0, len(strs))
			for _, str := range strs {
				ver := mustParseVersion(t, str)
				vers = append(vers, ver)
				exps = append(exps, ver.String())
			}

			// shuffle the list so that `sort` has something to do.
			rand.Shuffle(len(vers), func(i, j int) {
				vers[i], vers[j] = vers[j], vers[i]
			})

			sort.SliceStable(vers, func(i, j int) bool {
				return vers[i].Cmp(vers[j]) < 0
			})
			acts := make([]string, 0, len(strs))
			for _, ver := range vers {
				acts = append(acts, ver.String())
			}
			assert.Equal(t, exps, acts)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		Input      string
		Normalized string // empty for parse error
	}
	testcases := map[string]TestCase{
		"case-sensitivity":                    {"1.1RC1", "1.1rc1"},
		"integer-normalization-1":             {"00", "0"},
		"integer-normalization-2":             {"09000", "9000"},
		"integer-normalization-3":             {"1.0+foo0100", "1.0+foo0100"},
		"integer-normalization-local":         {"1.0+0123.00", "1.0+123.0"},
		"pre-release-separators-1":            {"1.1.a1", "1.1a1"},
		"pre-release-separators-2":            {"1.1-a1", "1.1a1"},
		"pre-release-separators-3":            {"1.0a.1", "1.0a1"},
		"pre-release-separators-4":            {"1.2.3_alpha1", "1.2.3a1"},
		"pre-release-separators-5":            {"1.2.3.ALPHA.1", "1.2.3a1"},
		"pre-release-spelling-1":              {"1.1alpha1", "1.1a1"},
		"pre-release-spelling-2":              {"1.1beta2", "1.1b2"},
		"pre-release-spelling-3":              {"1.1c3", "1.1rc3"},
		"pre-release-spelling-4":              {"1.1preview3", "1.1rc3"},
		"implicit-pre-release-number":         {"1.2a", "1.2a0"},
		"post-release-separators-1":           {"1.2-post2", "1.2.post2"},
		"post-release-separators-2":           {"1.2post2", "1.2.post2"},
		"post-release-separators-3":           {"1.2.post.2", "1.2.post2"},
		"post-release-spelling":               {"1.0-r4", "1.0.post4"},
		"implicit-post-release-number":        {"1.2.post", "1.2.post0"},
		"implicit-post-releases-1":            {"1.0-1", "1.0.post1"},
		"implicit-post-releases-2":            {"1.0-", ""},
		"implicit-post-releases-extra":        {"1.0_1", ""},
		"development-release-separators-1":    {"1.2-dev2", "1.2.dev2"},
		"development-release-separators-2":    {"1.2dev2", "1.2.dev2"},
		"implicit-development-release-number": {"1.2.dev", "1.2.dev0"},
		"local-version-segments":              {"1.0+ubuntu-1", "1.0+ubuntu.1"},
		"preceding-v-character":               {"v1.0", "1.0"},
		"leading-and-trailing-whitespace":     {"1.0\n", "1.0"},
		"epoch-zero":                          {"0!1.2.3", "1.2.3"},
		"epoch-upper":                         {"2!1.0RC1", "2!1.0rc1"},
		"missing-release":                     {"a1", ""},
		"leading-garbage":                     {"x1.0", ""},
		"empty":                               {"", ""},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			t.Logf("input: %q", tcData.Input)
			ver, err := pep440.ParseVersion(tcData.Input)
			if tcData.Normalized == "" {
				assert.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeParse))
				assert.Nil(t, ver)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, ver)
				assert.Equal(t, tcData.Normalized, ver.String())
				if len(ver.Local) == 0 {
					assert.Equal(t, tcData.Normalized, ver.PublicVersion.String())
				}
			}
		})
	}
}

func TestParseFields(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		Input  string
		Output pep440.Version
	}
	testcases := map[string]TestCase{
		"full": {
			Input: "1!2.3.4rc5.post6.dev7+abc.8",
			Output: pep440.Version{
				PublicVersion: pep440.PublicVersion{
					Epoch:   1,
					Release: []int{2, 3, 4},
					Pre:     &pep440.PreRelease{L: "rc", N: intPtr(5)},
					Post:    intPtr(6),
					Dev:     intPtr(7),
				},
				Local: []intstr.IntOrString{intstr.FromString("abc"), intstr.FromInt(8)},
			},
		},
		"implicit-pre-number": {
			Input: "1.0b",
			Output: pep440.Version{
				PublicVersion: pep440.PublicVersion{
					Release: []int{1, 0},
					Pre:     &pep440.PreRelease{L: "b"},
				},
			},
		},
		"bare-post": {
			Input: "1.0-3",
			Output: pep440.Version{
				PublicVersion: pep440.PublicVersion{
					Release: []int{1, 0},
					Post:    intPtr(3),
				},
			},
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			ver := mustParseVersion(t, tcData.Input)
			assert.Equal(t, tcData.Output, ver, "%#v", ver)
		})
	}
}

func TestLocalSegments(t *testing.T) {
	t.Parallel()
	segs := pep440.ParseLocalSegments("deadbeef.123.abc")
	require.Len(t, segs, 3)
	assert.Equal(t, intstr.String, segs[0].Type)
	assert.Equal(t, intstr.Int, segs[1].Type)
	assert.Equal(t, intstr.String, segs[2].Type)

	strs := make([]string, 0, len(segs))
	for _, seg := range segs {
		strs = append(strs, seg.String())
	}
	assert.Equal(t, "deadbeef.123.abc", strings.Join(strs, "."))

	huge := pep440.ParseLocalSegments("00099999999999")
	require.Len(t, huge, 1)
	assert.Equal(t, "99999999999", huge[0].String())
}

func TestFormatIdempotent(t *testing.T) {
	t.Parallel()
	staticInputs := []pep440.Version{
		mustParseVersion(t, "1.0a"),
		mustParseVersion(t, "0!1.2.3+Ubuntu-01"),
		mustParseVersion(t, "v1.2.3.ALPHA.1.rev.dev"),
	}
	testcases := make([][]interface{}, 0, len(staticInputs))
	for _, in := range staticInputs {
		testcases = append(testcases, []interface{}{in})
	}
	testutil.QuickCheck(t,
		func(ver pep440.Version) bool {
			first, err := pep440.ParseVersion(ver.String())
			if err != nil {
				t.Logf("parse %q: %v", ver.String(), err)
				return false
			}
			second, err := pep440.ParseVersion(first.String())
			if err != nil {
				return false
			}
			return first.String() == second.String() &&
				first.String() == ver.String() &&
				first.Cmp(*second) == 0
		},
		testutil.QuickConfig{MaxCount: 1000},
		testcases...)
}

func TestIsPreRelease(t *testing.T) {
	t.Parallel()
	testcases := map[string]bool{
		"1.0":           false,
		"1.0.post1":     false,
		"1.0+local.1":   false,
		"1.0a1":         true,
		"1.0rc":         true,
		"1.0.dev0":      true,
		"1.0.post1.dev": true,
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		tcName := tcName
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			ver, err := pep440.ParseVersion(tcName)
			require.NoError(t, err)
			assert.Equal(t, tcData, ver.IsPreRelease())
		})
	}
}
