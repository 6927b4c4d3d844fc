package semver_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/testutil"
	"github.com/datawire/zerv/pkg/version/semver"
)

func mustParseVersion(t *testing.T, str string) semver.Version {
	t.Helper()
	ver, err := semver.ParseVersion(str)
	require.NoError(t, err)
	require.NotNil(t, ver)
	return *ver
}

func TestParse(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		Input  string
		Output *semver.Version // nil for parse error
	}
	testcases := map[string]TestCase{
		"plain":    {"1.2.3", &semver.Version{Major: 1, Minor: 2, Patch: 3}},
		"v-prefix": {"v1.2.3", &semver.Version{Major: 1, Minor: 2, Patch: 3}},
		"V-prefix": {"V0.0.0", &semver.Version{}},
		"pre-release": {"1.0.0-alpha.1", &semver.Version{
			Major: 1,
			Pre:   []semver.Identifier{semver.StringIdentifier("alpha"), semver.NumericIdentifier(1)},
		}},
		"pre-release-hyphens": {"1.0.0-x-y-z.--", &semver.Version{
			Major: 1,
			Pre:   []semver.Identifier{semver.StringIdentifier("x-y-z"), semver.StringIdentifier("--")},
		}},
		"build": {"1.0.0+build.123", &semver.Version{
			Major: 1,
			Build: []semver.Identifier{semver.StringIdentifier("build"), semver.NumericIdentifier(123)},
		}},
		"build-leading-zero": {"1.0.0+001", &semver.Version{
			Major: 1,
			Build: []semver.Identifier{semver.StringIdentifier("001")},
		}},
		"both": {"1.0.0-rc.1+exp.sha.5114f85", &semver.Version{
			Major: 1,
			Pre:   []semver.Identifier{semver.StringIdentifier("rc"), semver.NumericIdentifier(1)},
			Build: []semver.Identifier{
				semver.StringIdentifier("exp"),
				semver.StringIdentifier("sha"),
				semver.StringIdentifier("5114f85"),
			},
		}},
		"alnum-leading-zero": {"1.0.0-0alpha", &semver.Version{
			Major: 1,
			Pre:   []semver.Identifier{semver.StringIdentifier("0alpha")},
		}},
		"two-parts":           {"1.2", nil},
		"four-parts":          {"1.2.3.4", nil},
		"leading-zero-major":  {"01.2.3", nil},
		"leading-zero-pre":    {"1.2.3-01", nil},
		"empty-pre":           {"1.2.3-", nil},
		"empty-pre-ident":     {"1.2.3-a..b", nil},
		"empty-build":         {"1.2.3+", nil},
		"bad-char":            {"1.2.3-a_b", nil},
		"whitespace":          {" 1.2.3", nil},
		"overflow":            {"18446744073709551616.0.0", nil},
		"negative":            {"-1.0.0", nil},
		"double-v":            {"vv1.0.0", nil},
		"pep440-style":        {"1.2.3a1", nil},
		"large-numeric-ident": {"1.2.3-18446744073709551616", &semver.Version{
			Major: 1, Minor: 2, Patch: 3,
			Pre: []semver.Identifier{semver.StringIdentifier("18446744073709551616")},
		}},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			ver, err := semver.ParseVersion(tcData.Input)
			if tcData.Output == nil {
				assert.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeParse))
				assert.Nil(t, ver)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *tcData.Output, *ver)
		})
	}
}

func TestSort(t *testing.T) {
	t.Parallel()
	// from semver.org, section 11
	exp := []string{
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-alpha.beta",
		"1.0.0-beta",
		"1.0.0-beta.2",
		"1.0.0-beta.11",
		"1.0.0-rc.1",
		"1.0.0",
		"2.0.0",
		"2.1.0",
		"2.1.1",
	}
	vers := make([]semver.Version, 0, len(exp))
	for i := len(exp) - 1; i >= 0; i-- {
		vers = append(vers, mustParseVersion(t, exp[i]))
	}
	sort.SliceStable(vers, func(i, j int) bool {
		return vers[i].Cmp(vers[j]) < 0
	})
	act := make([]string, 0, len(vers))
	for _, ver := range vers {
		act = append(act, ver.String())
	}
	assert.Equal(t, exp, act)

	assert.Equal(t, 0, mustParseVersion(t, "1.0.0+a").Cmp(mustParseVersion(t, "1.0.0+b")))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	testutil.QuickCheck(t,
		func(ver semver.Version) bool {
			parsed, err := semver.ParseVersion(ver.String())
			if err != nil {
				t.Logf("parse %q: %v", ver.String(), err)
				return false
			}
			return parsed.String() == ver.String() && parsed.Cmp(ver) == 0
		},
		testutil.QuickConfig{MaxCount: 1000},
		[]interface{}{mustParseVersion(t, "v1.0.0-alpha.1+build.001")},
	)
}

func TestIsPreRelease(t *testing.T) {
	t.Parallel()
	testcases := map[string]bool{
		"1.0.0":             false,
		"1.0.0+build.1":     false,
		"1.0.0-0":           true,
		"1.0.0-rc.1+build1": true,
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		tcName := tcName
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tcData, mustParseVersion(t, tcName).IsPreRelease())
		})
	}
}
