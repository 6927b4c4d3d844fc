package zerv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/zerv/pkg/zerv"
)

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()
	const ts = 1709629623 // 2024-03-05T09:07:03Z
	type TestCase struct {
		Pattern string
		IsNum   bool
		Num     uint64
		Text    string
	}
	testcases := map[string]TestCase{
		"year":             {"YYYY", true, 2024, "2024"},
		"short-year":       {"YY", true, 24, "24"},
		"compact-date":     {"compact_date", true, 20240305, "20240305"},
		"compact-datetime": {"compact_datetime", true, 20240305090703, "20240305090703"},
		"unpadded":         {"YYYYMMDD", true, 202435, "202435"},
		"padded-leading":   {"0H0m0S", true, 90703, "090703"},
		"unpadded-time":    {"HHmmSS", true, 973, "973"},
		"week":             {"WW", true, 10, "10"},
		"padded-week":      {"YY0W", true, 2410, "2410"},
		"strftime":         {"%Y-%m-%d", false, 0, "2024-03-05"},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			require.NoError(t, zerv.ValidateTimestampPattern(tcData.Pattern))
			val, err := zerv.FormatTimestamp(tcData.Pattern, ts)
			require.NoError(t, err)
			assert.Equal(t, tcData.IsNum, val.IsNum)
			if tcData.IsNum {
				assert.Equal(t, tcData.Num, val.Num)
			}
			assert.Equal(t, tcData.Text, val.String())
		})
	}
}

func TestFormatTimestampUTC(t *testing.T) {
	t.Parallel()
	// 2024-12-31T23:59:59Z is already 2025 east of UTC.
	val, err := zerv.FormatTimestamp("YYYY0M0DWW", 1735689599)
	require.NoError(t, err)
	assert.Equal(t, "2024123153", val.String())
}

func TestValidateTimestampPattern(t *testing.T) {
	t.Parallel()
	for _, pattern := range []string{"", "0", "YYY", "0Y", "Q", "YYYY-MM", "compact"} {
		assert.Error(t, zerv.ValidateTimestampPattern(pattern), "%q", pattern)
	}
}
