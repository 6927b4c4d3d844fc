package zerv

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

const (
	// PatternCompactDate renders as YYYY0M0D, e.g. 20240315.
	PatternCompactDate = "compact_date"
	// PatternCompactDateTime renders as YYYY0M0D0H0m0S, e.g. 20240315141045.
	PatternCompactDateTime = "compact_datetime"
)

// tsTokens maps each pattern token to a function rendering it.  Tokens starting with "0"
// are zero-padded.
var tsTokens = map[string]func(t time.Time) string{
	"YYYY": func(t time.Time) string { return strconv.Itoa(t.Year()) },
	"YY":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Year()%100) },
	"MM":   func(t time.Time) string { return strconv.Itoa(int(t.Month())) },
	"0M":   func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) },
	"WW":   func(t time.Time) string { return strconv.Itoa(mondayWeek(t)) },
	"0W":   func(t time.Time) string { return fmt.Sprintf("%02d", mondayWeek(t)) },
	"DD":   func(t time.Time) string { return strconv.Itoa(t.Day()) },
	"0D":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) },
	"HH":   func(t time.Time) string { return strconv.Itoa(t.Hour()) },
	"0H":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Hour()) },
	"mm":   func(t time.Time) string { return strconv.Itoa(t.Minute()) },
	"0m":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Minute()) },
	"SS":   func(t time.Time) string { return strconv.Itoa(t.Second()) },
	"0S":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Second()) },
}

// mondayWeek is the week of the year (00-53) with Monday as the first day of the week, as
// strftime's %W.
func mondayWeek(t time.Time) int {
	mondayBased := (int(t.Weekday()) + 6) % 7
	return (t.YearDay() + 6 - mondayBased) / 7
}

func isPatternChar(c rune) bool {
	return strings.ContainsRune("YMDHmSW", c)
}

// tokenizePattern splits a pattern such as "YYYY0M0D" into its tokens.  A "0" always starts
// a new token that also takes the following character; otherwise runs of the same pattern
// character form one token.
func tokenizePattern(pattern string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	var prev rune
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, c := range pattern {
		switch {
		case c == '0':
			flush()
			cur.WriteRune(c)
		case prev == '0' || (prev == c && isPatternChar(c)):
			cur.WriteRune(c)
		case isPatternChar(c):
			flush()
			cur.WriteRune(c)
		default:
			return nil, fmt.Errorf("invalid character %q", c)
		}
		prev = c
	}
	flush()
	for _, tok := range tokens {
		if _, ok := tsTokens[tok]; !ok {
			return nil, fmt.Errorf("invalid token %q", tok)
		}
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty pattern")
	}
	return tokens, nil
}

// ValidateTimestampPattern checks that pattern is a preset name, a token pattern, or a
// strftime pattern beginning with "%".
func ValidateTimestampPattern(pattern string) error {
	switch {
	case pattern == PatternCompactDate, pattern == PatternCompactDateTime:
		return nil
	case strings.HasPrefix(pattern, "%"):
		_, err := strftime.New(pattern)
		return err
	default:
		_, err := tokenizePattern(pattern)
		return err
	}
}

// FormatTimestamp renders a Unix timestamp (in UTC) with pattern.  Token patterns resolve to
// an integer value, strftime patterns to a string.
func FormatTimestamp(pattern string, unix int64) (Value, error) {
	t := time.Unix(unix, 0).UTC()
	switch pattern {
	case PatternCompactDate:
		pattern = "YYYY0M0D"
	case PatternCompactDateTime:
		pattern = "YYYY0M0D0H0m0S"
	}
	if strings.HasPrefix(pattern, "%") {
		str, err := strftime.Format(pattern, t)
		if err != nil {
			return Value{}, err
		}
		return StrValue(str), nil
	}
	tokens, err := tokenizePattern(pattern)
	if err != nil {
		return Value{}, err
	}
	var ret strings.Builder
	for _, tok := range tokens {
		ret.WriteString(tsTokens[tok](t))
	}
	n, err := strconv.ParseUint(ret.String(), 10, 64)
	if err != nil {
		return StrValue(ret.String()), nil
	}
	return Value{IsNum: true, Num: n, Text: ret.String()}, nil
}
