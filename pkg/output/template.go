package output

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/zerv"
)

func optUint(p *uint64) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

func optInt(p *int64) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

func optString(p *string) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

// Snapshot flattens a model into the data that output templates see.  Absent variables are
// "", so that {{if .pre_release}} and friends work.
func Snapshot(z *zerv.Zerv) (map[string]interface{}, error) {
	semverStr, err := z.SemVerString()
	if err != nil {
		return nil, err
	}
	pep440Str, err := z.PEP440String()
	if err != nil {
		return nil, err
	}
	v := z.Vars

	var pre interface{} = ""
	if v.PreRelease != nil {
		pre = map[string]interface{}{
			"label":  string(v.PreRelease.Label),
			"number": optUint(v.PreRelease.Number),
		}
	}
	var dirty interface{} = ""
	if v.Dirty != nil {
		dirty = *v.Dirty
	}
	custom := v.Custom
	if custom == nil {
		custom = map[string]interface{}{}
	}

	return map[string]interface{}{
		"major":       optUint(v.Major),
		"minor":       optUint(v.Minor),
		"patch":       optUint(v.Patch),
		"epoch":       optUint(v.Epoch),
		"pre_release": pre,
		"post":        optUint(v.Post),
		"dev":         optUint(v.Dev),

		"distance":                 optUint(v.Distance),
		"dirty":                    dirty,
		"bumped_branch":            optString(v.BumpedBranch),
		"bumped_commit_hash":       optString(v.BumpedCommitHash),
		"bumped_commit_hash_short": optString(v.BumpedCommitHashShort()),
		"bumped_timestamp":         optInt(v.BumpedTimestamp),
		"last_branch":              optString(v.LastBranch),
		"last_commit_hash":         optString(v.LastCommitHash),
		"last_commit_hash_short":   optString(v.LastCommitHashShort()),
		"last_timestamp":           optInt(v.LastTimestamp),

		"custom": custom,

		"semver": semverStr,
		"pep440": pep440Str,
	}, nil
}

func toUint(val interface{}) (uint64, error) {
	switch val := val.(type) {
	case uint64:
		return val, nil
	case int:
		if val < 0 {
			return 0, fmt.Errorf("negative number %d", val)
		}
		return uint64(val), nil
	case int64:
		if val < 0 {
			return 0, fmt.Errorf("negative number %d", val)
		}
		return uint64(val), nil
	case json.Number:
		return strconv.ParseUint(val.String(), 10, 64)
	default:
		return 0, fmt.Errorf("expected a number, got %T %v", val, val)
	}
}

// funcs are available to output templates.  Functions that transform a value take it as
// their last argument, so they work in pipelines: {{.bumped_branch | sanitize "semver"}}.
var funcs = template.FuncMap{
	"sanitize": func(preset string, val interface{}) (string, error) {
		return Sanitize(preset, fmt.Sprint(val))
	},
	"hash": func(length int, val interface{}) string {
		sum := sha256.Sum256([]byte(fmt.Sprint(val)))
		str := hex.EncodeToString(sum[:])
		if length > 0 && length < len(str) {
			str = str[:length]
		}
		return str
	},
	"prefix": func(length int, val interface{}) string {
		str := fmt.Sprint(val)
		if length >= 0 && length < len(str) {
			str = str[:length]
		}
		return str
	},
	"format_timestamp": func(pattern string, val interface{}) (string, error) {
		if val == "" {
			return "", nil
		}
		var unix int64
		switch val := val.(type) {
		case int64:
			unix = val
		case int:
			unix = int64(val)
		default:
			return "", fmt.Errorf("format_timestamp: expected a timestamp, got %T %v", val, val)
		}
		ret, err := zerv.FormatTimestamp(pattern, unix)
		if err != nil {
			return "", err
		}
		return ret.String(), nil
	},
	"add": func(a, b interface{}) (uint64, error) {
		x, err := toUint(a)
		if err != nil {
			return 0, err
		}
		y, err := toUint(b)
		if err != nil {
			return 0, err
		}
		return x + y, nil
	},
	"subtract": func(a, b interface{}) (uint64, error) {
		x, err := toUint(a)
		if err != nil {
			return 0, err
		}
		y, err := toUint(b)
		if err != nil {
			return 0, err
		}
		if y > x {
			return 0, fmt.Errorf("subtract: %d - %d is negative", x, y)
		}
		return x - y, nil
	},
	"multiply": func(a, b interface{}) (uint64, error) {
		x, err := toUint(a)
		if err != nil {
			return 0, err
		}
		y, err := toUint(b)
		if err != nil {
			return 0, err
		}
		return x * y, nil
	},
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"title": func(str string) string {
		return cases.Title(language.English).String(str)
	},
}

// RenderTemplate renders a user-supplied text/template over Snapshot(z).
func RenderTemplate(z *zerv.Zerv, text string) (string, error) {
	tmpl, err := template.New("output").Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeArgument, "invalid output template", err)
	}
	data, err := Snapshot(z)
	if err != nil {
		return "", err
	}
	var ret strings.Builder
	if err := tmpl.Execute(&ret, data); err != nil {
		return "", errors.Wrap(errors.ErrCodeArgument, "rendering output template", err)
	}
	return ret.String(), nil
}
