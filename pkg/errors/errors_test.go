// Copyright (C) 2026  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datawire/zerv/pkg/errors"
)

func TestStructuredError(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		Input  error
		Code   errors.ErrorCode
		String string
	}
	cause := stderrors.New("exit status 128")
	testcases := map[string]TestCase{
		"plain": {
			Input:  errors.New(errors.ErrCodeParse, `invalid version: "x"`),
			Code:   errors.ErrCodeParse,
			String: `[PARSE] invalid version: "x"`,
		},
		"wrapped": {
			Input:  errors.Wrap(errors.ErrCodeVCS, "git describe", cause),
			Code:   errors.ErrCodeVCS,
			String: "[VCS] git describe: exit status 128",
		},
		"context": {
			Input: errors.New(errors.ErrCodeSchema, "unknown field").
				WithContext("section", "core").
				WithContext("field", "nope"),
			Code:   errors.ErrCodeSchema,
			String: "[SCHEMA] unknown field (field=nope, section=core)",
		},
		"fmt-wrapped": {
			Input:  fmt.Errorf("pep440.ParseVersion: %w", errors.Newf(errors.ErrCodeParse, "invalid version: %q", "")),
			Code:   errors.ErrCodeParse,
			String: `pep440.ParseVersion: [PARSE] invalid version: ""`,
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tcData.String, tcData.Input.Error())
			assert.Equal(t, tcData.Code, errors.CodeOf(tcData.Input))
			assert.True(t, errors.HasCode(tcData.Input, tcData.Code))
			assert.True(t, stderrors.Is(tcData.Input, errors.New(tcData.Code, "")))
			assert.False(t, errors.HasCode(tcData.Input, errors.ErrCodeConflict))
		})
	}
}

func TestHasCodeNested(t *testing.T) {
	t.Parallel()
	inner := errors.New(errors.ErrCodeNoTags, "no version tags found")
	outer := errors.Wrap(errors.ErrCodeVCS, "reading repository", inner)
	assert.Equal(t, errors.ErrCodeVCS, errors.CodeOf(outer))
	assert.True(t, errors.HasCode(outer, errors.ErrCodeNoTags))
	assert.True(t, stderrors.Is(outer, errors.New(errors.ErrCodeNoTags, "")))
	assert.ErrorIs(t, outer, inner)
	assert.Equal(t, errors.ErrorCode(""), errors.CodeOf(cause()))
}

func cause() error {
	return stderrors.New("plain")
}
