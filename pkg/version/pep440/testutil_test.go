package pep440_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datawire/zerv/pkg/version/pep440"
)

func intPtr(x int) *int {
	return &x
}

func mustParseVersion(t *testing.T, str string) pep440.Version {
	t.Helper()
	ver, err := pep440.ParseVersion(str)
	require.NoError(t, err)
	require.NotNil(t, ver)
	return *ver
}
