package reproducible_test

import (
	"testing"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"

	"github.com/datawire/zerv/pkg/reproducible"
)

//nolint:paralleltest // can't use .Parallel() with .Setenv()
func TestNow(t *testing.T) {
	ctx := dlog.NewTestContext(t, true)

	t.Setenv("SOURCE_DATE_EPOCH", "1709629623")
	assert.Equal(t, int64(1709629623), reproducible.Now(ctx).Unix())
	assert.Equal(t, time.UTC, reproducible.Now(ctx).Location())

	for _, val := range []string{"yesterday", ""} {
		t.Setenv("SOURCE_DATE_EPOCH", val)
		_, ok := reproducible.SourceDateEpoch()
		assert.False(t, ok)
		start := time.Now().Unix()
		assert.GreaterOrEqual(t, reproducible.Now(ctx).Unix(), start)
	}
}
