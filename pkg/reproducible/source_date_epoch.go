// Package reproducible implements the SOURCE_DATE_EPOCH convention, so that a version
// computed for a dirty tree can be pinned by the build environment.
//
// https://reproducible-builds.org/specs/source-date-epoch/
package reproducible

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/datawire/dlib/dlog"
)

const envVar = "SOURCE_DATE_EPOCH"

// SourceDateEpoch returns the time in $SOURCE_DATE_EPOCH, if it is set to an integer.
func SourceDateEpoch() (time.Time, bool) {
	secs, err := strconv.ParseInt(os.Getenv(envVar), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}

// Now returns $SOURCE_DATE_EPOCH if it is set, and the wall clock otherwise.  The environment
// is consulted on every call.
func Now(ctx context.Context) time.Time {
	if t, ok := SourceDateEpoch(); ok {
		return t
	}
	if val := os.Getenv(envVar); val != "" {
		dlog.Warnf(ctx, "ignoring %s=%q: not an integer", envVar, val)
	}
	return time.Now()
}
