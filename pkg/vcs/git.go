package vcs

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/datawire/dlib/dexec"
	"github.com/datawire/dlib/dlog"
	"github.com/gobwas/glob"

	"github.com/datawire/zerv/pkg/errors"
)

// Runner runs git with the given arguments in dir, and returns its standard output with
// surrounding whitespace trimmed.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

// ExecRunner is the Runner that executes the real git binary.
func ExecRunner(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := dexec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.DisableLogging = true
	out, err := cmd.Output()
	if err != nil {
		var exitErr *dexec.ExitError
		if stderrors.As(err, &exitErr) {
			err = fmt.Errorf("%w:\n > %s", err,
				strings.Join(strings.Split(strings.TrimSpace(string(exitErr.Stderr)), "\n"), "\n > "))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Git is a Provider backed by a git checkout.
type Git struct {
	// Dir is any directory inside the checkout; "" means the working directory.
	Dir string
	// TagPattern is a glob that tag names must match; "" matches every tag.
	TagPattern string
	// InputFormat is the grammar tags are parsed in, as accepted by zerv.ParseVersion.
	InputFormat string
	// Run defaults to ExecRunner.
	Run Runner
}

var _ Provider = (*Git)(nil)

func (g *Git) git(ctx context.Context, args ...string) (string, error) {
	run := g.Run
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, g.Dir, args...)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeVCS, "git failed", err)
	}
	return out, nil
}

func (g *Git) gitInt(ctx context.Context, args ...string) (int64, error) {
	out, err := g.git(ctx, args...)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeVCS,
			fmt.Sprintf("git %s: unexpected output %q", strings.Join(args, " "), out), err)
	}
	return n, nil
}

// Data implements Provider.
func (g *Git) Data(ctx context.Context) (*Data, error) {
	var pattern glob.Glob
	if g.TagPattern != "" {
		var err error
		if pattern, err = glob.Compile(g.TagPattern); err != nil {
			return nil, errors.Wrap(errors.ErrCodeArgument, "invalid tag pattern", err).
				WithContext("pattern", g.TagPattern)
		}
	}

	if _, err := g.git(ctx, "rev-parse", "--show-toplevel"); err != nil {
		return nil, errors.Wrap(errors.ErrCodeVCS, "not inside a git repository", err)
	}

	var data Data
	if shallow, err := g.git(ctx, "rev-parse", "--is-shallow-repository"); err == nil && shallow == "true" {
		dlog.Warnf(ctx, "shallow clone detected: distance and tag detection may be inaccurate; fetch with --unshallow")
		data.Shallow = true
	}
	var err error
	if data.CommitHash, err = g.git(ctx, "rev-parse", "HEAD"); err != nil {
		return nil, err
	}
	if data.CommitTimestamp, err = g.gitInt(ctx, "log", "-1", "--format=%ct", "HEAD"); err != nil {
		return nil, err
	}
	status, err := g.git(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	data.Dirty = status != ""
	if data.Branch, err = g.git(ctx, "branch", "--show-current"); err != nil {
		dlog.Debugf(ctx, "vcs: no current branch: %v", err)
		data.Branch = ""
	}

	tagsOut, err := g.git(ctx, "tag", "--merged", "HEAD")
	if err != nil {
		return nil, err
	}
	tag, ok := selectTag(ctx, strings.Fields(tagsOut), pattern, g.InputFormat)
	if !ok {
		dlog.Debugf(ctx, "vcs: no version tags reachable from HEAD")
		return &data, nil
	}
	data.TagVersion = tag

	distance, err := g.gitInt(ctx, "rev-list", "--count", tag+"..HEAD")
	if err != nil {
		return nil, err
	}
	data.Distance = uint64(distance)
	if data.TagCommitHash, err = g.git(ctx, "rev-list", "-n", "1", tag); err != nil {
		return nil, err
	}
	tagTime, err := g.gitInt(ctx, "log", "-1", "--format=%ct", tag)
	if err != nil {
		return nil, err
	}
	data.TagTimestamp = &tagTime

	dlog.Debugf(ctx, "vcs: tag=%q distance=%d dirty=%v branch=%q", data.TagVersion, data.Distance, data.Dirty, data.Branch)
	return &data, nil
}
