// Package loader materializes skill content on demand. Scanning and
// matching work from metadata alone; only when a skill is actually
// selected does the loader read its body into the owning session,
// under the session's byte budget. Resource files are resolved one at
// a time, separately from activation, and never counted eagerly.
package loader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/skillhub/skillhub/pkg/logger"
	"github.com/skillhub/skillhub/pkg/skills"
)

var (
	// ErrResourceNotFound indicates a resource path that is not
	// recorded for the skill or does not exist on disk.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrPathEscape indicates a resource path that resolves outside
	// the skill's package root.
	ErrPathEscape = errors.New("resource path escapes package root")
)

// Loader reads skill bodies and resources for activation sessions.
// One Loader serves any number of sessions concurrently; identical
// in-flight activations for the same (session, skill) coalesce into a
// single disk read.
type Loader struct {
	registry *skills.Registry
	flight   singleflight.Group
}

// New creates a Loader over an immutable registry.
func New(registry *skills.Registry) *Loader {
	return &Loader{registry: registry}
}

// Activate materializes the skill's body into the session and returns
// it. Activation is idempotent: a second call for a loaded skill
// returns the cached body with no disk I/O and no budget change.
// Concurrent calls for the same (session, id) share one read. When the
// body would overflow the session budget, the oldest loaded skills are
// evicted first; a body larger than the whole budget is rejected with
// ErrBudgetExceeded. Any failure leaves the session unchanged.
func (l *Loader) Activate(ctx context.Context, session *Session, id string) (string, error) {
	content, ok, err := session.cachedContent(id)
	if err != nil {
		return "", err
	}
	if ok {
		return content, nil
	}

	key := session.ID() + "\x00" + id
	result, err, shared := l.flight.Do(key, func() (any, error) {
		// A flight that started before ours may have loaded it already.
		content, ok, err := session.cachedContent(id)
		if err != nil {
			return nil, err
		}
		if ok {
			return content, nil
		}

		body, err := l.readBody(id)
		if err != nil {
			return nil, err
		}

		if err := session.admit(id, body, int64(len(body))); err != nil {
			return nil, err
		}
		return body, nil
	})
	if err != nil {
		return "", err
	}

	logger.G(ctx).WithField("skill", id).WithField("coalesced", shared).Debug("skill activated")
	return result.(string), nil
}

// readBody reads one skill's SKILL.md and strips the frontmatter.
func (l *Loader) readBody(id string) (string, error) {
	d, err := l.registry.Get(id)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(d.BodyPath())
	if err != nil {
		return "", errors.Wrapf(err, "failed to read body of skill %q", id)
	}

	_, body, err := skills.ParseMetadata(content)
	if err != nil {
		return "", errors.Wrapf(err, "skill %q changed on disk since scan", id)
	}
	return body, nil
}

// ResolveResource reads one resource file of a registered skill. The
// path must be one of the relative paths recorded at scan time and must stay inside the package root once resolved; anything
// else fails with ErrResourceNotFound or ErrPathEscape. Resource reads
// are not counted against the session budget.
func (l *Loader) ResolveResource(ctx context.Context, session *Session, id, category, relPath string) ([]byte, error) {
	if err := session.checkOpen(); err != nil {
		return nil, errors.Wrapf(err, "resolve resource %q", relPath)
	}

	d, err := l.registry.Get(id)
	if err != nil {
		return nil, err
	}

	resolved, err := resolveWithin(d.SourcePath, category, relPath)
	if err != nil {
		return nil, err
	}

	if !d.HasResource(category, filepath.ToSlash(filepath.Clean(relPath))) {
		return nil, errors.Wrapf(ErrResourceNotFound, "skill %q has no %s/%s", id, category, relPath)
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, errors.Wrapf(ErrResourceNotFound, "skill %q: %s/%s: %v", id, category, relPath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read resource %s/%s of skill %q", category, relPath, id)
	}

	logger.G(ctx).WithField("skill", id).WithField("resource", category+"/"+relPath).Debug("resource resolved")
	return data, nil
}

// ListResources returns the recorded resource paths of a skill for one
// category, optionally filtered by a doublestar glob pattern.
func (l *Loader) ListResources(id, category, pattern string) ([]string, error) {
	d, err := l.registry.Get(id)
	if err != nil {
		return nil, err
	}

	paths := d.Resources[category]
	if pattern == "" {
		out := make([]string, len(paths))
		copy(out, paths)
		return out, nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid resource pattern %q", pattern)
	}

	var out []string
	for _, p := range paths {
		if ok, _ := doublestar.Match(pattern, p); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// resolveWithin joins root/category/relPath and verifies the result
// stays under root. Crafted relative paths ("../../etc/passwd",
// absolute paths) are rejected before any disk access.
func resolveWithin(root, category, relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", errors.Wrapf(ErrPathEscape, "absolute path %q", relPath)
	}

	catDir := filepath.Clean(filepath.Join(root, category))
	resolved := filepath.Clean(filepath.Join(catDir, relPath))
	if !strings.HasPrefix(resolved, catDir+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrPathEscape, "path %q resolves outside %q", relPath, catDir)
	}
	return resolved, nil
}
