package skills

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/skillhub/skillhub/pkg/logger"
)

// Scanner discovers skill packages under configured root directories
// and produces an immutable Registry from the candidates whose
// metadata validates.
type Scanner struct {
	roots       []string
	allow       []glob.Glob
	parallelism int
}

// Option configures a Scanner.
type Option func(*Scanner) error

// WithRoots sets the root directories to scan. Roots are scanned in
// the given order; within a root, candidates scan in path sort order.
func WithRoots(roots ...string) Option {
	return func(s *Scanner) error {
		if len(roots) == 0 {
			return errors.New("at least one root directory must be specified")
		}
		s.roots = roots
		return nil
	}
}

// WithDefaultRoots configures the conventional skill locations: the
// repo-local ./.skillhub/skills directory followed by the user-global
// ~/.skillhub/skills directory.
func WithDefaultRoots() Option {
	return func(s *Scanner) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		s.roots = []string{
			"./.skillhub/skills",
			filepath.Join(homeDir, ".skillhub", "skills"),
		}
		return nil
	}
}

// WithAllowlist restricts the scan to skills whose id matches one of
// the given glob patterns. An empty allowlist admits everything.
func WithAllowlist(patterns ...string) Option {
	return func(s *Scanner) error {
		for _, p := range patterns {
			g, err := glob.Compile(p)
			if err != nil {
				return errors.Wrapf(err, "invalid allowlist pattern %q", p)
			}
			s.allow = append(s.allow, g)
		}
		return nil
	}
}

// WithParallelism bounds the number of candidate directories parsed
// concurrently. Defaults to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(s *Scanner) error {
		if n < 1 {
			return errors.Errorf("parallelism must be positive, got %d", n)
		}
		s.parallelism = n
		return nil
	}
}

// NewScanner creates a Scanner. Without options it scans the default
// skill roots.
func NewScanner(opts ...Option) (*Scanner, error) {
	s := &Scanner{parallelism: runtime.GOMAXPROCS(0)}

	if len(opts) == 0 {
		if err := WithDefaultRoots()(s); err != nil {
			return nil, err
		}
		return s, nil
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if len(s.roots) == 0 {
		if err := WithDefaultRoots()(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ParseFailure records one candidate directory whose metadata was
// rejected. The candidate is quarantined; the scan continues.
type ParseFailure struct {
	Dir string
	Err error
}

// ScanResult is the outcome of one scan: the registry of valid skills
// plus the quarantined candidates.
type ScanResult struct {
	Registry *Registry
	Failures []ParseFailure
}

// FailureError folds the per-candidate failures into a single error
// value, or nil when every candidate parsed.
func (r *ScanResult) FailureError() error {
	var merr *multierror.Error
	for _, f := range r.Failures {
		merr = multierror.Append(merr, errors.Wrapf(f.Err, "skill %q", f.Dir))
	}
	return merr.ErrorOrNil()
}

// candidate is one directory containing a SKILL.md, pre-parse.
type candidate struct {
	id  string
	dir string
}

// Scan walks the configured roots and builds the corpus snapshot.
// Candidates parse in parallel, but the result order is the
// deterministic path sort order of discovery, independent of
// scheduling. A candidate whose metadata fails to validate is reported
// in the result and does not abort its siblings; two candidates
// resolving to the same id abort the whole scan with ErrDuplicateID.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	log := logger.G(ctx)

	candidates, err := s.collectCandidates()
	if err != nil {
		return nil, err
	}

	descriptors := make([]*Descriptor, len(candidates))
	failures := make([]*ParseFailure, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := s.loadDescriptor(c)
			if err != nil {
				if IsInvalidMetadata(err) {
					failures[i] = &ParseFailure{Dir: c.dir, Err: err}
					return nil
				}
				return errors.Wrapf(err, "failed to scan %q", c.dir)
			}
			descriptors[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ScanResult{}
	ordered := make([]*Descriptor, 0, len(candidates))
	for i := range candidates {
		if failures[i] != nil {
			log.WithField("dir", failures[i].Dir).WithError(failures[i].Err).Debug("quarantined skill candidate")
			result.Failures = append(result.Failures, *failures[i])
			continue
		}
		if descriptors[i] != nil {
			ordered = append(ordered, descriptors[i])
		}
	}

	result.Registry = newRegistry(ordered)
	log.WithField("skills", result.Registry.Len()).WithField("failures", len(result.Failures)).Debug("scan complete")
	return result, nil
}

// collectCandidates enumerates the immediate subdirectories of each
// root that contain a SKILL.md, in path sort order, applying the
// allowlist and rejecting duplicate ids up front.
func (s *Scanner) collectCandidates() ([]candidate, error) {
	var candidates []candidate
	seen := make(map[string]string)

	for _, root := range s.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			// A missing root is an empty corpus, not a failure.
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "failed to read root %q", root)
		}

		// os.ReadDir returns entries sorted by name.
		for _, entry := range entries {
			entryPath := filepath.Join(root, entry.Name())

			// Stat rather than entry.IsDir so symlinked packages work.
			info, err := os.Stat(entryPath)
			if err != nil || !info.IsDir() {
				continue
			}

			if _, err := os.Stat(filepath.Join(entryPath, SkillFileName)); err != nil {
				continue
			}

			id := entry.Name()
			if !s.allowed(id) {
				continue
			}

			if prev, dup := seen[id]; dup {
				return nil, errors.Wrapf(ErrDuplicateID, "%q found at both %q and %q", id, prev, entryPath)
			}
			seen[id] = entryPath

			candidates = append(candidates, candidate{id: id, dir: entryPath})
		}
	}

	return candidates, nil
}

func (s *Scanner) allowed(id string) bool {
	if len(s.allow) == 0 {
		return true
	}
	for _, g := range s.allow {
		if g.Match(id) {
			return true
		}
	}
	return false
}

// loadDescriptor parses one candidate's frontmatter and records which
// resource files exist. Resource contents are not read.
func (s *Scanner) loadDescriptor(c candidate) (*Descriptor, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, SkillFileName))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	m, _, err := ParseMetadata(content)
	if err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(c.dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve skill directory")
	}

	resources, err := collectResources(absDir)
	if err != nil {
		return nil, err
	}

	return &Descriptor{
		ID:          c.id,
		Name:        m.Name,
		Description: m.Description,
		License:     m.License,
		SourcePath:  absDir,
		Resources:   resources,
		Extra:       m.Extra,
	}, nil
}

// collectResources lists the relative file paths under each recognized
// resource subdirectory. Only paths are recorded; file contents stay
// untouched until a loader resolves them.
func collectResources(dir string) (map[string][]string, error) {
	resources := make(map[string][]string)

	for _, category := range ResourceCategories {
		catDir := filepath.Join(dir, category)
		info, err := os.Stat(catDir)
		if err != nil || !info.IsDir() {
			continue
		}

		var files []string
		err = filepath.WalkDir(catDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(catDir, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list %s resources", category)
		}

		sort.Strings(files)
		resources[category] = files
	}

	return resources, nil
}
