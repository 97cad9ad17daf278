// Package skills implements discovery and indexing of skill packages.
// A skill package is a directory containing a SKILL.md file with YAML
// frontmatter describing the skill, a markdown body with the full
// instructions, and optional scripts/, references/ and assets/
// subdirectories with supporting files. Scanning reads only the
// frontmatter; bodies and resources stay on disk until a loader
// materializes them.
package skills

import "path/filepath"

// SkillFileName is the package-defining file a candidate directory
// must contain to be treated as a skill.
const SkillFileName = "SKILL.md"

// Resource categories recognized inside a skill package.
const (
	CategoryScripts    = "scripts"
	CategoryReferences = "references"
	CategoryAssets     = "assets"
)

// ResourceCategories lists the recognized categories in a stable order.
var ResourceCategories = []string{CategoryScripts, CategoryReferences, CategoryAssets}

// Metadata is the typed view of a SKILL.md frontmatter block.
// Name and Description are required; unknown keys are preserved in
// Extra rather than rejected.
type Metadata struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Description string `yaml:"description" mapstructure:"description"`
	License     string `yaml:"license" mapstructure:"license"`

	Extra map[string]any `yaml:"-" mapstructure:",remain"`
}

// Descriptor is the discovery-time record for one skill package.
// Descriptors are built by the Scanner and shared read-only through a
// Registry; nothing mutates them after the scan.
type Descriptor struct {
	// ID is the skill identifier, derived from the package directory
	// name. Unique within a registry.
	ID string

	Name        string
	Description string
	License     string

	// SourcePath is the absolute path of the package directory.
	SourcePath string

	// Resources maps a category (scripts, references, assets) to the
	// relative paths of the files under it, sorted. Categories absent
	// on disk have no entry. File contents are never read at scan time.
	Resources map[string][]string

	// Extra carries unrecognized frontmatter keys verbatim.
	Extra map[string]any
}

// BodyPath returns the path of the package's SKILL.md file.
func (d *Descriptor) BodyPath() string {
	return filepath.Join(d.SourcePath, SkillFileName)
}

// HasResource reports whether relPath is one of the recorded resource
// files for the given category.
func (d *Descriptor) HasResource(category, relPath string) bool {
	for _, p := range d.Resources[category] {
		if p == relPath {
			return true
		}
	}
	return false
}
