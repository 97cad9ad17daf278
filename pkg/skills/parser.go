package skills

import (
	"bytes"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// ParseMetadata parses the raw content of a SKILL.md file into its
// typed metadata and the markdown body with the frontmatter stripped.
// It is a pure function: no I/O, no side effects. Unknown frontmatter
// keys are preserved in Metadata.Extra, never rejected. A missing or
// empty name or description, or a header that is not well-formed YAML
// key-value structure, fails with a MetadataError.
func ParseMetadata(content []byte) (*Metadata, string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, "", errors.Wrap(&MetadataError{Reason: "failed to parse markdown"}, err.Error())
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, "", &MetadataError{Reason: "missing frontmatter"}
	}

	var m Metadata
	if err := mapstructure.Decode(metaData, &m); err != nil {
		return nil, "", errors.WithMessage(&MetadataError{Reason: "malformed frontmatter"}, err.Error())
	}

	if strings.TrimSpace(m.Name) == "" {
		return nil, "", &MetadataError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(m.Description) == "" {
		return nil, "", &MetadataError{Field: "description", Reason: "is required"}
	}

	return &m, extractBody(string(content)), nil
}

// extractBody removes the YAML frontmatter block and returns the body.
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}
