package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata(t *testing.T) {
	content := `---
name: rest-api
description: Build REST APIs with proper routing
license: MIT
---

# REST API

## Instructions
Use the framework's router.
`

	m, body, err := ParseMetadata([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, "rest-api", m.Name)
	assert.Equal(t, "Build REST APIs with proper routing", m.Description)
	assert.Equal(t, "MIT", m.License)
	assert.Contains(t, body, "# REST API")
	assert.NotContains(t, body, "name: rest-api")
}

func TestParseMetadataUnknownFieldsPreserved(t *testing.T) {
	content := `---
name: styled-forms
description: Style forms for the web
version: 2
tags:
  - css
  - forms
---

Body text.
`

	m, _, err := ParseMetadata([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, "styled-forms", m.Name)
	require.Contains(t, m.Extra, "version")
	require.Contains(t, m.Extra, "tags")
}

func TestParseMetadataMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{
			name: "missing name",
			content: `---
description: A skill without a name
---
Body.
`,
			field: "name",
		},
		{
			name: "empty name",
			content: `---
name: ""
description: A skill with an empty name
---
Body.
`,
			field: "name",
		},
		{
			name: "missing description",
			content: `---
name: no-description
---
Body.
`,
			field: "description",
		},
		{
			name: "whitespace description",
			content: `---
name: ws-description
description: "   "
---
Body.
`,
			field: "description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseMetadata([]byte(tt.content))
			require.Error(t, err)
			assert.True(t, IsInvalidMetadata(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestParseMetadataNoFrontmatter(t *testing.T) {
	_, _, err := ParseMetadata([]byte("# Just markdown\n\nNo header at all.\n"))
	require.Error(t, err)
	assert.True(t, IsInvalidMetadata(err))
	assert.Contains(t, err.Error(), "missing frontmatter")
}

func TestParseMetadataIsPure(t *testing.T) {
	content := []byte(`---
name: pure
description: Parsing twice yields the same result
---

Deterministic body.
`)

	m1, body1, err := ParseMetadata(content)
	require.NoError(t, err)
	m2, body2, err := ParseMetadata(content)
	require.NoError(t, err)

	assert.Equal(t, m1.Name, m2.Name)
	assert.Equal(t, m1.Description, m2.Description)
	assert.Equal(t, body1, body2)
}

func TestExtractBody(t *testing.T) {
	t.Run("strips frontmatter", func(t *testing.T) {
		body := extractBody("---\nname: x\n---\n\nContent here.\n")
		assert.Equal(t, "Content here.\n", body)
	})

	t.Run("no frontmatter returns content unchanged", func(t *testing.T) {
		content := "# Heading\n\nContent.\n"
		assert.Equal(t, content, extractBody(content))
	})

	t.Run("unterminated frontmatter returns content unchanged", func(t *testing.T) {
		content := "---\nname: x\nno closing fence\n"
		assert.Equal(t, content, extractBody(content))
	})
}
