package skills

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound indicates a registry lookup for an unknown skill id.
	ErrNotFound = errors.New("skill not found")

	// ErrDuplicateID indicates two candidate packages in one scan
	// resolved to the same id. The corpus is ambiguous and the whole
	// scan is aborted.
	ErrDuplicateID = errors.New("duplicate skill id")
)

// MetadataError describes why one candidate's SKILL.md frontmatter was
// rejected. It isolates the candidate; sibling candidates still scan.
type MetadataError struct {
	Field  string // offending field, empty when the header itself is malformed
	Reason string
}

func (e *MetadataError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid metadata: %s", e.Reason)
	}
	return fmt.Sprintf("invalid metadata: field %q %s", e.Field, e.Reason)
}

// IsInvalidMetadata reports whether err is a metadata validation
// failure, however deeply wrapped.
func IsInvalidMetadata(err error) bool {
	var me *MetadataError
	return errors.As(err, &me)
}
