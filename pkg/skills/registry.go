package skills

import "github.com/pkg/errors"

// Registry is an immutable index of skill descriptors keyed by id.
// It is built once from a scan and safely shared by any number of
// concurrent readers; picking up corpus changes means scanning again
// and constructing a new Registry, never mutating an existing one.
type Registry struct {
	order []*Descriptor
	byID  map[string]*Descriptor
}

// newRegistry builds a registry from descriptors already in scan order.
// Duplicate ids must have been rejected by the caller.
func newRegistry(descriptors []*Descriptor) *Registry {
	byID := make(map[string]*Descriptor, len(descriptors))
	for _, d := range descriptors {
		byID[d.ID] = d
	}
	return &Registry{order: descriptors, byID: byID}
}

// List returns all descriptors in scan order. The returned slice is a
// copy; the descriptors it points to are shared and must not be
// modified.
func (r *Registry) List() []*Descriptor {
	out := make([]*Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the descriptor for id, or ErrNotFound.
func (r *Registry) Get(id string) (*Descriptor, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "skill %q", id)
	}
	return d, nil
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	return len(r.order)
}
