// Package tag holds workspace labels and the registry that allocates them.
package tag

import (
	"errors"
	"slices"
)

var ErrNotFound = errors.New("tag not found")

type ID uint32

type Tag struct {
	ID     ID
	Name   string
	Active bool
	// Layout is the name of the arrangement used when this tag governs an output.
	Layout string
	// Output is the name of the output the tag is attached to.
	Output string
}

// Registry is the arena of live tags. Outputs hold the pointers, windows hold ids.
type Registry struct {
	next ID
	tags map[ID]*Tag
}

func NewRegistry() *Registry {
	return &Registry{
		next: 1,
		tags: make(map[ID]*Tag),
	}
}

func (r *Registry) New(output, name, layout string) *Tag {
	t := &Tag{
		ID:     r.next,
		Name:   name,
		Layout: layout,
		Output: output,
	}
	r.next++
	r.tags[t.ID] = t
	return t
}

func (r *Registry) Get(id ID) (*Tag, bool) {
	t, ok := r.tags[id]
	return t, ok
}

func (r *Registry) Remove(id ID) (*Tag, error) {
	t, ok := r.tags[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.tags, id)
	return t, nil
}

// All returns every live tag ordered by id.
func (r *Registry) All() []*Tag {
	tags := make([]*Tag, 0, len(r.tags))
	for _, t := range r.tags {
		tags = append(tags, t)
	}
	slices.SortFunc(tags, func(a, b *Tag) int { return int(a.ID) - int(b.ID) })
	return tags
}

// Intersects reports whether a and b share at least one id.
func Intersects(a, b []ID) bool {
	for _, id := range a {
		if slices.Contains(b, id) {
			return true
		}
	}
	return false
}
