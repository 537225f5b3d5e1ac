package output

import (
	"iter"
	"slices"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
)

type Output struct {
	Name     string
	Geometry geom.Rect

	tags    []*tag.Tag
	windows []window.ID
}

func New(name string, geometry geom.Rect) *Output {
	return &Output{
		Name:     name,
		Geometry: geometry,
	}
}

// Tags returns the tags in declaration order.
func (o *Output) Tags() []*tag.Tag {
	return slices.Clone(o.tags)
}

func (o *Output) TagIDs() []tag.ID {
	ids := make([]tag.ID, 0, len(o.tags))
	for _, t := range o.tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func (o *Output) HasTag(id tag.ID) bool {
	return slices.ContainsFunc(o.tags, func(t *tag.Tag) bool { return t.ID == id })
}

func (o *Output) AddTags(tags ...*tag.Tag) {
	for _, t := range tags {
		if !o.HasTag(t.ID) {
			o.tags = append(o.tags, t)
		}
	}
}

func (o *Output) RemoveTag(id tag.ID) bool {
	i := slices.IndexFunc(o.tags, func(t *tag.Tag) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	o.tags = slices.Delete(o.tags, i, i+1)
	return true
}

// FocusedTags yields the active tags in declaration order.
func (o *Output) FocusedTags() iter.Seq[*tag.Tag] {
	return func(yield func(*tag.Tag) bool) {
		for _, t := range o.tags {
			if t.Active && !yield(t) {
				return
			}
		}
	}
}

func (o *Output) FocusedTagIDs() []tag.ID {
	var ids []tag.ID
	for t := range o.FocusedTags() {
		ids = append(ids, t.ID)
	}
	return ids
}

// Windows is the cached list of windows associated with this output.
func (o *Output) Windows() []window.ID {
	return slices.Clone(o.windows)
}

func (o *Output) SetWindows(ids []window.ID) {
	o.windows = ids
}
