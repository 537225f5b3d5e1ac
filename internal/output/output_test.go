package output

import (
	"slices"
	"testing"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/stretchr/testify/assert"
)

func TestFocusedTags(t *testing.T) {
	reg := tag.NewRegistry()
	o := New("screen-0", geom.NewRect(0, 0, 1920, 1080))

	one := reg.New(o.Name, "1", "master_stack")
	two := reg.New(o.Name, "2", "master_stack")
	three := reg.New(o.Name, "3", "master_stack")
	o.AddTags(one, two, three, one)
	assert.Equal(t, []tag.ID{one.ID, two.ID, three.ID}, o.TagIDs())

	assert.Empty(t, slices.Collect(o.FocusedTags()))

	three.Active = true
	one.Active = true
	seq := o.FocusedTags()
	assert.Equal(t, []*tag.Tag{one, three}, slices.Collect(seq))
	assert.Equal(t, []*tag.Tag{one, three}, slices.Collect(seq), "restartable")

	// The view is lazy and reflects later changes.
	one.Active = false
	assert.Equal(t, []*tag.Tag{three}, slices.Collect(seq))
	assert.Equal(t, []tag.ID{three.ID}, o.FocusedTagIDs())

	for tg := range seq {
		assert.Same(t, three, tg)
		break
	}
}

func TestRemoveTag(t *testing.T) {
	reg := tag.NewRegistry()
	o := New("screen-0", geom.Rect{})
	one := reg.New(o.Name, "1", "grid")
	o.AddTags(one)

	assert.True(t, o.HasTag(one.ID))
	assert.True(t, o.RemoveTag(one.ID))
	assert.False(t, o.RemoveTag(one.ID))
	assert.Empty(t, o.Tags())
}
