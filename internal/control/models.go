package control

import (
	"github.com/ItsNotGoodName/x-tagwm/internal/barrier"
	"github.com/ItsNotGoodName/x-tagwm/internal/build"
	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/output"
	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
)

type Tag struct {
	ID     tag.ID `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Layout string `json:"layout"`
	Output string `json:"output"`
}

func newTag(t *tag.Tag) Tag {
	return Tag{
		ID:     t.ID,
		Name:   t.Name,
		Active: t.Active,
		Layout: t.Layout,
		Output: t.Output,
	}
}

func newTags(tags []*tag.Tag) []Tag {
	res := make([]Tag, 0, len(tags))
	for _, t := range tags {
		res = append(res, newTag(t))
	}
	return res
}

type Output struct {
	Name     string      `json:"name"`
	Geometry geom.Rect   `json:"geometry"`
	Focused  bool        `json:"focused"`
	Tags     []Tag       `json:"tags"`
	Windows  []window.ID `json:"windows"`
}

func newOutput(o *output.Output, focused bool) Output {
	windows := o.Windows()
	if windows == nil {
		windows = []window.ID{}
	}
	return Output{
		Name:     o.Name,
		Geometry: o.Geometry,
		Focused:  focused,
		Tags:     newTags(o.Tags()),
		Windows:  windows,
	}
}

type Episode struct {
	ID       string      `json:"id"`
	Gated    window.ID   `json:"gated"`
	Siblings []window.ID `json:"siblings"`
	State    string      `json:"state"`
}

type Barriers struct {
	Active   int64     `json:"active" doc:"Episodes waiting for release across every tracker"`
	Episodes []Episode `json:"episodes"`
}

func newBarriers(eps []barrier.Episode) Barriers {
	res := Barriers{
		Active:   barrier.Active(),
		Episodes: make([]Episode, 0, len(eps)),
	}
	for _, ep := range eps {
		res.Episodes = append(res.Episodes, Episode{
			ID:       ep.ID.String(),
			Gated:    ep.Gated,
			Siblings: ep.Siblings,
			State:    ep.State.String(),
		})
	}
	return res
}

type WindowOutput struct {
	Body wm.Props
}

type WindowsOutput struct {
	Body []wm.Props
}

type TagsOutput struct {
	Body []Tag
}

type OutputsOutput struct {
	Body []Output
}

type LayoutsOutput struct {
	Body struct {
		Names []string `json:"names"`
	}
}

type Grab struct {
	Window   wm.Props `json:"window"`
	Grabbing bool     `json:"grabbing" doc:"False when the window cannot be grabbed, such as a resize of a tiled window"`
}

type GrabOutput struct {
	Body Grab
}

type BuildOutput struct {
	Body build.Build
}

type BarriersOutput struct {
	Body Barriers
}
