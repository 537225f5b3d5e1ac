package control

import (
	"context"
	"net/http"

	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/danielgtaylor/huma/v2"
)

type ListTagsInput struct {
	Name   string `query:"name" doc:"Only the tag with this name"`
	Output string `query:"output" doc:"Only tags on this output, defaults to the focused output when name is set"`
}

type TagInput struct {
	ID uint32 `path:"id" doc:"Tag ID"`
}

type TagActionInput struct {
	ID   uint32 `path:"id" doc:"Tag ID"`
	Body struct {
		Action Action `json:"action" enum:"set,unset,toggle" doc:"How to change the tag"`
	}
}

type TagLayoutInput struct {
	ID   uint32 `path:"id" doc:"Tag ID"`
	Body struct {
		Layout string `json:"layout" minLength:"1" doc:"Layout name"`
	}
}

type TagOutput struct {
	Body Tag
}

func (s *Server) registerTags(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tags",
		Method:      http.MethodGet,
		Path:        "/api/tags",
		Summary:     "List tags",
		Tags:        []string{"Tags"},
	}, func(ctx context.Context, input *ListTagsInput) (*TagsOutput, error) {
		res := &TagsOutput{}
		return res, s.call(ctx, func(state *wm.State) error {
			switch {
			case input.Name != "":
				t, err := state.FindTag(input.Name, input.Output)
				if err != nil {
					return err
				}
				res.Body = []Tag{newTag(t)}
			case input.Output != "":
				o, err := state.Output(input.Output)
				if err != nil {
					return err
				}
				res.Body = newTags(o.Tags())
			default:
				res.Body = newTags(state.Tags.All())
			}
			return nil
		})
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-tag",
		Method:        http.MethodDelete,
		Path:          "/api/tags/{id}",
		Summary:       "Delete tag",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *TagInput) (*struct{}, error) {
		return nil, s.call(ctx, func(state *wm.State) error {
			return state.RemoveTags(tag.ID(input.ID))
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-tag-active",
		Method:      http.MethodPut,
		Path:        "/api/tags/{id}/active",
		Summary:     "Show or hide a tag",
		Tags:        []string{"Tags"},
	}, func(ctx context.Context, input *TagActionInput) (*TagOutput, error) {
		res := &TagOutput{}
		return res, s.call(ctx, func(state *wm.State) error {
			t, err := state.Tag(tag.ID(input.ID))
			if err != nil {
				return err
			}
			if err := state.SetTagActive(t.ID, input.Body.Action.apply(t.Active)); err != nil {
				return err
			}
			res.Body = newTag(t)
			return nil
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "switch-tag",
		Method:      http.MethodPost,
		Path:        "/api/tags/{id}/switch",
		Summary:     "Show only this tag on its output",
		Tags:        []string{"Tags"},
	}, func(ctx context.Context, input *TagInput) (*TagsOutput, error) {
		res := &TagsOutput{}
		return res, s.call(ctx, func(state *wm.State) error {
			if err := state.SwitchToTag(tag.ID(input.ID)); err != nil {
				return err
			}
			t, err := state.Tag(tag.ID(input.ID))
			if err != nil {
				return err
			}
			o, err := state.Output(t.Output)
			if err != nil {
				return err
			}
			res.Body = newTags(o.Tags())
			return nil
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-tag-layout",
		Method:      http.MethodPut,
		Path:        "/api/tags/{id}/layout",
		Summary:     "Change the layout of a tag",
		Tags:        []string{"Tags"},
	}, func(ctx context.Context, input *TagLayoutInput) (*TagOutput, error) {
		res := &TagOutput{}
		return res, s.call(ctx, func(state *wm.State) error {
			if err := state.SetTagLayout(tag.ID(input.ID), input.Body.Layout); err != nil {
				return err
			}
			t, err := state.Tag(tag.ID(input.ID))
			if err != nil {
				return err
			}
			res.Body = newTag(t)
			return nil
		})
	})
}
