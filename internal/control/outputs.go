package control

import (
	"context"
	"net/http"

	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/danielgtaylor/huma/v2"
)

type OutputInput struct {
	Name string `path:"name" doc:"Output name"`
}

type OutputTagsInput struct {
	Name string `path:"name" doc:"Output name"`
	Body struct {
		Names []string `json:"names" minItems:"1" doc:"Names of the new tags"`
	}
}

func (s *Server) registerOutputs(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-outputs",
		Method:      http.MethodGet,
		Path:        "/api/outputs",
		Summary:     "List outputs",
		Tags:        []string{"Outputs"},
	}, func(ctx context.Context, input *struct{}) (*OutputsOutput, error) {
		res := &OutputsOutput{}
		return res, s.call(ctx, func(state *wm.State) error {
			focused := state.FocusedOutput()
			res.Body = make([]Output, 0)
			for _, o := range state.Outputs() {
				res.Body = append(res.Body, newOutput(o, o == focused))
			}
			return nil
		})
	})

	huma.Register(api, huma.Operation{
		OperationID:   "focus-output",
		Method:        http.MethodPost,
		Path:          "/api/outputs/{name}/focus",
		Summary:       "Focus output",
		Tags:          []string{"Outputs"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *OutputInput) (*struct{}, error) {
		return nil, s.call(ctx, func(state *wm.State) error {
			return state.FocusOutput(input.Name)
		})
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-output-tags",
		Method:        http.MethodPost,
		Path:          "/api/outputs/{name}/tags",
		Summary:       "Add tags to an output",
		Tags:          []string{"Outputs"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *OutputTagsInput) (*TagsOutput, error) {
		res := &TagsOutput{}
		return res, s.call(ctx, func(state *wm.State) error {
			tags, err := state.AddTags(input.Name, input.Body.Names...)
			if err != nil {
				return err
			}
			res.Body = newTags(tags)
			return nil
		})
	})
}
