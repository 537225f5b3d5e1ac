package control

import (
	"context"
	"net/http"

	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/danielgtaylor/huma/v2"
)

type WindowInput struct {
	ID uint32 `path:"id" doc:"Window ID"`
}

type WindowActionInput struct {
	ID   uint32 `path:"id" doc:"Window ID"`
	Body struct {
		Action Action `json:"action" enum:"set,unset,toggle" doc:"How to change the property"`
	}
}

type WindowTagsInput struct {
	ID   uint32 `path:"id" doc:"Window ID"`
	Body struct {
		Tags []uint32 `json:"tags" minItems:"1" doc:"Tags replacing the current ones"`
	}
}

type WindowTagInput struct {
	ID   uint32 `path:"id" doc:"Window ID"`
	Tag  uint32 `path:"tag" doc:"Tag ID"`
	Body struct {
		Action Action `json:"action" enum:"set,unset,toggle" doc:"How to change the tag"`
	}
}

type BeginGrabInput struct {
	Body struct {
		Button uint32 `json:"button" default:"1" minimum:"1" maximum:"5" doc:"Pointer button whose release ends the grab"`
	}
}

func (s *Server) registerWindows(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-windows",
		Method:      http.MethodGet,
		Path:        "/api/windows",
		Summary:     "List windows",
		Tags:        []string{"Windows"},
	}, func(ctx context.Context, input *struct{}) (*WindowsOutput, error) {
		res := &WindowsOutput{}
		return res, s.call(ctx, func(state *wm.State) error {
			res.Body = make([]wm.Props, 0)
			for _, w := range state.Windows() {
				res.Body = append(res.Body, state.Props(w))
			}
			return nil
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-focused-window",
		Method:      http.MethodGet,
		Path:        "/api/windows/focused",
		Summary:     "Get the focused window",
		Tags:        []string{"Windows"},
	}, func(ctx context.Context, input *struct{}) (*WindowOutput, error) {
		res := &WindowOutput{}
		return res, s.call(ctx, func(state *wm.State) error {
			w := state.FocusedWindow()
			if w == nil {
				return huma.Error404NotFound("no window has focus")
			}
			res.Body = state.Props(w)
			return nil
		})
	})

	for _, op := range []struct {
		name  string
		begin func(state *wm.State, button uint32) (*window.Window, error)
	}{
		{name: "move", begin: (*wm.State).BeginMoveUnderPointer},
		{name: "resize", begin: (*wm.State).BeginResizeUnderPointer},
	} {
		huma.Register(api, huma.Operation{
			OperationID: "begin-" + op.name,
			Method:      http.MethodPost,
			Path:        "/api/windows/begin-" + op.name,
			Summary:     "Start an interactive " + op.name + " of the window under the pointer",
			Tags:        []string{"Windows"},
		}, func(ctx context.Context, input *BeginGrabInput) (*GrabOutput, error) {
			res := &GrabOutput{}
			return res, s.call(ctx, func(state *wm.State) error {
				w, err := op.begin(state, input.Body.Button)
				if err != nil {
					return err
				}
				_, grabbing := state.Grabbing()
				res.Body.Window = state.Props(w)
				res.Body.Grabbing = grabbing
				return nil
			})
		})
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-window",
		Method:      http.MethodGet,
		Path:        "/api/windows/{id}",
		Summary:     "Get window",
		Tags:        []string{"Windows"},
	}, func(ctx context.Context, input *WindowInput) (*WindowOutput, error) {
		res := &WindowOutput{}
		return res, s.withWindow(ctx, input.ID, func(state *wm.State, w *window.Window) error {
			res.Body = state.Props(w)
			return nil
		})
	})

	huma.Register(api, huma.Operation{
		OperationID:   "close-window",
		Method:        http.MethodPost,
		Path:          "/api/windows/{id}/close",
		Summary:       "Ask a window to close",
		Tags:          []string{"Windows"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *WindowInput) (*struct{}, error) {
		return nil, s.withWindow(ctx, input.ID, func(state *wm.State, w *window.Window) error {
			return state.Close(w)
		})
	})

	huma.Register(api, huma.Operation{
		OperationID:   "focus-window",
		Method:        http.MethodPost,
		Path:          "/api/windows/{id}/focus",
		Summary:       "Focus and raise a window",
		Tags:          []string{"Windows"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *WindowInput) (*struct{}, error) {
		return nil, s.withWindow(ctx, input.ID, func(state *wm.State, w *window.Window) error {
			state.Focus(w)
			return nil
		})
	})

	for _, prop := range []struct {
		name string
		get  func(w *window.Window) bool
		set  func(state *wm.State, w *window.Window, on bool)
	}{
		{
			name: "fullscreen",
			get:  func(w *window.Window) bool { return w.Mode == window.ModeFullscreen },
			set:  (*wm.State).SetFullscreen,
		},
		{
			name: "maximized",
			get:  func(w *window.Window) bool { return w.Mode == window.ModeMaximized },
			set:  (*wm.State).SetMaximized,
		},
		{
			name: "floating",
			get:  func(w *window.Window) bool { return w.Floating.IsFloating() },
			set:  (*wm.State).SetFloating,
		},
	} {
		huma.Register(api, huma.Operation{
			OperationID: "set-window-" + prop.name,
			Method:      http.MethodPut,
			Path:        "/api/windows/{id}/" + prop.name,
			Summary:     "Change " + prop.name,
			Tags:        []string{"Windows"},
		}, func(ctx context.Context, input *WindowActionInput) (*WindowOutput, error) {
			res := &WindowOutput{}
			return res, s.withWindow(ctx, input.ID, func(state *wm.State, w *window.Window) error {
				prop.set(state, w, input.Body.Action.apply(prop.get(w)))
				res.Body = state.Props(w)
				return nil
			})
		})
	}

	huma.Register(api, huma.Operation{
		OperationID: "move-window-to-tags",
		Method:      http.MethodPut,
		Path:        "/api/windows/{id}/tags",
		Summary:     "Replace the tags of a window",
		Tags:        []string{"Windows"},
	}, func(ctx context.Context, input *WindowTagsInput) (*WindowOutput, error) {
		res := &WindowOutput{}
		return res, s.withWindow(ctx, input.ID, func(state *wm.State, w *window.Window) error {
			for _, id := range input.Body.Tags {
				if _, err := state.Tag(tag.ID(id)); err != nil {
					return err
				}
			}

			if err := state.MoveToTag(w, tag.ID(input.Body.Tags[0])); err != nil {
				return err
			}
			for _, id := range input.Body.Tags[1:] {
				if err := state.SetTag(w, tag.ID(id), true); err != nil {
					return err
				}
			}

			res.Body = state.Props(w)
			return nil
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-window-tag",
		Method:      http.MethodPut,
		Path:        "/api/windows/{id}/tags/{tag}",
		Summary:     "Add or remove one tag of a window",
		Tags:        []string{"Windows"},
	}, func(ctx context.Context, input *WindowTagInput) (*WindowOutput, error) {
		res := &WindowOutput{}
		return res, s.withWindow(ctx, input.ID, func(state *wm.State, w *window.Window) error {
			id := tag.ID(input.Tag)
			if err := state.SetTag(w, id, input.Body.Action.apply(w.HasTag(id))); err != nil {
				return err
			}
			res.Body = state.Props(w)
			return nil
		})
	})
}

func (s *Server) withWindow(ctx context.Context, id uint32, fn func(state *wm.State, w *window.Window) error) error {
	return s.call(ctx, func(state *wm.State) error {
		w, err := state.Window(window.ID(id))
		if err != nil {
			return err
		}
		return fn(state, w)
	})
}
