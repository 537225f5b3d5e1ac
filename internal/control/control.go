// Package control exposes the window manager over HTTP.
package control

import (
	"context"
	"errors"
	"net/http"

	"github.com/ItsNotGoodName/x-tagwm/internal/build"
	"github.com/ItsNotGoodName/x-tagwm/internal/bus"
	"github.com/ItsNotGoodName/x-tagwm/internal/layout"
	"github.com/ItsNotGoodName/x-tagwm/internal/loop"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/danielgtaylor/huma/v2"
)

// Caller runs fn on the goroutine that owns the window manager state.
type Caller interface {
	Call(ctx context.Context, fn func() error) error
}

type Server struct {
	caller Caller
	state  *wm.State
	hub    *bus.Hub[wm.Event]
	quit   func()
}

func New(caller Caller, state *wm.State, hub *bus.Hub[wm.Event], quit func()) *Server {
	return &Server{
		caller: caller,
		state:  state,
		hub:    hub,
		quit:   quit,
	}
}

// call runs fn against the state and maps window manager errors to HTTP errors.
func (s *Server) call(ctx context.Context, fn func(state *wm.State) error) error {
	return toHumaError(s.caller.Call(ctx, func() error { return fn(s.state) }))
}

func toHumaError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wm.ErrWindowNotFound), errors.Is(err, wm.ErrTagNotFound), errors.Is(err, wm.ErrOutputNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, layout.ErrUnknownLayout):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, loop.ErrClosed):
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		return err
	}
}

func (s *Server) Register(api huma.API) {
	s.registerWindows(api)
	s.registerTags(api)
	s.registerOutputs(api)
	s.registerEvents(api)

	huma.Register(api, huma.Operation{
		OperationID: "list-layouts",
		Method:      http.MethodGet,
		Path:        "/api/layouts",
		Summary:     "List layouts",
		Tags:        []string{"Layouts"},
	}, func(ctx context.Context, input *struct{}) (*LayoutsOutput, error) {
		res := &LayoutsOutput{}
		return res, s.call(ctx, func(state *wm.State) error {
			res.Body.Names = state.Layouts.Names()
			return nil
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "debug-barriers",
		Method:      http.MethodGet,
		Path:        "/api/debug/barriers",
		Summary:     "Show commit barriers in flight",
		Tags:        []string{"Debug"},
	}, func(ctx context.Context, input *struct{}) (*BarriersOutput, error) {
		res := &BarriersOutput{}
		return res, s.call(ctx, func(state *wm.State) error {
			res.Body = newBarriers(state.Barriers.Episodes())
			return nil
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-build",
		Method:      http.MethodGet,
		Path:        "/api/build",
		Summary:     "Show the running version",
	}, func(ctx context.Context, input *struct{}) (*BuildOutput, error) {
		return &BuildOutput{Body: build.Current}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "quit",
		Method:        http.MethodPost,
		Path:          "/api/quit",
		Summary:       "Quit the window manager",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct{}) (*struct{}, error) {
		s.quit()
		return nil, nil
	})
}

// Action changes a boolean property.
type Action string

const (
	ActionSet    Action = "set"
	ActionUnset  Action = "unset"
	ActionToggle Action = "toggle"
)

func (a Action) apply(current bool) bool {
	switch a {
	case ActionSet:
		return true
	case ActionUnset:
		return false
	default:
		return !current
	}
}
