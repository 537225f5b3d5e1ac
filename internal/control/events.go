package control

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
)

func (s *Server) registerEvents(api huma.API) {
	sse.Register(api, huma.Operation{
		OperationID: "events",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Stream window manager events",
		Tags:        []string{"Events"},
	}, map[string]any{
		"message": wm.Event{},
	}, func(ctx context.Context, input *struct{}, send sse.Sender) {
		eventC, unsubscribe := s.hub.Subscribe()
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventC:
				if err := send.Data(event); err != nil {
					slog.Debug("Stopped event stream", "package", "control", "error", err)
					return
				}
			}
		}
	})
}
