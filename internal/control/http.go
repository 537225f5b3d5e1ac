package control

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ItsNotGoodName/x-tagwm/internal/build"
	"github.com/ItsNotGoodName/x-tagwm/pkg/chiext"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chiext.Logger())
	r.Use(middleware.Recoverer)
	return r
}

func NewAPI(r chi.Router) huma.API {
	return humachi.New(r, huma.DefaultConfig("x-tagwm", build.Current.Version))
}

type HTTPServer struct {
	addr    string
	handler http.Handler
}

func NewHTTPServer(addr string, handler http.Handler) HTTPServer {
	return HTTPServer{
		addr:    addr,
		handler: handler,
	}
}

func (HTTPServer) String() string {
	return "control.HTTPServer"
}

func (s HTTPServer) Serve(ctx context.Context) error {
	slog := slog.With("func", "control.HTTPServer.Serve")

	server := &http.Server{
		Addr:    s.addr,
		Handler: s.handler,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errC := make(chan error, 1)
	go func() { errC <- server.ListenAndServe() }()
	slog.Info("Listening", "address", s.addr)

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errC; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
