package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ItsNotGoodName/x-tagwm/internal/build"
	"github.com/ItsNotGoodName/x-tagwm/internal/bus"
	"github.com/ItsNotGoodName/x-tagwm/internal/config"
	"github.com/ItsNotGoodName/x-tagwm/internal/control"
	"github.com/ItsNotGoodName/x-tagwm/internal/core"
	"github.com/ItsNotGoodName/x-tagwm/internal/loop"
	"github.com/ItsNotGoodName/x-tagwm/internal/selection"
	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/ItsNotGoodName/x-tagwm/internal/xwm"
	"github.com/ItsNotGoodName/x-tagwm/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
	"github.com/spf13/cobra"
)

type Options struct {
	Debug   bool   `doc:"enable debug"`
	Host    string `doc:"host to listen on"`
	Port    int    `doc:"port to listen on" default:"8080"`
	Config  string `doc:"config file, empty keeps the config in memory" default:".x-tagwm.yaml"`
	Display string `doc:"X11 display, defaults to $DISPLAY"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			return run(ctx, options)
		})
	})

	cli.Root().Version = build.Current.String()
	cli.Root().AddCommand(&cobra.Command{
		Use:   "state",
		Short: "Print the windows, outputs and tags of a running instance",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *Options) {
			if err := printState(cmd.Context(), core.BaseURL(options.Host, options.Port)); err != nil {
				log.Fatal(err)
			}
		}),
	})

	cli.Run()
}

func run(ctx context.Context, options *Options) error {
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	bus.SetContext(ctx)

	var (
		configFilePath string
		driver         config.Driver = config.NewMemory()
	)
	if options.Config != "" {
		var err error
		if configFilePath, err = filepath.Abs(options.Config); err != nil {
			return err
		}
		driver = config.NewDriver(configFilePath)
	}

	store, err := config.NewStore(driver)
	if err != nil {
		return err
	}

	cfg, err := store.GetConfig()
	if err != nil {
		return err
	}

	layouts, err := cfg.Registry()
	if err != nil {
		return err
	}
	if err := cfg.Validate(layouts); err != nil {
		return err
	}

	templates := make([]wm.TagTemplate, 0, len(cfg.Tags))
	for _, t := range cfg.Tags {
		templates = append(templates, wm.TagTemplate{Name: t.Name, Layout: t.Layout, Active: t.Active})
	}

	l := loop.New()
	defer l.Close()

	seat := xwm.NewSeat()
	state := wm.New(l, seat, layouts, templates)
	x11 := xwm.New(options.Display, l, state, seat, selection.NewMemory(selection.Clipboard), selection.NewMemory(selection.Primary))

	hub := bus.NewHub[wm.Event](64).Register()

	router := control.NewRouter()
	control.New(l, state, hub, quit).Register(control.NewAPI(router))

	super := sutureext.NewSimple("root")
	sutureext.Add(super, l)
	sutureext.Add(super, x11)
	sutureext.Add(super, control.NewHTTPServer(core.Address(options.Host, options.Port), router))
	sutureext.Add(super, sutureext.NewServiceFunc("config.SaveTagLayouts", func(ctx context.Context) error {
		events, unsubscribe := hub.Subscribe()
		defer unsubscribe()

		return config.SaveTagLayouts(ctx, &store, events, func(ctx context.Context, id tag.ID) (tag.Tag, error) {
			var t tag.Tag
			return t, l.Call(ctx, func() error {
				found, err := state.Tag(id)
				if err != nil {
					return err
				}
				t = *found
				return nil
			})
		})
	}))

	slog.Info("Starting", "version", build.Current.String(), "config", configFilePath)

	return super.Serve(ctx)
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
