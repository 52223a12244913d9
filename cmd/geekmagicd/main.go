package main

import (
	"context"
	"log"
	"net/http"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"geekmagic/pkg/control"
	"geekmagic/pkg/coordinator"
	"geekmagic/pkg/demo"
	"geekmagic/pkg/device"
	"geekmagic/pkg/preview"
	"geekmagic/pkg/render"
	"geekmagic/pkg/screen"
	"geekmagic/pkg/snapshot"
	"geekmagic/pkg/store"
)

var host = flag.String("host", "", "device ip or hostname")
var configPath = flag.String("config", "screens.yaml", "screen configuration file")
var interval = flag.Duration("interval", 10*time.Second, "refresh interval")
var timeout = flag.Duration("timeout", 5*time.Second, "device request timeout")
var listen = flag.String("listen", ":9123", "preview listen addr")
var cameras = flag.StringToString("camera", nil, "camera snapshot mapping, ref=url")
var cameraCache = flag.String("camera-cache", "", "cache dir for camera snapshots")
var tgToken = flag.String("tg-token", "", "telegram bot token")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	if *host == "" {
		log.Fatal("--host is required")
	}

	fx.New(
		fx.Provide(
			newLogger,
			newStore,
			newScreens,
			newDevice,
			newCompositor,
			newSource,
			newCoordinator,
			func() *http.Server {
				return &http.Server{Addr: *listen}
			},
		),
		fx.Invoke(
			runCoordinator,
			persistScreens,
			preview.Serve,
			runBot,
		),
	).Run()
}

func newLogger() (*zap.Logger, error) {
	if *debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newStore() *store.Store {
	return store.New(*configPath)
}

func newScreens(st *store.Store, logger *zap.Logger) ([]screen.Screen, error) {
	screens, err := st.Load()
	if err != nil {
		return nil, err
	}
	logger.With(zap.Int("screens", len(screens))).Info("configuration loaded")
	return screens, nil
}

func newDevice(logger *zap.Logger) *device.Client {
	return device.NewClient(*host,
		device.WithTimeout(*timeout),
		device.WithLogger(logger),
	)
}

func newCompositor(logger *zap.Logger) (*render.Compositor, error) {
	return render.NewCompositor(render.WithLogger(logger))
}

func newSource(logger *zap.Logger) coordinator.Source {
	inner := demo.New(time.Now().UnixNano())
	if len(*cameras) == 0 {
		return inner
	}

	opts := []snapshot.Option{}
	if *cameraCache != "" {
		opts = append(opts, snapshot.WithCacheDir(*cameraCache))
	}
	return snapshot.NewCameraSource(snapshot.NewFetcher(logger, opts...), *cameras, inner, logger)
}

func newCoordinator(dev *device.Client, comp *render.Compositor, src coordinator.Source, screens []screen.Screen, logger *zap.Logger) *coordinator.Coordinator {
	return coordinator.New(dev, comp, src, screens,
		coordinator.WithInterval(*interval),
		coordinator.WithLogger(logger),
	)
}

func runCoordinator(c *coordinator.Coordinator, dev *device.Client, logger *zap.Logger, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !dev.TestConnection(ctx) {
				logger.With(zap.String("host", *host)).Warn("device not reachable yet, starting anyway")
			}
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			c.Close()
			return nil
		},
	})
}

// persistScreens writes configuration edits (bot, preview) back to disk so
// they survive a restart.
func persistScreens(c *coordinator.Coordinator, st *store.Store, logger *zap.Logger) {
	c.AddListener(func() {
		saved, err := st.SaveIfChanged(c.Screens())
		if err != nil {
			logger.With(zap.Error(err)).Warn("save configuration failed")
			return
		}
		if saved {
			logger.Debug("configuration saved")
		}
	})
}

func runBot(c *coordinator.Coordinator, logger *zap.Logger, lifecycle fx.Lifecycle) error {
	if *tgToken == "" {
		return nil
	}

	bot, err := control.NewBot(*tgToken, c)
	if err != nil {
		return err
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			bot.Start()
			logger.Info("control bot started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			bot.Stop()
			return nil
		},
	})
	return nil
}
