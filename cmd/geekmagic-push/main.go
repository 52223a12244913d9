// geekmagic-push renders template screens with synthetic data and uploads
// them to a device, once or on a cycle. Useful for eyeballing layouts
// without a host integration.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"geekmagic/pkg/coordinator"
	"geekmagic/pkg/demo"
	"geekmagic/pkg/device"
	"geekmagic/pkg/render"
	"geekmagic/pkg/screen"
)

var host = flag.String("host", "", "device ip or hostname")
var tmpl = flag.StringSlice("template", []string{"system_monitor"}, "template keys to render")
var cycle = flag.Bool("cycle", false, "keep cycling through the screens")
var interval = flag.Duration("interval", 5*time.Second, "cycle interval")
var list = flag.Bool("list", false, "list available templates")
var out = flag.String("out", "", "write the first frame to a file instead of uploading")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	if *list {
		names := screen.TemplateNames()
		for _, key := range screen.TemplateKeys() {
			fmt.Printf("%s: %s\n", key, names[key])
		}
		return
	}

	logger, _ := zap.NewProduction()
	if *debug {
		logger, _ = zap.NewDevelopment()
	}

	comp, err := render.NewCompositor(render.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	var screens []screen.Screen
	for _, key := range *tmpl {
		s, err := screen.ApplyTemplate(screen.Screen{}, key)
		if err != nil {
			log.Fatal(err)
		}
		screens = append(screens, bindDemoSources(s))
	}

	src := demo.New(time.Now().UnixNano())

	if *out != "" {
		snap := snapshotFor(src, screens[0])
		frame, err := comp.RenderJPEG(screens[0], snap)
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*out, frame, 0644); err != nil {
			log.Fatal(err)
		}
		logger.With(zap.String("file", *out), zap.Int("bytes", len(frame))).Info("frame written")
		return
	}

	if *host == "" {
		log.Fatal("--host is required unless --out is set")
	}

	dev := device.NewClient(*host, device.WithLogger(logger))

	coord := coordinator.New(dev, comp, src, screens,
		coordinator.WithInterval(*interval),
		coordinator.WithLogger(logger),
	)
	defer coord.Close()

	ctx := context.Background()

	if !dev.TestConnection(ctx) {
		log.Fatalf("device at %s not reachable", *host)
	}

	if !*cycle {
		if err := coord.Refresh(ctx); err != nil {
			log.Fatal(err)
		}
		logger.Info("pushed")
		return
	}

	coord.Start()

	go func() {
		// walk the screen list on every tick
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()
		for range ticker.C {
			next := (coord.CurrentScreenIndex() + 1) % len(screens)
			if err := coord.SetScreen(ctx, next); err != nil {
				logger.With(zap.Error(err)).Info("switch failed")
			}
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	logger.Info("exited")
}

// bindDemoSources points every widget at a reference the demo source can
// invent a value for.
func bindDemoSources(s screen.Screen) screen.Screen {
	refs := map[screen.Kind]string{
		screen.KindGauge:   "sensor.cpu_usage",
		screen.KindChart:   "sensor.power_draw",
		screen.KindEntity:  "sensor.temperature",
		screen.KindStatus:  "binary_sensor.motion",
		screen.KindWeather: "weather.home",
		screen.KindMedia:   "media_player.living_room",
		screen.KindCamera:  "camera.front_door",
	}

	out := s.Clone()
	for i, w := range out.Widgets {
		if ref, ok := refs[w.Kind]; ok {
			out.Widgets[i].Source = ref
		}
	}
	return out
}

func snapshotFor(src coordinator.Source, s screen.Screen) render.Snapshot {
	snap := render.Snapshot{Now: time.Now(), Values: map[string]render.Value{}}
	for _, w := range s.Widgets {
		if w.Source == "" {
			continue
		}
		if v, ok := src.Value(context.Background(), w.Source); ok {
			snap.Values[w.Source] = v
		}
	}
	return snap
}
