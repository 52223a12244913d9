// Package coordinator owns one device's synchronization loop: poll the
// device, render the active screen, upload the frame, publish the outcome.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"geekmagic/pkg/device"
	"geekmagic/pkg/layout"
	"geekmagic/pkg/render"
	"geekmagic/pkg/screen"
)

const defaultInterval = 10 * time.Second

// Device is the wire-protocol surface the coordinator drives. *device.Client
// implements it; tests substitute fakes.
type Device interface {
	TestConnection(ctx context.Context) bool
	State(ctx context.Context) (*device.State, error)
	SetTheme(ctx context.Context, theme int) error
	SetBrightness(ctx context.Context, level int) error
	UploadAndDisplay(ctx context.Context, data []byte, filename string) error
	Close()
}

type Option func(c *Coordinator)

func WithInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		c.interval = d
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

type listenerEntry struct {
	id int
	fn func()
}

// Coordinator serializes all render/upload/poll cycles for one device: at
// most one cycle is in flight, the poll timer is re-armed only after the
// prior cycle finishes, and explicit requests run behind the same lock so
// the latest caller's parameters are the ones that end up on the display.
type Coordinator struct {
	dev    Device
	comp   *render.Compositor
	src    Source
	logger *zap.Logger

	interval time.Duration

	mu          sync.RWMutex
	screens     []screen.Screen
	current     int
	theme       int
	brightness  int
	lastImage   []byte
	lastSuccess bool
	paused      bool
	listeners   []listenerEntry
	nextID      int

	cycleMu sync.Mutex
	wakeup  chan struct{}
	flip    bool

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func New(dev Device, comp *render.Compositor, src Source, screens []screen.Screen, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		dev:      dev,
		comp:     comp,
		src:      src,
		screens:  append([]screen.Screen(nil), screens...),
		logger:   zap.NewNop(),
		interval: defaultInterval,
		wakeup:   make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the poll loop. The timer is reset after each cycle
// completes, never concurrently with one.
func (c *Coordinator) Start() {
	c.started = true

	go func() {
		defer close(c.done)

		timer := time.NewTimer(time.Nanosecond)
		defer timer.Stop()

		for {
			select {
			case <-c.ctx.Done():
				return
			case <-c.wakeup:
			case <-timer.C:
			}

			if c.Paused() {
				c.logger.Debug("paused, skip")
				timer.Reset(c.interval)
				continue
			}

			if err := c.Refresh(c.ctx); err != nil {
				c.logger.With(zap.Error(err)).Debug("cycle failed")
			}
			timer.Reset(c.interval)
		}
	}()
}

// Close aborts any in-flight cycle, stops the loop and releases the device
// connection.
func (c *Coordinator) Close() {
	c.cancel()
	if c.started {
		<-c.done
	}
	c.dev.Close()
}

// Refresh runs one full poll/render/upload cycle and returns its outcome.
// Device failures are already absorbed into the published availability state
// by the time this returns; the error is for callers that want to know.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()
	return c.cycle(ctx)
}

// RequestRefresh nudges the loop to run a cycle soon. Requests arriving
// while a cycle is running coalesce into a single follow-up.
func (c *Coordinator) RequestRefresh() {
	select {
	case c.wakeup <- struct{}{}:
	default:
	}
}

func (c *Coordinator) cycle(ctx context.Context) error {
	log := c.logger.With(zap.String("cycle", xid.New().String()))

	state, err := c.dev.State(ctx)
	if err != nil {
		c.publish(func() { c.lastSuccess = false })
		log.With(zap.Error(err)).Info("device poll failed")
		return err
	}

	scr, ok := c.activeScreen()
	if !ok {
		c.publish(func() {
			c.theme = state.Theme
			c.brightness = state.Brightness
			c.lastSuccess = true
		})
		return nil
	}

	snap := c.buildSnapshot(ctx, scr)

	frame, err := c.comp.RenderJPEG(scr, snap)
	if err != nil {
		// a render fault is a bug, not weather; keep the previous image up
		c.publish(func() { c.lastSuccess = false })
		log.With(zap.Error(err)).Error("render failed")
		return err
	}

	if err := c.dev.UploadAndDisplay(ctx, frame, c.nextFilename()); err != nil {
		c.publish(func() { c.lastSuccess = false })
		log.With(zap.Error(err)).Info("upload failed")
		return err
	}

	c.publish(func() {
		c.theme = state.Theme
		c.brightness = state.Brightness
		c.lastImage = frame
		c.lastSuccess = true
	})

	log.With(
		zap.String("screen", scr.Name),
		zap.String("size", bytesize.New(float64(len(frame))).String()),
	).Debug("screen pushed")
	return nil
}

// SetScreen clamps index into the configured range, makes it current and
// runs an immediate cycle, returning once it completes or fails.
func (c *Coordinator) SetScreen(ctx context.Context, index int) error {
	c.publish(func() { c.current = clampIndex(index, len(c.screens)) })
	return c.Refresh(ctx)
}

// SetTheme switches the device between its native modes and custom image
// mode, then schedules a refresh to pick up the new reported state.
func (c *Coordinator) SetTheme(ctx context.Context, theme int) error {
	if err := c.dev.SetTheme(ctx, theme); err != nil {
		return err
	}
	c.publish(func() { c.theme = theme })
	c.RequestRefresh()
	return nil
}

func (c *Coordinator) SetBrightness(ctx context.Context, level int) error {
	if err := c.dev.SetBrightness(ctx, level); err != nil {
		return err
	}
	c.publish(func() { c.brightness = level })
	return nil
}

// ApplyTemplate replaces the screen's definition with the template preset.
func (c *Coordinator) ApplyTemplate(screenIndex int, key string) error {
	return c.mutateScreen(screenIndex, func(s screen.Screen) (screen.Screen, error) {
		return screen.ApplyTemplate(s, key)
	})
}

func (c *Coordinator) SetLayout(screenIndex int, id layout.ID) error {
	return c.mutateScreen(screenIndex, func(s screen.Screen) (screen.Screen, error) {
		return s.WithLayout(id)
	})
}

func (c *Coordinator) SetWidget(screenIndex int, w screen.Widget) error {
	return c.mutateScreen(screenIndex, func(s screen.Screen) (screen.Screen, error) {
		return s.WithWidget(w)
	})
}

func (c *Coordinator) RemoveWidget(screenIndex, slot int) error {
	return c.mutateScreen(screenIndex, func(s screen.Screen) (screen.Screen, error) {
		return s.WithoutWidget(slot)
	})
}

// mutateScreen swaps in a freshly built screen value; the previous slice is
// never written so listeners holding references keep a consistent view.
func (c *Coordinator) mutateScreen(index int, fn func(screen.Screen) (screen.Screen, error)) error {
	c.mu.Lock()
	if index < 0 || index >= len(c.screens) {
		c.mu.Unlock()
		return errors.Wrapf(screen.ErrInvalidConfig, "screen %d out of range", index)
	}

	next, err := fn(c.screens[index])
	if err != nil {
		c.mu.Unlock()
		return err
	}

	screens := append([]screen.Screen(nil), c.screens...)
	screens[index] = next
	c.screens = screens
	fns := c.listenerFns()
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	c.RequestRefresh()
	return nil
}

// AddListener registers fn to be called synchronously, in registration
// order, after every published state change. The returned func removes it.
func (c *Coordinator) AddListener(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.listeners = lo.Reject(c.listeners, func(l listenerEntry, _ int) bool { return l.id == id })
	}
}

func (c *Coordinator) CurrentScreenIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clampIndex(c.current, len(c.screens))
}

func (c *Coordinator) CurrentScreenName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.screens) == 0 {
		return ""
	}
	return c.screens[clampIndex(c.current, len(c.screens))].Name
}

// LastImage returns the most recently uploaded frame, or nil before the
// first successful cycle. The previous frame is retained across failures.
func (c *Coordinator) LastImage() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]byte(nil), c.lastImage...)
}

func (c *Coordinator) LastUpdateSuccess() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSuccess
}

func (c *Coordinator) Theme() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.theme
}

func (c *Coordinator) Brightness() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.brightness
}

// Screens returns deep copies of the configured screens.
func (c *Coordinator) Screens() []screen.Screen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lo.Map(c.screens, func(s screen.Screen, _ int) screen.Screen { return s.Clone() })
}

func (c *Coordinator) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

func (c *Coordinator) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
	c.RequestRefresh()
}

func (c *Coordinator) Paused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paused
}

func (c *Coordinator) activeScreen() (screen.Screen, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.screens) == 0 {
		return screen.Screen{}, false
	}
	return c.screens[clampIndex(c.current, len(c.screens))].Clone(), true
}

func (c *Coordinator) buildSnapshot(ctx context.Context, scr screen.Screen) render.Snapshot {
	snap := render.Snapshot{Now: time.Now(), Values: map[string]render.Value{}}
	if c.src == nil {
		return snap
	}

	for _, w := range scr.Widgets {
		if w.Source == "" {
			continue
		}
		if _, seen := snap.Values[w.Source]; seen {
			continue
		}
		if v, ok := c.src.Value(ctx, w.Source); ok {
			snap.Values[w.Source] = v
		}
	}
	return snap
}

// publish applies a state change and then invokes listeners outside the
// lock, in registration order.
func (c *Coordinator) publish(apply func()) {
	c.mu.Lock()
	apply()
	fns := c.listenerFns()
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (c *Coordinator) listenerFns() []func() {
	return lo.Map(c.listeners, func(l listenerEntry, _ int) func() { return l.fn })
}

// Alternate between two fixed upload names: bounds flash usage while making
// sure the display command never points at a file mid-write.
func (c *Coordinator) nextFilename() string {
	c.flip = !c.flip
	if c.flip {
		return "dash-a.jpg"
	}
	return "dash-b.jpg"
}

func clampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return lo.Clamp(i, 0, n-1)
}
