package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"geekmagic/pkg/device"
	"geekmagic/pkg/layout"
	"geekmagic/pkg/render"
	"geekmagic/pkg/screen"
)

type fakeDevice struct {
	mu sync.Mutex

	state    *device.State
	stateErr error

	uploads   []string
	uploadErr error

	theme      int
	brightness int
	closed     bool
}

func (d *fakeDevice) TestConnection(ctx context.Context) bool {
	return d.stateErr == nil
}

func (d *fakeDevice) State(ctx context.Context) (*device.State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stateErr != nil {
		return nil, d.stateErr
	}
	if d.state != nil {
		st := *d.state
		return &st, nil
	}
	return &device.State{Theme: device.ThemeCustom, Brightness: 80}, nil
}

func (d *fakeDevice) SetTheme(ctx context.Context, theme int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.theme = theme
	return nil
}

func (d *fakeDevice) SetBrightness(ctx context.Context, level int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.brightness = level
	return nil
}

func (d *fakeDevice) UploadAndDisplay(ctx context.Context, data []byte, filename string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.uploadErr != nil {
		return d.uploadErr
	}
	d.uploads = append(d.uploads, filename)
	return nil
}

func (d *fakeDevice) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

func (d *fakeDevice) uploadCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.uploads)
}

func staticSource(values map[string]render.Value) Source {
	return SourceFunc(func(_ context.Context, ref string) (render.Value, bool) {
		v, ok := values[ref]
		return v, ok
	})
}

func testScreens(t *testing.T, n int) []screen.Screen {
	t.Helper()
	screens := make([]screen.Screen, n)
	for i := range screens {
		s, err := screen.New("screen", layout.Split)
		if err != nil {
			t.Fatal(err)
		}
		s, err = s.WithWidget(screen.Widget{Kind: screen.KindGauge, Slot: 0, Source: "sensor.cpu"})
		if err != nil {
			t.Fatal(err)
		}
		screens[i] = s
	}
	return screens
}

func newTestCoordinator(t *testing.T, dev *fakeDevice, screens []screen.Screen) *Coordinator {
	t.Helper()
	comp, err := render.NewCompositor()
	if err != nil {
		t.Fatal(err)
	}
	src := staticSource(map[string]render.Value{
		"sensor.cpu": {Name: "CPU", Number: 40, IsNum: true, Unit: "%"},
	})
	return New(dev, comp, src, screens)
}

func TestRefreshUploadsAndPublishes(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 1))
	defer c.Close()

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if dev.uploadCount() != 1 {
		t.Errorf("uploads = %d, want 1", dev.uploadCount())
	}
	if !c.LastUpdateSuccess() {
		t.Error("LastUpdateSuccess = false after good cycle")
	}
	if len(c.LastImage()) == 0 {
		t.Error("LastImage empty after good cycle")
	}
	if c.Theme() != device.ThemeCustom || c.Brightness() != 80 {
		t.Errorf("theme/brightness = %d/%d, want 3/80", c.Theme(), c.Brightness())
	}
}

func TestRefreshAlternatesFilenames(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 1))
	defer c.Close()

	for i := 0; i < 3; i++ {
		if err := c.Refresh(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"dash-a.jpg", "dash-b.jpg", "dash-a.jpg"}
	for i, name := range want {
		if dev.uploads[i] != name {
			t.Errorf("upload %d = %q, want %q", i, dev.uploads[i], name)
		}
	}
}

func TestPollFailureRetainsLastImage(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 1))
	defer c.Close()

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	good := c.LastImage()

	dev.stateErr = device.ErrUnreachable
	for i := 0; i < 3; i++ {
		if err := c.Refresh(context.Background()); !errors.Is(err, device.ErrUnreachable) {
			t.Fatalf("err = %v, want ErrUnreachable", err)
		}
	}

	if c.LastUpdateSuccess() {
		t.Error("LastUpdateSuccess = true after failed polls")
	}
	if got := c.LastImage(); len(got) != len(good) {
		t.Errorf("LastImage changed across failed polls: %d vs %d bytes", len(got), len(good))
	}

	dev.stateErr = nil
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !c.LastUpdateSuccess() {
		t.Error("recovery cycle did not restore success")
	}
}

func TestUploadFailureRetainsLastImage(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 1))
	defer c.Close()

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	good := c.LastImage()

	dev.uploadErr = device.ErrRejected
	if err := c.Refresh(context.Background()); !errors.Is(err, device.ErrRejected) {
		t.Fatalf("err = %v, want ErrRejected", err)
	}

	if c.LastUpdateSuccess() {
		t.Error("LastUpdateSuccess = true after failed upload")
	}
	if got := c.LastImage(); len(got) != len(good) {
		t.Error("LastImage changed after failed upload")
	}
}

func TestSetScreenUploadsOnce(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 5))
	defer c.Close()

	if err := c.SetScreen(context.Background(), 2); err != nil {
		t.Fatal(err)
	}

	if got := c.CurrentScreenIndex(); got != 2 {
		t.Errorf("CurrentScreenIndex = %d, want 2", got)
	}
	if dev.uploadCount() != 1 {
		t.Errorf("uploads = %d, want 1", dev.uploadCount())
	}
}

func TestSetScreenClamps(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 3))
	defer c.Close()

	if err := c.SetScreen(context.Background(), 99); err != nil {
		t.Fatal(err)
	}
	if got := c.CurrentScreenIndex(); got != 2 {
		t.Errorf("index after overshoot = %d, want 2", got)
	}

	if err := c.SetScreen(context.Background(), -4); err != nil {
		t.Fatal(err)
	}
	if got := c.CurrentScreenIndex(); got != 0 {
		t.Errorf("index after undershoot = %d, want 0", got)
	}
}

func TestNoScreensStillPollsState(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, nil)
	defer c.Close()

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if dev.uploadCount() != 0 {
		t.Errorf("uploads = %d, want 0 with no screens", dev.uploadCount())
	}
	if !c.LastUpdateSuccess() {
		t.Error("state-only cycle not marked successful")
	}
	if c.Brightness() != 80 {
		t.Errorf("brightness = %d, want 80", c.Brightness())
	}
}

func TestMutationsValidate(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 2))
	defer c.Close()

	if err := c.ApplyTemplate(9, "clock"); !errors.Is(err, screen.ErrInvalidConfig) {
		t.Errorf("out of range screen: err = %v", err)
	}
	if err := c.ApplyTemplate(0, "spaceship"); !errors.Is(err, screen.ErrInvalidConfig) {
		t.Errorf("unknown template: err = %v", err)
	}
	if err := c.SetWidget(0, screen.Widget{Kind: "hologram", Slot: 0}); !errors.Is(err, screen.ErrInvalidConfig) {
		t.Errorf("unknown kind: err = %v", err)
	}
	if err := c.SetLayout(1, "diagonal"); !errors.Is(err, screen.ErrInvalidConfig) {
		t.Errorf("unknown layout: err = %v", err)
	}
}

func TestApplyTemplateUpdatesConfig(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 2))
	defer c.Close()

	if err := c.ApplyTemplate(1, "clock"); err != nil {
		t.Fatal(err)
	}

	screens := c.Screens()
	if screens[1].Name != "Clock Dashboard" || screens[1].Layout != layout.Hero {
		t.Errorf("screen 1 = %s/%s, want Clock Dashboard/hero", screens[1].Name, screens[1].Layout)
	}
	if screens[0].Layout != layout.Split {
		t.Errorf("screen 0 layout changed to %s", screens[0].Layout)
	}
}

func TestListenersRunInOrderAndRemove(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 1))
	defer c.Close()

	var order []int
	c.AddListener(func() { order = append(order, 1) })
	remove := c.AddListener(func() { order = append(order, 2) })
	c.AddListener(func() { order = append(order, 3) })

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("listener order = %v", order)
	}

	order = nil
	remove()
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("order after removal = %v", order)
	}
}

func TestSetThemeAndBrightnessReachDevice(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 1))
	defer c.Close()

	if err := c.SetTheme(context.Background(), device.ThemeWeather); err != nil {
		t.Fatal(err)
	}
	if dev.theme != device.ThemeWeather || c.Theme() != device.ThemeWeather {
		t.Errorf("theme device=%d coordinator=%d", dev.theme, c.Theme())
	}

	if err := c.SetBrightness(context.Background(), 30); err != nil {
		t.Fatal(err)
	}
	if dev.brightness != 30 || c.Brightness() != 30 {
		t.Errorf("brightness device=%d coordinator=%d", dev.brightness, c.Brightness())
	}
}

func TestPauseSkipsAndResumeRefreshes(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 1))
	defer c.Close()

	c.Pause()
	if !c.Paused() {
		t.Fatal("Paused = false after Pause")
	}
	c.Resume()
	if c.Paused() {
		t.Fatal("Paused = true after Resume")
	}
}

func TestCloseReleasesDevice(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 1))

	c.Close()
	if !dev.closed {
		t.Error("device not closed")
	}
}

func TestLastImageReturnsCopy(t *testing.T) {
	dev := &fakeDevice{}
	c := newTestCoordinator(t, dev, testScreens(t, 1))
	defer c.Close()

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	a := c.LastImage()
	a[0] ^= 0xff
	b := c.LastImage()
	if a[0] == b[0] {
		t.Error("LastImage aliases internal buffer")
	}
}
