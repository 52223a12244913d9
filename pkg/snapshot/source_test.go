package snapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"geekmagic/pkg/coordinator"
	"geekmagic/pkg/render"
)

func TestCameraSourceResolvesMappedRef(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(pngHandler(t, &hits))
	defer srv.Close()

	src := NewCameraSource(
		NewFetcher(zap.NewNop()),
		map[string]string{"camera.front_door": srv.URL + "/snap.png"},
		nil,
		zap.NewNop(),
	)

	v, ok := src.Value(context.Background(), "camera.front_door")
	if !ok {
		t.Fatal("mapped ref not resolved")
	}
	if v.Image == nil || v.Image.Bounds().Dx() != 64 {
		t.Errorf("image = %v", v.Image)
	}
	if v.Name != "Front Door" {
		t.Errorf("name = %q, want Front Door", v.Name)
	}
}

func TestCameraSourceDelegatesUnmappedRefs(t *testing.T) {
	inner := coordinator.SourceFunc(func(_ context.Context, ref string) (render.Value, bool) {
		return render.Value{Name: "inner " + ref}, true
	})

	src := NewCameraSource(NewFetcher(zap.NewNop()), nil, inner, zap.NewNop())

	v, ok := src.Value(context.Background(), "sensor.cpu")
	if !ok || v.Name != "inner sensor.cpu" {
		t.Errorf("value = %+v, ok = %t", v, ok)
	}
}

func TestCameraSourceFallsBackOnFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	called := false
	inner := coordinator.SourceFunc(func(_ context.Context, ref string) (render.Value, bool) {
		called = true
		return render.Value{Name: "fallback"}, true
	})

	src := NewCameraSource(
		NewFetcher(zap.NewNop()),
		map[string]string{"camera.broken": srv.URL + "/nope.png"},
		inner,
		zap.NewNop(),
	)

	v, ok := src.Value(context.Background(), "camera.broken")
	if !called {
		t.Error("inner source not consulted after fetch failure")
	}
	if !ok || v.Name != "fallback" {
		t.Errorf("value = %+v", v)
	}
}

func TestCameraSourceWithoutInner(t *testing.T) {
	src := NewCameraSource(NewFetcher(zap.NewNop()), nil, nil, zap.NewNop())
	if _, ok := src.Value(context.Background(), "sensor.cpu"); ok {
		t.Error("nil inner source reported a value")
	}
}
