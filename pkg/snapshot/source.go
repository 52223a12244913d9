package snapshot

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"geekmagic/pkg/coordinator"
	"geekmagic/pkg/render"
)

// CameraSource resolves configured camera references by fetching their
// snapshot URL; every other reference is delegated to the inner source. A
// failed fetch also falls through, so the widget degrades to whatever the
// inner source (or its placeholder) offers instead of blanking.
type CameraSource struct {
	fetcher *Fetcher
	urls    map[string]string
	inner   coordinator.Source
	log     *zap.Logger
}

func NewCameraSource(fetcher *Fetcher, urls map[string]string, inner coordinator.Source, logger *zap.Logger) *CameraSource {
	return &CameraSource{
		fetcher: fetcher,
		urls:    urls,
		inner:   inner,
		log:     logger,
	}
}

func (s *CameraSource) Value(ctx context.Context, ref string) (render.Value, bool) {
	url, ok := s.urls[ref]
	if !ok {
		return s.delegate(ctx, ref)
	}

	img, err := s.fetcher.Get(ctx, url)
	if err != nil {
		s.log.With(zap.String("ref", ref), zap.Error(err)).Warn("camera fetch failed")
		return s.delegate(ctx, ref)
	}

	return render.Value{Name: refLabel(ref), Image: img}, true
}

func (s *CameraSource) delegate(ctx context.Context, ref string) (render.Value, bool) {
	if s.inner == nil {
		return render.Value{}, false
	}
	return s.inner.Value(ctx, ref)
}

// refLabel turns "camera.front_door" into "Front Door".
func refLabel(ref string) string {
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		ref = ref[i+1:]
	}
	words := strings.FieldsFunc(ref, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
