// Package render turns screen definitions plus a data snapshot into the JPEG
// frames the device displays.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sort"

	"go.uber.org/zap"

	"geekmagic/pkg/layout"
	"geekmagic/pkg/screen"
)

const defaultQuality = 85

type Option func(c *Compositor)

func WithQuality(q int) Option {
	return func(c *Compositor) {
		c.quality = q
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Compositor) {
		c.logger = logger
	}
}

// Compositor renders whole screens. It is stateless between renders and safe
// for use from a single coordinator goroutine.
type Compositor struct {
	quality int
	logger  *zap.Logger
	faces   *Faces
}

func NewCompositor(opts ...Option) (*Compositor, error) {
	faces, err := DefaultFaces()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	c := &Compositor{
		quality: defaultQuality,
		logger:  zap.NewNop(),
		faces:   faces,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Render draws every widget of the screen into its layout slot, ascending by
// slot so identical inputs always produce identical pixels. Widgets pointing
// at slots the layout doesn't have are skipped, as are unknown kinds; empty
// slots stay background.
func (c *Compositor) Render(s screen.Screen, snap Snapshot) (image.Image, error) {
	l, ok := layout.Get(s.Layout)
	if !ok {
		return nil, fmt.Errorf("render %q: unknown layout %q", s.Name, s.Layout)
	}

	canvas := NewCanvas()

	widgets := append([]screen.Widget(nil), s.Widgets...)
	sort.Slice(widgets, func(i, j int) bool { return widgets[i].Slot < widgets[j].Slot })

	for _, w := range widgets {
		if w.Slot < 0 || w.Slot >= len(l.Slots) {
			c.logger.With(
				zap.String("screen", s.Name),
				zap.Int("slot", w.Slot),
			).Debug("widget slot outside layout, skipped")
			continue
		}
		fn, ok := renderers[w.Kind]
		if !ok {
			c.logger.With(zap.String("kind", string(w.Kind))).Debug("unknown widget kind, skipped")
			continue
		}
		fn(&widgetCtx{c: canvas, f: c.faces, rect: l.Slots[w.Slot], w: w, snap: snap})
	}

	return canvas.Image(), nil
}

// RenderJPEG renders the screen and encodes it for upload.
func (c *Compositor) RenderJPEG(s screen.Screen, snap Snapshot) ([]byte, error) {
	img, err := c.Render(s, snap)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
