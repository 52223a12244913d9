package render

import (
	"image"
	"time"
)

// Value is one data source's current reading, as supplied by the host.
// Whatever fields a widget needs and the source didn't fill stay zero; the
// renderers fall back to placeholders instead of failing.
type Value struct {
	// Name is the source's own descriptive name, used as the widget label
	// when the configuration doesn't override it.
	Name string

	Text   string
	Number float64
	IsNum  bool
	On     bool
	Unit   string

	// Series holds recent history for chart widgets, oldest first.
	Series []float64

	// Attrs carries kind-specific extras (weather condition, media artist..).
	Attrs map[string]string

	// Image is a decoded frame for camera widgets.
	Image image.Image
}

// Snapshot is the data the compositor renders one screen from. Now is
// injected rather than read inside renderers so identical snapshots produce
// identical images.
type Snapshot struct {
	Now    time.Time
	Values map[string]Value
}

func (s Snapshot) Lookup(ref string) (Value, bool) {
	if ref == "" || s.Values == nil {
		return Value{}, false
	}
	v, ok := s.Values[ref]
	return v, ok
}
