// Package screen holds the dashboard data model: screens, widgets and the
// template catalog. Screens are immutable values; every mutation returns a
// fresh copy so listeners holding an older configuration never see it change.
package screen

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"geekmagic/pkg/layout"
)

// ErrInvalidConfig marks mutations rejected at the boundary: unknown widget
// kinds, unknown layouts or templates, slot indices out of range.
var ErrInvalidConfig = errors.New("invalid screen configuration")

type Kind string

const (
	KindGauge   Kind = "gauge"
	KindChart   Kind = "chart"
	KindEntity  Kind = "entity"
	KindStatus  Kind = "status"
	KindWeather Kind = "weather"
	KindMedia   Kind = "media"
	KindClock   Kind = "clock"
	KindText    Kind = "text"
	KindCamera  Kind = "camera"
)

var kinds = []Kind{
	KindGauge, KindChart, KindEntity, KindStatus, KindWeather,
	KindMedia, KindClock, KindText, KindCamera,
}

func (k Kind) Valid() bool {
	return lo.Contains(kinds, k)
}

func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

type Widget struct {
	Kind    Kind    `yaml:"type"`
	Slot    int     `yaml:"slot"`
	Source  string  `yaml:"source,omitempty"`
	Hint    string  `yaml:"hint,omitempty"`
	Options Options `yaml:"options,omitempty"`
}

func (w Widget) clone() Widget {
	w.Options = w.Options.Clone()
	return w
}

type Screen struct {
	Name    string    `yaml:"name"`
	Layout  layout.ID `yaml:"layout"`
	Widgets []Widget  `yaml:"widgets,omitempty"`
}

func New(name string, id layout.ID) (Screen, error) {
	if !layout.Valid(id) {
		return Screen{}, errors.Wrapf(ErrInvalidConfig, "unknown layout %q", id)
	}
	return Screen{Name: name, Layout: id}, nil
}

// Clone deep-copies the screen, including widget option maps.
func (s Screen) Clone() Screen {
	s.Widgets = lo.Map(s.Widgets, func(w Widget, _ int) Widget { return w.clone() })
	return s
}

func (s Screen) Widget(slot int) (Widget, bool) {
	return lo.Find(s.Widgets, func(w Widget) bool { return w.Slot == slot })
}

// WithLayout returns a copy using the given layout. Widgets whose slot no
// longer exists in the new layout are dropped.
func (s Screen) WithLayout(id layout.ID) (Screen, error) {
	if !layout.Valid(id) {
		return Screen{}, errors.Wrapf(ErrInvalidConfig, "unknown layout %q", id)
	}

	out := s.Clone()
	out.Layout = id
	out.Widgets = lo.Filter(out.Widgets, func(w Widget, _ int) bool {
		return w.Slot < layout.SlotCount(id)
	})
	return out, nil
}

// WithWidget returns a copy with the widget placed in its slot, replacing any
// widget already there.
func (s Screen) WithWidget(w Widget) (Screen, error) {
	if !w.Kind.Valid() {
		return Screen{}, errors.Wrapf(ErrInvalidConfig, "unknown widget kind %q", w.Kind)
	}
	if w.Slot < 0 || w.Slot >= layout.SlotCount(s.Layout) {
		return Screen{}, errors.Wrapf(ErrInvalidConfig, "slot %d out of range for layout %q", w.Slot, s.Layout)
	}

	out := s.Clone()
	out.Widgets = lo.Reject(out.Widgets, func(o Widget, _ int) bool { return o.Slot == w.Slot })
	out.Widgets = append(out.Widgets, w.clone())
	sortWidgets(out.Widgets)
	return out, nil
}

// WithoutWidget returns a copy with the slot emptied. Clearing an already
// empty slot is not an error.
func (s Screen) WithoutWidget(slot int) (Screen, error) {
	if slot < 0 || slot >= layout.SlotCount(s.Layout) {
		return Screen{}, errors.Wrapf(ErrInvalidConfig, "slot %d out of range for layout %q", slot, s.Layout)
	}

	out := s.Clone()
	out.Widgets = lo.Reject(out.Widgets, func(o Widget, _ int) bool { return o.Slot == slot })
	return out, nil
}

func sortWidgets(ws []Widget) {
	sort.Slice(ws, func(i, j int) bool { return ws[i].Slot < ws[j].Slot })
}
