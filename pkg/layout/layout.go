// Package layout is the static catalog of screen layouts: each layout
// maps to an ordered list of slot rectangles on the fixed display canvas.
package layout

import "image"

const (
	CanvasWidth  = 240
	CanvasHeight = 240

	margin = 8
	gap    = 8
)

type ID string

const (
	Grid2x2     ID = "grid_2x2"
	Grid2x3     ID = "grid_2x3"
	Hero        ID = "hero"
	Split       ID = "split"
	ThreeColumn ID = "three_column"
)

type Layout struct {
	ID    ID
	Name  string
	Slots []image.Rectangle
}

var catalog = map[ID]Layout{
	Grid2x2:     {ID: Grid2x2, Name: "Grid 2x2", Slots: grid(2, 2)},
	Grid2x3:     {ID: Grid2x3, Name: "Grid 2x3", Slots: grid(2, 3)},
	Hero:        {ID: Hero, Name: "Hero", Slots: hero()},
	Split:       {ID: Split, Name: "Split", Slots: grid(2, 1)},
	ThreeColumn: {ID: ThreeColumn, Name: "Three Column", Slots: grid(3, 1)},
}

// ordered for stable listings
var ids = []ID{Grid2x2, Grid2x3, Hero, Split, ThreeColumn}

func Get(id ID) (Layout, bool) {
	l, ok := catalog[id]
	return l, ok
}

func IDs() []ID {
	out := make([]ID, len(ids))
	copy(out, ids)
	return out
}

func SlotCount(id ID) int {
	l, ok := catalog[id]
	if !ok {
		return 0
	}
	return len(l.Slots)
}

func Valid(id ID) bool {
	_, ok := catalog[id]
	return ok
}

func grid(cols, rows int) []image.Rectangle {
	w := (CanvasWidth - 2*margin - (cols-1)*gap) / cols
	h := (CanvasHeight - 2*margin - (rows-1)*gap) / rows

	rects := make([]image.Rectangle, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := margin + c*(w+gap)
			y := margin + r*(h+gap)
			rects = append(rects, image.Rect(x, y, x+w, y+h))
		}
	}
	return rects
}

// hero is one full-width slot on top and three small slots below it.
func hero() []image.Rectangle {
	const split = 148
	slots := []image.Rectangle{
		image.Rect(margin, margin, CanvasWidth-margin, split-gap),
	}

	w := (CanvasWidth - 2*margin - 2*gap) / 3
	for c := 0; c < 3; c++ {
		x := margin + c*(w+gap)
		slots = append(slots, image.Rect(x, split, x+w, CanvasHeight-margin))
	}
	return slots
}
