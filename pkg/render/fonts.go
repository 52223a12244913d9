package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Faces bundles the fixed set of text sizes used by the widget renderers.
type Faces struct {
	Tiny   font.Face
	Small  font.Face
	Medium font.Face
	Large  font.Face
	Huge   font.Face
}

var (
	facesOnce sync.Once
	faces     *Faces
	facesErr  error
)

// DefaultFaces parses the embedded Go fonts once and reuses the faces for
// every canvas.
func DefaultFaces() (*Faces, error) {
	facesOnce.Do(func() {
		faces, facesErr = loadFaces()
	})
	return faces, facesErr
}

func loadFaces() (*Faces, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	f := &Faces{}
	for _, spec := range []struct {
		dst  *font.Face
		src  *opentype.Font
		size float64
	}{
		{&f.Tiny, regular, 9},
		{&f.Small, regular, 12},
		{&f.Medium, bold, 16},
		{&f.Large, bold, 22},
		{&f.Huge, bold, 44},
	} {
		face, err := opentype.NewFace(spec.src, &opentype.FaceOptions{
			Size:    spec.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("build %gpt face: %w", spec.size, err)
		}
		*spec.dst = face
	}
	return f, nil
}
