package coordinator

import (
	"context"

	"geekmagic/pkg/render"
)

// Source supplies current values for the data references screens point at.
// The host side owns what a reference means; absence is reported with ok ==
// false, never an error.
type Source interface {
	Value(ctx context.Context, ref string) (render.Value, bool)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, ref string) (render.Value, bool)

func (f SourceFunc) Value(ctx context.Context, ref string) (render.Value, bool) {
	return f(ctx, ref)
}
