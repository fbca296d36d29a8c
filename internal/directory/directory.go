package directory

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a space id does not exist.
var ErrNotFound = errors.New("space not found")

// Space describes a grid area users can occupy. Dimensions are in cells;
// valid coordinates are [0, Width) x [0, Height).
type Space struct {
	ID     string
	Name   string
	Width  int
	Height int
}

// Directory resolves space ids to their grid dimensions. The relay consumes
// it at join time; the administration service owns the data.
type Directory interface {
	GetSpace(ctx context.Context, id string) (*Space, error)
}
