// Package layout arranges tiled windows inside an output area.
package layout

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
)

var ErrUnknownLayout = errors.New("unknown layout")

const (
	MasterStack = "master_stack"
	Dwindle     = "dwindle"
	Grid        = "grid"
	Columns     = "columns"
	Monocle     = "monocle"
	Floating    = "floating"
)

// Layout returns up to n rectangles inside area, one per window in order.
// Windows past the end of the result keep their current geometry.
type Layout interface {
	Arrange(n int, area geom.Rect) []geom.Rect
}

type LayoutFunc func(n int, area geom.Rect) []geom.Rect

func (f LayoutFunc) Arrange(n int, area geom.Rect) []geom.Rect {
	return f(n, area)
}

type Registry struct {
	mu      sync.RWMutex
	layouts map[string]Layout
}

func NewRegistry(masterRatio float32) *Registry {
	return &Registry{
		layouts: map[string]Layout{
			MasterStack: NewMasterStack(masterRatio),
			Dwindle:     LayoutFunc(arrangeDwindle),
			Grid:        LayoutFunc(arrangeGrid),
			Columns:     LayoutFunc(arrangeColumns),
			Monocle:     LayoutFunc(arrangeMonocle),
			Floating:    LayoutFunc(func(int, geom.Rect) []geom.Rect { return nil }),
		},
	}
}

func (r *Registry) Register(name string, l Layout) {
	r.mu.Lock()
	r.layouts[name] = l
	r.mu.Unlock()
}

func (r *Registry) Get(name string) (Layout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, name)
	}
	return l, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// span splits length into count parts and returns the offset and size of part i.
func span(length int32, count, i int) (int32, int32) {
	start := int32(int64(length) * int64(i) / int64(count))
	end := int32(int64(length) * int64(i+1) / int64(count))
	return start, end - start
}
