package config

import (
	"fmt"
	"slices"

	"github.com/ItsNotGoodName/x-tagwm/internal/layout"
)

var defaultConfig = Config{
	MasterRatio: "1/2",
	Tags: []Tag{
		{Name: "1", Layout: layout.MasterStack, Active: true},
		{Name: "2", Layout: layout.MasterStack},
		{Name: "3", Layout: layout.MasterStack},
		{Name: "4", Layout: layout.MasterStack},
		{Name: "5", Layout: layout.MasterStack},
	},
	Layouts: []ManualLayout{},
}

type Config struct {
	// MasterRatio is the master width of master_stack as "0.6" or "3/5".
	MasterRatio string         `json:"master_ratio" yaml:"master_ratio"`
	Tags        []Tag          `json:"tags" yaml:"tags"`
	Layouts     []ManualLayout `json:"layouts" yaml:"layouts"`
}

func (c Config) clone() Config {
	c.Tags = slices.Clone(c.Tags)
	c.Layouts = slices.Clone(c.Layouts)
	for i := range c.Layouts {
		c.Layouts[i].Panes = slices.Clone(c.Layouts[i].Panes)
	}
	return c
}

// Tag is created on every output when it connects.
type Tag struct {
	Name   string `json:"name" yaml:"name"`
	Layout string `json:"layout" yaml:"layout"`
	Active bool   `json:"active" yaml:"active"`
}

// ManualLayout places windows in fixed panes, one window per pane.
type ManualLayout struct {
	Name  string `json:"name" yaml:"name"`
	Panes []Pane `json:"panes" yaml:"panes"`
}

// Pane values are fractions of the output.
type Pane struct {
	X string `json:"x" yaml:"x"`
	Y string `json:"y" yaml:"y"`
	W string `json:"w" yaml:"w"`
	H string `json:"h" yaml:"h"`
}

// Registry builds the layout registry with the configured master ratio and manual layouts.
func (c Config) Registry() (*layout.Registry, error) {
	ratio := float32(0.5)
	if c.MasterRatio != "" {
		var err error
		if ratio, err = calculateRatio(c.MasterRatio); err != nil {
			return nil, fmt.Errorf("master_ratio: %w", err)
		}
	}

	r := layout.NewRegistry(ratio)
	for i, ml := range c.Layouts {
		if ml.Name == "" {
			return nil, fmt.Errorf("layouts[%d]: missing name", i)
		}

		panes := make([]layout.Pane, 0, len(ml.Panes))
		for j, p := range ml.Panes {
			pane, err := parsePane(p)
			if err != nil {
				return nil, fmt.Errorf("layouts[%d].panes[%d].%w", i, j, err)
			}
			panes = append(panes, pane)
		}
		r.Register(ml.Name, layout.NewManual(panes))
	}

	return r, nil
}

// Validate checks that every tag names a known layout.
func (c Config) Validate(r *layout.Registry) error {
	for i, t := range c.Tags {
		if t.Name == "" {
			return fmt.Errorf("tags[%d]: missing name", i)
		}
		if t.Layout == "" {
			continue
		}
		if _, err := r.Get(t.Layout); err != nil {
			return fmt.Errorf("tags[%d]: %w", i, err)
		}
	}
	return nil
}
