package wm

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/output"
)

// ConnectOutput adds an output with the configured default tags. The first output becomes focused.
func (s *State) ConnectOutput(name string, geometry geom.Rect) *output.Output {
	if o, err := s.Output(name); err == nil {
		s.SetOutputGeometry(o, geometry)
		return o
	}

	o := output.New(name, geometry)
	s.outputs = append(s.outputs, o)
	for _, tmpl := range s.defaultTags {
		t := s.Tags.New(o.Name, tmpl.Name, tmpl.Layout)
		t.Active = tmpl.Active
		o.AddTags(t)
	}
	if s.focusedOutput == nil {
		s.focusedOutput = o
	}

	slog.Info("Output connected", "package", "wm", "output", name, "geometry", geometry.String(), "tags", len(s.defaultTags))
	publishOutput("connected", o)
	s.Relayout(o)
	return o
}

// DisconnectOutput removes the output and its tags. Windows only on those tags keep an empty tag set.
func (s *State) DisconnectOutput(name string) error {
	o, err := s.Output(name)
	if err != nil {
		return err
	}

	if err := s.RemoveTags(o.TagIDs()...); err != nil {
		return err
	}

	s.outputs = slices.DeleteFunc(s.outputs, func(x *output.Output) bool { return x == o })
	if s.focusedOutput == o {
		s.focusedOutput = nil
		if len(s.outputs) > 0 {
			s.focusedOutput = s.outputs[0]
		}
	}

	slog.Info("Output disconnected", "package", "wm", "output", name)
	publishOutput("disconnected", o)
	return nil
}

func (s *State) SetOutputGeometry(o *output.Output, geometry geom.Rect) {
	if o.Geometry == geometry {
		return
	}
	o.Geometry = geometry
	publishOutput("changed", o)
	s.Relayout(o)
}

func (s *State) Outputs() []*output.Output {
	return slices.Clone(s.outputs)
}

func (s *State) Output(name string) (*output.Output, error) {
	for _, o := range s.outputs {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOutputNotFound, name)
}

// FocusedOutput is nil when no output is focused.
func (s *State) FocusedOutput() *output.Output {
	return s.focusedOutput
}

func (s *State) FocusOutput(name string) error {
	o, err := s.Output(name)
	if err != nil {
		return err
	}
	s.focusedOutput = o
	publishOutput("focused", o)
	return nil
}
