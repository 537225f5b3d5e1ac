package wm

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-tagwm/internal/output"
	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
)

// InitialTags picks the tags for a window first mapped on o: the focused tags, else
// the tags that already have windows, else the first tag. A nil output yields none.
func (s *State) InitialTags(o *output.Output) []tag.ID {
	if o == nil {
		return nil
	}

	if focused := o.FocusedTagIDs(); len(focused) > 0 {
		return focused
	}

	var occupied []tag.ID
	for _, t := range o.Tags() {
		if s.tagOccupied(t.ID) {
			occupied = append(occupied, t.ID)
		}
	}
	if len(occupied) > 0 {
		return occupied
	}

	if tags := o.Tags(); len(tags) > 0 {
		return []tag.ID{tags[0].ID}
	}

	return nil
}

// AssignInitialTags resolves the focused output, else the first output, and applies InitialTags.
func (s *State) AssignInitialTags(w *window.Window) {
	o := s.focusedOutput
	if o == nil && len(s.outputs) > 0 {
		o = s.outputs[0]
	}
	w.SetTags(s.InitialTags(o))
}

func (s *State) tagOccupied(id tag.ID) bool {
	return slices.ContainsFunc(s.windows, func(w *window.Window) bool { return w.HasTag(id) })
}

func (s *State) Tag(id tag.ID) (*tag.Tag, error) {
	t, ok := s.Tags.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTagNotFound, id)
	}
	return t, nil
}

// FindTag looks up a tag by name on the named output, or on the focused output when outputName is empty.
func (s *State) FindTag(name, outputName string) (*tag.Tag, error) {
	o := s.focusedOutput
	if outputName != "" {
		var err error
		if o, err = s.Output(outputName); err != nil {
			return nil, err
		}
	}
	if o == nil {
		return nil, fmt.Errorf("%w: %s", ErrTagNotFound, name)
	}

	for _, t := range o.Tags() {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s on %s", ErrTagNotFound, name, o.Name)
}

func (s *State) AddTags(outputName string, names ...string) ([]*tag.Tag, error) {
	o, err := s.Output(outputName)
	if err != nil {
		return nil, err
	}

	tags := make([]*tag.Tag, 0, len(names))
	for _, name := range names {
		t := s.Tags.New(o.Name, name, s.defaultLayout())
		o.AddTags(t)
		tags = append(tags, t)
		publishTag("added", t)
	}

	s.Relayout(o)
	return tags, nil
}

func (s *State) defaultLayout() string {
	if len(s.defaultTags) > 0 && s.defaultTags[0].Layout != "" {
		return s.defaultTags[0].Layout
	}
	return "master_stack"
}

// RemoveTags deletes tags and scrubs them from every window before re-laying out.
func (s *State) RemoveTags(ids ...tag.ID) error {
	for _, id := range ids {
		if _, err := s.Tag(id); err != nil {
			return err
		}
	}

	var affected []*output.Output
	for _, id := range ids {
		t, err := s.Tags.Remove(id)
		if err != nil {
			// Listed twice.
			continue
		}

		for _, w := range s.windows {
			if w.RemoveTag(id) && len(w.Tags) == 0 {
				s.hide(w)
			}
		}
		for _, o := range s.outputs {
			if o.RemoveTag(id) && !slices.Contains(affected, o) {
				affected = append(affected, o)
			}
		}
		publishTag("removed", t)
	}

	for _, o := range affected {
		s.Relayout(o)
	}
	return nil
}

func (s *State) SetTagActive(id tag.ID, active bool) error {
	t, err := s.Tag(id)
	if err != nil {
		return err
	}
	if t.Active == active {
		return nil
	}

	t.Active = active
	publishTag("changed", t)
	s.relayoutTags(id)
	return nil
}

func (s *State) ToggleTagActive(id tag.ID) error {
	t, err := s.Tag(id)
	if err != nil {
		return err
	}
	return s.SetTagActive(id, !t.Active)
}

// SwitchToTag activates the tag and deactivates every other tag on its output.
func (s *State) SwitchToTag(id tag.ID) error {
	t, err := s.Tag(id)
	if err != nil {
		return err
	}
	o, err := s.Output(t.Output)
	if err != nil {
		return err
	}

	for _, other := range o.Tags() {
		if other.Active != (other.ID == id) {
			other.Active = other.ID == id
			publishTag("changed", other)
		}
	}

	slog.Debug("Switched tag", "package", "wm", "tag", t.Name, "output", o.Name)
	s.Relayout(o)
	return nil
}

func (s *State) SetTagLayout(id tag.ID, name string) error {
	t, err := s.Tag(id)
	if err != nil {
		return err
	}
	if _, err := s.Layouts.Get(name); err != nil {
		return err
	}

	t.Layout = name
	publishTag("changed", t)
	s.relayoutTags(id)
	return nil
}
